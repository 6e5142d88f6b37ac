package server

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"goldmart/internal/domain"
)

const featuredCount = 8

func (s *Server) withImages(list []domain.Product) []domain.Product {
	out := make([]domain.Product, len(list))
	for i, p := range list {
		p.Image = s.d.API.ImageURL(p.Image)
		out[i] = p
	}
	return out
}

func newestFirst(list []domain.Product) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}

func (s *Server) handleHome(c *gin.Context) {
	ctx := c.Request.Context()
	cats, err := s.d.API.Categories(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	list, err := s.d.API.Products(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	newestFirst(list)
	if len(list) > featuredCount {
		list = list[:featuredCount]
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats, "featured": s.withImages(list)})
}

// handleShop lists the catalogue, optionally narrowed by ?category= and a
// case-insensitive ?q= name search.
func (s *Server) handleShop(c *gin.Context) {
	list, err := s.d.API.Products(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	cat := c.Query("category")
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	out := list[:0]
	for _, p := range list {
		if cat != "" && !strings.EqualFold(p.Category, cat) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, p)
	}
	newestFirst(out)
	c.JSON(http.StatusOK, gin.H{"products": s.withImages(out)})
}

func (s *Server) handleCategory(c *gin.Context) {
	cat := c.Param("category")
	list, err := s.d.API.Products(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]domain.Product, 0, len(list))
	for _, p := range list {
		if strings.EqualFold(p.Category, cat) {
			out = append(out, p)
		}
	}
	newestFirst(out)
	c.JSON(http.StatusOK, gin.H{"category": cat, "products": s.withImages(out)})
}

func (s *Server) handleProduct(c *gin.Context) {
	p, err := s.d.API.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	p.Image = s.d.API.ImageURL(p.Image)
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (s *Server) handleAddReview(c *gin.Context) {
	var in domain.ReviewInput
	if !s.bind(c, &in) {
		return
	}
	if err := domain.Validate(in); err != nil {
		s.fail(c, err)
		return
	}
	r, err := s.d.API.AddReview(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": r})
}

func (s *Server) handleUpdateReview(c *gin.Context) {
	var in domain.ReviewInput
	if !s.bind(c, &in) {
		return
	}
	if err := domain.Validate(in); err != nil {
		s.fail(c, err)
		return
	}
	r, err := s.d.API.UpdateReview(c.Request.Context(), c.Param("id"), c.Param("rid"), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": r})
}

func (s *Server) handleDeleteReview(c *gin.Context) {
	if err := s.d.API.DeleteReview(c.Request.Context(), c.Param("id"), c.Param("rid")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
