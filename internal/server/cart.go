package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goldmart/internal/domain"
)

type cartView struct {
	Items []domain.CartItem `json:"items"`
	Count int               `json:"count"`
	Total string            `json:"total"`
}

func (s *Server) cartView() cartView {
	items := s.d.Cart.Items()
	for i := range items {
		items[i].Image = s.d.API.ImageURL(items[i].Image)
	}
	return cartView{Items: items, Count: s.d.Cart.Count(), Total: s.d.Cart.Total().StringFixed(2)}
}

func (s *Server) handleCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.cartView())
}

func (s *Server) handleCartAdd(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if !s.bind(c, &req) {
		return
	}
	if req.ProductID == "" {
		s.fail(c, domain.ErrValidation("productId is required"))
		return
	}
	p, err := s.d.API.Product(c.Request.Context(), req.ProductID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.d.Cart.Add(p); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.cartView())
}

// handleCartQty clamps the requested quantity at one.
func (s *Server) handleCartQty(c *gin.Context) {
	var req struct {
		Qty int `json:"qty"`
	}
	if !s.bind(c, &req) {
		return
	}
	if req.Qty < 1 {
		req.Qty = 1
	}
	if err := s.d.Cart.UpdateQty(c.Param("id"), req.Qty); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.cartView())
}

func (s *Server) handleCartRemove(c *gin.Context) {
	if err := s.d.Cart.Remove(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.cartView())
}

func (s *Server) handleCartClear(c *gin.Context) {
	if err := s.d.Cart.Clear(); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.cartView())
}
