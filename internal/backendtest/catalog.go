package backendtest

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"goldmart/internal/domain"
)

func (b *Backend) handleProducts(c *gin.Context) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	category := strings.TrimSpace(c.Query("category"))
	out := make([]domain.Product, 0, len(b.products))
	for _, p := range b.products {
		if category == "" || strings.EqualFold(p.Category, category) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	c.JSON(http.StatusOK, out)
}

func (b *Backend) handleCategories(c *gin.Context) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	seen := map[string]bool{}
	out := []string{}
	for _, p := range b.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	c.JSON(http.StatusOK, out)
}

func (b *Backend) handleProduct(c *gin.Context) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.products[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (b *Backend) bindProduct(c *gin.Context) (domain.ProductInput, bool) {
	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return in, false
	}
	if err := in.Validate(); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return in, false
	}
	return in, true
}

func applyProduct(p *domain.Product, in domain.ProductInput) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Category = in.Category
	p.Image = in.Image
	p.Stock = in.Stock
}

func (b *Backend) handleCreateProduct(c *gin.Context) {
	in, ok := b.bindProduct(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &domain.Product{ID: uuid.NewString(), CreatedAt: b.now().UTC()}
	applyProduct(p, in)
	b.products[p.ID] = p
	c.JSON(http.StatusCreated, p)
}

func (b *Backend) handleUpdateProduct(c *gin.Context) {
	in, ok := b.bindProduct(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, found := b.products[c.Param("id")]
	if !found {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	applyProduct(p, in)
	c.JSON(http.StatusOK, p)
}

func (b *Backend) handleDeleteProduct(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := c.Param("id")
	if _, ok := b.products[id]; !ok {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	delete(b.products, id)
	c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
}

func (b *Backend) bindReview(c *gin.Context) (domain.ReviewInput, bool) {
	var in domain.ReviewInput
	if !bind(c, &in) {
		return in, false
	}
	in.Comment = strings.TrimSpace(in.Comment)
	if in.Comment == "" {
		fail(c, http.StatusBadRequest, "comment is required")
		return in, false
	}
	return in, true
}

func (b *Backend) handleAddReview(c *gin.Context) {
	in, ok := b.bindReview(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, found := b.products[c.Param("id")]
	if !found {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	me := b.current(c)
	for _, r := range p.Reviews {
		if r.User == me.user.ID {
			fail(c, http.StatusBadRequest, "Product already reviewed")
			return
		}
	}
	r := domain.Review{ID: uuid.NewString(), User: me.user.ID, Name: me.user.Name, Rating: in.Rating, Comment: in.Comment, CreatedAt: b.now().UTC()}
	p.Reviews = append(p.Reviews, r)
	rate(p)
	c.JSON(http.StatusCreated, gin.H{"message": "Review added", "review": r})
}

// ownReview finds the caller's review or answers the request itself.
func (b *Backend) ownReview(c *gin.Context) (*domain.Product, int, bool) {
	p, found := b.products[c.Param("id")]
	if !found {
		fail(c, http.StatusNotFound, "Product not found")
		return nil, 0, false
	}
	for i, r := range p.Reviews {
		if r.ID != c.Param("rid") {
			continue
		}
		if r.User != b.current(c).user.ID {
			fail(c, http.StatusForbidden, "Not your review")
			return nil, 0, false
		}
		return p, i, true
	}
	fail(c, http.StatusNotFound, "Review not found")
	return nil, 0, false
}

func (b *Backend) handleUpdateReview(c *gin.Context) {
	in, ok := b.bindReview(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, i, ok := b.ownReview(c)
	if !ok {
		return
	}
	p.Reviews[i].Rating = in.Rating
	p.Reviews[i].Comment = in.Comment
	rate(p)
	c.JSON(http.StatusOK, gin.H{"message": "Review updated", "review": p.Reviews[i]})
}

func (b *Backend) handleDeleteReview(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, i, ok := b.ownReview(c)
	if !ok {
		return
	}
	p.Reviews = append(p.Reviews[:i], p.Reviews[i+1:]...)
	rate(p)
	c.JSON(http.StatusOK, gin.H{"message": "Review removed"})
}

func rate(p *domain.Product) {
	p.NumReviews = len(p.Reviews)
	if p.NumReviews == 0 {
		p.Rating = 0
		return
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = float64(sum) / float64(p.NumReviews)
}
