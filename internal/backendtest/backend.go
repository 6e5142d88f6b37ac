// Package backendtest is an in-process implementation of the GoldMart backend
// REST API. Tests point the api client at it; -demo serves it next to the
// gateway.
package backendtest

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"goldmart/internal/domain"
)

type Options struct {
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
	Now           func() time.Time
}

type account struct {
	user domain.User
	hash []byte
}

// Backend holds all state in memory behind one lock.
type Backend struct {
	mu       sync.RWMutex
	auth     *AuthService
	now      func() time.Time
	accounts map[string]*account
	products map[string]*domain.Product
	orders   map[string]*domain.Order
	idem     map[string]string
	engine   *gin.Engine
}

func New(opts Options) *Backend {
	if opts.JWTSecret == "" {
		opts.JWTSecret = "goldmart-demo"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	b := &Backend{
		now:      opts.Now,
		accounts: make(map[string]*account),
		products: make(map[string]*domain.Product),
		orders:   make(map[string]*domain.Order),
		idem:     make(map[string]string),
	}
	b.auth = &AuthService{JWTSecret: opts.JWTSecret, Now: b.clock}
	if opts.AdminEmail != "" {
		if _, err := b.addAccount("Admin", opts.AdminEmail, opts.AdminPassword, true); err != nil {
			panic(err)
		}
	}
	b.engine = b.routes()
	return b
}

func (b *Backend) Handler() http.Handler { return b.engine }

// SetNow swaps the clock, letting tests age orders.
func (b *Backend) SetNow(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

func (b *Backend) clock() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.now()
}

func (b *Backend) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", b.handleRegister)
	auth.POST("/login", b.handleLogin)
	user := auth.Group("", b.requireUser)
	user.GET("/profile", b.handleProfile)
	user.PUT("/update-profile", b.handleUpdateProfile)
	user.POST("/update-addresses", b.handleSaveAddress)
	user.DELETE("/delete-address", b.handleDeleteAddress)
	user.POST("/set-default-address", b.handleSetDefaultAddress)

	products := api.Group("/products")
	products.GET("", b.handleProducts)
	products.GET("/categories", b.handleCategories)
	products.GET("/:id", b.handleProduct)
	products.POST("", b.requireAdmin, b.handleCreateProduct)
	products.PUT("/:id", b.requireAdmin, b.handleUpdateProduct)
	products.DELETE("/:id", b.requireAdmin, b.handleDeleteProduct)
	products.POST("/:id/reviews", b.requireUser, b.handleAddReview)
	products.PUT("/:id/reviews/:rid", b.requireUser, b.handleUpdateReview)
	products.DELETE("/:id/reviews/:rid", b.requireUser, b.handleDeleteReview)

	orders := api.Group("/orders", b.requireUser)
	orders.POST("", b.handleCreateOrder)
	orders.GET("/myorders", b.handleMyOrders)
	orders.PUT("/:id/cancel", b.handleCancelOrder)
	orders.PUT("/:id/return-request", b.handleReturnRequest)
	orders.GET("/:id/invoice", b.handleInvoice)

	api.POST("/admin/login", b.handleAdminLogin)
	admin := api.Group("/admin", b.requireAdmin)
	admin.GET("/products/count", b.handleCount("products"))
	admin.GET("/orders/count", b.handleCount("orders"))
	admin.GET("/users/count", b.handleCount("users"))
	admin.GET("/orders", b.handleAdminOrders)
	admin.PUT("/orders/:id", b.handleAdminSetStatus)
	admin.GET("/users", b.handleAdminUsers)
	admin.DELETE("/users/:id", b.handleAdminDeleteUser)
	admin.GET("/revenue/daily", b.handleDailyRevenue)
	admin.GET("/revenue/weekly", b.handleWeeklyRevenue)
	admin.GET("/revenue/monthly", b.handleMonthlyRevenue)
	admin.GET("/revenue/yearly", b.handleYearlyRevenue)
	admin.GET("/revenue/range", b.handleRangeRevenue)
	admin.GET("/revenue/monthly-report", b.handleMonthlyReport)
	return r
}

// SeedProduct stores p, assigning an id and creation time when missing.
func (b *Backend) SeedProduct(p domain.Product) domain.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = b.now().UTC()
	}
	b.products[p.ID] = &p
	return p
}

// SeedOrder stores o as is, for tests that need orders in a given state.
func (b *Backend) SeedOrder(o domain.Order) domain.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	b.orders[o.ID] = &o
	return o
}

// Order returns a copy of a stored order.
func (b *Backend) Order(id string) (domain.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.orders[id]
	if !ok {
		return domain.Order{}, false
	}
	return *o, true
}

func (b *Backend) sortedOrders(keep func(*domain.Order) bool) []domain.Order {
	out := make([]domain.Order, 0, len(b.orders))
	for _, o := range b.orders {
		if keep == nil || keep(o) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// bind decodes the JSON body and runs the shared validator on it.
func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := domain.Validate(v); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func normEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
