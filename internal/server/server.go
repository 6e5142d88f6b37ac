// Package server is the storefront gateway: the shop, account and admin
// routes served as JSON behind the session gates.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"goldmart/internal/admin"
	"goldmart/internal/cart"
	"goldmart/internal/checkout"
	"goldmart/internal/clientstore"
	"goldmart/internal/config"
	"goldmart/internal/logger"
	"goldmart/internal/orders"
	"goldmart/internal/payment"
	"goldmart/internal/poll"
	"goldmart/internal/session"
	"goldmart/internal/trace"
)

type Deps struct {
	Config   config.Config
	Store    clientstore.Store
	Session  *session.Manager
	Cart     *cart.Manager
	API      Backend
	Checkout *payment.Checkout
	Orders   *orders.Service
	Admin    *admin.Console
	Polls    *poll.Group
	Log      *slog.Logger
}

type Server struct {
	d      Deps
	log    *slog.Logger
	engine *gin.Engine
	http   *http.Server
	base   context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	editors map[string]*checkout.Editor
}

func New(d Deps) *Server {
	s := &Server{d: d, log: logger.OrDefault(d.Log), editors: make(map[string]*checkout.Editor)}
	if s.d.Config.PollInterval <= 0 {
		s.d.Config.PollInterval = config.Default().PollInterval
	}
	if s.d.Polls == nil {
		s.d.Polls = poll.NewGroup(s.log)
	}
	s.base, s.cancel = context.WithCancel(context.Background())
	s.engine = s.routes()
	s.http = &http.Server{Handler: s.engine}
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Run(addr string) error {
	s.http.Addr = addr
	return s.http.ListenAndServe()
}

// Stop ends every watched list and then drains the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.d.Polls.StopAll()
	s.cancel()
	return s.http.Shutdown(ctx)
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(trace.ServiceName))
	r.Use(requestID(), metricsMiddleware(), requestLog(s.log))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	user := s.d.Session.RequireUser()
	adm := s.d.Session.RequireAdmin()

	r.GET("/", s.handleHome)
	r.GET("/shop", s.handleShop)
	r.GET("/product/:id", s.handleProduct)
	r.POST("/product/:id/reviews", user, s.handleAddReview)
	r.PUT("/product/:id/reviews/:rid", user, s.handleUpdateReview)
	r.DELETE("/product/:id/reviews/:rid", user, s.handleDeleteReview)
	r.GET("/category/:category", s.handleCategory)

	r.GET("/cart", s.handleCart)
	r.POST("/cart/items", s.handleCartAdd)
	r.PATCH("/cart/items/:id", s.handleCartQty)
	r.DELETE("/cart/items/:id", s.handleCartRemove)
	r.DELETE("/cart", s.handleCartClear)

	co := r.Group("/checkout", user)
	co.GET("", s.handleCheckout)
	co.POST("/addresses", s.handleAddressAdd)
	co.PUT("/addresses/:index", s.handleAddressUpdate)
	co.DELETE("/addresses/:index", s.handleAddressDelete)
	co.POST("/addresses/:index/edit", s.handleFormEdit)
	co.POST("/choose", s.handleChoose)
	co.POST("/select/:index", s.handleAddressSelect)
	co.POST("/form", s.handleFormOpen)
	co.PATCH("/form", s.handleFormFields)
	co.POST("/form/submit", s.handleFormSubmit)
	co.DELETE("/form", s.handleFormCancel)
	co.POST("/proceed", s.handleProceed)

	r.GET("/payment", s.handlePaymentSummary)
	r.POST("/payment", s.handlePay)
	r.GET("/payment-success", s.handlePaymentSuccess)

	r.GET("/contact", s.handleContactForm)
	r.POST("/contact", s.handleContact)

	r.POST("/login", s.handleLogin)
	r.POST("/register", s.handleRegister)
	r.POST("/logout", s.handleLogout)

	r.GET("/userdashboard", user, s.handleUserDashboard)
	r.GET("/profile", user, s.handleProfile)
	r.PUT("/profile", user, s.handleUpdateProfile)
	r.POST("/profile/addresses", user, s.handleProfileAddressAdd)
	r.PUT("/profile/addresses/:index", user, s.handleProfileAddressUpdate)
	r.DELETE("/profile/addresses/:index", user, s.handleProfileAddressDelete)
	r.POST("/profile/addresses/:index/default", user, s.handleProfileAddressDefault)
	r.GET("/orders", user, s.handleOrders)
	r.POST("/orders/:id/cancel", user, s.handleCancel)
	r.POST("/orders/:id/return", user, s.handleReturn)
	r.GET("/orders/:id/invoice", user, s.handleInvoice)

	r.POST("/admin-login", s.handleAdminLogin)
	r.POST("/admin/logout", s.handleAdminLogout)
	r.GET("/admindashboard", adm, s.handleAdminDashboard)
	ag := r.Group("/admin", adm)
	ag.GET("/products", s.handleAdminProducts)
	ag.POST("/products", s.handleAdminProductCreate)
	ag.GET("/products/:id", s.handleAdminProduct)
	ag.PUT("/products/:id", s.handleAdminProductUpdate)
	ag.DELETE("/products/:id", s.handleAdminProductDelete)
	ag.GET("/orders", s.handleAdminOrders)
	ag.PUT("/orders/:id", s.handleAdminOrderStatus)
	ag.POST("/orders/watch", s.handleWatch(watchOrders))
	ag.DELETE("/orders/watch", s.handleUnwatch(watchOrders))
	ag.GET("/users", s.handleAdminUsers)
	ag.DELETE("/users/:id", s.handleAdminUserDelete)
	ag.POST("/users/watch", s.handleWatch(watchUsers))
	ag.DELETE("/users/watch", s.handleUnwatch(watchUsers))
	ag.GET("/messages", s.handleAdminMessages)
	ag.DELETE("/messages/:id", s.handleAdminMessageDelete)
	ag.GET("/revenue", s.handleAdminRevenue)
	ag.GET("/revenue/export", s.handleAdminExport)

	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})
	return r
}
