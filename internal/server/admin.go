package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goldmart/internal/admin"
	"goldmart/internal/domain"
	"goldmart/internal/session"
)

func (s *Server) handleAdminLogin(c *gin.Context) {
	var cred domain.Credentials
	if !s.bind(c, &cred) {
		return
	}
	if err := domain.Validate(cred); err != nil {
		s.fail(c, err)
		return
	}
	token, err := s.d.API.AdminLogin(c.Request.Context(), cred)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.d.Session.AdminLogin(token); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"next": "/admindashboard"})
}

func (s *Server) handleAdminLogout(c *gin.Context) {
	if err := s.d.Session.AdminLogout(); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"next": session.AdminLoginPath})
}

func (s *Server) handleAdminDashboard(c *gin.Context) {
	counts, err := s.d.Admin.Dashboard(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

func (s *Server) handleAdminProducts(c *gin.Context) {
	list, err := s.d.Admin.Products(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": s.withImages(list)})
}

func (s *Server) handleAdminProduct(c *gin.Context) {
	p, err := s.d.Admin.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (s *Server) handleAdminProductCreate(c *gin.Context) {
	var in domain.ProductInput
	if !s.bind(c, &in) {
		return
	}
	p, err := s.d.Admin.CreateProduct(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": p})
}

func (s *Server) handleAdminProductUpdate(c *gin.Context) {
	var in domain.ProductInput
	if !s.bind(c, &in) {
		return
	}
	p, err := s.d.Admin.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (s *Server) handleAdminProductDelete(c *gin.Context) {
	if err := s.d.Admin.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleAdminOrders serves the latest watched list when a watch is running,
// else fetches afresh.
func (s *Server) handleAdminOrders(c *gin.Context) {
	var f admin.OrderFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		s.fail(c, domain.ErrValidation("invalid query"))
		return
	}
	var (
		list []domain.Order
		err  error
	)
	if all, ok := s.Watched(watchOrders); ok {
		list, err = s.d.Admin.FilterOrders(all.([]domain.Order), f)
	} else {
		list, err = s.d.Admin.Orders(c.Request.Context(), f)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list, "watching": s.d.Polls.Running(watchOrders)})
}

func (s *Server) handleAdminOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if !s.bind(c, &req) {
		return
	}
	to, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.d.Admin.UpdateStatus(c.Request.Context(), c.Param("id"), to); err != nil {
		s.fail(c, err)
		return
	}
	s.rewatch(watchOrders)
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": to})
}

func (s *Server) handleAdminUsers(c *gin.Context) {
	if all, ok := s.Watched(watchUsers); ok {
		c.JSON(http.StatusOK, gin.H{"users": all, "watching": true})
		return
	}
	list, err := s.d.Admin.Users(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list, "watching": false})
}

func (s *Server) handleAdminUserDelete(c *gin.Context) {
	if err := s.d.Admin.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	s.rewatch(watchUsers)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAdminMessages(c *gin.Context) {
	list, err := s.d.Admin.Inbox.List()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}

func (s *Server) handleAdminMessageDelete(c *gin.Context) {
	if err := s.d.Admin.Inbox.Delete(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAdminRevenue(c *gin.Context) {
	var q admin.RevenueQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.fail(c, domain.ErrValidation("invalid query"))
		return
	}
	r, err := s.d.Admin.Revenue(c.Request.Context(), q)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// handleAdminExport streams an xlsx workbook: the revenue page by default,
// or the filtered order list with ?kind=orders.
func (s *Server) handleAdminExport(c *gin.Context) {
	var (
		data []byte
		name string
		err  error
	)
	switch c.DefaultQuery("kind", "revenue") {
	case "revenue":
		var q admin.RevenueQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			s.fail(c, domain.ErrValidation("invalid query"))
			return
		}
		data, name, err = s.d.Admin.ExportRevenue(c.Request.Context(), q)
	case "orders":
		var f admin.OrderFilter
		if err := c.ShouldBindQuery(&f); err != nil {
			s.fail(c, domain.ErrValidation("invalid query"))
			return
		}
		data, name, err = s.d.Admin.ExportOrders(c.Request.Context(), f)
	default:
		err = domain.ErrValidation("kind must be revenue or orders")
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, admin.XLSXContentType, data)
}
