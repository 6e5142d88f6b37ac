package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goldmart/internal/checkout"
	"goldmart/internal/domain"
	"goldmart/internal/orders"
	"goldmart/internal/session"
)

func (s *Server) handleLogin(c *gin.Context) {
	var cred domain.Credentials
	if !s.bind(c, &cred) {
		return
	}
	if err := domain.Validate(cred); err != nil {
		s.fail(c, err)
		return
	}
	u, err := s.d.API.Login(c.Request.Context(), cred)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.d.Session.Login(u); err != nil {
		s.fail(c, err)
		return
	}
	u.Token = ""
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// handleRegister creates the account but does not sign in.
func (s *Server) handleRegister(c *gin.Context) {
	var reg domain.Registration
	if !s.bind(c, &reg) {
		return
	}
	if err := domain.Validate(reg); err != nil {
		s.fail(c, err)
		return
	}
	if _, err := s.d.API.Register(c.Request.Context(), reg); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"next": session.LoginPath})
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.d.Session.Logout(); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"next": session.LoginPath})
}

func (s *Server) handleContactForm(c *gin.Context) {
	u, _ := s.d.Session.User()
	c.JSON(http.StatusOK, gin.H{"name": u.Name, "email": u.Email})
}

func (s *Server) handleContact(c *gin.Context) {
	var m domain.ContactMessage
	if !s.bind(c, &m) {
		return
	}
	saved, err := s.d.Admin.Inbox.Submit(m)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": saved})
}

func (s *Server) handleUserDashboard(c *gin.Context) {
	u, _ := s.d.Session.User()
	list, err := s.d.API.MyOrders(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	byStatus := make(map[domain.OrderStatus]int)
	for _, o := range list {
		byStatus[o.Status]++
	}
	u.Token = ""
	body := gin.H{
		"user":      u,
		"orders":    len(list),
		"byStatus":  byStatus,
		"cartCount": s.d.Cart.Count(),
	}
	if exp, ok := session.TokenExpiry(s.d.Session.Token()); ok {
		body["sessionExpires"] = exp
	}
	c.JSON(http.StatusOK, body)
}

// profile re-reads the profile and refreshes the cached address book.
func (s *Server) profile(c *gin.Context, status int) {
	u, err := s.d.API.Profile(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.d.Session.CacheProfile(u); err != nil {
		s.fail(c, err)
		return
	}
	u.Token = ""
	c.JSON(status, gin.H{"user": u})
}

func (s *Server) handleProfile(c *gin.Context) {
	s.profile(c, http.StatusOK)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var in domain.ProfileUpdate
	if !s.bind(c, &in) {
		return
	}
	if err := domain.Validate(in); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.d.API.UpdateProfile(c.Request.Context(), in); err != nil {
		s.fail(c, err)
		return
	}
	s.profile(c, http.StatusOK)
}

func (s *Server) handleProfileAddressAdd(c *gin.Context) {
	s.saveProfileAddress(c, nil)
}

func (s *Server) handleProfileAddressUpdate(c *gin.Context) {
	i, err := pathIndex(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.saveProfileAddress(c, &i)
}

func (s *Server) saveProfileAddress(c *gin.Context, index *int) {
	var a domain.Address
	if !s.bind(c, &a) {
		return
	}
	a, err := checkout.ValidateAddress(a)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.d.API.SaveAddress(c.Request.Context(), a, index); err != nil {
		s.fail(c, err)
		return
	}
	s.profile(c, http.StatusOK)
}

func (s *Server) handleProfileAddressDelete(c *gin.Context) {
	i, err := pathIndex(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.d.API.DeleteAddress(c.Request.Context(), i); err != nil {
		s.fail(c, err)
		return
	}
	s.profile(c, http.StatusOK)
}

func (s *Server) handleProfileAddressDefault(c *gin.Context) {
	i, err := pathIndex(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.d.API.SetDefaultAddress(c.Request.Context(), i); err != nil {
		s.fail(c, err)
		return
	}
	s.profile(c, http.StatusOK)
}

func (s *Server) handleOrders(c *gin.Context) {
	list, err := s.d.Orders.List(c.Request.Context(), c.DefaultQuery("status", orders.FilterAll))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (s *Server) handleCancel(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if !s.bind(c, &req) {
		return
	}
	s.actionResult(c, s.d.Orders.Cancel(c.Request.Context(), c.Param("id"), req.Reason))
}

func (s *Server) handleReturn(c *gin.Context) {
	var req struct {
		Reason    string `json:"reason"`
		Confirmed bool   `json:"confirmed"`
	}
	if !s.bind(c, &req) {
		return
	}
	s.actionResult(c, s.d.Orders.RequestReturn(c.Request.Context(), c.Param("id"), req.Reason, req.Confirmed))
}

func (s *Server) actionResult(c *gin.Context, res orders.ActionResult) {
	if res.Err != nil {
		status, code := classify(res.Err)
		s.abort(c, status, code, orders.Message(res.Err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": res.Orders})
}

func (s *Server) handleInvoice(c *gin.Context) {
	path, err := s.d.Orders.DownloadInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}
