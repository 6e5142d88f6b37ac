package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goldmart/internal/domain"
	"goldmart/internal/payment"
)

type payRequest struct {
	Method     string `json:"method"`
	PIN        string `json:"pin"`
	CardNumber string `json:"cardNumber"`
	CardExpiry string `json:"cardExpiry"`
	CVV        string `json:"cvv"`
}

func (s *Server) handlePaymentSummary(c *gin.Context) {
	sum, err := s.d.Checkout.Summary()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary": sum,
		"step":    s.d.Checkout.Step(),
		"methods": []payment.Method{payment.MethodUPI, payment.MethodCard, payment.MethodCOD},
	})
}

// handlePay answers 201 with the placed order, or 402 when the provider
// declined the payment.
func (s *Server) handlePay(c *gin.Context) {
	var req payRequest
	if !s.bind(c, &req) {
		return
	}
	method, err := payment.ParseMethod(req.Method)
	if err != nil {
		s.fail(c, err)
		return
	}
	res, err := s.d.Checkout.Pay(c.Request.Context(), payment.Request{
		Method:     method,
		PIN:        req.PIN,
		CardNumber: req.CardNumber,
		CardExpiry: req.CardExpiry,
		CVV:        req.CVV,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	if !res.Outcome.Succeeded() {
		s.abort(c, http.StatusPaymentRequired, "PaymentDeclined", res.Outcome.Reason)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"outcome": res.Outcome, "order": res.Order, "next": "/payment-success"})
}

func (s *Server) handlePaymentSuccess(c *gin.Context) {
	o, ok := s.d.Checkout.LastOrder()
	if !ok {
		s.fail(c, domain.ErrNotFound("order"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}
