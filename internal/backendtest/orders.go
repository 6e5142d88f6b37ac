package backendtest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"goldmart/internal/domain"
)

const deliveryEstimate = 7 * 24 * time.Hour

type orderBody struct {
	OrderItems      []domain.OrderItem `json:"orderItems"`
	ShippingAddress domain.Address     `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	TotalPrice      decimal.Decimal    `json:"totalPrice"`
	PaymentRef      string             `json:"paymentRef"`
}

func (b *Backend) handleCreateOrder(c *gin.Context) {
	var in orderBody
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(in.OrderItems) == 0 {
		fail(c, http.StatusBadRequest, "No order items")
		return
	}
	if err := domain.Validate(in.ShippingAddress); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	switch in.PaymentMethod {
	case domain.PaymentUPI, domain.PaymentCard, domain.PaymentCOD:
	default:
		fail(c, http.StatusBadRequest, "Invalid payment method")
		return
	}
	total := decimal.Zero
	for _, it := range in.OrderItems {
		if it.Qty < 1 || !it.Price.IsPositive() {
			fail(c, http.StatusBadRequest, "Invalid order item")
			return
		}
		total = total.Add(it.LineTotal())
	}
	if !total.Equal(in.TotalPrice) {
		fail(c, http.StatusBadRequest, "Total price mismatch")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	me := b.current(c)
	key := c.GetHeader("Idempotency-Key")
	if key != "" {
		if id, ok := b.idem[me.user.ID+"/"+key]; ok {
			c.JSON(http.StatusOK, b.orders[id])
			return
		}
	}
	now := b.now().UTC()
	eta := now.Add(deliveryEstimate)
	o := &domain.Order{
		ID:                uuid.NewString(),
		User:              me.user.ID,
		Items:             in.OrderItems,
		ShippingAddress:   in.ShippingAddress,
		PaymentMethod:     in.PaymentMethod,
		TotalPrice:        total,
		Status:            domain.StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
		EstimatedDelivery: &eta,
	}
	b.orders[o.ID] = o
	if key != "" {
		b.idem[me.user.ID+"/"+key] = o.ID
	}
	c.JSON(http.StatusCreated, o)
}

func (b *Backend) handleMyOrders(c *gin.Context) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	uid := b.current(c).user.ID
	list := b.sortedOrders(func(o *domain.Order) bool { return o.User == uid })
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// mine finds one of the caller's orders or answers the request itself.
func (b *Backend) mine(c *gin.Context) (*domain.Order, bool) {
	o, ok := b.orders[c.Param("id")]
	if !ok || o.User != b.current(c).user.ID {
		fail(c, http.StatusNotFound, "Order not found")
		return nil, false
	}
	return o, true
}

type reasonBody struct {
	Reason string `json:"reason"`
}

func (b *Backend) reason(c *gin.Context) (string, bool) {
	var in reasonBody
	if err := c.ShouldBindJSON(&in); err != nil || in.Reason == "" {
		fail(c, http.StatusBadRequest, "Reason is required")
		return "", false
	}
	return in.Reason, true
}

func (b *Backend) handleCancelOrder(c *gin.Context) {
	reason, ok := b.reason(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.mine(c)
	if !ok {
		return
	}
	if !o.Cancellable() {
		fail(c, http.StatusBadRequest, "Order cannot be cancelled")
		return
	}
	now := b.now().UTC()
	o.Status = domain.StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "order": o})
}

func (b *Backend) handleReturnRequest(c *gin.Context) {
	reason, ok := b.reason(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.mine(c)
	if !ok {
		return
	}
	now := b.now().UTC()
	if err := o.CheckReturn(now); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	o.ReturnRequested = true
	o.ReturnRequestedAt = &now
	o.ReturnReason = reason
	o.UpdatedAt = now
	c.JSON(http.StatusOK, gin.H{"message": "Return requested", "order": o})
}

func (b *Backend) handleInvoice(c *gin.Context) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.mine(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%s.pdf", o.ID))
	c.Data(http.StatusOK, "application/pdf", invoicePDF(*o))
}

// invoicePDF renders a single-page text invoice.
func invoicePDF(o domain.Order) []byte {
	lines := []string{
		"GoldMart Invoice",
		"Order: " + o.ID,
		"Date: " + o.CreatedAt.Format("2006-01-02"),
		"Ship to: " + o.ShippingAddress.Name + ", " + o.ShippingAddress.City,
	}
	for _, it := range o.Items {
		lines = append(lines, fmt.Sprintf("%s x%d  %s", it.Name, it.Qty, it.LineTotal().StringFixed(2)))
	}
	lines = append(lines, "Total: "+o.TotalPrice.StringFixed(2), "Payment: "+o.PaymentMethod)

	var content string
	y := 780
	for _, l := range lines {
		content += fmt.Sprintf("BT /F1 12 Tf 50 %d Td (%s) Tj ET\n", y, pdfEscape(l))
		y -= 18
	}
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}
	out := "%PDF-1.4\n"
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = len(out)
		out += fmt.Sprintf("%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := len(out)
	out += fmt.Sprintf("xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		out += fmt.Sprintf("%010d 00000 n \n", off)
	}
	out += fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return []byte(out)
}

func pdfEscape(s string) string {
	r := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '(' || c == ')' || c == '\\' {
			r = append(r, '\\')
		}
		r = append(r, c)
	}
	return string(r)
}

func (b *Backend) handleAdminOrders(c *gin.Context) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c.JSON(http.StatusOK, b.sortedOrders(nil))
}

type statusBody struct {
	Status string `json:"status"`
}

// handleAdminSetStatus overwrites the status. Delivery and cancellation stamp
// their times; Returned closes the return sub-flow.
func (b *Backend) handleAdminSetStatus(c *gin.Context) {
	var in statusBody
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	st, err := domain.ParseOrderStatus(in.Status)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid status")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "Order not found")
		return
	}
	now := b.now().UTC()
	o.Status = st
	o.UpdatedAt = now
	switch st {
	case domain.StatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	case domain.StatusCancelled:
		if o.CancelledAt == nil {
			o.CancelledAt = &now
		}
	case domain.StatusReturned:
		o.ReturnApproved = true
		o.ReturnPickupDone = true
	}
	c.JSON(http.StatusOK, o)
}

func (b *Backend) handleAdminUsers(c *gin.Context) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.User, 0, len(b.accounts))
	for _, a := range b.accounts {
		out = append(out, a.user)
	}
	sortUsers(out)
	c.JSON(http.StatusOK, out)
}

func (b *Backend) handleAdminDeleteUser(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := c.Param("id")
	a, ok := b.accounts[id]
	if !ok {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	if a.user.IsAdmin {
		fail(c, http.StatusBadRequest, "Cannot delete admin user")
		return
	}
	delete(b.accounts, id)
	c.JSON(http.StatusOK, gin.H{"message": "User removed"})
}
