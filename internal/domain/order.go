package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusProcessing     OrderStatus = "Processing"
	StatusShipped        OrderStatus = "Shipped"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
	StatusReturned       OrderStatus = "Returned"
)

var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
	StatusReturned,
}

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusOutForDelivery, StatusDelivered, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {StatusReturned},
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrValidation("unknown order status: " + s)
}

func (s OrderStatus) Valid() bool {
	_, err := ParseOrderStatus(string(s))
	return err == nil
}

// PreDelivery reports whether the order is still on its way.
func (s OrderStatus) PreDelivery() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusOutForDelivery:
		return true
	}
	return false
}

// Next lists the statuses an admin may move an order to.
func (s OrderStatus) Next() []OrderStatus {
	return append([]OrderStatus(nil), transitions[s]...)
}

// CanTransition reports whether s -> to is in the transition table.
// Setting the current status again is always accepted.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if s == to {
		return s.Valid()
	}
	for _, n := range transitions[s] {
		if n == to {
			return true
		}
	}
	return false
}

const ReturnWindow = 7 * 24 * time.Hour

const (
	PaymentUPI  = "UPI"
	PaymentCard = "CARD"
	PaymentCOD  = "COD"
)

type OrderItem struct {
	Product     string          `json:"product"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Qty         int             `json:"qty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

type Order struct {
	ID                string          `json:"_id"`
	User              string          `json:"user,omitempty"`
	Items             []OrderItem     `json:"orderItems"`
	ShippingAddress   Address         `json:"shippingAddress"`
	PaymentMethod     string          `json:"paymentMethod"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	Status            OrderStatus     `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	EstimatedDelivery *time.Time      `json:"estimatedDelivery,omitempty"`
	DeliveredAt       *time.Time      `json:"deliveredAt,omitempty"`
	CancelledAt       *time.Time      `json:"cancelledAt,omitempty"`
	CancelReason      string          `json:"cancelReason,omitempty"`
	ReturnRequested   bool            `json:"returnRequested"`
	ReturnRequestedAt *time.Time      `json:"returnRequestedAt,omitempty"`
	ReturnApproved    bool            `json:"returnApproved"`
	ReturnPickupDone  bool            `json:"returnPickupDone"`
	ReturnReason      string          `json:"returnReason,omitempty"`
}

// Cancellable holds while the order has not been delivered or cancelled.
func (o Order) Cancellable() bool {
	return o.DeliveredAt == nil && o.Status.PreDelivery()
}

// CheckReturn returns nil when a return may be requested at now.
func (o Order) CheckReturn(now time.Time) error {
	if o.ReturnRequested {
		return ErrConflict("return already requested")
	}
	if o.Status != StatusDelivered {
		return ErrConflict("only delivered orders can be returned")
	}
	if o.DeliveredAt == nil {
		return ErrNoDeliveryTime
	}
	if now.Sub(*o.DeliveredAt) > ReturnWindow {
		return ErrReturnWindowExpired
	}
	return nil
}

func (o Order) Returnable(now time.Time) bool {
	return o.CheckReturn(now) == nil
}

func (o Order) IsReturned() bool {
	return o.Status == StatusReturned || o.ReturnPickupDone
}

// ReturnStage is the label of the return sub-flow, empty when none started.
func (o Order) ReturnStage() string {
	switch {
	case o.ReturnPickupDone:
		return "Returned"
	case o.ReturnApproved:
		return "Return Approved - Pickup Pending"
	case o.ReturnRequested:
		return "Return Requested"
	}
	return ""
}

// ShowEstimatedDelivery is true only while an estimate is still meaningful.
func (o Order) ShowEstimatedDelivery() bool {
	return o.EstimatedDelivery != nil && o.Status.PreDelivery()
}

var CancelReasons = []string{
	"Ordered by mistake",
	"Delivery taking too long",
	"Found cheaper elsewhere",
	"Changed my mind",
}

var ReturnReasons = []string{
	"Product damaged",
	"Wrong item delivered",
	"Size / fit issue",
	"Not as expected",
}
