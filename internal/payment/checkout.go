package payment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"goldmart/internal/api"
	"goldmart/internal/checkout"
	"goldmart/internal/clientstore"
	"goldmart/internal/domain"
	"goldmart/internal/logger"
	"goldmart/internal/logger/sl"
	"goldmart/internal/metric"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, in api.PlaceOrderRequest, idempotencyKey string) (domain.Order, error)
}

type Cart interface {
	Items() []domain.CartItem
	Clear() error
}

// Checkout ties the cart, the snapshotted shipping address and a payment
// provider to order placement.
type Checkout struct {
	Orders       OrderCreator
	Cart         Cart
	Store        clientstore.Store
	Provider     Provider
	SuccessDelay time.Duration
	Log          *slog.Logger

	mu        sync.Mutex
	modal     *Modal
	lastOrder *domain.Order
}

type Summary struct {
	Items   []domain.CartItem `json:"items"`
	Address domain.Address    `json:"address"`
	Total   decimal.Decimal   `json:"total"`
}

type Result struct {
	Outcome Outcome       `json:"outcome"`
	Order   *domain.Order `json:"order,omitempty"`
}

func (c *Checkout) Summary() (Summary, error) {
	items := c.Cart.Items()
	if len(items) == 0 {
		return Summary{}, domain.ErrEmptyCart
	}
	addr, ok, err := checkout.CheckoutAddress(c.Store)
	if err != nil {
		return Summary{}, err
	}
	if !ok {
		return Summary{}, domain.ErrNoAddress
	}
	return Summary{Items: items, Address: addr, Total: domain.CartTotal(items)}, nil
}

// Pay charges the cart total and, on success, places the order and clears the
// cart. A failed payment places nothing and leaves the dialog open for
// another attempt; a payment already processing answers ErrConflict.
func (c *Checkout) Pay(ctx context.Context, r Request) (Result, error) {
	log := logger.OrDefault(c.Log)
	sum, err := c.Summary()
	if err != nil {
		return Result{}, err
	}
	r.Amount = sum.Total

	out, err := c.dialog().Submit(ctx, r)
	switch {
	case err != nil && out.Status == "":
		metric.PaymentsTotal.WithLabelValues(string(r.Method), "error").Inc()
		return Result{}, err
	case !out.Succeeded():
		metric.PaymentsTotal.WithLabelValues(string(r.Method), "failed").Inc()
		log.Info("payment declined", slog.String("method", string(r.Method)), slog.String("reason", out.Reason))
		return Result{Outcome: out}, nil
	}
	metric.PaymentsTotal.WithLabelValues(string(r.Method), "succeeded").Inc()
	if err != nil {
		log.Error("order placement failed after payment", slog.String("reference", out.Reference), sl.Err(err), sl.Traced(ctx))
		return Result{Outcome: out}, err
	}
	o, _ := c.LastOrder()
	return Result{Outcome: out, Order: &o}, nil
}

// dialog is the pay dialog of the current checkout. A failed attempt is
// reopened; a succeeded one is replaced by a fresh dialog.
func (c *Checkout) dialog() *Modal {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.modal == nil || c.modal.Step() == StepSuccess {
		c.modal = NewModal(c.Provider, c.SuccessDelay, c.paid)
	}
	c.modal.Reset()
	return c.modal
}

// Step is where the pay dialog stands; collecting-input before any attempt.
func (c *Checkout) Step() Step {
	c.mu.Lock()
	m := c.modal
	c.mu.Unlock()
	if m == nil {
		return StepCollecting
	}
	return m.Step()
}

func (c *Checkout) paid(ctx context.Context, r Request, out Outcome) error {
	sum, err := c.Summary()
	if err != nil {
		return err
	}
	if !sum.Total.Equal(r.Amount) {
		return domain.ErrConflict("Cart changed during payment.")
	}
	_, err = c.place(ctx, sum, r.Method, out.Reference)
	return err
}

func (c *Checkout) LastOrder() (domain.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastOrder == nil {
		return domain.Order{}, false
	}
	return *c.lastOrder, true
}

func (c *Checkout) place(ctx context.Context, sum Summary, method Method, ref string) (domain.Order, error) {
	items := make([]domain.OrderItem, 0, len(sum.Items))
	for _, it := range sum.Items {
		qty := it.Qty
		if qty < 1 {
			qty = 1
		}
		items = append(items, domain.OrderItem{
			Product:     it.ProductID,
			Name:        it.Name,
			Description: it.Description,
			Qty:         qty,
			Price:       it.Price,
			Image:       it.Image,
		})
	}
	req := api.PlaceOrderRequest{
		OrderItems:      items,
		ShippingAddress: sum.Address,
		PaymentMethod:   string(method),
		TotalPrice:      sum.Total,
		PaymentRef:      ref,
	}
	o, err := c.Orders.CreateOrder(ctx, req, uuid.NewString())
	if err != nil {
		return domain.Order{}, fmt.Errorf("place order: %w", err)
	}
	if err := c.Cart.Clear(); err != nil {
		return o, fmt.Errorf("clear cart: %w", err)
	}
	c.mu.Lock()
	c.lastOrder = &o
	c.mu.Unlock()
	return o, nil
}
