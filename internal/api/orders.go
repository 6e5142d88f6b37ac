package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"goldmart/internal/domain"
)

type PlaceOrderRequest struct {
	OrderItems      []domain.OrderItem `json:"orderItems"`
	ShippingAddress domain.Address     `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	TotalPrice      decimal.Decimal    `json:"totalPrice"`
	PaymentRef      string             `json:"paymentRef,omitempty"`
}

// CreateOrder submits the order. The key is sent as Idempotency-Key so a
// repeated submit of the same checkout is recognisable by the backend.
func (c *Client) CreateOrder(ctx context.Context, in PlaceOrderRequest, idempotencyKey string) (domain.Order, error) {
	hdr := http.Header{}
	if idempotencyKey != "" {
		hdr.Set("Idempotency-Key", idempotencyKey)
	}
	body, _, err := c.do(ctx, request{scope: ScopeUser, method: http.MethodPost, path: "/orders", endpoint: "orders.create", body: in, header: hdr})
	if err != nil {
		return domain.Order{}, err
	}
	// Older backends wrap the order as {"order": {...}}.
	var wrapped struct {
		Order *domain.Order `json:"order"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Order != nil && wrapped.Order.ID != "" {
		return *wrapped.Order, nil
	}
	var o domain.Order
	err = json.Unmarshal(body, &o)
	return o, err
}

func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var out struct {
		Orders []domain.Order `json:"orders"`
	}
	err := c.doJSON(ctx, request{scope: ScopeUser, method: http.MethodGet, path: "/orders/myorders", endpoint: "orders.mine"}, &out)
	return out.Orders, err
}

type reasonPayload struct {
	Reason string `json:"reason"`
}

func (c *Client) CancelOrder(ctx context.Context, id, reason string) error {
	return c.doJSON(ctx, request{scope: ScopeUser, method: http.MethodPut, path: "/orders/" + url.PathEscape(id) + "/cancel", endpoint: "orders.cancel", body: reasonPayload{Reason: reason}}, nil)
}

func (c *Client) RequestReturn(ctx context.Context, id, reason string) error {
	return c.doJSON(ctx, request{scope: ScopeUser, method: http.MethodPut, path: "/orders/" + url.PathEscape(id) + "/return-request", endpoint: "orders.return_request", body: reasonPayload{Reason: reason}}, nil)
}

// Invoice fetches the PDF invoice of an order.
func (c *Client) Invoice(ctx context.Context, id string) ([]byte, error) {
	hdr := http.Header{}
	hdr.Set("Accept", "application/pdf")
	body, _, err := c.do(ctx, request{scope: ScopeUser, method: http.MethodGet, path: "/orders/" + url.PathEscape(id) + "/invoice", endpoint: "orders.invoice", header: hdr})
	return body, err
}
