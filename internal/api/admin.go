package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"goldmart/internal/domain"
)

type adminToken struct {
	Token string `json:"token"`
}

func (c *Client) AdminLogin(ctx context.Context, cred domain.Credentials) (string, error) {
	var out adminToken
	err := c.doJSON(ctx, request{scope: ScopePublic, method: http.MethodPost, path: "/admin/login", endpoint: "admin.login", body: cred}, &out)
	return out.Token, err
}

type countPayload struct {
	Count int `json:"count"`
}

// Count returns the backend total for "products", "orders" or "users".
func (c *Client) Count(ctx context.Context, entity string) (int, error) {
	var out countPayload
	err := c.doJSON(ctx, request{scope: ScopeAdmin, method: http.MethodGet, path: "/admin/" + url.PathEscape(entity) + "/count", endpoint: "admin.count"}, &out)
	return out.Count, err
}

func (c *Client) AdminOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := c.doJSON(ctx, request{scope: ScopeAdmin, method: http.MethodGet, path: "/admin/orders", endpoint: "admin.orders"}, &out)
	return out, err
}

type statusPayload struct {
	Status domain.OrderStatus `json:"status"`
}

func (c *Client) SetOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	return c.doJSON(ctx, request{scope: ScopeAdmin, method: http.MethodPut, path: "/admin/orders/" + url.PathEscape(id), endpoint: "admin.order_status", body: statusPayload{Status: status}}, nil)
}

func (c *Client) AdminUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := c.doJSON(ctx, request{scope: ScopeAdmin, method: http.MethodGet, path: "/admin/users", endpoint: "admin.users"}, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.doJSON(ctx, request{scope: ScopeAdmin, method: http.MethodDelete, path: "/admin/users/" + url.PathEscape(id), endpoint: "admin.user_delete"}, nil)
}

// DailyRevenue takes the date as YYYY-MM-DD.
func (c *Client) DailyRevenue(ctx context.Context, date string) (domain.DailyRevenue, error) {
	var out domain.DailyRevenue
	q := url.Values{"date": {date}}
	err := c.doJSON(ctx, request{scope: ScopeAdmin, method: http.MethodGet, path: "/admin/revenue/daily?" + q.Encode(), endpoint: "admin.revenue_daily"}, &out)
	return out, err
}

func (c *Client) WeeklyRevenue(ctx context.Context) (domain.WeeklyRevenue, error) {
	var out domain.WeeklyRevenue
	err := c.doJSON(ctx, request{scope: ScopeAdmin, method: http.MethodGet, path: "/admin/revenue/weekly", endpoint: "admin.revenue_weekly"}, &out)
	return out, err
}

func (c *Client) MonthlyRevenue(ctx context.Context, year int) (domain.MonthlyRevenue, error) {
	var out domain.MonthlyRevenue
	q := url.Values{"year": {strconv.Itoa(year)}}
	err := c.doJSON(ctx, request{scope: ScopeAdmin, method: http.MethodGet, path: "/admin/revenue/monthly?" + q.Encode(), endpoint: "admin.revenue_monthly"}, &out)
	return out, err
}

func (c *Client) YearlyRevenue(ctx context.Context) (domain.YearlyRevenue, error) {
	var out domain.YearlyRevenue
	err := c.doJSON(ctx, request{scope: ScopeAdmin, method: http.MethodGet, path: "/admin/revenue/yearly", endpoint: "admin.revenue_yearly"}, &out)
	return out, err
}

func (c *Client) RangeRevenue(ctx context.Context, from, to string) (domain.RangeRevenue, error) {
	var out domain.RangeRevenue
	q := url.Values{"from": {from}, "to": {to}}
	err := c.doJSON(ctx, request{scope: ScopeAdmin, method: http.MethodGet, path: "/admin/revenue/range?" + q.Encode(), endpoint: "admin.revenue_range"}, &out)
	return out, err
}

func (c *Client) MonthlyReport(ctx context.Context, year, month int) (domain.MonthlyReport, error) {
	var out domain.MonthlyReport
	q := url.Values{"year": {strconv.Itoa(year)}, "month": {strconv.Itoa(month)}}
	err := c.doJSON(ctx, request{scope: ScopeAdmin, method: http.MethodGet, path: "/admin/revenue/monthly-report?" + q.Encode(), endpoint: "admin.revenue_report"}, &out)
	return out, err
}
