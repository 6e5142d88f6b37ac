// Package admin is the back-office console: dashboard counts, the product,
// order and user desks, the contact inbox and revenue reporting.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"goldmart/internal/clientstore"
	"goldmart/internal/domain"
)

type API interface {
	Count(ctx context.Context, entity string) (int, error)

	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	AdminOrders(ctx context.Context) ([]domain.Order, error)
	SetOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error

	AdminUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id string) error

	DailyRevenue(ctx context.Context, date string) (domain.DailyRevenue, error)
	WeeklyRevenue(ctx context.Context) (domain.WeeklyRevenue, error)
	MonthlyRevenue(ctx context.Context, year int) (domain.MonthlyRevenue, error)
	YearlyRevenue(ctx context.Context) (domain.YearlyRevenue, error)
	RangeRevenue(ctx context.Context, from, to string) (domain.RangeRevenue, error)
	MonthlyReport(ctx context.Context, year, month int) (domain.MonthlyReport, error)
}

type Console struct {
	API   API
	Inbox *Inbox
	Now   func() time.Time
	Log   *slog.Logger
}

func New(api API, store clientstore.Store, log *slog.Logger) *Console {
	return &Console{API: api, Inbox: NewInbox(store), Now: time.Now, Log: log}
}

func (c *Console) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// joinSorted joins errors collected from parallel fetches in message order,
// so the same failures always read the same way.
func joinSorted(errs []error) error {
	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return errors.Join(errs...)
}
