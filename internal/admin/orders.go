package admin

import (
	"context"
	"fmt"
	"time"

	"goldmart/internal/domain"
	"goldmart/internal/orders"
)

const (
	DateAll   = "All"
	DateToday = "Today"
	DateWeek  = "This Week"
	DateMonth = "This Month"
)

type OrderFilter struct {
	Status string `form:"status"`
	Date   string `form:"date"`
}

// Orders lists every order newest first, narrowed by status and date.
func (c *Console) Orders(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	all, err := c.API.AdminOrders(ctx)
	if err != nil {
		return nil, err
	}
	return c.FilterOrders(all, f)
}

// FilterOrders applies f to an already fetched list, such as the latest
// result of a watched order list.
func (c *Console) FilterOrders(all []domain.Order, f OrderFilter) ([]domain.Order, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	inDate, err := dateFilter(f.Date, c.now())
	if err != nil {
		return nil, err
	}
	list := append([]domain.Order(nil), all...)
	orders.SortNewestFirst(list)
	out := make([]domain.Order, 0, len(list))
	for _, o := range list {
		if orders.Matches(o, f.Status) && inDate(o.CreatedAt) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f OrderFilter) check() error {
	if f.Status != "" && f.Status != orders.FilterAll {
		if _, err := domain.ParseOrderStatus(f.Status); err != nil {
			return err
		}
	}
	if _, err := dateFilter(f.Date, time.Now()); err != nil {
		return err
	}
	return nil
}

// dateFilter returns a predicate for the admin date filters, evaluated in the
// location of now. The week runs Sunday to Saturday.
func dateFilter(name string, now time.Time) (func(time.Time) bool, error) {
	loc := now.Location()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	var from, to time.Time
	switch name {
	case "", DateAll:
		return func(time.Time) bool { return true }, nil
	case DateToday:
		from, to = day, day.AddDate(0, 0, 1)
	case DateWeek:
		from = day.AddDate(0, 0, -int(day.Weekday()))
		to = from.AddDate(0, 0, 7)
	case DateMonth:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		to = from.AddDate(0, 1, 0)
	default:
		return nil, domain.ErrValidation("unknown date filter: " + name)
	}
	return func(t time.Time) bool {
		t = t.In(loc)
		return !t.Before(from) && t.Before(to)
	}, nil
}

// UpdateStatus moves an order along the transition table. Moves outside the
// table are refused before the backend is called.
func (c *Console) UpdateStatus(ctx context.Context, id string, to domain.OrderStatus) error {
	if !to.Valid() {
		return domain.ErrValidation("unknown order status: " + string(to))
	}
	all, err := c.API.AdminOrders(ctx)
	if err != nil {
		return err
	}
	var cur *domain.Order
	for i := range all {
		if all[i].ID == id {
			cur = &all[i]
			break
		}
	}
	if cur == nil {
		return domain.ErrNotFound("order " + id)
	}
	if !cur.Status.CanTransition(to) {
		return domain.ErrConflict(fmt.Sprintf("cannot move order from %s to %s", cur.Status, to))
	}
	if cur.Status == to {
		return nil
	}
	return c.API.SetOrderStatus(ctx, id, to)
}
