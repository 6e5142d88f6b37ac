package admin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"goldmart/internal/domain"
	"goldmart/internal/logger"
	"goldmart/internal/logger/sl"
)

const dateLayout = "2006-01-02"

// RevenueQuery selects the buckets of the revenue page. Zero values default
// to today, the current year and the current month.
type RevenueQuery struct {
	Date  string `form:"date"`
	Year  int    `form:"year"`
	Month int    `form:"month"`
	From  string `form:"from"`
	To    string `form:"to"`
}

type Revenue struct {
	Daily     domain.DailyRevenue   `json:"daily"`
	Weekly    domain.WeeklyRevenue  `json:"weekly"`
	Monthly   domain.MonthlyRevenue `json:"monthly"`
	Yearly    domain.YearlyRevenue  `json:"yearly"`
	YearTotal decimal.Decimal       `json:"yearTotal"`
	Range     *domain.RangeRevenue  `json:"range,omitempty"`
	Report    domain.MonthlyReport  `json:"report"`
	Query     RevenueQuery          `json:"query"`
	FetchedAt time.Time             `json:"fetchedAt"`
}

func (q RevenueQuery) withDefaults(now time.Time) (RevenueQuery, error) {
	if q.Date == "" {
		q.Date = now.Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, q.Date); err != nil {
		return q, domain.ErrValidation("date must be YYYY-MM-DD")
	}
	if q.Year == 0 {
		q.Year = now.Year()
	}
	if q.Month == 0 {
		q.Month = int(now.Month())
	}
	if q.Month < 1 || q.Month > 12 {
		return q, domain.ErrValidation("month must be between 1 and 12")
	}
	if (q.From == "") != (q.To == "") {
		return q, domain.ErrValidation("both from and to are required for a custom range")
	}
	if q.From != "" {
		from, err1 := time.Parse(dateLayout, q.From)
		to, err2 := time.Parse(dateLayout, q.To)
		if err1 != nil || err2 != nil {
			return q, domain.ErrValidation("range dates must be YYYY-MM-DD")
		}
		if to.Before(from) {
			return q, domain.ErrValidation("range end is before its start")
		}
	}
	return q, nil
}

// Revenue fetches every bucket of the revenue page concurrently. Any failed
// bucket fails the whole page.
func (c *Console) Revenue(ctx context.Context, q RevenueQuery) (Revenue, error) {
	now := c.now()
	q, err := q.withDefaults(now)
	if err != nil {
		return Revenue{}, err
	}
	out := Revenue{Query: q}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s revenue: %w", name, err))
				mu.Unlock()
			}
		}()
	}
	run("daily", func() (err error) { out.Daily, err = c.API.DailyRevenue(ctx, q.Date); return })
	run("weekly", func() (err error) { out.Weekly, err = c.API.WeeklyRevenue(ctx); return })
	run("monthly", func() (err error) { out.Monthly, err = c.API.MonthlyRevenue(ctx, q.Year); return })
	run("yearly", func() (err error) { out.Yearly, err = c.API.YearlyRevenue(ctx); return })
	run("report", func() (err error) { out.Report, err = c.API.MonthlyReport(ctx, q.Year, q.Month); return })
	if q.From != "" {
		run("range", func() error {
			r, err := c.API.RangeRevenue(ctx, q.From, q.To)
			if err == nil {
				out.Range = &r
			}
			return err
		})
	}
	wg.Wait()

	if len(errs) > 0 {
		err := joinSorted(errs)
		logger.OrDefault(c.Log).Error("revenue fetch failed", sl.Err(err), slog.Int("failed", len(errs)), sl.Traced(ctx))
		return Revenue{}, err
	}
	for _, y := range out.Yearly.YearlyRevenue {
		if y.Year == q.Year {
			out.YearTotal = y.TotalRevenue
		}
	}
	out.FetchedAt = now
	return out, nil
}
