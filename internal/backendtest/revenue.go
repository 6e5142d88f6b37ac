package backendtest

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"goldmart/internal/domain"
)

const day = "2006-01-02"

func sortUsers(list []domain.User) {
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}

func (b *Backend) handleCount(entity string) gin.HandlerFunc {
	return func(c *gin.Context) {
		b.mu.RLock()
		defer b.mu.RUnlock()
		n := 0
		switch entity {
		case "products":
			n = len(b.products)
		case "orders":
			n = len(b.orders)
		case "users":
			for _, a := range b.accounts {
				if !a.user.IsAdmin {
					n++
				}
			}
		}
		c.JSON(http.StatusOK, gin.H{"count": n})
	}
}

// earning reports whether an order counts towards revenue.
func earning(o *domain.Order) bool {
	return o.Status != domain.StatusCancelled && !o.IsReturned()
}

// sum totals earning orders created in [from, to).
func (b *Backend) sum(from, to time.Time) (decimal.Decimal, int) {
	total, n := decimal.Zero, 0
	for _, o := range b.orders {
		if earning(o) && !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			total = total.Add(o.TotalPrice)
			n++
		}
	}
	return total, n
}

func (b *Backend) handleDailyRevenue(c *gin.Context) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	d := b.now().UTC()
	if q := c.Query("date"); q != "" {
		t, err := time.Parse(day, q)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid date")
			return
		}
		d = t
	}
	from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	total, n := b.sum(from, from.AddDate(0, 0, 1))
	c.JSON(http.StatusOK, domain.DailyRevenue{Date: from.Format(day), TotalRevenue: total, TotalOrders: n})
}

func (b *Backend) handleWeeklyRevenue(c *gin.Context) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	now := b.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -int(today.Weekday()))
	end := start.AddDate(0, 0, 7)
	total, n := b.sum(start, end)
	c.JSON(http.StatusOK, domain.WeeklyRevenue{
		WeekStart:    start.Format(day),
		WeekEnd:      end.AddDate(0, 0, -1).Format(day),
		TotalRevenue: total,
		TotalOrders:  n,
	})
}

func (b *Backend) yearArg(c *gin.Context) (int, bool) {
	q := c.Query("year")
	if q == "" {
		return b.now().UTC().Year(), true
	}
	y, err := strconv.Atoi(q)
	if err != nil || y < 1 {
		fail(c, http.StatusBadRequest, "Invalid year")
		return 0, false
	}
	return y, true
}

func (b *Backend) handleMonthlyRevenue(c *gin.Context) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	year, ok := b.yearArg(c)
	if !ok {
		return
	}
	out := domain.MonthlyRevenue{Year: year, MonthlyRevenue: make([]domain.MonthRevenue, 0, 12)}
	for m := 1; m <= 12; m++ {
		from := time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		total, n := b.sum(from, from.AddDate(0, 1, 0))
		out.MonthlyRevenue = append(out.MonthlyRevenue, domain.MonthRevenue{Month: m, TotalRevenue: total, TotalOrders: n})
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) handleYearlyRevenue(c *gin.Context) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	byYear := map[int]*domain.YearRevenue{}
	for _, o := range b.orders {
		if !earning(o) {
			continue
		}
		y := o.CreatedAt.UTC().Year()
		r, ok := byYear[y]
		if !ok {
			r = &domain.YearRevenue{Year: y, TotalRevenue: decimal.Zero}
			byYear[y] = r
		}
		r.TotalRevenue = r.TotalRevenue.Add(o.TotalPrice)
		r.TotalOrders++
	}
	out := domain.YearlyRevenue{YearlyRevenue: make([]domain.YearRevenue, 0, len(byYear))}
	for _, r := range byYear {
		out.YearlyRevenue = append(out.YearlyRevenue, *r)
	}
	sort.Slice(out.YearlyRevenue, func(i, j int) bool { return out.YearlyRevenue[i].Year < out.YearlyRevenue[j].Year })
	c.JSON(http.StatusOK, out)
}

// handleRangeRevenue totals orders from the start of from to the end of to.
func (b *Backend) handleRangeRevenue(c *gin.Context) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	from, err1 := time.Parse(day, c.Query("from"))
	to, err2 := time.Parse(day, c.Query("to"))
	if err1 != nil || err2 != nil || to.Before(from) {
		fail(c, http.StatusBadRequest, "Invalid date range")
		return
	}
	total, n := b.sum(from, to.AddDate(0, 0, 1))
	c.JSON(http.StatusOK, domain.RangeRevenue{From: from.Format(day), To: to.Format(day), TotalRevenue: total, TotalOrders: n})
}

func (b *Backend) handleMonthlyReport(c *gin.Context) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	year, ok := b.yearArg(c)
	if !ok {
		return
	}
	month := int(b.now().UTC().Month())
	if q := c.Query("month"); q != "" {
		m, err := strconv.Atoi(q)
		if err != nil || m < 1 || m > 12 {
			fail(c, http.StatusBadRequest, "Invalid month")
			return
		}
		month = m
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	total, _ := b.sum(from, to)

	type agg struct {
		best   domain.BestProduct
		orders map[string]bool
	}
	byProduct := map[string]*agg{}
	for _, o := range b.orders {
		if !earning(o) || o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		for _, it := range o.Items {
			a, ok := byProduct[it.Product]
			if !ok {
				a = &agg{best: domain.BestProduct{Name: it.Name, Image: it.Image, Price: it.Price, TotalRevenue: decimal.Zero}, orders: map[string]bool{}}
				if p, found := b.products[it.Product]; found {
					a.best.Category = p.Category
				}
				byProduct[it.Product] = a
			}
			a.best.TotalQuantity += it.Qty
			a.best.TotalRevenue = a.best.TotalRevenue.Add(it.LineTotal())
			a.orders[o.ID] = true
		}
	}
	var best *domain.BestProduct
	for _, a := range byProduct {
		a.best.TotalOrders = len(a.orders)
		if best == nil || a.best.TotalQuantity > best.TotalQuantity ||
			(a.best.TotalQuantity == best.TotalQuantity && a.best.Name < best.Name) {
			bp := a.best
			best = &bp
		}
	}
	c.JSON(http.StatusOK, domain.MonthlyReport{Month: month, Year: year, TotalRevenue: total, BestProduct: best})
}
