package admin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"goldmart/internal/clientstore"
	"goldmart/internal/domain"
)

// Wednesday.
var now = time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)

type fakeAPI struct {
	mu       sync.Mutex
	counts   map[string]int
	orders   []domain.Order
	statuses map[string]domain.OrderStatus
	created  []domain.ProductInput
	deleted  []string
	failYear bool
	failDay  bool
	rangeHit bool
}

func newFake() *fakeAPI {
	return &fakeAPI{
		counts:   map[string]int{"products": 12, "orders": 7, "users": 3},
		statuses: map[string]domain.OrderStatus{},
		orders: []domain.Order{
			{ID: "today", Status: domain.StatusPending, CreatedAt: now.Add(-2 * time.Hour)},
			{ID: "sunday", Status: domain.StatusShipped, CreatedAt: time.Date(2026, 4, 12, 9, 0, 0, 0, time.UTC)},
			{ID: "lastweek", Status: domain.StatusDelivered, CreatedAt: time.Date(2026, 4, 11, 23, 0, 0, 0, time.UTC)},
			{ID: "march", Status: domain.StatusCancelled, CreatedAt: time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)},
			{ID: "picked", Status: domain.StatusDelivered, ReturnPickupDone: true, CreatedAt: time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC),
				Items: []domain.OrderItem{{Name: "Ring", Qty: 1, Price: decimal.NewFromInt(900)}}, TotalPrice: decimal.NewFromInt(900)},
		},
	}
}

func (f *fakeAPI) Count(_ context.Context, entity string) (int, error) { return f.counts[entity], nil }
func (f *fakeAPI) Products(context.Context) ([]domain.Product, error) {
	return []domain.Product{{ID: "a", CreatedAt: now.Add(-time.Hour)}, {ID: "b", CreatedAt: now}}, nil
}
func (f *fakeAPI) Product(_ context.Context, id string) (domain.Product, error) {
	return domain.Product{ID: id}, nil
}
func (f *fakeAPI) CreateProduct(_ context.Context, in domain.ProductInput) (domain.Product, error) {
	f.created = append(f.created, in)
	return domain.Product{ID: "new", Name: in.Name}, nil
}
func (f *fakeAPI) UpdateProduct(_ context.Context, id string, in domain.ProductInput) (domain.Product, error) {
	return domain.Product{ID: id, Name: in.Name}, nil
}
func (f *fakeAPI) DeleteProduct(context.Context, string) error { return nil }
func (f *fakeAPI) AdminOrders(context.Context) ([]domain.Order, error) {
	return append([]domain.Order(nil), f.orders...), nil
}
func (f *fakeAPI) SetOrderStatus(_ context.Context, id string, s domain.OrderStatus) error {
	f.statuses[id] = s
	return nil
}
func (f *fakeAPI) AdminUsers(context.Context) ([]domain.User, error) {
	return []domain.User{{ID: "u1"}}, nil
}
func (f *fakeAPI) DeleteUser(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}
func (f *fakeAPI) DailyRevenue(_ context.Context, date string) (domain.DailyRevenue, error) {
	if f.failDay {
		return domain.DailyRevenue{}, domain.ErrValidation("bad date")
	}
	return domain.DailyRevenue{Date: date, TotalRevenue: decimal.NewFromInt(1500), TotalOrders: 2}, nil
}
func (f *fakeAPI) WeeklyRevenue(context.Context) (domain.WeeklyRevenue, error) {
	return domain.WeeklyRevenue{WeekStart: "2026-04-12", WeekEnd: "2026-04-18", TotalRevenue: decimal.NewFromInt(4000), TotalOrders: 5}, nil
}
func (f *fakeAPI) MonthlyRevenue(_ context.Context, year int) (domain.MonthlyRevenue, error) {
	return domain.MonthlyRevenue{Year: year, MonthlyRevenue: []domain.MonthRevenue{{Month: 4, TotalRevenue: decimal.NewFromInt(9000), TotalOrders: 9}}}, nil
}
func (f *fakeAPI) YearlyRevenue(context.Context) (domain.YearlyRevenue, error) {
	if f.failYear {
		return domain.YearlyRevenue{}, errors.New("backend down")
	}
	return domain.YearlyRevenue{YearlyRevenue: []domain.YearRevenue{
		{Year: 2025, TotalRevenue: decimal.NewFromInt(50000)},
		{Year: 2026, TotalRevenue: decimal.NewFromInt(12000)},
	}}, nil
}
func (f *fakeAPI) RangeRevenue(_ context.Context, from, to string) (domain.RangeRevenue, error) {
	f.mu.Lock()
	f.rangeHit = true
	f.mu.Unlock()
	return domain.RangeRevenue{From: from, To: to, TotalRevenue: decimal.NewFromInt(300)}, nil
}
func (f *fakeAPI) MonthlyReport(_ context.Context, year, month int) (domain.MonthlyReport, error) {
	return domain.MonthlyReport{Year: year, Month: month, TotalRevenue: decimal.NewFromInt(9000),
		BestProduct: &domain.BestProduct{Name: "Ring", TotalQuantity: 4, TotalRevenue: decimal.NewFromInt(3600)}}, nil
}

func newConsole(t *testing.T) (*Console, *fakeAPI, clientstore.Store) {
	t.Helper()
	f := newFake()
	store := clientstore.NewMemoryStore()
	c := New(f, store, nil)
	c.Now = func() time.Time { return now }
	return c, f, store
}

func orderIDs(list []domain.Order) []string {
	out := make([]string, 0, len(list))
	for _, o := range list {
		out = append(out, o.ID)
	}
	return out
}

func TestDashboard(t *testing.T) {
	c, _, _ := newConsole(t)
	_, err := c.Inbox.Submit(domain.ContactMessage{Name: "Asha", Email: "asha@example.com", Message: "Hi"})
	require.NoError(t, err)

	counts, err := c.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Counts{Products: 12, Orders: 7, Users: 3, Messages: 1}, counts)
}

func TestOrders_Filters(t *testing.T) {
	c, _, _ := newConsole(t)
	ctx := context.Background()
	cases := []struct {
		f    OrderFilter
		want []string
	}{
		{OrderFilter{}, []string{"today", "sunday", "lastweek", "picked", "march"}},
		{OrderFilter{Date: DateToday}, []string{"today"}},
		{OrderFilter{Date: DateWeek}, []string{"today", "sunday"}},
		{OrderFilter{Date: DateMonth}, []string{"today", "sunday", "lastweek", "picked"}},
		{OrderFilter{Status: "Delivered", Date: DateMonth}, []string{"lastweek", "picked"}},
		{OrderFilter{Status: "Returned"}, []string{"picked"}},
	}
	for _, tc := range cases {
		got, err := c.Orders(ctx, tc.f)
		require.NoError(t, err)
		assert.Equal(t, tc.want, orderIDs(got), "%+v", tc.f)
	}

	_, err := c.Orders(ctx, OrderFilter{Date: "Yesterday"})
	assert.Error(t, err)
}

func TestUpdateStatus_FollowsTransitionTable(t *testing.T) {
	c, f, _ := newConsole(t)
	ctx := context.Background()

	require.NoError(t, c.UpdateStatus(ctx, "sunday", domain.StatusDelivered))
	assert.Equal(t, domain.StatusDelivered, f.statuses["sunday"])

	err := c.UpdateStatus(ctx, "march", domain.StatusPending)
	var conflict domain.ErrConflict
	require.ErrorAs(t, err, &conflict)
	_, called := f.statuses["march"]
	assert.False(t, called)

	require.NoError(t, c.UpdateStatus(ctx, "today", domain.StatusPending))
	_, called = f.statuses["today"]
	assert.False(t, called)

	assert.Error(t, c.UpdateStatus(ctx, "today", "Lost"))
	var nf domain.ErrNotFound
	assert.ErrorAs(t, c.UpdateStatus(ctx, "nope", domain.StatusShipped), &nf)
}

func TestProducts(t *testing.T) {
	c, f, _ := newConsole(t)
	ctx := context.Background()

	list, err := c.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", list[0].ID)

	_, err = c.CreateProduct(ctx, domain.ProductInput{Name: "  ", Category: "Rings", Price: decimal.NewFromInt(10)})
	assert.Error(t, err)
	_, err = c.CreateProduct(ctx, domain.ProductInput{Name: "Ring", Category: "Rings"})
	assert.Error(t, err)
	assert.Empty(t, f.created)

	p, err := c.CreateProduct(ctx, domain.ProductInput{Name: " Ring ", Category: "Rings", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, "Ring", p.Name)
}

func TestUsers(t *testing.T) {
	c, f, _ := newConsole(t)
	users, err := c.Users(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
	require.NoError(t, c.DeleteUser(context.Background(), "u1"))
	assert.Equal(t, []string{"u1"}, f.deleted)
	assert.Error(t, c.DeleteUser(context.Background(), ""))
}

func TestInbox(t *testing.T) {
	c, _, store := newConsole(t)
	in := c.Inbox
	tick := now
	in.now = func() time.Time { tick = tick.Add(time.Minute); return tick }

	_, err := in.Submit(domain.ContactMessage{Name: "A", Email: "not-an-email", Message: "x"})
	require.Error(t, err)
	_, err = in.Submit(domain.ContactMessage{Name: "A", Email: "a@example.com"})
	require.Error(t, err)

	first, err := in.Submit(domain.ContactMessage{Name: "A", Email: "a@example.com", Message: "first"})
	require.NoError(t, err)
	second, err := in.Submit(domain.ContactMessage{Name: "B", Email: "b@example.com", Message: "second"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	list, err := in.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)

	require.NoError(t, in.Delete(first.ID))
	var nf domain.ErrNotFound
	assert.ErrorAs(t, in.Delete(first.ID), &nf)

	raw, ok, err := store.Get(clientstore.KeyContactMessages)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, second.ID)
	assert.NotContains(t, raw, first.ID)
}

func TestRevenue(t *testing.T) {
	c, f, _ := newConsole(t)
	r, err := c.Revenue(context.Background(), RevenueQuery{})
	require.NoError(t, err)
	assert.Equal(t, "2026-04-15", r.Daily.Date)
	assert.Equal(t, 2026, r.Monthly.Year)
	assert.True(t, r.YearTotal.Equal(decimal.NewFromInt(12000)))
	assert.Equal(t, 4, r.Report.Month)
	assert.Nil(t, r.Range)
	assert.False(t, f.rangeHit)

	r, err = c.Revenue(context.Background(), RevenueQuery{From: "2026-04-01", To: "2026-04-10"})
	require.NoError(t, err)
	require.NotNil(t, r.Range)
	assert.True(t, r.Range.TotalRevenue.Equal(decimal.NewFromInt(300)))

	_, err = c.Revenue(context.Background(), RevenueQuery{From: "2026-04-10", To: "2026-04-01"})
	assert.Error(t, err)
	_, err = c.Revenue(context.Background(), RevenueQuery{From: "2026-04-10"})
	assert.Error(t, err)

	f.failYear = true
	_, err = c.Revenue(context.Background(), RevenueQuery{})
	assert.ErrorContains(t, err, "yearly revenue")
}

func TestRevenue_SeveralFailuresReportAll(t *testing.T) {
	c, f, _ := newConsole(t)
	f.failYear = true
	f.failDay = true
	for i := 0; i < 20; i++ {
		_, err := c.Revenue(context.Background(), RevenueQuery{})
		require.Error(t, err)
		assert.Equal(t, "daily revenue: bad date\nyearly revenue: backend down", err.Error())
		var verr domain.ErrValidation
		assert.ErrorAs(t, err, &verr)
	}
}

func TestExportRevenue(t *testing.T) {
	c, _, _ := newConsole(t)
	b, name, err := c.ExportRevenue(context.Background(), RevenueQuery{Year: 2026, Month: 4})
	require.NoError(t, err)
	assert.Equal(t, "revenue_2026-04.xlsx", name)

	wb, err := xlsx.OpenBinary(b)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 4)
	assert.Equal(t, "Summary", wb.Sheets[0].Name)
	monthly := wb.Sheets[1]
	require.Len(t, monthly.Rows, 2)
	assert.Equal(t, "Apr", monthly.Rows[1].Cells[0].Value)
	assert.Equal(t, "9000", monthly.Rows[1].Cells[1].Value)
	report := wb.Sheets[3]
	assert.Equal(t, "Ring", report.Rows[1].Cells[3].Value)
}

func TestExportOrders(t *testing.T) {
	c, _, _ := newConsole(t)
	b, name, err := c.ExportOrders(context.Background(), OrderFilter{Status: "Returned"})
	require.NoError(t, err)
	assert.Equal(t, "orders_20260415.xlsx", name)

	wb, err := xlsx.OpenBinary(b)
	require.NoError(t, err)
	rows := wb.Sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "picked", rows[1].Cells[0].Value)
	assert.Equal(t, "Ring", rows[1].Cells[6].Value)
}
