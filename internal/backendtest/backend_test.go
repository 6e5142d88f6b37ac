package backendtest_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldmart/internal/api"
	"goldmart/internal/backendtest"
	"goldmart/internal/domain"
)

type tokens struct{ user, admin string }

func (t *tokens) Token() string      { return t.user }
func (t *tokens) AdminToken() string { return t.admin }

type env struct {
	backend *backendtest.Backend
	client  *api.Client
	tokens  *tokens
	now     time.Time
}

func setup(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	e := &env{now: time.Date(2026, 5, 6, 10, 0, 0, 0, time.UTC), tokens: &tokens{}}
	e.backend = backendtest.New(backendtest.Options{
		JWTSecret:     "test-secret",
		AdminEmail:    "admin@goldmart.test",
		AdminPassword: "admin123",
		Now:           func() time.Time { return time.Date(2026, 5, 6, 10, 0, 0, 0, time.UTC) },
	})
	srv := httptest.NewServer(e.backend.Handler())
	t.Cleanup(srv.Close)
	e.client = api.New(srv.URL+"/api", 5*time.Second, e.tokens, nil)
	return e
}

// advance moves the backend clock; the lock in SetNow orders it with handlers.
func (e *env) advance(d time.Duration) {
	e.now = e.now.Add(d)
	at := e.now
	e.backend.SetNow(func() time.Time { return at })
}

func address() domain.Address {
	return domain.Address{Name: "Asha", Phone: "9876543210", Street: "1 MG Road", City: "Kochi", State: "Kerala", Pincode: "682001"}
}

func (e *env) login(t *testing.T) domain.User {
	t.Helper()
	ctx := context.Background()
	_, err := e.client.Register(ctx, domain.Registration{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)
	u, err := e.client.Login(ctx, domain.Credentials{Email: "ASHA@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, u.Token)
	e.tokens.user = u.Token
	tok, err := e.client.AdminLogin(ctx, domain.Credentials{Email: "admin@goldmart.test", Password: "admin123"})
	require.NoError(t, err)
	e.tokens.admin = tok
	return u
}

func (e *env) placeOrder(t *testing.T, key string) domain.Order {
	t.Helper()
	p := e.backend.SeedProduct(domain.Product{Name: "Ring", Category: "Rings", Price: decimal.NewFromInt(1000)})
	o, err := e.client.CreateOrder(context.Background(), api.PlaceOrderRequest{
		OrderItems:      []domain.OrderItem{{Product: p.ID, Name: p.Name, Qty: 2, Price: p.Price}},
		ShippingAddress: address(),
		PaymentMethod:   "COD",
		TotalPrice:      decimal.NewFromInt(2000),
	}, key)
	require.NoError(t, err)
	return o
}

func TestAuth(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.login(t)

	_, err := e.client.Register(ctx, domain.Registration{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	assert.Equal(t, "User already exists", api.MessageOf(err, ""))

	_, err = e.client.Login(ctx, domain.Credentials{Email: "asha@example.com", Password: "wrong"})
	assert.True(t, api.IsUnauthorized(err))

	_, err = e.client.AdminLogin(ctx, domain.Credentials{Email: "asha@example.com", Password: "secret1"})
	assert.True(t, api.IsUnauthorized(err))

	require.NoError(t, e.client.SaveAddress(ctx, address(), nil))
	second := address()
	second.City = "Thrissur"
	require.NoError(t, e.client.SaveAddress(ctx, second, nil))
	require.NoError(t, e.client.SetDefaultAddress(ctx, 1))
	u, err := e.client.Profile(ctx)
	require.NoError(t, err)
	require.Len(t, u.Addresses, 2)
	assert.Equal(t, 1, u.DefaultAddressIndex)

	require.NoError(t, e.client.DeleteAddress(ctx, 0))
	u, err = e.client.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, u.DefaultAddressIndex)
	assert.Equal(t, "Thrissur", u.Addresses[0].City)

	require.NoError(t, e.client.UpdateProfile(ctx, domain.ProfileUpdate{Name: "Asha K", Email: "asha@example.com"}))
	u, err = e.client.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha K", u.Name)
}

func TestExpiredTokenIsUnauthorized(t *testing.T) {
	e := setup(t)
	e.login(t)
	var forced int
	e.client.OnUnauthorized = func() { forced++ }

	e.advance(backendtest.TokenTTL + time.Minute)
	_, err := e.client.MyOrders(context.Background())
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, 1, forced)
}

func TestOrders_IdempotentCreate(t *testing.T) {
	e := setup(t)
	e.login(t)
	a := e.placeOrder(t, "key-1")
	assert.Equal(t, domain.StatusPending, a.Status)
	require.NotNil(t, a.EstimatedDelivery)
	again := e.placeOrder(t, "key-1")
	assert.Equal(t, a.ID, again.ID)

	_, err := e.client.CreateOrder(context.Background(), api.PlaceOrderRequest{
		OrderItems:      []domain.OrderItem{{Product: "p", Name: "Ring", Qty: 1, Price: decimal.NewFromInt(10)}},
		ShippingAddress: address(),
		PaymentMethod:   "COD",
		TotalPrice:      decimal.NewFromInt(99),
	}, "")
	assert.Equal(t, "Total price mismatch", api.MessageOf(err, ""))

	list, err := e.client.MyOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOrders_CancelAndReturn(t *testing.T) {
	e := setup(t)
	e.login(t)
	ctx := context.Background()

	o := e.placeOrder(t, "")
	require.NoError(t, e.client.CancelOrder(ctx, o.ID, "Changed my mind"))
	got, _ := e.backend.Order(o.ID)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Error(t, e.client.CancelOrder(ctx, o.ID, "Changed my mind"))

	o = e.placeOrder(t, "")
	err := e.client.RequestReturn(ctx, o.ID, "Product damaged")
	assert.Error(t, err)

	require.NoError(t, e.client.SetOrderStatus(ctx, o.ID, domain.StatusShipped))
	require.NoError(t, e.client.SetOrderStatus(ctx, o.ID, domain.StatusDelivered))
	got, _ = e.backend.Order(o.ID)
	require.NotNil(t, got.DeliveredAt)
	assert.Error(t, e.client.CancelOrder(ctx, o.ID, "Changed my mind"))

	e.advance(8 * 24 * time.Hour)
	err = e.client.RequestReturn(ctx, o.ID, "Product damaged")
	assert.Equal(t, "Return window expired.", api.MessageOf(err, ""))

	e.advance(-24 * time.Hour)
	require.NoError(t, e.client.RequestReturn(ctx, o.ID, "Product damaged"))
	got, _ = e.backend.Order(o.ID)
	assert.True(t, got.ReturnRequested)

	pdf, err := e.client.Invoice(ctx, o.ID)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), "%PDF-1.4")
	assert.Contains(t, string(pdf), o.ID)
}

func TestAdmin_RequiresAdminToken(t *testing.T) {
	e := setup(t)
	e.login(t)
	e.tokens.admin = e.tokens.user
	_, err := e.client.AdminOrders(context.Background())
	assert.Equal(t, 403, api.StatusOf(err))
}

func TestAdmin_CountsAndRevenue(t *testing.T) {
	e := setup(t)
	e.login(t)
	ctx := context.Background()
	e.placeOrder(t, "")
	cancelled := e.placeOrder(t, "")
	require.NoError(t, e.client.CancelOrder(ctx, cancelled.ID, "Changed my mind"))

	n, err := e.client.Count(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = e.client.Count(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	d, err := e.client.DailyRevenue(ctx, "2026-05-06")
	require.NoError(t, err)
	assert.True(t, d.TotalRevenue.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, 1, d.TotalOrders)

	w, err := e.client.WeeklyRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-03", w.WeekStart)
	assert.Equal(t, "2026-05-09", w.WeekEnd)

	m, err := e.client.MonthlyRevenue(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, m.MonthlyRevenue, 12)
	assert.True(t, m.MonthlyRevenue[4].TotalRevenue.Equal(decimal.NewFromInt(2000)))

	y, err := e.client.YearlyRevenue(ctx)
	require.NoError(t, err)
	require.Len(t, y.YearlyRevenue, 1)
	assert.Equal(t, 2026, y.YearlyRevenue[0].Year)

	r, err := e.client.RangeRevenue(ctx, "2026-05-01", "2026-05-06")
	require.NoError(t, err)
	assert.True(t, r.TotalRevenue.Equal(decimal.NewFromInt(2000)))

	rep, err := e.client.MonthlyReport(ctx, 2026, 5)
	require.NoError(t, err)
	require.NotNil(t, rep.BestProduct)
	assert.Equal(t, "Ring", rep.BestProduct.Name)
	assert.Equal(t, 2, rep.BestProduct.TotalQuantity)
}

func TestCatalogAndReviews(t *testing.T) {
	e := setup(t)
	e.login(t)
	ctx := context.Background()

	p, err := e.client.CreateProduct(ctx, domain.ProductInput{Name: "Bangle", Category: "Bangles", Price: decimal.NewFromInt(5000), Stock: 3})
	require.NoError(t, err)
	cats, err := e.client.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bangles"}, cats)

	rv, err := e.client.AddReview(ctx, p.ID, domain.ReviewInput{Rating: 4, Comment: "Lovely"})
	require.NoError(t, err)
	_, err = e.client.AddReview(ctx, p.ID, domain.ReviewInput{Rating: 5, Comment: "Again"})
	assert.Equal(t, "Product already reviewed", api.MessageOf(err, ""))

	_, err = e.client.UpdateReview(ctx, p.ID, rv.ID, domain.ReviewInput{Rating: 2, Comment: "Tarnished"})
	require.NoError(t, err)
	got, err := e.client.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.NumReviews)
	assert.InDelta(t, 2.0, got.Rating, 0.001)

	require.NoError(t, e.client.DeleteReview(ctx, p.ID, rv.ID))
	require.NoError(t, e.client.DeleteProduct(ctx, p.ID))
	_, err = e.client.Product(ctx, p.ID)
	assert.Equal(t, 404, api.StatusOf(err))
}
