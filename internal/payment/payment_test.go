package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldmart/internal/api"
	"goldmart/internal/cart"
	"goldmart/internal/clientstore"
	"goldmart/internal/domain"
)

func TestValidateRequest(t *testing.T) {
	amt := decimal.NewFromInt(2500)
	cases := []struct {
		name string
		req  Request
		msg  string
	}{
		{"upi ok", Request{Method: MethodUPI, Amount: amt, PIN: "1234"}, ""},
		{"upi short pin", Request{Method: MethodUPI, Amount: amt, PIN: "123"}, "Enter 4-digit PIN"},
		{"upi letters", Request{Method: MethodUPI, Amount: amt, PIN: "12a4"}, "Enter 4-digit PIN"},
		{"card ok", Request{Method: MethodCard, Amount: amt, CardNumber: "4111 1111 1111 1111", CVV: "123"}, ""},
		{"card short", Request{Method: MethodCard, Amount: amt, CardNumber: "4111", CVV: "123"}, "Enter a valid card number"},
		{"card cvv", Request{Method: MethodCard, Amount: amt, CardNumber: "4111111111111111", CVV: "12"}, "Enter a valid CVV"},
		{"cod", Request{Method: MethodCOD, Amount: amt}, ""},
		{"no method", Request{Amount: amt}, "Select a payment method first!"},
		{"zero amount", Request{Method: MethodCOD}, "amount must be greater than zero"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.req)
			if tc.msg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.msg, err.Error())
		})
	}
}

func TestModal_InvalidInputStaysCollecting(t *testing.T) {
	m := NewModal(&Simulator{}, 0, nil)
	_, err := m.Submit(context.Background(), Request{Method: MethodUPI, Amount: decimal.NewFromInt(10), PIN: "12"})
	require.Error(t, err)
	assert.Equal(t, StepCollecting, m.Step())
}

func TestModal_SuccessRunsCallbackAfterDelay(t *testing.T) {
	var calledAt time.Time
	m := NewModal(&Simulator{Delay: 20 * time.Millisecond}, 30*time.Millisecond, func(context.Context, Request, Outcome) error {
		calledAt = time.Now()
		return nil
	})
	start := time.Now()
	out, err := m.Submit(context.Background(), Request{Method: MethodUPI, Amount: decimal.NewFromInt(10), PIN: "1234"})
	require.NoError(t, err)
	assert.True(t, out.Succeeded())
	assert.NotEmpty(t, out.Reference)
	assert.Equal(t, StepSuccess, m.Step())
	assert.GreaterOrEqual(t, calledAt.Sub(start), 50*time.Millisecond)
}

func TestModal_ProcessingIsObservable(t *testing.T) {
	m := NewModal(&Simulator{Delay: 100 * time.Millisecond}, 0, nil)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = m.Submit(context.Background(), Request{Method: MethodCOD, Amount: decimal.NewFromInt(1)})
	}()
	require.Eventually(t, func() bool { return m.Step() == StepProcessing }, time.Second, 5*time.Millisecond)
	_, err := m.Submit(context.Background(), Request{Method: MethodCOD, Amount: decimal.NewFromInt(1)})
	assert.Error(t, err)
	wg.Wait()
	assert.Equal(t, StepSuccess, m.Step())
}

func TestModal_DeclineThenRetry(t *testing.T) {
	declines := 1
	sim := &Simulator{Decline: func(Request) string {
		if declines > 0 {
			declines--
			return "Bank declined"
		}
		return ""
	}}
	called := 0
	m := NewModal(sim, 0, func(context.Context, Request, Outcome) error { called++; return nil })
	req := Request{Method: MethodCard, Amount: decimal.NewFromInt(5), CardNumber: "4111111111111111", CVV: "123"}

	out, err := m.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, "Bank declined", out.Reason)
	assert.Equal(t, StepFailed, m.Step())
	assert.Zero(t, called)

	m.Reset()
	out, err = m.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, out.Succeeded())
	assert.Equal(t, 1, called)
}

func TestModal_ContextCancelled(t *testing.T) {
	m := NewModal(&Simulator{Delay: time.Second}, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Submit(ctx, Request{Method: MethodCOD, Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StepFailed, m.Step())
}

// cancelOnPay approves the charge and then cancels the caller's context.
type cancelOnPay struct{ cancel context.CancelFunc }

func (p cancelOnPay) Pay(context.Context, Request) (Outcome, error) {
	p.cancel()
	return Outcome{Status: StatusSucceeded, Reference: "pay-1"}, nil
}

func TestModal_SuccessOutlivesCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var cbErr error
	m := NewModal(cancelOnPay{cancel: cancel}, 20*time.Millisecond, func(ctx context.Context, _ Request, _ Outcome) error {
		cbErr = ctx.Err()
		return nil
	})
	out, err := m.Submit(ctx, Request{Method: MethodCOD, Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.True(t, out.Succeeded())
	assert.NoError(t, cbErr)
	assert.Equal(t, StepSuccess, m.Step())
}

type fakeOrders struct {
	got  api.PlaceOrderRequest
	keys []string
	err  error
}

func (f *fakeOrders) CreateOrder(_ context.Context, in api.PlaceOrderRequest, key string) (domain.Order, error) {
	if f.err != nil {
		return domain.Order{}, f.err
	}
	f.got = in
	f.keys = append(f.keys, key)
	return domain.Order{ID: "ord-1", Status: domain.StatusPending, TotalPrice: in.TotalPrice}, nil
}

func newCheckout(t *testing.T, declined bool) (*Checkout, *cart.Manager, *fakeOrders) {
	t.Helper()
	store := clientstore.NewMemoryStore()
	c := cart.New(store, nil)
	require.NoError(t, c.Add(domain.Product{ID: "p1", Name: "Ring", Price: decimal.NewFromInt(1000)}))
	require.NoError(t, c.Add(domain.Product{ID: "p1", Name: "Ring", Price: decimal.NewFromInt(1000)}))
	require.NoError(t, c.Add(domain.Product{ID: "p2", Name: "Chain", Price: decimal.NewFromInt(500)}))
	require.NoError(t, clientstore.SetJSON(store, clientstore.KeyCheckoutAddress, domain.Address{
		Name: "Asha", Phone: "9876543210", Street: "1 MG Road", City: "Kochi", State: "Kerala", Pincode: "682001",
	}))
	sim := &Simulator{}
	if declined {
		sim.Decline = func(Request) string { return "declined" }
	}
	fo := &fakeOrders{}
	return &Checkout{Orders: fo, Cart: c, Store: store, Provider: sim}, c, fo
}

func TestCheckout_PaySuccessPlacesOrderAndClearsCart(t *testing.T) {
	co, c, fo := newCheckout(t, false)
	res, err := co.Pay(context.Background(), Request{Method: MethodUPI, PIN: "4321"})
	require.NoError(t, err)
	require.NotNil(t, res.Order)
	assert.Equal(t, "ord-1", res.Order.ID)
	assert.True(t, c.Empty())

	assert.True(t, fo.got.TotalPrice.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, "UPI", fo.got.PaymentMethod)
	assert.Equal(t, res.Outcome.Reference, fo.got.PaymentRef)
	require.Len(t, fo.got.OrderItems, 2)
	assert.Equal(t, 2, fo.got.OrderItems[0].Qty)
	assert.Equal(t, "Kochi", fo.got.ShippingAddress.City)
	require.Len(t, fo.keys, 1)
	assert.NotEmpty(t, fo.keys[0])

	last, ok := co.LastOrder()
	require.True(t, ok)
	assert.Equal(t, "ord-1", last.ID)
}

func TestCheckout_DeclinedKeepsCart(t *testing.T) {
	co, c, fo := newCheckout(t, true)
	res, err := co.Pay(context.Background(), Request{Method: MethodCOD})
	require.NoError(t, err)
	assert.Nil(t, res.Order)
	assert.Equal(t, StatusFailed, res.Outcome.Status)
	assert.Equal(t, 3, c.Count())
	assert.Empty(t, fo.keys)
}

func TestCheckout_OrderFailureKeepsCart(t *testing.T) {
	co, c, fo := newCheckout(t, false)
	fo.err = &api.Error{Status: 500, Message: "Server error"}
	res, err := co.Pay(context.Background(), Request{Method: MethodCOD})
	require.Error(t, err)
	assert.True(t, res.Outcome.Succeeded())
	assert.Equal(t, "Server error", api.MessageOf(err, "Order failed"))
	assert.False(t, c.Empty())
}

func TestCheckout_Preconditions(t *testing.T) {
	store := clientstore.NewMemoryStore()
	co := &Checkout{Orders: &fakeOrders{}, Cart: cart.New(store, nil), Store: store, Provider: &Simulator{}}
	_, err := co.Pay(context.Background(), Request{Method: MethodCOD})
	assert.True(t, errors.Is(err, domain.ErrEmptyCart))

	require.NoError(t, co.Cart.(*cart.Manager).Add(domain.Product{ID: "p", Price: decimal.NewFromInt(1)}))
	_, err = co.Pay(context.Background(), Request{Method: MethodCOD})
	assert.True(t, errors.Is(err, domain.ErrNoAddress))
}

func TestCheckout_DeclineThenRetry(t *testing.T) {
	co, c, fo := newCheckout(t, false)
	declines := 1
	co.Provider = &Simulator{Decline: func(Request) string {
		if declines > 0 {
			declines--
			return "Bank declined"
		}
		return ""
	}}
	assert.Equal(t, StepCollecting, co.Step())

	res, err := co.Pay(context.Background(), Request{Method: MethodUPI, PIN: "4321"})
	require.NoError(t, err)
	assert.Nil(t, res.Order)
	assert.Equal(t, StepFailed, co.Step())
	assert.Equal(t, 3, c.Count())

	res, err = co.Pay(context.Background(), Request{Method: MethodUPI, PIN: "4321"})
	require.NoError(t, err)
	require.NotNil(t, res.Order)
	assert.Equal(t, StepSuccess, co.Step())
	assert.True(t, c.Empty())
	assert.Len(t, fo.keys, 1)
}

func TestCheckout_PlacesOrderWhenCallerGoesAway(t *testing.T) {
	co, c, fo := newCheckout(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	co.Provider = cancelOnPay{cancel: cancel}
	co.SuccessDelay = 10 * time.Millisecond

	res, err := co.Pay(ctx, Request{Method: MethodCOD})
	require.NoError(t, err)
	require.NotNil(t, res.Order)
	assert.True(t, c.Empty())
	assert.Len(t, fo.keys, 1)
}

func TestCheckout_CartChangedDuringPayment(t *testing.T) {
	co, c, fo := newCheckout(t, false)
	co.Provider = &Simulator{Decline: func(Request) string {
		_ = c.Add(domain.Product{ID: "p3", Name: "Bangle", Price: decimal.NewFromInt(700)})
		return ""
	}}
	res, err := co.Pay(context.Background(), Request{Method: MethodCOD})
	require.Error(t, err)
	assert.True(t, res.Outcome.Succeeded())
	var cerr domain.ErrConflict
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Cart changed during payment.", cerr.Error())
	assert.Empty(t, fo.keys)
}
