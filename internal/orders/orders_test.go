package orders

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldmart/internal/api"
	"goldmart/internal/domain"
	"goldmart/internal/infrastructure/asset"
)

var now = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

type fakeAPI struct {
	orders    []domain.Order
	fetches   int
	cancelled map[string]string
	returned  map[string]string
	err       error
}

func (f *fakeAPI) MyOrders(context.Context) ([]domain.Order, error) {
	f.fetches++
	return append([]domain.Order(nil), f.orders...), nil
}

func (f *fakeAPI) CancelOrder(_ context.Context, id, reason string) error {
	if f.err != nil {
		return f.err
	}
	f.cancelled[id] = reason
	return nil
}

func (f *fakeAPI) RequestReturn(_ context.Context, id, reason string) error {
	if f.err != nil {
		return f.err
	}
	f.returned[id] = reason
	return nil
}

func (f *fakeAPI) Invoice(_ context.Context, id string) ([]byte, error) {
	return []byte("%PDF " + id), nil
}

func at(d time.Duration) *time.Time {
	t := now.Add(-d)
	return &t
}

func newService(t *testing.T) (*Service, *fakeAPI) {
	t.Helper()
	f := &fakeAPI{
		cancelled: map[string]string{},
		returned:  map[string]string{},
		orders: []domain.Order{
			{ID: "old", Status: domain.StatusPending, CreatedAt: now.Add(-72 * time.Hour)},
			{ID: "new", Status: domain.StatusShipped, CreatedAt: now.Add(-time.Hour), EstimatedDelivery: at(-48 * time.Hour)},
			{ID: "del7", Status: domain.StatusDelivered, CreatedAt: now.Add(-10 * 24 * time.Hour), DeliveredAt: at(7 * 24 * time.Hour)},
			{ID: "del8", Status: domain.StatusDelivered, CreatedAt: now.Add(-11 * 24 * time.Hour), DeliveredAt: at(8 * 24 * time.Hour)},
			{ID: "picked", Status: domain.StatusDelivered, CreatedAt: now.Add(-30 * 24 * time.Hour), DeliveredAt: at(20 * 24 * time.Hour), ReturnRequested: true, ReturnApproved: true, ReturnPickupDone: true},
		},
	}
	s := New(f, asset.NewFSWriter(t.TempDir()), nil)
	s.Now = func() time.Time { return now }
	return s, f
}

func ids(vs []View) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.ID)
	}
	return out
}

func TestList_SortsAndFilters(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	all, err := s.List(ctx, FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old", "del7", "del8", "picked"}, ids(all))

	delivered, err := s.List(ctx, "Delivered")
	require.NoError(t, err)
	assert.Equal(t, []string{"del7", "del8", "picked"}, ids(delivered))

	returned, err := s.List(ctx, "Returned")
	require.NoError(t, err)
	assert.Equal(t, []string{"picked"}, ids(returned))

	_, err = s.List(ctx, "Lost")
	assert.Error(t, err)
}

func TestView_DisplayState(t *testing.T) {
	s, _ := newService(t)
	all, err := s.List(context.Background(), FilterAll)
	require.NoError(t, err)
	byID := map[string]View{}
	for _, v := range all {
		byID[v.ID] = v
	}
	assert.True(t, byID["new"].Cancellable)
	assert.True(t, byID["new"].ShowEstimatedDelivery)
	assert.False(t, byID["del7"].Cancellable)
	assert.True(t, byID["del7"].Returnable)
	assert.False(t, byID["del8"].Returnable)
	assert.Equal(t, "Return window expired.", byID["del8"].ReturnBlocked)
	assert.Equal(t, "Returned", byID["picked"].ReturnStage)
}

func TestCancel(t *testing.T) {
	s, f := newService(t)
	ctx := context.Background()

	res := s.Cancel(ctx, "old", "")
	assert.ErrorIs(t, res.Err, domain.ErrReasonRequired)
	assert.Empty(t, f.cancelled)
	assert.Len(t, res.Orders, 5)

	res = s.Cancel(ctx, "del7", "Changed my mind")
	require.Error(t, res.Err)
	assert.Equal(t, "Order can no longer be cancelled.", Message(res.Err))
	assert.Empty(t, f.cancelled)

	res = s.Cancel(ctx, "old", "Changed my mind")
	require.NoError(t, res.Err)
	assert.Equal(t, "Changed my mind", f.cancelled["old"])
}

func TestRequestReturn_Window(t *testing.T) {
	s, f := newService(t)
	ctx := context.Background()

	res := s.RequestReturn(ctx, "del8", "Product damaged", true)
	assert.ErrorIs(t, res.Err, domain.ErrReturnWindowExpired)

	res = s.RequestReturn(ctx, "del7", "Product damaged", false)
	require.Error(t, res.Err)
	assert.Empty(t, f.returned)

	res = s.RequestReturn(ctx, "del7", "Product damaged", true)
	require.NoError(t, res.Err)
	assert.Equal(t, "Product damaged", f.returned["del7"])

	res = s.RequestReturn(ctx, "picked", "Product damaged", true)
	assert.Error(t, res.Err)
}

func TestActionFailure_RefetchesAndKeepsBackendMessage(t *testing.T) {
	s, f := newService(t)
	f.err = &api.Error{Status: 400, Message: "Order already shipped"}
	before := f.fetches
	res := s.Cancel(context.Background(), "old", "Ordered by mistake")
	require.Error(t, res.Err)
	assert.Equal(t, "Order already shipped", Message(res.Err))
	assert.Greater(t, f.fetches, before+1)
	assert.Len(t, res.Orders, 5)

	assert.Equal(t, GenericFailure, Message(errors.New("dial tcp: refused")))
}

func TestCancel_UnknownOrder(t *testing.T) {
	s, _ := newService(t)
	res := s.Cancel(context.Background(), "missing", "Changed my mind")
	var nf domain.ErrNotFound
	assert.ErrorAs(t, res.Err, &nf)
}

func TestDownloadInvoice(t *testing.T) {
	s, _ := newService(t)
	p, err := s.DownloadInvoice(context.Background(), "del7")
	require.NoError(t, err)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "%PDF del7", string(b))
}
