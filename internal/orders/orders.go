// Package orders drives the customer's order history: listing, filtering,
// cancellation, return requests and invoice downloads.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"goldmart/internal/api"
	"goldmart/internal/domain"
	"goldmart/internal/logger"
	"goldmart/internal/logger/sl"
)

const FilterAll = "All"

// GenericFailure is shown when the backend gave no message of its own.
const GenericFailure = "Something went wrong."

type API interface {
	MyOrders(ctx context.Context) ([]domain.Order, error)
	CancelOrder(ctx context.Context, id, reason string) error
	RequestReturn(ctx context.Context, id, reason string) error
	Invoice(ctx context.Context, id string) ([]byte, error)
}

type Downloader interface {
	Write(kind, filename string, data []byte) (string, error)
}

type Service struct {
	API       API
	Downloads Downloader
	Now       func() time.Time
	Log       *slog.Logger
}

func New(a API, downloads Downloader, log *slog.Logger) *Service {
	return &Service{API: a, Downloads: downloads, Now: time.Now, Log: log}
}

// View is one order with the display state derived from it at a given time.
type View struct {
	domain.Order
	Cancellable           bool   `json:"cancellable"`
	Returnable            bool   `json:"returnable"`
	ReturnBlocked         string `json:"returnBlocked,omitempty"`
	ReturnStage           string `json:"returnStage,omitempty"`
	ShowEstimatedDelivery bool   `json:"showEstimatedDelivery"`
}

// ActionResult carries the refreshed list after an action. Err is the
// action's own failure; the list is re-fetched either way.
type ActionResult struct {
	Orders []View
	Err    error
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// List fetches the user's orders newest first and keeps those matching filter.
func (s *Service) List(ctx context.Context, filter string) ([]View, error) {
	if filter != "" && filter != FilterAll {
		if _, err := domain.ParseOrderStatus(filter); err != nil {
			return nil, err
		}
	}
	all, err := s.API.MyOrders(ctx)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(all)
	now := s.now()
	out := make([]View, 0, len(all))
	for _, o := range all {
		if Matches(o, filter) {
			out = append(out, NewView(o, now))
		}
	}
	return out, nil
}

func NewView(o domain.Order, now time.Time) View {
	v := View{
		Order:                 o,
		Cancellable:           o.Cancellable(),
		ReturnStage:           o.ReturnStage(),
		ShowEstimatedDelivery: o.ShowEstimatedDelivery(),
	}
	if err := o.CheckReturn(now); err == nil {
		v.Returnable = true
	} else if o.Status == domain.StatusDelivered && !o.ReturnRequested {
		v.ReturnBlocked = err.Error()
	}
	return v
}

// Matches applies a status filter. Returned also covers orders whose return
// pickup is done.
func Matches(o domain.Order, filter string) bool {
	switch filter {
	case "", FilterAll:
		return true
	case string(domain.StatusReturned):
		return o.IsReturned()
	}
	return string(o.Status) == filter
}

func SortNewestFirst(list []domain.Order) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

// Cancel asks the backend to cancel an order that has not been delivered.
func (s *Service) Cancel(ctx context.Context, id, reason string) ActionResult {
	err := s.cancel(ctx, id, reason)
	return s.after(ctx, "cancel", id, err)
}

func (s *Service) cancel(ctx context.Context, id, reason string) error {
	if reason == "" {
		return domain.ErrReasonRequired
	}
	if !slices.Contains(domain.CancelReasons, reason) {
		return domain.ErrValidation("unknown cancel reason: " + reason)
	}
	o, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !o.Cancellable() {
		return domain.ErrConflict("Order can no longer be cancelled.")
	}
	return s.API.CancelOrder(ctx, id, reason)
}

// RequestReturn submits a return request. confirmed is the answer to the
// "are you sure?" prompt; nothing is sent without it.
func (s *Service) RequestReturn(ctx context.Context, id, reason string, confirmed bool) ActionResult {
	err := s.requestReturn(ctx, id, reason, confirmed)
	return s.after(ctx, "return", id, err)
}

func (s *Service) requestReturn(ctx context.Context, id, reason string, confirmed bool) error {
	if !confirmed {
		return domain.ErrValidation("Return request not confirmed.")
	}
	if reason == "" {
		return domain.ErrReasonRequired
	}
	if !slices.Contains(domain.ReturnReasons, reason) {
		return domain.ErrValidation("unknown return reason: " + reason)
	}
	o, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := o.CheckReturn(s.now()); err != nil {
		return err
	}
	return s.API.RequestReturn(ctx, id, reason)
}

// DownloadInvoice saves the order's PDF invoice and returns where it went.
func (s *Service) DownloadInvoice(ctx context.Context, id string) (string, error) {
	b, err := s.API.Invoice(ctx, id)
	if err != nil {
		return "", err
	}
	if s.Downloads == nil {
		return "", errors.New("no downloads directory configured")
	}
	return s.Downloads.Write("invoices", "invoice_"+id+".pdf", b)
}

func (s *Service) find(ctx context.Context, id string) (domain.Order, error) {
	all, err := s.API.MyOrders(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	for _, o := range all {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, domain.ErrNotFound("order " + id)
}

func (s *Service) after(ctx context.Context, action, id string, actionErr error) ActionResult {
	log := logger.OrDefault(s.Log)
	if actionErr != nil {
		var verr domain.ErrValidation
		if !errors.As(actionErr, &verr) {
			log.Warn("order action failed",
				slog.String("action", action),
				slog.String("order_id", id),
				sl.Err(actionErr),
				sl.Traced(ctx))
		}
	}
	list, err := s.List(ctx, FilterAll)
	if err != nil {
		if actionErr == nil {
			actionErr = fmt.Errorf("refresh orders: %w", err)
		}
		return ActionResult{Err: actionErr}
	}
	return ActionResult{Orders: list, Err: actionErr}
}

// Message is what to show the user for an action error.
func Message(err error) string {
	return api.MessageOf(err, GenericFailure)
}
