// Package cart holds the shopper's cart and writes it through to the client
// store after every change.
package cart

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"goldmart/internal/clientstore"
	"goldmart/internal/domain"
	"goldmart/internal/logger"
	"goldmart/internal/logger/sl"
	"goldmart/internal/metric"
)

type Manager struct {
	mu    sync.Mutex
	store clientstore.Store
	log   *slog.Logger
	items []domain.CartItem
}

// New hydrates the cart from the store. A missing or unreadable value starts
// an empty cart.
func New(store clientstore.Store, log *slog.Logger) *Manager {
	m := &Manager{store: store, log: logger.OrDefault(log)}
	var items []domain.CartItem
	if _, err := clientstore.GetJSON(store, clientstore.KeyCart, &items); err != nil {
		m.log.Warn("cart: discarding stored cart", sl.Err(err))
		items = nil
	}
	m.items = items
	return m
}

// Add inserts the product with quantity one, or bumps the quantity of the
// line already holding it.
func (m *Manager) Add(p domain.Product) error {
	return m.AddItem(domain.NewCartItem(p))
}

func (m *Manager) AddItem(item domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.snapshot()
	found := false
	for i := range next {
		if next[i].ProductID == item.ProductID {
			q := next[i].Qty
			if q < 1 {
				q = 1
			}
			next[i].Qty = q + 1
			found = true
			break
		}
	}
	if !found {
		item.Qty = 1
		next = append(next, item)
	}
	return m.commit("add", next)
}

// UpdateQty sets the quantity of the matching line. Callers clamp; a missing
// id is a no-op.
func (m *Manager) UpdateQty(id string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.snapshot()
	for i := range next {
		if next[i].ProductID == id {
			next[i].Qty = qty
		}
	}
	return m.commit("update", next)
}

func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := make([]domain.CartItem, 0, len(m.items))
	for _, it := range m.items {
		if it.ProductID != id {
			next = append(next, it)
		}
	}
	return m.commit("remove", next)
}

func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commit("clear", []domain.CartItem{})
}

func (m *Manager) Items() []domain.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Manager) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CartTotal(m.items)
}

// Count is the number of units across all lines.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, it := range m.items {
		n += it.Qty
	}
	return n
}

func (m *Manager) Empty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items) == 0
}

func (m *Manager) snapshot() []domain.CartItem {
	return append([]domain.CartItem(nil), m.items...)
}

// commit persists first so memory never runs ahead of the store.
func (m *Manager) commit(op string, next []domain.CartItem) error {
	if next == nil {
		next = []domain.CartItem{}
	}
	if err := clientstore.SetJSON(m.store, clientstore.KeyCart, next); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	m.items = next
	metric.CartMutationsTotal.WithLabelValues(op).Inc()
	m.log.Debug("cart updated", slog.String("op", op), slog.Int("lines", len(next)))
	return nil
}
