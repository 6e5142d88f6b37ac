package admin

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"goldmart/internal/clientstore"
	"goldmart/internal/domain"
)

// Inbox keeps contact-form messages in the local store under
// contactMessages. The storefront writes them and the console reads them.
type Inbox struct {
	mu    sync.Mutex
	store clientstore.Store
	now   func() time.Time
}

func NewInbox(store clientstore.Store) *Inbox {
	return &Inbox{store: store, now: time.Now}
}

// Submit validates and appends a contact message.
func (b *Inbox) Submit(m domain.ContactMessage) (domain.ContactMessage, error) {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)
	if err := domain.Validate(m); err != nil {
		return domain.ContactMessage{}, err
	}
	m.ID = uuid.NewString()
	m.Date = b.now()

	b.mu.Lock()
	defer b.mu.Unlock()
	list, err := b.load()
	if err != nil {
		return domain.ContactMessage{}, err
	}
	list = append(list, m)
	if err := clientstore.SetJSON(b.store, clientstore.KeyContactMessages, list); err != nil {
		return domain.ContactMessage{}, err
	}
	return m, nil
}

// List returns the messages newest first.
func (b *Inbox) List() ([]domain.ContactMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list, err := b.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list, nil
}

func (b *Inbox) Count() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list, err := b.load()
	return len(list), err
}

func (b *Inbox) Delete(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	list, err := b.load()
	if err != nil {
		return err
	}
	for i, m := range list {
		if m.ID == id {
			list = append(list[:i], list[i+1:]...)
			return clientstore.SetJSON(b.store, clientstore.KeyContactMessages, list)
		}
	}
	return domain.ErrNotFound("message " + id)
}

func (b *Inbox) load() ([]domain.ContactMessage, error) {
	var list []domain.ContactMessage
	if _, err := clientstore.GetJSON(b.store, clientstore.KeyContactMessages, &list); err != nil {
		return nil, err
	}
	return list, nil
}
