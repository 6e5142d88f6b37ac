package checkout

import (
	"fmt"
	"strconv"

	"goldmart/internal/clientstore"
	"goldmart/internal/domain"
)

// Book is one user's checkout address list, persisted under addresses_<userId>,
// plus the index currently selected for the order.
type Book struct {
	store    clientstore.Store
	userID   string
	addrs    []domain.Address
	selected int
}

// OpenBook loads the user's list. A user without a checkout list starts from
// the profile addresses cached at login, pre-selecting the default one.
func OpenBook(store clientstore.Store, userID string) (*Book, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	b := &Book{store: store, userID: userID, selected: -1}
	ok, err := clientstore.GetJSON(store, clientstore.AddressesKey(userID), &b.addrs)
	if err != nil {
		return nil, err
	}
	if ok {
		if len(b.addrs) > 0 {
			b.selected = 0
		}
		return b, nil
	}
	if _, err := clientstore.GetJSON(store, clientstore.KeyUserAddresses, &b.addrs); err != nil {
		b.addrs = nil
	}
	if len(b.addrs) > 0 {
		b.selected = 0
		if raw, ok, _ := store.Get(clientstore.KeyDefaultAddressIndex); ok {
			if i, err := strconv.Atoi(raw); err == nil && i >= 0 && i < len(b.addrs) {
				b.selected = i
			}
		}
	}
	return b, nil
}

func (b *Book) List() []domain.Address {
	return append([]domain.Address(nil), b.addrs...)
}

func (b *Book) Len() int { return len(b.addrs) }

// Selected returns the selected address and its index.
func (b *Book) Selected() (domain.Address, int, bool) {
	if b.selected < 0 || b.selected >= len(b.addrs) {
		return domain.Address{}, -1, false
	}
	return b.addrs[b.selected], b.selected, true
}

func (b *Book) Get(i int) (domain.Address, error) {
	if err := b.check(i); err != nil {
		return domain.Address{}, err
	}
	return b.addrs[i], nil
}

func (b *Book) Select(i int) error {
	if err := b.check(i); err != nil {
		return err
	}
	b.selected = i
	return nil
}

// Add validates a, appends it and selects it.
func (b *Book) Add(a domain.Address) error {
	a, err := ValidateAddress(a)
	if err != nil {
		return err
	}
	next := append(b.List(), a)
	if err := b.save(next); err != nil {
		return err
	}
	b.selected = len(next) - 1
	return nil
}

func (b *Book) Update(i int, a domain.Address) error {
	if err := b.check(i); err != nil {
		return err
	}
	a, err := ValidateAddress(a)
	if err != nil {
		return err
	}
	next := b.List()
	next[i] = a
	return b.save(next)
}

// Delete removes the address at i; later addresses shift down by one and the
// selection falls back to the first address.
func (b *Book) Delete(i int) error {
	if err := b.check(i); err != nil {
		return err
	}
	next := append(b.List()[:i:i], b.addrs[i+1:]...)
	if err := b.save(next); err != nil {
		return err
	}
	if len(next) > 0 {
		b.selected = 0
	} else {
		b.selected = -1
	}
	return nil
}

func (b *Book) check(i int) error {
	if i < 0 || i >= len(b.addrs) {
		return domain.ErrNotFound(fmt.Sprintf("address %d", i))
	}
	return nil
}

func (b *Book) save(next []domain.Address) error {
	if next == nil {
		next = []domain.Address{}
	}
	if err := clientstore.SetJSON(b.store, clientstore.AddressesKey(b.userID), next); err != nil {
		return err
	}
	b.addrs = next
	return nil
}
