package checkout

import (
	"goldmart/internal/clientstore"
	"goldmart/internal/domain"
)

// Proceed snapshots the selected address under checkoutAddress. Later edits
// of the address book do not reach the snapshot.
func Proceed(store clientstore.Store, items []domain.CartItem, b *Book) (domain.Address, error) {
	if len(items) == 0 {
		return domain.Address{}, domain.ErrEmptyCart
	}
	a, _, ok := b.Selected()
	if !ok {
		return domain.Address{}, domain.ErrNoAddress
	}
	if err := clientstore.SetJSON(store, clientstore.KeyCheckoutAddress, a); err != nil {
		return domain.Address{}, err
	}
	return a, nil
}

// CheckoutAddress returns the snapshot taken by Proceed.
func CheckoutAddress(store clientstore.Store) (domain.Address, bool, error) {
	var a domain.Address
	ok, err := clientstore.GetJSON(store, clientstore.KeyCheckoutAddress, &a)
	return a, ok, err
}
