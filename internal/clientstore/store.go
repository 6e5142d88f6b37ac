// Package clientstore is the persistent key/value store the storefront keeps
// its session, cart, addresses and cached messages in. Each key is owned by one
// feature and is read-modify-written without transactions.
package clientstore

import (
	"encoding/json"
	"fmt"
)

type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

const (
	KeyToken               = "token"
	KeyUser                = "user"
	KeyAdminToken          = "adminToken"
	KeyIsAdmin             = "isAdmin"
	KeyCart                = "cart"
	KeyCheckoutAddress     = "checkoutAddress"
	KeyUserAddresses       = "userAddresses"
	KeyDefaultAddressIndex = "defaultAddressIndex"
	KeyContactMessages     = "contactMessages"
)

// AddressesKey is the per-user checkout address list key.
func AddressesKey(userID string) string {
	return "addresses_" + userID
}

// GetJSON decodes the value under key into v. It reports false when the key is
// absent; a corrupt value is an error.
func GetJSON(s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

func SetJSON(s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return s.Set(key, string(b))
}
