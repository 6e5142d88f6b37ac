package api

import (
	"context"
	"net/http"

	"goldmart/internal/domain"
)

func (c *Client) Login(ctx context.Context, cred domain.Credentials) (domain.User, error) {
	var u domain.User
	err := c.doJSON(ctx, request{scope: ScopePublic, method: http.MethodPost, path: "/auth/login", endpoint: "auth.login", body: cred}, &u)
	return u, err
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	var u domain.User
	err := c.doJSON(ctx, request{scope: ScopePublic, method: http.MethodPost, path: "/auth/register", endpoint: "auth.register", body: reg}, &u)
	return u, err
}

func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	var u domain.User
	err := c.doJSON(ctx, request{scope: ScopeUser, method: http.MethodGet, path: "/auth/profile", endpoint: "auth.profile"}, &u)
	return u, err
}

func (c *Client) UpdateProfile(ctx context.Context, in domain.ProfileUpdate) error {
	return c.doJSON(ctx, request{scope: ScopeUser, method: http.MethodPut, path: "/auth/update-profile", endpoint: "auth.update_profile", body: in}, nil)
}

type addressPayload struct {
	domain.Address
	Index *int `json:"index,omitempty"`
}

// SaveAddress adds a profile address, or replaces the one at index when index
// is not nil.
func (c *Client) SaveAddress(ctx context.Context, a domain.Address, index *int) error {
	return c.doJSON(ctx, request{scope: ScopeUser, method: http.MethodPost, path: "/auth/update-addresses", endpoint: "auth.update_addresses", body: addressPayload{Address: a, Index: index}}, nil)
}

type indexPayload struct {
	Index int `json:"index"`
}

func (c *Client) DeleteAddress(ctx context.Context, index int) error {
	return c.doJSON(ctx, request{scope: ScopeUser, method: http.MethodDelete, path: "/auth/delete-address", endpoint: "auth.delete_address", body: indexPayload{Index: index}}, nil)
}

func (c *Client) SetDefaultAddress(ctx context.Context, index int) error {
	return c.doJSON(ctx, request{scope: ScopeUser, method: http.MethodPost, path: "/auth/set-default-address", endpoint: "auth.set_default_address", body: indexPayload{Index: index}}, nil)
}
