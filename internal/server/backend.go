package server

import (
	"context"

	"goldmart/internal/domain"
)

// Backend is the slice of the REST client the gateway calls directly; the
// feature services hold their own narrower views of it.
type Backend interface {
	ImageURL(p string) string

	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id string) (domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	AddReview(ctx context.Context, productID string, in domain.ReviewInput) (domain.Review, error)
	UpdateReview(ctx context.Context, productID, reviewID string, in domain.ReviewInput) (domain.Review, error)
	DeleteReview(ctx context.Context, productID, reviewID string) error

	Login(ctx context.Context, cred domain.Credentials) (domain.User, error)
	Register(ctx context.Context, reg domain.Registration) (domain.User, error)
	Profile(ctx context.Context) (domain.User, error)
	UpdateProfile(ctx context.Context, in domain.ProfileUpdate) error
	SaveAddress(ctx context.Context, a domain.Address, index *int) error
	DeleteAddress(ctx context.Context, index int) error
	SetDefaultAddress(ctx context.Context, index int) error

	AdminLogin(ctx context.Context, cred domain.Credentials) (string, error)
	MyOrders(ctx context.Context) ([]domain.Order, error)
}
