package api

import (
	"context"
	"net/http"
	"net/url"

	"goldmart/internal/domain"
)

func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := c.doJSON(ctx, request{scope: ScopePublic, method: http.MethodGet, path: "/products", endpoint: "products.list"}, &out)
	return out, err
}

func (c *Client) Product(ctx context.Context, id string) (domain.Product, error) {
	var out domain.Product
	err := c.doJSON(ctx, request{scope: ScopePublic, method: http.MethodGet, path: "/products/" + url.PathEscape(id), endpoint: "products.get"}, &out)
	return out, err
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := c.doJSON(ctx, request{scope: ScopePublic, method: http.MethodGet, path: "/products/categories", endpoint: "products.categories"}, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	var out domain.Product
	err := c.doJSON(ctx, request{scope: ScopeAdmin, method: http.MethodPost, path: "/products", endpoint: "products.create", body: in}, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (domain.Product, error) {
	var out domain.Product
	err := c.doJSON(ctx, request{scope: ScopeAdmin, method: http.MethodPut, path: "/products/" + url.PathEscape(id), endpoint: "products.update", body: in}, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doJSON(ctx, request{scope: ScopeAdmin, method: http.MethodDelete, path: "/products/" + url.PathEscape(id), endpoint: "products.delete"}, nil)
}

type reviewEnvelope struct {
	Review domain.Review `json:"review"`
}

func (c *Client) AddReview(ctx context.Context, productID string, in domain.ReviewInput) (domain.Review, error) {
	var out reviewEnvelope
	err := c.doJSON(ctx, request{scope: ScopeUser, method: http.MethodPost, path: "/products/" + url.PathEscape(productID) + "/reviews", endpoint: "products.review_add", body: in}, &out)
	return out.Review, err
}

func (c *Client) UpdateReview(ctx context.Context, productID, reviewID string, in domain.ReviewInput) (domain.Review, error) {
	var out reviewEnvelope
	path := "/products/" + url.PathEscape(productID) + "/reviews/" + url.PathEscape(reviewID)
	err := c.doJSON(ctx, request{scope: ScopeUser, method: http.MethodPut, path: path, endpoint: "products.review_update", body: in}, &out)
	return out.Review, err
}

func (c *Client) DeleteReview(ctx context.Context, productID, reviewID string) error {
	path := "/products/" + url.PathEscape(productID) + "/reviews/" + url.PathEscape(reviewID)
	return c.doJSON(ctx, request{scope: ScopeUser, method: http.MethodDelete, path: path, endpoint: "products.review_delete"}, nil)
}
