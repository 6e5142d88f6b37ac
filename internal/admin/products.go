package admin

import (
	"context"
	"sort"
	"strings"

	"goldmart/internal/domain"
)

func (c *Console) Products(ctx context.Context) ([]domain.Product, error) {
	list, err := c.API.Products(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (c *Console) Product(ctx context.Context, id string) (domain.Product, error) {
	return c.API.Product(ctx, id)
}

func (c *Console) CreateProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	in = trimProduct(in)
	if err := in.Validate(); err != nil {
		return domain.Product{}, err
	}
	return c.API.CreateProduct(ctx, in)
}

func (c *Console) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (domain.Product, error) {
	in = trimProduct(in)
	if err := in.Validate(); err != nil {
		return domain.Product{}, err
	}
	return c.API.UpdateProduct(ctx, id, in)
}

func (c *Console) DeleteProduct(ctx context.Context, id string) error {
	return c.API.DeleteProduct(ctx, id)
}

func trimProduct(in domain.ProductInput) domain.ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Image = strings.TrimSpace(in.Image)
	return in
}
