package admin

import (
	"context"

	"goldmart/internal/domain"
)

func (c *Console) Users(ctx context.Context) ([]domain.User, error) {
	return c.API.AdminUsers(ctx)
}

func (c *Console) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrValidation("user id is required")
	}
	return c.API.DeleteUser(ctx, id)
}
