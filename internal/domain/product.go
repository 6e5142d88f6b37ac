package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category"`
	Stock       int             `json:"countInStock"`
	Rating      float64         `json:"rating,omitempty"`
	NumReviews  int             `json:"numReviews,omitempty"`
	Reviews     []Review        `json:"reviews,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Review struct {
	ID        string    `json:"_id"`
	User      string    `json:"user"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

type ProductInput struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required"`
	Image       string          `json:"image"`
	Stock       int             `json:"countInStock" validate:"min=0"`
}

func (in ProductInput) Validate() error {
	if err := Validate(in); err != nil {
		return err
	}
	if !in.Price.IsPositive() {
		return ErrValidation("price must be greater than zero")
	}
	return nil
}
