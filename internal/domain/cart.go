package domain

import "github.com/shopspring/decimal"

// CartItem is keyed by ProductID. The JSON names match what the storefront
// has always written under the "cart" key.
type CartItem struct {
	ProductID   string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category,omitempty"`
	Qty         int             `json:"qty"`
}

func NewCartItem(p Product) CartItem {
	return CartItem{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Qty:         1,
	}
}

// LineTotal treats a missing quantity as one.
func (i CartItem) LineTotal() decimal.Decimal {
	qty := i.Qty
	if qty < 1 {
		qty = 1
	}
	return i.Price.Mul(decimal.NewFromInt(int64(qty)))
}

func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
