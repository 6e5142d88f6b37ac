package domain

import "github.com/shopspring/decimal"

func init() {
	// The backend and the persisted cart both carry prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}
