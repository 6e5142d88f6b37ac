// Package payment models the pay step of checkout behind a Provider, and
// places the order once a payment succeeds.
package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"goldmart/internal/checkout"
	"goldmart/internal/domain"
)

type Method string

const (
	MethodUPI  Method = domain.PaymentUPI
	MethodCard Method = domain.PaymentCard
	MethodCOD  Method = domain.PaymentCOD
)

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodUPI, MethodCard, MethodCOD:
		return Method(s), nil
	}
	return "", domain.ErrValidation("Select a payment method first!")
}

type Request struct {
	Method     Method          `json:"method"`
	Amount     decimal.Decimal `json:"amount"`
	PIN        string          `json:"pin,omitempty"`
	CardNumber string          `json:"cardNumber,omitempty"`
	CardExpiry string          `json:"cardExpiry,omitempty"`
	CVV        string          `json:"cvv,omitempty"`
}

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type Outcome struct {
	Status    Status `json:"status"`
	Reference string `json:"reference,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

func (o Outcome) Succeeded() bool { return o.Status == StatusSucceeded }

// Provider charges a request. A declined payment is a failed Outcome, not an
// error; errors are reserved for the provider being unreachable or ctx ending.
type Provider interface {
	Pay(ctx context.Context, r Request) (Outcome, error)
}

// ValidateRequest is the minimal input check each method needs before the
// payment may start processing.
func ValidateRequest(r Request) error {
	if _, err := ParseMethod(string(r.Method)); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return domain.ErrValidation("amount must be greater than zero")
	}
	switch r.Method {
	case MethodUPI:
		if len(r.PIN) != 4 || checkout.SanitizeDigits(r.PIN, 4) != r.PIN {
			return domain.ErrValidation("Enter 4-digit PIN")
		}
	case MethodCard:
		n := checkout.SanitizeDigits(r.CardNumber, 32)
		if len(n) < 12 || len(n) > 19 {
			return domain.ErrValidation("Enter a valid card number")
		}
		if len(r.CVV) < 3 || len(r.CVV) > 4 || checkout.SanitizeDigits(r.CVV, 4) != r.CVV {
			return domain.ErrValidation("Enter a valid CVV")
		}
	}
	return nil
}
