package domain

import "errors"

// ErrValidation is a client-side rejection raised before any network call.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }

type ErrNotFound string

func (e ErrNotFound) Error() string { return string(e) + " not found" }

type ErrConflict string

func (e ErrConflict) Error() string { return string(e) }

var ErrUnauthorized = errors.New("unauthorized")

var (
	ErrEmptyCart           = ErrValidation("Cart is empty!")
	ErrNoAddress           = ErrValidation("Please select an address")
	ErrReasonRequired      = ErrValidation("Please select a reason.")
	ErrReturnWindowExpired = ErrConflict("Return window expired.")
	ErrNoDeliveryTime      = ErrConflict("Delivered time not recorded.")
)

// ErrForbidden is an authenticated caller lacking the role a call needs.
type ErrForbidden string

func (e ErrForbidden) Error() string { return string(e) }
