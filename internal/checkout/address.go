package checkout

import (
	"strings"
	"unicode"

	"goldmart/internal/domain"
)

// SanitizeDigits drops every non-digit and keeps at most max digits, the way
// the phone and pincode inputs filter keystrokes.
func SanitizeDigits(s string, max int) string {
	var b strings.Builder
	for _, r := range s {
		if b.Len() >= max {
			break
		}
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func Normalize(a domain.Address) domain.Address {
	a.Name = strings.TrimSpace(a.Name)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Locality = strings.TrimSpace(a.Locality)
	a.FullAddress = strings.TrimSpace(a.FullAddress)
	a.Phone = SanitizeDigits(a.Phone, domain.PhoneDigits)
	a.Pincode = SanitizeDigits(a.Pincode, domain.PincodeDigits)
	return a
}

// ValidateAddress normalises a and checks it; the normalised value is
// returned so callers store exactly what was validated.
func ValidateAddress(a domain.Address) (domain.Address, error) {
	a = Normalize(a)
	if err := domain.Validate(a); err != nil {
		return a, err
	}
	return a, nil
}
