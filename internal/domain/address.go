package domain

type Address struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required,len=10,numeric"`
	Street      string `json:"street" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	Pincode     string `json:"pincode" validate:"required,len=6,numeric"`
	Locality    string `json:"locality,omitempty"`
	FullAddress string `json:"fullAddress,omitempty"`
}

const (
	PhoneDigits   = 10
	PincodeDigits = 6
)
