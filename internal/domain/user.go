package domain

import "time"

type User struct {
	ID                  string    `json:"_id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Token               string    `json:"token,omitempty"`
	IsAdmin             bool      `json:"isAdmin,omitempty"`
	Addresses           []Address `json:"addresses,omitempty"`
	DefaultAddressIndex int       `json:"defaultAddressIndex"`
	CreatedAt           time.Time `json:"createdAt"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type ProfileUpdate struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}
