package domain

import "time"

type ContactMessage struct {
	ID      string    `json:"id"`
	Name    string    `json:"name" validate:"required"`
	Email   string    `json:"email" validate:"required,email"`
	Message string    `json:"message" validate:"required"`
	Date    time.Time `json:"date"`
}
