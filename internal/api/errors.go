package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"goldmart/internal/domain"
)

// Error is a non-2xx answer from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Is lets a backend 401 match domain.ErrUnauthorized.
func (e *Error) Is(target error) bool {
	return target == domain.ErrUnauthorized && e.Status == http.StatusUnauthorized
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}

func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// MessageOf picks the text to show the user: client-side rejections as they
// are, the backend's own message when it sent one, else fallback.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var verr domain.ErrValidation
	if errors.As(err, &verr) {
		return verr.Error()
	}
	var cerr domain.ErrConflict
	if errors.As(err, &cerr) {
		return cerr.Error()
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

func extractMessage(body []byte) string {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return strings.TrimSpace(string(body))
	}
	if s := rawString(m["message"]); s != "" {
		return s
	}
	raw, ok := m["error"]
	if !ok {
		return ""
	}
	if s := rawString(raw); s != "" {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		return nested.Message
	}
	return ""
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
