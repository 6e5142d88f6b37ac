package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"goldmart/internal/api"
	"goldmart/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.ErrValidation("bad"), http.StatusBadRequest, "BadRequest"},
		{"wrapped validation", fmt.Errorf("save: %w", domain.ErrEmptyCart), http.StatusBadRequest, "BadRequest"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{"backend 401", &api.Error{Status: 401}, http.StatusUnauthorized, "Unauthorized"},
		{"forbidden", domain.ErrForbidden("nope"), http.StatusForbidden, "Forbidden"},
		{"not found", domain.ErrNotFound("order 1"), http.StatusNotFound, "NotFound"},
		{"conflict", domain.ErrReturnWindowExpired, http.StatusConflict, "Conflict"},
		{"backend 404", &api.Error{Status: 404}, http.StatusNotFound, "NotFound"},
		{"backend 422", &api.Error{Status: 422, Message: "x"}, http.StatusBadRequest, "BadRequest"},
		{"backend 500", &api.Error{Status: 500}, http.StatusBadGateway, "BackendError"},
		{"network", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("refused")}, http.StatusBadGateway, "BackendError"},
		{"other", errors.New("disk full"), http.StatusInternalServerError, "Internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "Cart is empty!", messageOf(domain.ErrEmptyCart))
	assert.Equal(t, "order 1 not found", messageOf(domain.ErrNotFound("order 1")))
	assert.Equal(t, "Total price mismatch", messageOf(&api.Error{Status: 400, Message: "Total price mismatch"}))
	assert.Equal(t, genericMessage, messageOf(errors.New("boom")))
	assert.Equal(t, "Please log in again.", messageOf(domain.ErrUnauthorized))
}
