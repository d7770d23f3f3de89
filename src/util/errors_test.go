package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"invalid operation", InvalidOperation("nope"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("who"), http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"not found", NotFound("gone"), http.StatusNotFound},
		{"conflict", Conflict("dup"), http.StatusConflict},
		{"wrapped conflict", fmt.Errorf("store: %w", Conflict("dup")), http.StatusConflict},
		{"bare sentinel", ErrNotFound, http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Category not found", PublicMessage(NotFound("Category not found")))
	assert.Equal(t, "Internal server error", PublicMessage(errors.New("pq: connection refused")))

	wrapped := &AppError{Kind: ErrConflict, Message: "Email already registered", Err: errors.New("23505")}
	assert.Equal(t, "Email already registered", PublicMessage(wrapped))
	assert.ErrorIs(t, wrapped, ErrConflict)
}
