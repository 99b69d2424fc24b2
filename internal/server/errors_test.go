package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: http.StatusOK},
		{name: "validation", err: &types.ValidationError{Field: "job.title", Message: "is required"}, expected: http.StatusBadRequest},
		{name: "wrapped validation", err: fmt.Errorf("rank: %w", &types.ValidationError{Field: "candidates[0].id"}), expected: http.StatusBadRequest},
		{name: "body too large", err: &http.MaxBytesError{Limit: 10}, expected: http.StatusRequestEntityTooLarge},
		{name: "cancelled", err: context.Canceled, expected: http.StatusInternalServerError},
		{name: "other", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestNewErrorResponse_HidesInternalErrors(t *testing.T) {
	resp := newErrorResponse(errors.New("embedding index corrupted at /secret/path"), http.StatusInternalServerError)
	assert.Equal(t, "internal error", resp.Error)
	assert.Empty(t, resp.Field)
}

func TestNewErrorResponse_ValidationField(t *testing.T) {
	err := &types.ValidationError{Field: "candidate.id", Message: "is required"}
	resp := newErrorResponse(err, http.StatusBadRequest)
	assert.Equal(t, "candidate.id", resp.Field)
	assert.Equal(t, "validation error in candidate.id: is required", resp.Error)
}
