// Package server provides the HTTP API for candidate evaluation and ranking.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		ve       *types.ValidationError
		tooLarge *http.MaxBytesError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &ve):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// newErrorResponse hides internal error text behind a generic message for 5xx responses.
func newErrorResponse(err error, status int) ErrorResponse {
	if status >= http.StatusInternalServerError {
		return ErrorResponse{Error: "internal error"}
	}
	resp := ErrorResponse{Error: err.Error()}
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
	}
	return resp
}
