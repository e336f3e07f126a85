package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/marketpulse/internal/common"
)

// ErrUnavailable is returned when no response was received at all
// (connection refused, DNS failure, timeout). It is deliberately distinct
// from application-level errors carried by APIError.
var ErrUnavailable = errors.New("backend server is not available")

// APIError is an application-level error response from the backend.
// Message carries the server-provided human-readable text, if any.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed: %s", http.StatusText(e.Status))
}

// Unwrap lets callers match 401 responses with
// errors.Is(err, common.ErrorUnauthorized).
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return common.ErrorUnauthorized
	}
	return nil
}
