package llms

import (
	"fmt"
	"net/http"
)

// APIError is a non-success response from the remote answer service.
type APIError struct {
	StatusCode int
	// Message is the server supplied error message, it may be empty.
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("answer service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("answer service returned status %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether the service asked us to slow down. It is the
// only status that is worth retrying.
func (e *APIError) IsRateLimited() bool {
	return e != nil && e.StatusCode == http.StatusTooManyRequests
}
