package answers

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned once every attempt was answered with a rate
// limit response.
var ErrRateLimited = errors.New("answer service rate limited")

const unexpectedErrorMessage = "Unexpected API error."

// RemoteServiceError is a non-retryable failure reported by the answer
// service.
type RemoteServiceError struct {
	Status  int
	Message string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("answer service error (status %d): %s", e.Status, e.Message)
}
