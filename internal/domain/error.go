package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoPublicBaseURL = errors.New("cannot determine public base URL")
)

// UpstreamError carries a non-success response from the payment platform so
// the HTTP layer can propagate the platform's status code and diagnostic body.
type UpstreamError struct {
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Detail)
}
