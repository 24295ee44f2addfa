package analyzer

import (
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable is the single outward error category for any
// failed analyzer fetch: connection errors, timeouts, non-2xx statuses
// and undecodable bodies all match it via errors.Is. The underlying
// cause stays attached for logs and never reaches callers.
var ErrUpstreamUnavailable = errors.New("analyzer service unavailable")

// ErrorClass classifies upstream failures for metrics.
type ErrorClass string

const (
	// ErrorClassNetwork represents connection and timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassStatus represents non-2xx HTTP responses.
	ErrorClassStatus ErrorClass = "status"

	// ErrorClassDecode represents bodies that fail to parse or validate.
	ErrorClassDecode ErrorClass = "decode"
)

// UpstreamError carries the diagnostic context of a failed analyzer call.
type UpstreamError struct {
	Endpoint   string
	StatusCode int // 0 when the request never completed
	Class      ErrorClass
	Err        error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("analyzer %s error (status %d) on %s: %v",
			e.Class, e.StatusCode, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("analyzer %s error on %s: %v", e.Class, e.Endpoint, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is matches the unified outward category.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}
