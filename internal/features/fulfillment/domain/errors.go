package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound is returned when an order name does not resolve to an order.
	ErrOrderNotFound = errors.New("order not found")
	// ErrFulfillmentOrderNotFound is returned when an order has no fulfillment order.
	ErrFulfillmentOrderNotFound = errors.New("fulfillment order not found")
	// ErrUnsupported is returned when the capability set does not permit the requested operation.
	ErrUnsupported = errors.New("operation not supported by fulfillment order")
	// ErrInvalidTrackingNumber is returned when a fulfillment is requested without a tracking number.
	ErrInvalidTrackingNumber = errors.New("tracking number is required")
)

// APIError is a non-2xx response from the order platform.
type APIError struct {
	// Operation names the remote call, e.g. "search orders".
	Operation string
	// StatusCode is the HTTP status returned.
	StatusCode int
	// Body holds the (truncated) response body for diagnostics.
	Body string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: order platform returned status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: order platform returned status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a NotFound outcome.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrFulfillmentOrderNotFound)
}
