package gateway

import "errors"

var (
	// ErrGatewayStatus wraps any non-2xx answer from the gateway.
	ErrGatewayStatus = errors.New("gateway: unexpected status")
	// ErrNotFound is returned for 404 answers.
	ErrNotFound = errors.New("gateway: not found")
	// ErrUnavailable is returned while the circuit breaker refuses calls.
	ErrUnavailable = errors.New("gateway: unavailable")
	// ErrMalformedResponse is returned when the body cannot be decoded.
	ErrMalformedResponse = errors.New("gateway: malformed response")
)
