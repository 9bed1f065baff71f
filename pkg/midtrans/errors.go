package midtrans

import "errors"

const (
	ErrCodeTimeout          = "GATEWAY_TIMEOUT"
	ErrCodeUnavailable      = "GATEWAY_UNAVAILABLE"
	ErrCodeNotFound         = "GATEWAY_ORDER_NOT_FOUND"
	ErrCodeInvalidRequest   = "GATEWAY_INVALID_REQUEST"
	ErrCodeInvalidSignature = "GATEWAY_INVALID_SIGNATURE"
)

var (
	ErrTimeout          = errors.New(ErrCodeTimeout)
	ErrUnavailable      = errors.New(ErrCodeUnavailable)
	ErrNotFound         = errors.New(ErrCodeNotFound)
	ErrInvalidRequest   = errors.New(ErrCodeInvalidRequest)
	ErrInvalidSignature = errors.New(ErrCodeInvalidSignature)
)

// MapStatusToError translates a non-2xx provider HTTP status into a sentinel.
func MapStatusToError(statusCode int) error {
	switch {
	case statusCode == 404:
		return ErrNotFound
	case statusCode >= 400 && statusCode < 500:
		return ErrInvalidRequest
	default:
		return ErrUnavailable
	}
}
