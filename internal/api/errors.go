package api

import (
	"errors"
	"fmt"

	"github.com/Veraticus/stackbank/internal/common"
)

// NetworkErrorMessage is shown for connectivity and malformed-response failures.
const NetworkErrorMessage = "Network error. Please try again."

// Error classes returned by Client.
var (
	// ErrUnauthorized means the service rejected the session token, or no
	// token was held. The session has already been cleared.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConnectivity means no response was received.
	ErrConnectivity = errors.New("network error")
	// ErrInvalidResponse means a success response could not be decoded.
	ErrInvalidResponse = errors.New("invalid response")
)

// ServiceError is a non-2xx, non-401 response.
type ServiceError struct {
	Message string
	Status  int
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error %d: %s", e.Status, e.Message)
}

// UserMessage maps an error returned by Client (or a validation error) to the
// text shown to the user.
func UserMessage(err error, fallback string) string {
	var serviceErr *ServiceError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &serviceErr):
		if serviceErr.Message != "" {
			return serviceErr.Message
		}
		return fallback
	case errors.Is(err, ErrConnectivity), errors.Is(err, ErrInvalidResponse):
		return NetworkErrorMessage
	default:
		return common.UserMessage(err, fallback)
	}
}
