package okrapi

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the OKR server could not be reached.
	ErrUnavailable = errors.New("okr server unavailable")

	// ErrTimeout indicates a request exceeded the configured timeout.
	ErrTimeout = errors.New("okr request timed out")

	// ErrInvalidResponse indicates a response body that could not be decoded.
	ErrInvalidResponse = errors.New("invalid okr api response")

	// ErrApplication is matched by every *APIError.
	ErrApplication = errors.New("okr api request failed")
)

// APIError is an application-level failure: a non-2xx status or a 2xx body
// with success=false.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("okr api %s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("okr api %s: status %d: %s", e.Endpoint, e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return ErrApplication }

// UserMessage turns a client error into a short sentence for display.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.As(err, &apiErr):
		return fmt.Sprintf("Request failed with status %d", apiErr.Status)
	case errors.Is(err, ErrTimeout):
		return "The OKR server took too long to respond"
	case errors.Is(err, ErrUnavailable):
		return "Cannot reach the OKR server"
	case errors.Is(err, ErrInvalidResponse):
		return "The OKR server sent an unexpected response"
	}
	return err.Error()
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	case errors.Is(err, ErrApplication):
		return "APPLICATION"
	default:
		return "UNKNOWN"
	}
}
