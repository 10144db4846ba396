package cloudapi

import (
	"errors"
	"fmt"
)

const (
	ErrCodeMissingAccessToken   = "MISSING_ACCESS_TOKEN"
	ErrCodeMissingPhoneNumberID = "MISSING_PHONE_NUMBER_ID"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeRateLimited          = "RATE_LIMITED"
	ErrCodeServerError          = "SERVER_ERROR"
	ErrCodeTimeout              = "TIMEOUT"
	ErrCodeNetworkError         = "NETWORK_ERROR"
)

var (
	ErrMissingAccessToken   = errors.New(ErrCodeMissingAccessToken)
	ErrMissingPhoneNumberID = errors.New(ErrCodeMissingPhoneNumberID)
	ErrInvalidRequest       = errors.New(ErrCodeInvalidRequest)
	ErrUnauthorized         = errors.New(ErrCodeUnauthorized)
	ErrRateLimited          = errors.New(ErrCodeRateLimited)
	ErrServerError          = errors.New(ErrCodeServerError)
	ErrTimeout              = errors.New(ErrCodeTimeout)
	ErrNetwork              = errors.New(ErrCodeNetworkError)
)

var statusErrorMap = map[int]error{
	400: ErrInvalidRequest,
	401: ErrUnauthorized,
	403: ErrUnauthorized,
	429: ErrRateLimited,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}

// IsConfigError reports whether err comes from missing outbound credentials
// rather than from the remote side.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrMissingAccessToken) || errors.Is(err, ErrMissingPhoneNumberID)
}

// GraphError is the "error" object of a Graph API failure response.
type GraphError struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode,omitempty"`
	FBTraceID    string `json:"fbtrace_id,omitempty"`
}

// APIError is returned for any non-2xx answer from the messages endpoint.
type APIError struct {
	StatusCode int
	Graph      *GraphError
	Body       []byte
	Err        error
}

func (e *APIError) Error() string {
	if e.Graph != nil && e.Graph.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Err, e.StatusCode, e.Graph.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Err, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
