package client

import (
	"fmt"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/handler/http/response"
)

// APIError is a non-2xx response from the server. It unwraps to the matching domain
// sentinel (attendance.ErrNotCheckedIn, ...) when the code has one.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return response.ErrorForCode(e.Code)
}

// TransportError means the request never produced a server response. Commands are not
// retried; the caller decides whether to resubmit.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
