package pages

import (
	"fmt"
	"net/http"

	"github.com/ameistad/pagesprune/internal/constants"
)

// ErrorKind tells how far a request got before it failed.
type ErrorKind int

const (
	// KindResponse means the provider answered with an error status.
	KindResponse ErrorKind = iota + 1
	// KindNoResponse means the request went out but no usable response came back.
	KindNoResponse
	// KindRequestSetup means the request could not be built.
	KindRequestSetup
)

func (k ErrorKind) String() string {
	switch k {
	case KindResponse:
		return "response"
	case KindNoResponse:
		return "no_response"
	case KindRequestSetup:
		return "request_setup"
	default:
		return "unknown"
	}
}

type APIError struct {
	Kind       ErrorKind
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindResponse:
		if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
			return fmt.Sprintf("%s %s: authentication failed with status %d - check your %s", e.Method, e.URL, e.StatusCode, constants.EnvVarAPIToken)
		}
		return fmt.Sprintf("%s %s: API responded with status %d", e.Method, e.URL, e.StatusCode)
	case KindNoResponse:
		return fmt.Sprintf("%s %s: no response received: %v", e.Method, e.URL, e.Err)
	case KindRequestSetup:
		return fmt.Sprintf("failed to set up %s request: %v", e.Method, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}
