package httpdomain

import (
	"errors"
	"fmt"
)

// StatusError reports a non-success response from the backend. The client
// treats any status outside 200-299 as a failure and never retries it.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s failed: %d", e.Method, e.Path, e.StatusCode)
}

// IsStatus reports whether err is a StatusError with the given status code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

// StatusCodeOf extracts the status code from err when it carries one.
func StatusCodeOf(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}
