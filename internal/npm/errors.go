package npm

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPackage = errors.New("a package name is required")
	ErrInvalidPeriod  = errors.New("period must be one of last-day, last-week, last-month")
	ErrInvalidDate    = errors.New("dates must use the YYYY-MM-DD format")
	ErrPartialRange   = errors.New("startDate and endDate must be supplied together")
)

// UpstreamError is an error reported by the registry in the response body.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// StatusError is a non-2xx response whose body carried no error message.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}
