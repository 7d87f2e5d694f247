package errors

import (
	"errors"
	"net/http"
)

// Exception is an error with an HTTP status. Validation failures carry a
// descriptive message surfaced to the caller verbatim; everything else maps
// to a generic internal error at the HTTP boundary.
type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
