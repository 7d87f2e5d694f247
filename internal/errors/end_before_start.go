package errors

import "net/http"

var ErrEndBeforeStart = &Exception{
	Message:    "end date must not be before start date",
	StatusCode: http.StatusBadRequest,
}
