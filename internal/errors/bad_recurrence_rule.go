package errors

import "net/http"

var ErrBadRecurrenceRule = &Exception{
	Message:    "recurrence rule cannot be parsed",
	StatusCode: http.StatusBadRequest,
}
