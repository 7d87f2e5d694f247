package errors

import "net/http"

var ErrUnknownIntervalUnit = &Exception{
	Message:    "interval unit must be daily, weekly, biweekly or monthly",
	StatusCode: http.StatusBadRequest,
}
