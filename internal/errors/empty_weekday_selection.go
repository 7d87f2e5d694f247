package errors

import "net/http"

var ErrEmptyWeekdaySelection = &Exception{
	Message:    "at least one weekday must be selected",
	StatusCode: http.StatusBadRequest,
}
