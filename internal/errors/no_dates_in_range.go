package errors

import "net/http"

var ErrNoDatesInRange = &Exception{
	Message:    "no dates match the repeat specification",
	StatusCode: http.StatusBadRequest,
}
