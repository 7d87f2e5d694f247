package errors

import "net/http"

var ErrInvalidDate = &Exception{
	Message:    "date must be in YYYY-MM-DD format",
	StatusCode: http.StatusBadRequest,
}
