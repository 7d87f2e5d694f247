package errors

import "net/http"

var ErrLeaveNotFound = &Exception{
	Message:    "leave request not found",
	StatusCode: http.StatusNotFound,
}
