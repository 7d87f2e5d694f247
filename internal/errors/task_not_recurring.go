package errors

import "net/http"

var ErrTaskNotRecurring = &Exception{
	Message:    "task does not recur",
	StatusCode: http.StatusBadRequest,
}
