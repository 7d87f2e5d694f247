package errors

import "net/http"

var ErrNoTasksFound = &Exception{
	Message:    "no tasks found",
	StatusCode: http.StatusNotFound,
}
