package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "staff-planner.com/staff-planner/internal/data_models"
	"staff-planner.com/staff-planner/internal/recurrence"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if r.DueDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "due date is required")
	}
	if _, err := recurrence.ParseDate(r.DueDate); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "due date must be in YYYY-MM-DD format")
	}
	if r.IsActivity && (r.StartTime == nil || r.EndTime == nil) {
		return echo.NewHTTPError(http.StatusBadRequest, "activity tasks need start and end time")
	}
	return nil
}

func ValidateCreateBatchRequest(r *dto.CreateBatchRequest) error {
	if r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if r.StartDate == "" || r.EndDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "start and end date are required")
	}
	if r.IntervalUnit == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "interval unit is required")
	}
	for _, code := range r.Weekdays {
		if _, err := recurrence.ParseWeekday(code); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown weekday code "+code)
		}
	}
	return nil
}

func ValidateCreateLeaveRequest(r *dto.CreateLeaveRequest) error {
	if r.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user id is required")
	}
	if r.StartDate == "" || r.EndDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "start and end date are required")
	}
	return nil
}
