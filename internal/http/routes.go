package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "staff-planner.com/staff-planner/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.POST("/tasks", h.CreateTask)
	e.POST("/tasks/batch", h.CreateBatch)
	e.GET("/tasks", h.ListTasks)
	e.GET("/tasks/:id", h.GetTask)
	e.PATCH("/tasks/:id", h.UpdateTask)
	e.PATCH("/tasks/:id/future", h.UpdateFuture)
	e.DELETE("/tasks/:id", h.DeleteTask)
	e.DELETE("/tasks/:id/future", h.DeleteFuture)

	e.POST("/tasks/:id/occurrences/:date/complete", h.CompleteOccurrence)
	e.DELETE("/tasks/:id/occurrences/:date/complete", h.ReopenOccurrence)
	e.POST("/tasks/:id/occurrences/:date/skip", h.SkipOccurrence)
	e.DELETE("/tasks/:id/occurrences/:date/skip", h.UnskipOccurrence)
	e.PUT("/tasks/:id/occurrences/:date/time", h.OverrideOccurrenceTime)

	e.GET("/calendar", h.GetCalendar)

	e.POST("/leaves", h.CreateLeave)
	e.GET("/leaves", h.ListLeaves)
	e.PATCH("/leaves/:id/status", h.UpdateLeaveStatus)
}
