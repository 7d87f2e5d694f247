package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"staff-planner.com/staff-planner/internal/batch"
	"staff-planner.com/staff-planner/internal/calendar"
	"staff-planner.com/staff-planner/internal/constants"
	dto "staff-planner.com/staff-planner/internal/data_models"
	apperrors "staff-planner.com/staff-planner/internal/errors"
	"staff-planner.com/staff-planner/internal/http/validators"
	"staff-planner.com/staff-planner/internal/recurrence"
	"staff-planner.com/staff-planner/internal/services"
)

type Handler struct {
	taskService     *services.TaskService
	calendarService *services.CalendarService
	leaveService    *services.LeaveService
}

func NewHandler(
	taskService *services.TaskService,
	calendarService *services.CalendarService,
	leaveService *services.LeaveService,
) *Handler {
	return &Handler{
		taskService:     taskService,
		calendarService: calendarService,
		leaveService:    leaveService,
	}
}

// viewer reads the caller's identity from the headers the auth proxy sets.
// Authentication itself is external; the engine only ever sees an explicit
// viewer, never ambient session state.
func viewer(c echo.Context) calendar.Visibility {
	v := calendar.Visibility{
		ViewerID: c.Request().Header.Get("X-User-ID"),
		Admin:    c.Request().Header.Get("X-User-Role") == "admin",
	}
	if groups := c.Request().Header.Get("X-User-Groups"); groups != "" {
		v.Groups = strings.Split(groups, ",")
	}
	return v
}

func requireAdmin(c echo.Context) error {
	if !viewer(c).Admin {
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}
	return nil
}

// fail maps a service error to an HTTP response: validation failures carry
// their message verbatim, anything else stays a generic 500.
func fail(err error) error {
	var appErr *apperrors.Exception
	if errors.As(err, &appErr) {
		return echo.NewHTTPError(appErr.StatusCode, appErr.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func (h *Handler) CreateTask(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Priority:       req.Priority,
		DueDate:        req.DueDate,
		DueTime:        req.DueTime,
		IsAllDay:       req.IsAllDay,
		IsActivity:     req.IsActivity,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		RecurrenceRule: req.RecurrenceRule,
		AssignedTo:     req.AssignedTo,
		AssignedGroup:  req.AssignedGroup,
		CreatedBy:      viewer(c).ViewerID,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) CreateBatch(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var req dto.CreateBatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateBatchRequest(&req); err != nil {
		return err
	}

	weekdays := make([]recurrence.Weekday, 0, len(req.Weekdays))
	for _, code := range req.Weekdays {
		wd, _ := recurrence.ParseWeekday(code) // validated above
		weekdays = append(weekdays, wd)
	}

	tasks, err := h.taskService.CreateBatch(c.Request().Context(), services.CreateBatchInput{
		CreateTaskInput: services.CreateTaskInput{
			Title:         req.Title,
			Description:   req.Description,
			Category:      req.Category,
			Priority:      req.Priority,
			DueTime:       req.DueTime,
			IsAllDay:      req.IsAllDay,
			IsActivity:    req.IsActivity,
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			AssignedTo:    req.AssignedTo,
			AssignedGroup: req.AssignedGroup,
			CreatedBy:     viewer(c).ViewerID,
		},
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Weekdays:     weekdays,
		IntervalUnit: batch.IntervalUnit(req.IntervalUnit),
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) GetTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}
	task, err := h.taskService.GetTask(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.ListTasks(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) UpdateTask(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	task, err := h.taskService.UpdateTask(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateFuture(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	updated, err := h.taskService.UpdateFuture(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": updated})
}

func (h *Handler) DeleteTask(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	if err := h.taskService.DeleteTask(c.Request().Context(), c.Param("id")); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteFuture(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	deleted, err := h.taskService.DeleteFuture(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}

func (h *Handler) CompleteOccurrence(c echo.Context) error {
	v := viewer(c)
	if v.ViewerID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "viewer identity required")
	}
	err := h.taskService.CompleteOccurrence(c.Request().Context(), c.Param("id"), c.Param("date"), v.ViewerID)
	if err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ReopenOccurrence(c echo.Context) error {
	err := h.taskService.ReopenOccurrence(c.Request().Context(), c.Param("id"), c.Param("date"))
	if err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SkipOccurrence(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	err := h.taskService.SkipOccurrence(c.Request().Context(), c.Param("id"), c.Param("date"), viewer(c).ViewerID)
	if err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UnskipOccurrence(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	err := h.taskService.UnskipOccurrence(c.Request().Context(), c.Param("id"), c.Param("date"))
	if err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) OverrideOccurrenceTime(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var req dto.OverrideTimeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	err := h.taskService.OverrideOccurrenceTime(
		c.Request().Context(), c.Param("id"), c.Param("date"),
		req.DueTime, req.StartTime, req.EndTime,
	)
	if err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetCalendar(c echo.Context) error {
	from := c.QueryParam("from")
	to := c.QueryParam("to")
	if from == "" || to == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "from and to query parameters are required")
	}
	events, err := h.calendarService.GetCalendar(c.Request().Context(), from, to, viewer(c))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":  len(events),
		"events": events,
	})
}

func (h *Handler) CreateLeave(c echo.Context) error {
	var req dto.CreateLeaveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateLeaveRequest(&req); err != nil {
		return err
	}
	leave, err := h.leaveService.CreateLeave(c.Request().Context(), req.UserID, req.StartDate, req.EndDate, req.LeaveType)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, leave)
}

func (h *Handler) ListLeaves(c echo.Context) error {
	leaves, err := h.leaveService.ListLeaves(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":  len(leaves),
		"leaves": leaves,
	})
}

func (h *Handler) UpdateLeaveStatus(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var req dto.UpdateLeaveStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	status := constants.LeaveStatus(req.Status)
	if status != constants.LeaveApproved && status != constants.LeaveRejected && status != constants.LeavePending {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be pending, approved or rejected")
	}
	if err := h.leaveService.SetStatus(c.Request().Context(), c.Param("id"), status); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
