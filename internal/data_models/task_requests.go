package dto

// CreateTaskRequest creates one task: regular, activity, or rule-based
// recurring (recurrence_rule set).
type CreateTaskRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Priority       string  `json:"priority"`
	DueDate        string  `json:"due_date"`
	DueTime        *string `json:"due_time"`
	IsAllDay       bool    `json:"is_all_day"`
	IsActivity     bool    `json:"is_activity"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
	RecurrenceRule *string `json:"recurrence_rule"`
	AssignedTo     string  `json:"assigned_to"`
	AssignedGroup  *string `json:"assigned_group"`
}

// CreateBatchRequest materializes a recurring batch: one row per date matched
// by the repeat specification.
type CreateBatchRequest struct {
	CreateTaskRequest
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Weekdays     []string `json:"weekdays"`
	IntervalUnit string   `json:"interval_unit"`
}

// UpdateTaskRequest is a sparse field diff; only present keys are applied.
type UpdateTaskRequest map[string]interface{}

// OverrideTimeRequest replaces the time fields of one occurrence. A null
// field is stored as an explicit "no time", not as "use the base time".
type OverrideTimeRequest struct {
	DueTime   *string `json:"due_time"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

type CreateLeaveRequest struct {
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	LeaveType string `json:"leave_type"`
}

type UpdateLeaveStatusRequest struct {
	Status string `json:"status"`
}
