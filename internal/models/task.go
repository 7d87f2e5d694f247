package model

import (
	"time"

	"staff-planner.com/staff-planner/internal/constants"
)

// Task is one persisted task row. A rule-based recurring task stores its
// recurrence rule and is expanded per calendar request; a materialized batch
// instead stores one row per occurrence, all sharing title, creator and the
// creation instant of the batch operation.
//
// Dates are stored as YYYY-MM-DD strings and times as HH:MM strings so that
// day and minute precision survive the round trip through sqlite unchanged.
type Task struct {
	ID             string               `gorm:"primaryKey;size:36" json:"id"`
	Title          string               `gorm:"not null;index:idx_tasks_batch" json:"title"`
	Description    string               `json:"description"`
	Category       string               `json:"category"`
	Priority       string               `json:"priority"`
	DueDate        string               `gorm:"size:10;index" json:"due_date"`
	DueTime        *string              `gorm:"size:5" json:"due_time,omitempty"`
	IsAllDay       bool                 `json:"is_all_day"`
	IsActivity     bool                 `json:"is_activity"`
	StartTime      *string              `gorm:"size:5" json:"start_time,omitempty"`
	EndTime        *string              `gorm:"size:5" json:"end_time,omitempty"`
	RecurrenceRule *string              `json:"recurrence_rule,omitempty"`
	AssignedTo     string               `gorm:"default:all" json:"assigned_to"`
	AssignedGroup  *string              `json:"assigned_group,omitempty"`
	Status         constants.TaskStatus `gorm:"type:varchar(20);not null" json:"status"`
	CompletedBy    *string              `json:"completed_by,omitempty"`
	CompletedAt    *time.Time           `json:"completed_at,omitempty"`
	CreatedBy      string               `gorm:"not null;index:idx_tasks_batch" json:"created_by"`
	CreatedAt      time.Time            `json:"created_at"`
}

// Recurring reports whether the row carries a recurrence rule, i.e. its
// occurrences are computed live rather than persisted.
func (t *Task) Recurring() bool {
	return t.RecurrenceRule != nil && *t.RecurrenceRule != ""
}
