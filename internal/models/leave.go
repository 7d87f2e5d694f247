package model

import (
	"time"

	"staff-planner.com/staff-planner/internal/constants"
)

// Leave is one leave request. Only approved leaves surface on the calendar.
type Leave struct {
	ID        string                `gorm:"primaryKey;size:36" json:"id"`
	UserID    string                `gorm:"not null;index" json:"user_id"`
	StartDate string                `gorm:"size:10;not null" json:"start_date"`
	EndDate   string                `gorm:"size:10;not null" json:"end_date"`
	LeaveType string                `json:"leave_type"`
	Status    constants.LeaveStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt time.Time             `json:"created_at"`
}
