package model

import "time"

// TaskSkip marks one occurrence of a rule-based recurring task as
// intentionally absent. The base task is untouched.
type TaskSkip struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"not null;uniqueIndex:idx_skips_task_date" json:"task_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_skips_task_date" json:"date"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskOverride replaces the due time and activity window of one occurrence of
// a rule-based recurring task. A nil time field on an existing record means
// "explicitly no time", which is distinct from the record being absent.
type TaskOverride struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"not null;uniqueIndex:idx_overrides_task_date" json:"task_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_overrides_task_date" json:"date"`
	DueTime   *string   `gorm:"size:5" json:"due_time"`
	StartTime *string   `gorm:"size:5" json:"start_time"`
	EndTime   *string   `gorm:"size:5" json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskCompletion marks one occurrence of a rule-based recurring task as done.
// Re-completing the same occurrence replaces completer and timestamp.
type TaskCompletion struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID      string    `gorm:"not null;uniqueIndex:idx_completions_task_date" json:"task_id"`
	Date        string    `gorm:"size:10;not null;uniqueIndex:idx_completions_task_date" json:"date"`
	CompletedBy string    `gorm:"not null" json:"completed_by"`
	CompletedAt time.Time `json:"completed_at"`
}
