package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "staff-planner.com/staff-planner/internal/models"
)

// OverlayRepository persists the three per-occurrence overlay layers. All
// writes are keyed by the natural key (task_id, date); upserts at that key
// make near-simultaneous submissions for the same occurrence converge on one
// row instead of erroring or duplicating.
type OverlayRepository struct {
	db *gorm.DB
}

func NewOverlayRepository(db *gorm.DB) *OverlayRepository {
	return &OverlayRepository{db: db}
}

func (r *OverlayRepository) CreateSkip(ctx context.Context, taskID, date, createdBy string) error {
	skip := &model.TaskSkip{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Date:      date,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(skip).Error
}

func (r *OverlayRepository) DeleteSkip(ctx context.Context, taskID, date string) error {
	return r.db.WithContext(ctx).
		Where("task_id = ? AND date = ?", taskID, date).
		Delete(&model.TaskSkip{}).Error
}

func (r *OverlayRepository) UpsertOverride(ctx context.Context, taskID, date string, dueTime, startTime, endTime *string) error {
	override := &model.TaskOverride{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Date:      date,
		DueTime:   dueTime,
		StartTime: startTime,
		EndTime:   endTime,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"due_time", "start_time", "end_time"}),
		}).
		Create(override).Error
}

func (r *OverlayRepository) DeleteOverride(ctx context.Context, taskID, date string) error {
	return r.db.WithContext(ctx).
		Where("task_id = ? AND date = ?", taskID, date).
		Delete(&model.TaskOverride{}).Error
}

// UpsertCompletion records one occurrence as done. Completing an already
// completed occurrence replaces completer and timestamp with the latest.
func (r *OverlayRepository) UpsertCompletion(ctx context.Context, taskID, date, completedBy string) error {
	completion := &model.TaskCompletion{
		ID:          uuid.NewString(),
		TaskID:      taskID,
		Date:        date,
		CompletedBy: completedBy,
		CompletedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed_by", "completed_at"}),
		}).
		Create(completion).Error
}

func (r *OverlayRepository) DeleteCompletion(ctx context.Context, taskID, date string) error {
	return r.db.WithContext(ctx).
		Where("task_id = ? AND date = ?", taskID, date).
		Delete(&model.TaskCompletion{}).Error
}

func (r *OverlayRepository) ListSkips(ctx context.Context, taskIDs []string, from, to string) ([]model.TaskSkip, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var skips []model.TaskSkip
	err := r.db.WithContext(ctx).
		Where("task_id IN ? AND date >= ? AND date <= ?", taskIDs, from, to).
		Find(&skips).Error
	return skips, err
}

func (r *OverlayRepository) ListOverrides(ctx context.Context, taskIDs []string, from, to string) ([]model.TaskOverride, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var overrides []model.TaskOverride
	err := r.db.WithContext(ctx).
		Where("task_id IN ? AND date >= ? AND date <= ?", taskIDs, from, to).
		Find(&overrides).Error
	return overrides, err
}

func (r *OverlayRepository) ListCompletions(ctx context.Context, taskIDs []string, from, to string) ([]model.TaskCompletion, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var completions []model.TaskCompletion
	err := r.db.WithContext(ctx).
		Where("task_id IN ? AND date >= ? AND date <= ?", taskIDs, from, to).
		Find(&completions).Error
	return completions, err
}

func (r *OverlayRepository) FindCompletion(ctx context.Context, taskID, date string) (*model.TaskCompletion, error) {
	var completion model.TaskCompletion
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND date = ?", taskID, date).
		First(&completion).Error; err != nil {
		return nil, err
	}
	return &completion, nil
}
