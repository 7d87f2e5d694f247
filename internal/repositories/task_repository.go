package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"staff-planner.com/staff-planner/internal/constants"
	model "staff-planner.com/staff-planner/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

var ErrNothingUpdated = errors.New("no rows updated")

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = constants.StatusPending
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(task).Error
}

// CreateBatch inserts every row of one materialized batch in a single
// transaction. The caller has already stamped all rows with one shared
// creation instant; a failure on any row rolls the whole batch back so the
// correlation key never covers a partial batch.
func (r *TaskRepository) CreateBatch(ctx context.Context, tasks []*model.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, task := range tasks {
			if err := tx.Create(task).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Order("due_date asc, created_at desc").Find(&tasks).Error
	return tasks, err
}

// ListDueInRange returns non-recurring rows due inside [from, to].
func (r *TaskRepository) ListDueInRange(ctx context.Context, from, to string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("(recurrence_rule IS NULL OR recurrence_rule = '') AND due_date >= ? AND due_date <= ?", from, to).
		Order("due_date asc").
		Find(&tasks).Error
	return tasks, err
}

// ListRecurring returns recurring definitions anchored on or before to. A
// definition anchored before the window can still occur inside it.
func (r *TaskRepository) ListRecurring(ctx context.Context, to string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("recurrence_rule IS NOT NULL AND recurrence_rule <> '' AND due_date <= ?", to).
		Find(&tasks).Error
	return tasks, err
}

// ListBatchCandidates returns the forward-looking sibling candidates of a
// batch reference row: same title and creator, due on or after fromDate. Day
// truncation of the creation instant is applied by the caller.
func (r *TaskRepository) ListBatchCandidates(ctx context.Context, title, createdBy, fromDate string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("title = ? AND created_by = ? AND due_date >= ?", title, createdBy, fromDate).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) UpdateFields(ctx context.Context, ids []string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id IN ?", ids).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNothingUpdated
	}
	return nil
}

func (r *TaskRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Task{}).Error
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id).Error
}
