package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"staff-planner.com/staff-planner/internal/batch"
	"staff-planner.com/staff-planner/internal/cache"
	"staff-planner.com/staff-planner/internal/constants"
	apperrors "staff-planner.com/staff-planner/internal/errors"
	model "staff-planner.com/staff-planner/internal/models"
	"staff-planner.com/staff-planner/internal/recurrence"
	repository "staff-planner.com/staff-planner/internal/repositories"
)

type TaskService struct {
	tasks    *repository.TaskRepository
	overlays *repository.OverlayRepository
	cache    *cache.CalendarCache
}

func NewTaskService(
	tasks *repository.TaskRepository,
	overlays *repository.OverlayRepository,
	calendarCache *cache.CalendarCache,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		overlays: overlays,
		cache:    calendarCache,
	}
}

type CreateTaskInput struct {
	Title          string
	Description    string
	Category       string
	Priority       string
	DueDate        string
	DueTime        *string
	IsAllDay       bool
	IsActivity     bool
	StartTime      *string
	EndTime        *string
	RecurrenceRule *string
	AssignedTo     string
	AssignedGroup  *string
	CreatedBy      string
}

// CreateTask creates one task row: regular, activity, or rule-based
// recurring. The recurrence rule is validated at write time and never
// mutated afterwards; recurrence changes replace the whole task.
func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput) (*model.Task, error) {
	if _, err := recurrence.ParseDate(in.DueDate); err != nil {
		return nil, apperrors.ErrInvalidDate
	}
	if in.RecurrenceRule != nil && *in.RecurrenceRule != "" {
		if _, err := recurrence.ParseRule(*in.RecurrenceRule); err != nil {
			return nil, apperrors.ErrBadRecurrenceRule
		}
	}

	task := &model.Task{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Description:    in.Description,
		Category:       in.Category,
		Priority:       in.Priority,
		DueDate:        in.DueDate,
		DueTime:        in.DueTime,
		IsAllDay:       in.IsAllDay,
		IsActivity:     in.IsActivity,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		RecurrenceRule: in.RecurrenceRule,
		AssignedTo:     assignedOrAll(in.AssignedTo),
		AssignedGroup:  in.AssignedGroup,
		Status:         constants.StatusPending,
		CreatedBy:      in.CreatedBy,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return task, nil
}

type CreateBatchInput struct {
	CreateTaskInput
	StartDate    string
	EndDate      string
	Weekdays     []recurrence.Weekday
	IntervalUnit batch.IntervalUnit
}

// CreateBatch materializes a recurring batch: one independent row per
// generated date. All rows share one creation instant, captured exactly once
// here, since that instant is the sole correlation key for later update- and
// delete-future operations.
func (s *TaskService) CreateBatch(ctx context.Context, in CreateBatchInput) ([]model.Task, error) {
	dates, err := batch.GenerateDates(in.StartDate, in.EndDate, in.Weekdays, in.IntervalUnit)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, apperrors.ErrNoDatesInRange
	}

	createdAt := time.Now().UTC()

	rows := make([]*model.Task, 0, len(dates))
	for _, date := range dates {
		rows = append(rows, &model.Task{
			ID:            uuid.NewString(),
			Title:         in.Title,
			Description:   in.Description,
			Category:      in.Category,
			Priority:      in.Priority,
			DueDate:       date,
			DueTime:       in.DueTime,
			IsAllDay:      in.IsAllDay,
			IsActivity:    in.IsActivity,
			StartTime:     in.StartTime,
			EndTime:       in.EndTime,
			AssignedTo:    assignedOrAll(in.AssignedTo),
			AssignedGroup: in.AssignedGroup,
			Status:        constants.StatusPending,
			CreatedBy:     in.CreatedBy,
			CreatedAt:     createdAt,
		})
	}

	if err := s.tasks.CreateBatch(ctx, rows); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	log.Info().Int("rows", len(rows)).Str("title", in.Title).Msg("materialized recurring batch")

	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, *row)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.tasks.List(ctx)
}

// editableFields are the columns a single- or batch-edit may touch. due_date
// and status are per-instance and excluded from batch edits separately.
var editableFields = map[string]bool{
	"title":          true,
	"description":    true,
	"category":       true,
	"priority":       true,
	"due_date":       true,
	"due_time":       true,
	"is_all_day":     true,
	"is_activity":    true,
	"start_time":     true,
	"end_time":       true,
	"assigned_to":    true,
	"assigned_group": true,
	"status":         true,
}

// UpdateTask applies a field diff to one row.
func (s *TaskService) UpdateTask(ctx context.Context, id string, fields map[string]interface{}) (*model.Task, error) {
	if _, err := s.GetTask(ctx, id); err != nil {
		return nil, err
	}
	diff := filterFields(fields, nil)
	if len(diff) > 0 {
		if err := s.tasks.UpdateFields(ctx, []string{id}, diff); err != nil {
			return nil, err
		}
		s.cache.Invalidate(ctx)
	}
	return s.GetTask(ctx, id)
}

// UpdateFuture applies a field diff to every batch sibling of the reference
// row, itself included, looking forward only. due_date and status stay
// per-instance and are never batch-edited.
func (s *TaskService) UpdateFuture(ctx context.Context, id string, fields map[string]interface{}) (int, error) {
	ids, err := s.futureBatchIDs(ctx, id)
	if err != nil {
		return 0, err
	}
	diff := filterFields(fields, map[string]bool{"due_date": true, "status": true})
	if len(diff) == 0 {
		return 0, nil
	}
	if err := s.tasks.UpdateFields(ctx, ids, diff); err != nil {
		return 0, err
	}
	s.cache.Invalidate(ctx)
	return len(ids), nil
}

// DeleteFuture removes every batch sibling of the reference row, itself
// included, looking forward only.
func (s *TaskService) DeleteFuture(ctx context.Context, id string) (int, error) {
	ids, err := s.futureBatchIDs(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := s.tasks.DeleteByIDs(ctx, ids); err != nil {
		return 0, err
	}
	s.cache.Invalidate(ctx)
	return len(ids), nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.GetTask(ctx, id); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *TaskService) futureBatchIDs(ctx context.Context, id string) ([]string, error) {
	ref, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	candidates, err := s.tasks.ListBatchCandidates(ctx, ref.Title, ref.CreatedBy, ref.DueDate)
	if err != nil {
		return nil, err
	}
	ids := batch.IdentifyBatch(*ref, candidates)
	if len(ids) == 0 {
		// The reference row is always a member of its own batch, so an empty
		// set means the rows vanished under us.
		return nil, apperrors.ErrNoTasksFound
	}
	return ids, nil
}

// CompleteOccurrence marks one occurrence done. Rule-based recurring tasks
// get a completion overlay upserted by (task, date); a materialized or
// regular row is mutated directly.
func (s *TaskService) CompleteOccurrence(ctx context.Context, taskID, date, userID string) error {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := recurrence.ParseDate(date); err != nil {
		return apperrors.ErrInvalidDate
	}

	if task.Recurring() {
		if err := s.overlays.UpsertCompletion(ctx, taskID, date, userID); err != nil {
			return err
		}
	} else {
		// A materialized or regular row has exactly one occurrence.
		if date != task.DueDate {
			return apperrors.ErrInvalidDate
		}
		completedAt := time.Now().UTC()
		err := s.tasks.UpdateFields(ctx, []string{taskID}, map[string]interface{}{
			"status":       constants.StatusCompleted,
			"completed_by": userID,
			"completed_at": completedAt,
		})
		if err != nil {
			return err
		}
	}
	s.cache.Invalidate(ctx)
	return nil
}

// ReopenOccurrence undoes a completion.
func (s *TaskService) ReopenOccurrence(ctx context.Context, taskID, date string) error {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := recurrence.ParseDate(date); err != nil {
		return apperrors.ErrInvalidDate
	}

	if task.Recurring() {
		if err := s.overlays.DeleteCompletion(ctx, taskID, date); err != nil {
			return err
		}
	} else {
		if date != task.DueDate {
			return apperrors.ErrInvalidDate
		}
		err := s.tasks.UpdateFields(ctx, []string{taskID}, map[string]interface{}{
			"status":       constants.StatusPending,
			"completed_by": nil,
			"completed_at": nil,
		})
		if err != nil {
			return err
		}
	}
	s.cache.Invalidate(ctx)
	return nil
}

// SkipOccurrence marks one occurrence of a rule-based recurring task as
// intentionally absent. The base definition is untouched.
func (s *TaskService) SkipOccurrence(ctx context.Context, taskID, date, userID string) error {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !task.Recurring() {
		return apperrors.ErrTaskNotRecurring
	}
	if _, err := recurrence.ParseDate(date); err != nil {
		return apperrors.ErrInvalidDate
	}
	if err := s.overlays.CreateSkip(ctx, taskID, date, userID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *TaskService) UnskipOccurrence(ctx context.Context, taskID, date string) error {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !task.Recurring() {
		return apperrors.ErrTaskNotRecurring
	}
	if err := s.overlays.DeleteSkip(ctx, taskID, date); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// OverrideOccurrenceTime replaces the time fields of one occurrence of a
// rule-based recurring task. Nil values are stored as explicit "no time";
// materialized instances are edited directly via UpdateTask instead.
func (s *TaskService) OverrideOccurrenceTime(ctx context.Context, taskID, date string, dueTime, startTime, endTime *string) error {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !task.Recurring() {
		return apperrors.ErrTaskNotRecurring
	}
	if _, err := recurrence.ParseDate(date); err != nil {
		return apperrors.ErrInvalidDate
	}
	if err := s.overlays.UpsertOverride(ctx, taskID, date, dueTime, startTime, endTime); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func filterFields(fields map[string]interface{}, exclude map[string]bool) map[string]interface{} {
	diff := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if !editableFields[k] || exclude[k] {
			continue
		}
		diff[k] = v
	}
	return diff
}

func assignedOrAll(assignedTo string) string {
	if assignedTo == "" {
		return constants.AssignedAll
	}
	return assignedTo
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrTaskNotFound
	}
	return err
}
