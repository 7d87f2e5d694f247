package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"staff-planner.com/staff-planner/internal/batch"
	"staff-planner.com/staff-planner/internal/cache"
	"staff-planner.com/staff-planner/internal/calendar"
	"staff-planner.com/staff-planner/internal/constants"
	apperrors "staff-planner.com/staff-planner/internal/errors"
	model "staff-planner.com/staff-planner/internal/models"
	"staff-planner.com/staff-planner/internal/recurrence"
	repository "staff-planner.com/staff-planner/internal/repositories"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&model.Task{},
		&model.TaskSkip{},
		&model.TaskOverride{},
		&model.TaskCompletion{},
		&model.Leave{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return db
}

func setupServices(t *testing.T) (*TaskService, *CalendarService, *repository.OverlayRepository) {
	db := setupTestDB(t)
	taskRepo := repository.NewTaskRepository(db)
	overlayRepo := repository.NewOverlayRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	calendarCache := cache.NewCalendarCache(nil, time.Minute) // redis disabled in tests

	taskService := NewTaskService(taskRepo, overlayRepo, calendarCache)
	calendarService := NewCalendarService(taskRepo, overlayRepo, leaveRepo, calendarCache)
	return taskService, calendarService, overlayRepo
}

func mondayBatchInput(title string) CreateBatchInput {
	return CreateBatchInput{
		CreateTaskInput: CreateTaskInput{
			Title:     title,
			CreatedBy: "admin-1",
		},
		StartDate:    "2025-01-01",
		EndDate:      "2025-01-31",
		Weekdays:     []recurrence.Weekday{recurrence.Monday},
		IntervalUnit: batch.UnitWeekly,
	}
}

func TestCreateBatch_SharesOneCreationInstant(t *testing.T) {
	taskService, _, _ := setupServices(t)
	ctx := context.Background()

	tasks, err := taskService.CreateBatch(ctx, mondayBatchInput("Water plants"))
	if err != nil {
		t.Fatalf("failed to create batch: %v", err)
	}

	if len(tasks) != 4 {
		t.Fatalf("expected 4 rows for the Mondays of January 2025, got %d", len(tasks))
	}

	wantDates := []string{"2025-01-06", "2025-01-13", "2025-01-20", "2025-01-27"}
	for i, task := range tasks {
		if task.DueDate != wantDates[i] {
			t.Errorf("row %d: expected due date %s, got %s", i, wantDates[i], task.DueDate)
		}
		if !task.CreatedAt.Equal(tasks[0].CreatedAt) {
			t.Errorf("row %d: creation instant differs from the batch instant", i)
		}
	}
}

func TestCreateBatch_NoDatesMatched(t *testing.T) {
	taskService, _, _ := setupServices(t)

	in := mondayBatchInput("Water plants")
	in.StartDate = "2025-01-07" // Tuesday
	in.EndDate = "2025-01-10"   // Friday

	_, err := taskService.CreateBatch(context.Background(), in)
	if !errors.Is(err, apperrors.ErrNoDatesInRange) {
		t.Errorf("expected ErrNoDatesInRange, got %v", err)
	}
}

func TestUpdateFuture_ExcludesPerInstanceFields(t *testing.T) {
	taskService, _, _ := setupServices(t)
	ctx := context.Background()

	tasks, err := taskService.CreateBatch(ctx, mondayBatchInput("Water plants"))
	if err != nil {
		t.Fatalf("failed to create batch: %v", err)
	}

	// Edit from the second row: that row and later siblings change.
	updated, err := taskService.UpdateFuture(ctx, tasks[1].ID, map[string]interface{}{
		"title":    "Water all plants",
		"priority": "high",
		"due_date": "2030-01-01",
		"status":   string(constants.StatusCompleted),
	})
	if err != nil {
		t.Fatalf("failed to update future: %v", err)
	}
	if updated != 3 {
		t.Errorf("expected 3 rows updated, got %d", updated)
	}

	first, _ := taskService.GetTask(ctx, tasks[0].ID)
	if first.Title != "Water plants" {
		t.Errorf("past sibling must stay untouched, got title %q", first.Title)
	}

	for _, id := range []string{tasks[1].ID, tasks[2].ID, tasks[3].ID} {
		task, _ := taskService.GetTask(ctx, id)
		if task.Title != "Water all plants" || task.Priority != "high" {
			t.Errorf("task %s: diff not applied", id)
		}
		if task.Status != constants.StatusPending {
			t.Errorf("task %s: status is per-instance and must not batch-edit", id)
		}
		if task.DueDate == "2030-01-01" {
			t.Errorf("task %s: due date is per-instance and must not batch-edit", id)
		}
	}
}

func TestUpdateFuture_UnknownTask(t *testing.T) {
	taskService, _, _ := setupServices(t)

	_, err := taskService.UpdateFuture(context.Background(), "missing", map[string]interface{}{"title": "x"})
	if !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestDeleteFuture_FromMiddle(t *testing.T) {
	taskService, _, _ := setupServices(t)
	ctx := context.Background()

	tasks, err := taskService.CreateBatch(ctx, mondayBatchInput("Laundry"))
	if err != nil {
		t.Fatalf("failed to create batch: %v", err)
	}

	deleted, err := taskService.DeleteFuture(ctx, tasks[2].ID)
	if err != nil {
		t.Fatalf("failed to delete future: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 rows deleted, got %d", deleted)
	}

	remaining, _ := taskService.ListTasks(ctx)
	if len(remaining) != 2 {
		t.Fatalf("expected 2 remaining rows, got %d", len(remaining))
	}
	for _, task := range remaining {
		if task.DueDate >= tasks[2].DueDate {
			t.Errorf("row %s due %s should have been deleted", task.ID, task.DueDate)
		}
	}
}

func TestDeleteFuture_IndependentTaskCreatedLaterSurvives(t *testing.T) {
	taskService, _, _ := setupServices(t)
	ctx := context.Background()

	tasks, err := taskService.CreateBatch(ctx, mondayBatchInput("Laundry"))
	if err != nil {
		t.Fatalf("failed to create batch: %v", err)
	}

	// Same title and creator but a different creation day: not a sibling.
	stray := &model.Task{
		Title:     "Laundry",
		CreatedBy: "admin-1",
		DueDate:   "2025-01-20",
		Status:    constants.StatusPending,
		CreatedAt: tasks[0].CreatedAt.Add(-48 * time.Hour),
	}
	if err := taskService.tasks.Create(ctx, stray); err != nil {
		t.Fatalf("failed to create stray task: %v", err)
	}

	deleted, err := taskService.DeleteFuture(ctx, tasks[0].ID)
	if err != nil {
		t.Fatalf("failed to delete future: %v", err)
	}
	if deleted != 4 {
		t.Errorf("expected the 4 batch rows deleted, got %d", deleted)
	}

	if _, err := taskService.GetTask(ctx, stray.ID); err != nil {
		t.Errorf("stray task must survive a batch delete: %v", err)
	}
}

func TestCompleteOccurrence_UpsertKeepsOneRow(t *testing.T) {
	taskService, _, overlayRepo := setupServices(t)
	ctx := context.Background()

	rule := "FREQ=WEEKLY;BYDAY=MO"
	task, err := taskService.CreateTask(ctx, CreateTaskInput{
		Title:          "Water plants",
		DueDate:        "2025-01-06",
		RecurrenceRule: &rule,
		CreatedBy:      "admin-1",
	})
	if err != nil {
		t.Fatalf("failed to create recurring task: %v", err)
	}

	if err := taskService.CompleteOccurrence(ctx, task.ID, "2025-01-13", "staff-2"); err != nil {
		t.Fatalf("first completion failed: %v", err)
	}
	if err := taskService.CompleteOccurrence(ctx, task.ID, "2025-01-13", "staff-5"); err != nil {
		t.Fatalf("second completion failed: %v", err)
	}

	completions, err := overlayRepo.ListCompletions(ctx, []string{task.ID}, "2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("failed to list completions: %v", err)
	}
	if len(completions) != 1 {
		t.Fatalf("expected one completion row after double submission, got %d", len(completions))
	}
	if completions[0].CompletedBy != "staff-5" {
		t.Errorf("expected the latest completer to win, got %s", completions[0].CompletedBy)
	}
}

func TestCompleteOccurrence_MaterializedRowMutatedDirectly(t *testing.T) {
	taskService, _, overlayRepo := setupServices(t)
	ctx := context.Background()

	task, err := taskService.CreateTask(ctx, CreateTaskInput{
		Title:     "One-off errand",
		DueDate:   "2025-01-06",
		CreatedBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if err := taskService.CompleteOccurrence(ctx, task.ID, "2025-01-06", "staff-2"); err != nil {
		t.Fatalf("completion failed: %v", err)
	}

	got, _ := taskService.GetTask(ctx, task.ID)
	if got.Status != constants.StatusCompleted {
		t.Errorf("expected row status completed, got %s", got.Status)
	}
	if got.CompletedBy == nil || *got.CompletedBy != "staff-2" {
		t.Errorf("expected completer recorded on the row")
	}

	completions, _ := overlayRepo.ListCompletions(ctx, []string{task.ID}, "2025-01-01", "2025-01-31")
	if len(completions) != 0 {
		t.Errorf("non-recurring completion must not create overlay rows, got %d", len(completions))
	}
}

func TestCompleteOccurrence_MaterializedRowDateMustMatch(t *testing.T) {
	taskService, _, _ := setupServices(t)
	ctx := context.Background()

	task, err := taskService.CreateTask(ctx, CreateTaskInput{
		Title:     "One-off errand",
		DueDate:   "2025-01-06",
		CreatedBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	err = taskService.CompleteOccurrence(ctx, task.ID, "2025-01-07", "staff-2")
	if !errors.Is(err, apperrors.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate for a date the row does not occur on, got %v", err)
	}

	got, _ := taskService.GetTask(ctx, task.ID)
	if got.Status != constants.StatusPending {
		t.Errorf("row must stay pending after a rejected completion, got %s", got.Status)
	}
}

func TestReopenOccurrence_DateValidated(t *testing.T) {
	taskService, _, _ := setupServices(t)
	ctx := context.Background()

	task, err := taskService.CreateTask(ctx, CreateTaskInput{
		Title:     "One-off errand",
		DueDate:   "2025-01-06",
		CreatedBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	if err := taskService.CompleteOccurrence(ctx, task.ID, "2025-01-06", "staff-2"); err != nil {
		t.Fatalf("completion failed: %v", err)
	}

	if err := taskService.ReopenOccurrence(ctx, task.ID, "06-01-2025"); !errors.Is(err, apperrors.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate for a malformed date, got %v", err)
	}
	if err := taskService.ReopenOccurrence(ctx, task.ID, "2025-01-07"); !errors.Is(err, apperrors.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate for a mismatched date, got %v", err)
	}

	if err := taskService.ReopenOccurrence(ctx, task.ID, "2025-01-06"); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, _ := taskService.GetTask(ctx, task.ID)
	if got.Status != constants.StatusPending {
		t.Errorf("expected row back to pending, got %s", got.Status)
	}
}

func TestSkipOccurrence_NonRecurringRejected(t *testing.T) {
	taskService, _, _ := setupServices(t)
	ctx := context.Background()

	task, err := taskService.CreateTask(ctx, CreateTaskInput{
		Title:     "One-off errand",
		DueDate:   "2025-01-06",
		CreatedBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	err = taskService.SkipOccurrence(ctx, task.ID, "2025-01-06", "admin-1")
	if !errors.Is(err, apperrors.ErrTaskNotRecurring) {
		t.Errorf("expected ErrTaskNotRecurring, got %v", err)
	}
}

func TestCreateTask_BadRuleRejected(t *testing.T) {
	taskService, _, _ := setupServices(t)

	rule := "FREQ=WEEKLY;INTERVAL=0"
	_, err := taskService.CreateTask(context.Background(), CreateTaskInput{
		Title:          "Broken",
		DueDate:        "2025-01-06",
		RecurrenceRule: &rule,
		CreatedBy:      "admin-1",
	})
	if !errors.Is(err, apperrors.ErrBadRecurrenceRule) {
		t.Errorf("expected ErrBadRecurrenceRule, got %v", err)
	}
}

func TestCalendarService_EndToEnd(t *testing.T) {
	db := setupTestDB(t)
	taskRepo := repository.NewTaskRepository(db)
	overlayRepo := repository.NewOverlayRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	calendarCache := cache.NewCalendarCache(nil, time.Minute)

	taskService := NewTaskService(taskRepo, overlayRepo, calendarCache)
	calendarService := NewCalendarService(taskRepo, overlayRepo, leaveRepo, calendarCache)
	leaveService := NewLeaveService(leaveRepo, calendarCache)

	ctx := context.Background()

	rule := "FREQ=WEEKLY;BYDAY=MO"
	task, err := taskService.CreateTask(ctx, CreateTaskInput{
		Title:          "Water plants",
		DueDate:        "2025-01-06",
		RecurrenceRule: &rule,
		CreatedBy:      "admin-1",
	})
	if err != nil {
		t.Fatalf("failed to create recurring task: %v", err)
	}
	if err := taskService.SkipOccurrence(ctx, task.ID, "2025-01-13", "admin-1"); err != nil {
		t.Fatalf("failed to skip occurrence: %v", err)
	}

	leave, err := leaveService.CreateLeave(ctx, "staff-2", "2025-01-07", "2025-01-08", "vacation")
	if err != nil {
		t.Fatalf("failed to create leave: %v", err)
	}
	if err := leaveService.SetStatus(ctx, leave.ID, constants.LeaveApproved); err != nil {
		t.Fatalf("failed to approve leave: %v", err)
	}

	events, err := calendarService.GetCalendar(ctx, "2025-01-06", "2025-01-20", calendar.Visibility{Admin: true})
	if err != nil {
		t.Fatalf("failed to project calendar: %v", err)
	}

	var taskDates, leaveDates []string
	for _, ev := range events {
		switch ev.Kind {
		case calendar.KindTask:
			taskDates = append(taskDates, ev.Date)
		case calendar.KindLeave:
			leaveDates = append(leaveDates, ev.Date)
		}
	}

	wantTaskDates := []string{"2025-01-06", "2025-01-20"}
	if len(taskDates) != len(wantTaskDates) {
		t.Fatalf("expected task occurrences %v, got %v", wantTaskDates, taskDates)
	}
	for i := range wantTaskDates {
		if taskDates[i] != wantTaskDates[i] {
			t.Errorf("task occurrence %d: expected %s, got %s", i, wantTaskDates[i], taskDates[i])
		}
	}

	wantLeaveDates := []string{"2025-01-07", "2025-01-08"}
	if len(leaveDates) != len(wantLeaveDates) {
		t.Fatalf("expected leave days %v, got %v", wantLeaveDates, leaveDates)
	}
}

func TestCalendarService_InvalidRange(t *testing.T) {
	_, calendarService, _ := setupServices(t)

	_, err := calendarService.GetCalendar(context.Background(), "2025-02-01", "2025-01-01", calendar.Visibility{Admin: true})
	if !errors.Is(err, apperrors.ErrEndBeforeStart) {
		t.Errorf("expected ErrEndBeforeStart, got %v", err)
	}

	_, err = calendarService.GetCalendar(context.Background(), "bad", "2025-01-01", calendar.Visibility{Admin: true})
	if !errors.Is(err, apperrors.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}
