package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"staff-planner.com/staff-planner/internal/cache"
	"staff-planner.com/staff-planner/internal/constants"
	apperrors "staff-planner.com/staff-planner/internal/errors"
	model "staff-planner.com/staff-planner/internal/models"
	"staff-planner.com/staff-planner/internal/recurrence"
	repository "staff-planner.com/staff-planner/internal/repositories"
)

// LeaveService carries the minimal leave surface the calendar needs: create,
// list, approve/reject.
type LeaveService struct {
	leaves *repository.LeaveRepository
	cache  *cache.CalendarCache
}

func NewLeaveService(leaves *repository.LeaveRepository, calendarCache *cache.CalendarCache) *LeaveService {
	return &LeaveService{leaves: leaves, cache: calendarCache}
}

func (s *LeaveService) CreateLeave(ctx context.Context, userID, startDate, endDate, leaveType string) (*model.Leave, error) {
	start, err := recurrence.ParseDate(startDate)
	if err != nil {
		return nil, apperrors.ErrInvalidDate
	}
	end, err := recurrence.ParseDate(endDate)
	if err != nil {
		return nil, apperrors.ErrInvalidDate
	}
	if end.Before(start) {
		return nil, apperrors.ErrEndBeforeStart
	}

	leave := &model.Leave{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
		LeaveType: leaveType,
		Status:    constants.LeavePending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.leaves.Create(ctx, leave); err != nil {
		return nil, err
	}
	return leave, nil
}

func (s *LeaveService) ListLeaves(ctx context.Context) ([]model.Leave, error) {
	return s.leaves.List(ctx)
}

func (s *LeaveService) SetStatus(ctx context.Context, id string, status constants.LeaveStatus) error {
	if err := s.leaves.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrLeaveNotFound
		}
		return err
	}
	// Approval state changes what the calendar shows.
	s.cache.Invalidate(ctx)
	return nil
}
