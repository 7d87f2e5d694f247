package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"staff-planner.com/staff-planner/internal/constants"
	model "staff-planner.com/staff-planner/internal/models"
)

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(ctx context.Context, leave *model.Leave) error {
	if leave.ID == "" {
		leave.ID = uuid.NewString()
	}
	if leave.Status == "" {
		leave.Status = constants.LeavePending
	}
	if leave.CreatedAt.IsZero() {
		leave.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(leave).Error
}

func (r *LeaveRepository) List(ctx context.Context) ([]model.Leave, error) {
	var leaves []model.Leave
	err := r.db.WithContext(ctx).Order("start_date asc").Find(&leaves).Error
	return leaves, err
}

func (r *LeaveRepository) UpdateStatus(ctx context.Context, id string, status constants.LeaveStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Leave{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListApprovedOverlapping returns approved leaves overlapping [from, to].
func (r *LeaveRepository) ListApprovedOverlapping(ctx context.Context, from, to string) ([]model.Leave, error) {
	var leaves []model.Leave
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_date <= ? AND end_date >= ?", constants.LeaveApproved, to, from).
		Find(&leaves).Error
	return leaves, err
}
