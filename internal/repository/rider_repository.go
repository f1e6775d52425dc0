package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bites4life/internal/db"
	apperrors "bites4life/internal/errors"
	"bites4life/internal/model"
)

// RiderRepository defines rider persistence operations.
type RiderRepository interface {
	Create(ctx context.Context, rider *model.Rider) error
	FindByCode(ctx context.Context, code string) (*model.Rider, error)
	List(ctx context.Context) ([]model.Rider, error)
	DeleteByCode(ctx context.Context, code string) (bool, error)
	// ApplyByCode writes columns to the rider row in a single UPDATE statement.
	ApplyByCode(ctx context.Context, code string, columns map[string]interface{}) (bool, error)
	Exists(ctx context.Context, code string) (bool, error)
}

type riderRepository struct {
	db *gorm.DB
}

// NewRiderRepository creates a new rider repository.
func NewRiderRepository(db *gorm.DB) RiderRepository {
	return &riderRepository{db: db}
}

// Create inserts a rider. A taken code yields ErrDuplicateCode.
func (r *riderRepository) Create(ctx context.Context, rider *model.Rider) error {
	if err := r.db.WithContext(ctx).Create(rider).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return apperrors.ErrDuplicateCode
		}
		return fmt.Errorf("create rider: %w", err)
	}
	return nil
}

// FindByCode finds a rider by code.
func (r *riderRepository) FindByCode(ctx context.Context, code string) (*model.Rider, error) {
	var rider model.Rider
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&rider).Error; err != nil {
		return nil, err
	}
	return &rider, nil
}

// List returns all riders in insertion order.
func (r *riderRepository) List(ctx context.Context) ([]model.Rider, error) {
	riders := make([]model.Rider, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&riders).Error; err != nil {
		return nil, err
	}
	return riders, nil
}

// DeleteByCode removes a rider and reports whether one existed.
func (r *riderRepository) DeleteByCode(ctx context.Context, code string) (bool, error) {
	res := r.db.WithContext(ctx).Where("code = ?", code).Delete(&model.Rider{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ApplyByCode updates the matched row atomically. MySQL reports zero affected
// rows when the new values equal the old ones, so a miss is confirmed with an
// existence check before reporting false.
func (r *riderRepository) ApplyByCode(ctx context.Context, code string, columns map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Rider{}).
		Where("code = ?", code).
		Updates(columns)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	return r.Exists(ctx, code)
}

// Exists reports whether a rider with code is stored.
func (r *riderRepository) Exists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Rider{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
