package repository

import (
	"context"

	"gorm.io/gorm"

	"storefront/internal/model"
)

// PendingRepository defines pending-registration persistence operations.
type PendingRepository interface {
	Upsert(ctx context.Context, pending *model.PendingRegistration) error
	FindByEmail(ctx context.Context, email string) (*model.PendingRegistration, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type pendingRepository struct {
	db *gorm.DB
}

// NewPendingRepository builds a GORM-backed repository.
func NewPendingRepository(db *gorm.DB) PendingRepository {
	return &pendingRepository{db: db}
}

// Upsert replaces any existing pending registration for the email, so a
// repeated sign-up always overwrites the previous code and fields.
func (r *pendingRepository) Upsert(ctx context.Context, pending *model.PendingRegistration) error {
	var existing model.PendingRegistration
	err := r.db.WithContext(ctx).Where("email = ?", pending.Email).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		return r.db.WithContext(ctx).Create(pending).Error
	}

	pending.ID = existing.ID
	pending.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(pending).Error
}

func (r *pendingRepository) FindByEmail(ctx context.Context, email string) (*model.PendingRegistration, error) {
	var pending model.PendingRegistration
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&pending).Error; err != nil {
		return nil, err
	}
	return &pending, nil
}

func (r *pendingRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&model.PendingRegistration{}).Error
}
