package repository

import (
	"context"

	"goldloan/internal/model"

	"gorm.io/gorm"
)

// SequenceRepository is the data access layer for the transaction-number
// registry shared by billings, renewals and takeovers.
type SequenceRepository interface {
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
	Exists(ctx context.Context, number string) (bool, error)
	Claim(ctx context.Context, number *model.TransactionNumber) error
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.TransactionNumber{}).Where("number LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *sequenceRepository) Exists(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.TransactionNumber{}).Where("number = ?", number).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Claim inserts the registry row. The primary key on number makes a concurrent
// claim of the same value fail with gorm.ErrDuplicatedKey.
func (r *sequenceRepository) Claim(ctx context.Context, number *model.TransactionNumber) error {
	return GetDB(ctx, r.db).Create(number).Error
}
