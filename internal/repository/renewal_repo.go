package repository

import (
	"context"

	"goldloan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RenewalRepository interface {
	Create(ctx context.Context, renewal *model.Renewal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Renewal, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, page, limit int) ([]model.Renewal, int64, error)
	ListAll(ctx context.Context, page, limit int) ([]model.Renewal, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type renewalRepository struct {
	db *gorm.DB
}

func NewRenewalRepository(db *gorm.DB) RenewalRepository {
	return &renewalRepository{db: db}
}

func (r *renewalRepository) Create(ctx context.Context, renewal *model.Renewal) error {
	return GetDB(ctx, r.db).Create(renewal).Error
}

func (r *renewalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Renewal, error) {
	var renewal model.Renewal
	if err := GetDB(ctx, r.db).First(&renewal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &renewal, nil
}

func (r *renewalRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, page, limit int) ([]model.Renewal, int64, error) {
	var renewals []model.Renewal
	var total int64

	db := GetDB(ctx, r.db).Where("created_by_id = ?", creatorID)
	if err := db.Model(&model.Renewal{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&renewals).Error; err != nil {
		return nil, 0, err
	}

	return renewals, total, nil
}

func (r *renewalRepository) ListAll(ctx context.Context, page, limit int) ([]model.Renewal, int64, error) {
	var renewals []model.Renewal
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Renewal{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("CreatedBy").Order("created_at desc").Offset(offset).Limit(limit).Find(&renewals).Error; err != nil {
		return nil, 0, err
	}

	return renewals, total, nil
}

func (r *renewalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Renewal{}, "id = ?", id).Error
}
