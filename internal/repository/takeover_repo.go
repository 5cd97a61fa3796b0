package repository

import (
	"context"

	"goldloan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TakeoverRepository interface {
	Create(ctx context.Context, takeover *model.Takeover) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Takeover, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, page, limit int) ([]model.Takeover, int64, error)
	ListAll(ctx context.Context, page, limit int) ([]model.Takeover, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type takeoverRepository struct {
	db *gorm.DB
}

func NewTakeoverRepository(db *gorm.DB) TakeoverRepository {
	return &takeoverRepository{db: db}
}

func (r *takeoverRepository) Create(ctx context.Context, takeover *model.Takeover) error {
	return GetDB(ctx, r.db).Create(takeover).Error
}

func (r *takeoverRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Takeover, error) {
	var takeover model.Takeover
	if err := GetDB(ctx, r.db).First(&takeover, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &takeover, nil
}

func (r *takeoverRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, page, limit int) ([]model.Takeover, int64, error) {
	var takeovers []model.Takeover
	var total int64

	db := GetDB(ctx, r.db).Where("created_by_id = ?", creatorID)
	if err := db.Model(&model.Takeover{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&takeovers).Error; err != nil {
		return nil, 0, err
	}

	return takeovers, total, nil
}

func (r *takeoverRepository) ListAll(ctx context.Context, page, limit int) ([]model.Takeover, int64, error) {
	var takeovers []model.Takeover
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Takeover{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("CreatedBy").Order("created_at desc").Offset(offset).Limit(limit).Find(&takeovers).Error; err != nil {
		return nil, 0, err
	}

	return takeovers, total, nil
}

func (r *takeoverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Takeover{}, "id = ?", id).Error
}
