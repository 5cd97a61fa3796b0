package repository

import (
	"context"
	"time"

	"goldloan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillingRepository interface {
	Create(ctx context.Context, billing *model.Billing) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Billing, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, page, limit int) ([]model.Billing, int64, error)
	ListAll(ctx context.Context, page, limit int) ([]model.Billing, int64, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Billing, error)
	UpdatePhoto(ctx context.Context, id uuid.UUID, photo string) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type billingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) Create(ctx context.Context, billing *model.Billing) error {
	return GetDB(ctx, r.db).Create(billing).Error
}

func (r *billingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Billing, error) {
	var billing model.Billing
	if err := GetDB(ctx, r.db).Preload("Items").First(&billing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &billing, nil
}

func (r *billingRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, page, limit int) ([]model.Billing, int64, error) {
	return r.list(ctx, GetDB(ctx, r.db).Where("created_by_id = ?", creatorID), page, limit, false)
}

func (r *billingRepository) ListAll(ctx context.Context, page, limit int) ([]model.Billing, int64, error) {
	return r.list(ctx, GetDB(ctx, r.db), page, limit, true)
}

func (r *billingRepository) list(ctx context.Context, db *gorm.DB, page, limit int, withCreator bool) ([]model.Billing, int64, error) {
	var billings []model.Billing
	var total int64

	if err := db.Model(&model.Billing{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := db.Preload("Items").Order("created_at desc")
	if withCreator {
		query = query.Preload("CreatedBy")
	}
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Find(&billings).Error; err != nil {
		return nil, 0, err
	}

	return billings, total, nil
}

func (r *billingRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Billing, error) {
	var billings []model.Billing
	if err := GetDB(ctx, r.db).Preload("Items").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at desc").Find(&billings).Error; err != nil {
		return nil, err
	}
	return billings, nil
}

func (r *billingRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, photo string) error {
	return GetDB(ctx, r.db).Model(&model.Billing{}).Where("id = ?", id).Update("customer_photo", photo).Error
}

func (r *billingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Billing{}, "id = ?", id).Error
}

// DeleteAll clears every billing record. Registry rows in transaction_numbers
// are left untouched so the deleted invoice numbers stay consumed.
func (r *billingRepository) DeleteAll(ctx context.Context) error {
	return GetDB(ctx, r.db).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Billing{}).Error
}
