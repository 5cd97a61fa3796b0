package repository

import (
	"context"

	"goldloan/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashRepository is the data access layer for the append-only cash vault.
// There is deliberately no update or single-row delete: entries are immutable
// once written and only the bulk reset removes rows.
type CashRepository interface {
	Create(ctx context.Context, entry *model.CashEntry) error
	List(ctx context.Context, addedBy *uuid.UUID) ([]model.CashEntry, error)
	SumByKind(ctx context.Context, kind string) (decimal.Decimal, error)
	HasKind(ctx context.Context, kind string) (bool, error)
	DeleteByKinds(ctx context.Context, kinds []string) error
}

type cashRepository struct {
	db *gorm.DB
}

func NewCashRepository(db *gorm.DB) CashRepository {
	return &cashRepository{db: db}
}

func (r *cashRepository) Create(ctx context.Context, entry *model.CashEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

// List returns entries newest-first; addedBy narrows to one user's entries
// when non-nil (employee view), nil returns everything (admin view).
func (r *cashRepository) List(ctx context.Context, addedBy *uuid.UUID) ([]model.CashEntry, error) {
	var entries []model.CashEntry

	query := GetDB(ctx, r.db).Preload("AddedBy").Order("created_at desc")
	if addedBy != nil {
		query = query.Where("added_by_id = ?", *addedBy)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *cashRepository) SumByKind(ctx context.Context, kind string) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&model.CashEntry{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("kind = ?", kind).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *cashRepository) HasKind(ctx context.Context, kind string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.CashEntry{}).Where("kind = ?", kind).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *cashRepository) DeleteByKinds(ctx context.Context, kinds []string) error {
	return GetDB(ctx, r.db).Where("kind IN ?", kinds).Delete(&model.CashEntry{}).Error
}
