package repository

import (
	"context"

	"goldloan/internal/model"

	"gorm.io/gorm"
)

type GoldPriceRepository interface {
	Latest(ctx context.Context) (*model.GoldPrice, error)
	Create(ctx context.Context, price *model.GoldPrice) error
	Save(ctx context.Context, price *model.GoldPrice) error
}

type goldPriceRepository struct {
	db *gorm.DB
}

func NewGoldPriceRepository(db *gorm.DB) GoldPriceRepository {
	return &goldPriceRepository{db: db}
}

// Latest returns the most recently updated price row — the authoritative one.
func (r *goldPriceRepository) Latest(ctx context.Context) (*model.GoldPrice, error) {
	var price model.GoldPrice
	if err := GetDB(ctx, r.db).Order("updated_at desc").First(&price).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *goldPriceRepository) Create(ctx context.Context, price *model.GoldPrice) error {
	return GetDB(ctx, r.db).Create(price).Error
}

func (r *goldPriceRepository) Save(ctx context.Context, price *model.GoldPrice) error {
	return GetDB(ctx, r.db).Save(price).Error
}
