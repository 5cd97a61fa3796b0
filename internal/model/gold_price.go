package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoldPrice holds the per-gram rates for the four purity tiers. The table is
// effectively a singleton — the most recently updated row is authoritative and
// updates mutate it in place rather than appending history.
type GoldPrice struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Karat24     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"24K"`
	Karat22     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"22K"`
	Karat20     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"20K"`
	Karat18     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"18K"`
	UpdatedByID uuid.UUID       `gorm:"type:uuid;not null" json:"updated_by_id"`
	UpdatedBy   *User           `gorm:"foreignKey:UpdatedByID" json:"updated_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
