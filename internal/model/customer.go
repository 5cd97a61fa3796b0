package model

import "github.com/shopspring/decimal"

// KDM type enum constants
const (
	KdmTypeKDM    = "KDM"
	KdmTypeNonKDM = "Non KDM"
)

// Customer is the identity snapshot embedded into every transaction record.
// It is copied at creation time — there is no separate customers table, so
// later edits to one record never leak into another.
type Customer struct {
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Mobile  string `gorm:"type:varchar(20);not null" json:"mobile"`
	Aadhar  string `gorm:"type:varchar(20)" json:"aadhar"`
	Pan     string `gorm:"type:varchar(20)" json:"pan"`
	Gender  string `gorm:"type:varchar(10)" json:"gender"`
	Address string `gorm:"type:text" json:"address"`
}

// GoldDetails describes the pledged gold item attached to a transaction.
type GoldDetails struct {
	Weight       decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"weight"` // Gross weight in grams
	StoneWeight  decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"stone_weight"`
	PurityIndex  decimal.Decimal `gorm:"type:decimal(8,3);not null" json:"purity_index"`
	PurityLabel  string          `gorm:"type:varchar(10);not null" json:"purity_label"` // 24K, 22K, 20K, 18K
	OrnamentType string          `gorm:"type:varchar(100);not null" json:"ornament_type"`
	KdmType      string          `gorm:"type:varchar(10);default:'KDM'" json:"kdm_type"` // KDM, Non KDM
}
