package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingType enum constants
const (
	BillingTypePhysical = "Physical"
	BillingTypeRelease  = "Release"
	BillingTypeTakeOver = "TakeOver"
)

// Calculation holds the monetary outcome of a billing. FinalPayout is the
// computed value; EditedAmount, when set, overrides it as the effective amount
// deducted from the cash vault.
type Calculation struct {
	SelectedRatePerGram decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"selected_rate_per_gram"`
	Grams               decimal.Decimal  `gorm:"type:decimal(12,3);not null" json:"grams"`
	Stone               decimal.Decimal  `gorm:"type:decimal(12,3);not null;default:0" json:"stone"`
	Net                 decimal.Decimal  `gorm:"type:decimal(12,3);not null" json:"net"`
	FinalPayout         decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"final_payout"`
	EditedAmount        *decimal.Decimal `gorm:"type:decimal(18,4)" json:"edited_amount"`
}

// Billing represents one gold purchase/release transaction at the counter.
// InvoiceNo is allocated once through the TransactionNumber registry and is
// immutable afterwards; the unique index is the storage-level backstop against
// a racing allocation.
type Billing struct {
	ID                   uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNo            string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"`
	Customer             Customer        `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	GoldDetails          GoldDetails     `gorm:"embedded;embeddedPrefix:gold_" json:"gold_details"`
	Calculation          Calculation     `gorm:"embedded;embeddedPrefix:calc_" json:"calculation"`
	Items                []BillingItem   `gorm:"foreignKey:BillingID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	BillingType          string          `gorm:"type:varchar(20);not null;default:'Physical'" json:"billing_type"` // Physical, Release, TakeOver
	BankName             string          `gorm:"type:varchar(255)" json:"bank_name"`
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(8,4);default:0" json:"commission_percentage"`
	CommissionAmount     decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"commission_amount"`
	CustomerPhoto        string          `gorm:"type:text" json:"customer_photo,omitempty"` // Base64 encoded image
	CreatedByID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedBy            *User           `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// BillingItem is one ornament line on a multi-item billing.
type BillingItem struct {
	ID                  uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BillingID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"billing_id"`
	GoldDetails         GoldDetails      `gorm:"embedded" json:"gold_details"`
	SelectedRatePerGram decimal.Decimal  `gorm:"type:decimal(18,4)" json:"selected_rate_per_gram"`
	Grams               decimal.Decimal  `gorm:"type:decimal(12,3)" json:"grams"`
	Stone               decimal.Decimal  `gorm:"type:decimal(12,3);default:0" json:"stone"`
	Net                 decimal.Decimal  `gorm:"type:decimal(12,3)" json:"net"`
	FinalPayout         decimal.Decimal  `gorm:"type:decimal(18,4)" json:"final_payout"`
	EditedAmount        *decimal.Decimal `gorm:"type:decimal(18,4)" json:"edited_amount"`
}
