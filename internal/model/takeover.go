package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PledgeDetails describes the existing pledge being taken over from a bank or
// another pawnbroker.
type PledgeDetails struct {
	OriginalPledgeAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"original_pledge_amount"`
	PledgeDate           time.Time       `gorm:"not null" json:"pledge_date"`
	PledgedTo            string          `gorm:"type:varchar(255);not null" json:"pledged_to"`
	LoanAccountNumber    string          `gorm:"type:varchar(50)" json:"loan_account_number"`
}

// TakeoverDetails holds the takeover payout. ProfitLoss is derived at creation
// time as TakeoverAmount - EstimatedValue and never accepted from the client.
type TakeoverDetails struct {
	TakeoverAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"takeover_amount"`
	SelectedRatePerGram decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"selected_rate_per_gram"`
	EstimatedValue      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"estimated_value"`
	ProfitLoss          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"profit_loss"`
}

// Takeover represents taking over an outstanding pledge from another lender.
type Takeover struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TakeoverNo      string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"takeover_no"`
	Customer        Customer        `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	PledgeDetails   PledgeDetails   `gorm:"embedded;embeddedPrefix:pledge_" json:"pledge_details"`
	GoldDetails     GoldDetails     `gorm:"embedded;embeddedPrefix:gold_" json:"gold_details"`
	TakeoverDetails TakeoverDetails `gorm:"embedded;embeddedPrefix:takeover_" json:"takeover_details"`
	CreatedByID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedBy       *User           `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
