package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankDetails identifies the bank loan being renewed on the customer's behalf.
type BankDetails struct {
	BankName          string          `gorm:"type:varchar(255);not null" json:"bank_name"`
	BranchName        string          `gorm:"type:varchar(255)" json:"branch_name"`
	LoanAccountNumber string          `gorm:"type:varchar(50);not null" json:"loan_account_number"`
	LoanAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"loan_amount"`
}

// RenewalDetails holds the payout and commission for a loan renewal.
// RenewalAmount is the cash paid to the bank; CommissionAmount is earned.
type RenewalDetails struct {
	RenewalAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"renewal_amount"`
	CommissionAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"commission_amount"`
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"commission_percentage"`
	SelectedRatePerGram  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"selected_rate_per_gram"`
}

// Renewal represents a gold-loan renewal transaction.
type Renewal struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RenewalNo      string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"renewal_no"`
	Customer       Customer       `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	BankDetails    BankDetails    `gorm:"embedded;embeddedPrefix:bank_" json:"bank_details"`
	GoldDetails    GoldDetails    `gorm:"embedded;embeddedPrefix:gold_" json:"gold_details"`
	RenewalDetails RenewalDetails `gorm:"embedded;embeddedPrefix:renewal_" json:"renewal_details"`
	CreatedByID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedBy      *User          `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
