package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cash entry kind enum constants. "initial" is money put into the vault,
// "billing" is the deduction posted by every billing/renewal/takeover, and
// "remaining" is the end-of-day carry-forward entry.
const (
	CashKindInitial   = "initial"
	CashKindBilling   = "billing"
	CashKindRemaining = "remaining"
)

// CashEntry is one movement in the append-only cash vault ledger. Entries are
// never updated or deleted individually; only bulk resets by kind remove rows.
// The vault balance is always derived by summation, never stored.
type CashEntry struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`   // Stored as a positive magnitude; direction comes from Kind
	Kind      string          `gorm:"type:varchar(20);not null;index" json:"kind"` // initial, billing, remaining
	AddedByID uuid.UUID       `gorm:"type:uuid;not null;index" json:"added_by_id"`
	AddedBy   *User           `gorm:"foreignKey:AddedByID" json:"added_by,omitempty"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}
