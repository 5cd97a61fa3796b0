package model

import "time"

// Transaction kind enum constants
const (
	KindBilling  = "BILLING"
	KindRenewal  = "RENEWAL"
	KindTakeover = "TAKEOVER"
)

// TransactionNumber is the allocation registry for human-readable transaction
// numbers. Billing, renewal and takeover records all claim their number here
// inside the same database transaction that persists the record, which makes
// the primary key the single uniqueness namespace across all three tables.
//
// Rows are never deleted — a hard-deleted billing/renewal/takeover leaves its
// registry row behind, so a number can never be handed out twice.
type TransactionNumber struct {
	Number    string    `gorm:"type:varchar(30);primaryKey" json:"number"`
	Kind      string    `gorm:"type:varchar(20);not null;index" json:"kind"` // BILLING, RENEWAL, TAKEOVER
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
