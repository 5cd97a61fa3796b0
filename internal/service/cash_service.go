package service

import (
	"context"
	"fmt"
	"time"

	"goldloan/internal/model"
	"goldloan/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type AddCashRequest struct {
	Amount string `json:"amount" binding:"required"` // Decimal string
}

type CashEntryResponse struct {
	ID          string  `json:"id"`
	Amount      string  `json:"amount"`
	Kind        string  `json:"kind"`
	AddedBy     string  `json:"added_by_id"`
	AddedByName *string `json:"added_by_name,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type MarginResponse struct {
	InitialTotal string `json:"initial_total"`
	BillingTotal string `json:"billing_total"`
	Margin       string `json:"margin"`
}

// --- Interface ---

// CashService maintains the append-only vault ledger and its derived
// aggregates. The margin is always computed from entries, never stored, and it
// may legitimately go negative (credit extended beyond the vault).
type CashService interface {
	Append(ctx context.Context, userID string, amount decimal.Decimal, kind string) (*model.CashEntry, error)
	AddEntry(ctx context.Context, userID string, req AddCashRequest, kind string) (CashEntryResponse, error)
	List(ctx context.Context, userID, role string) ([]CashEntryResponse, error)
	Margin(ctx context.Context) (MarginResponse, error)
	HasInitial(ctx context.Context) (bool, error)
	ResetByKinds(ctx context.Context, kinds []string) error
}

type cashService struct {
	cashRepo repository.CashRepository
}

func NewCashService(cashRepo repository.CashRepository) CashService {
	return &cashService{cashRepo: cashRepo}
}

// --- Implementation ---

// Append posts one immutable ledger entry. Amounts are stored as positive
// magnitudes; direction is implied by kind, so no sign validation happens here.
func (s *cashService) Append(ctx context.Context, userID string, amount decimal.Decimal, kind string) (*model.CashEntry, error) {
	addedBy, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	switch kind {
	case model.CashKindInitial, model.CashKindBilling, model.CashKindRemaining:
	default:
		return nil, fmt.Errorf("invalid cash entry kind %q", kind)
	}

	entry := model.CashEntry{
		Amount:    amount,
		Kind:      kind,
		AddedByID: addedBy,
	}
	if err := s.cashRepo.Create(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to append cash entry: %w", err)
	}
	return &entry, nil
}

func (s *cashService) AddEntry(ctx context.Context, userID string, req AddCashRequest, kind string) (CashEntryResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return CashEntryResponse{}, fmt.Errorf("invalid amount: %w", err)
	}

	entry, err := s.Append(ctx, userID, amount, kind)
	if err != nil {
		return CashEntryResponse{}, err
	}
	return toCashEntryResponse(*entry), nil
}

// List returns all entries for admins and only the caller's own for employees.
func (s *cashService) List(ctx context.Context, userID, role string) ([]CashEntryResponse, error) {
	var addedBy *uuid.UUID
	if role != model.RoleAdmin {
		parsed, err := uuid.Parse(userID)
		if err != nil {
			return nil, fmt.Errorf("invalid user id: %w", err)
		}
		addedBy = &parsed
	}

	entries, err := s.cashRepo.List(ctx, addedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cash entries: %w", err)
	}

	result := make([]CashEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, toCashEntryResponse(e))
	}
	return result, nil
}

// Margin derives the vault balance: sum(initial) - sum(billing). Remaining
// entries are carry-forward markers and do not participate.
func (s *cashService) Margin(ctx context.Context) (MarginResponse, error) {
	initial, err := s.cashRepo.SumByKind(ctx, model.CashKindInitial)
	if err != nil {
		return MarginResponse{}, fmt.Errorf("failed to sum initial entries: %w", err)
	}
	billing, err := s.cashRepo.SumByKind(ctx, model.CashKindBilling)
	if err != nil {
		return MarginResponse{}, fmt.Errorf("failed to sum billing entries: %w", err)
	}

	return MarginResponse{
		InitialTotal: initial.StringFixed(4),
		BillingTotal: billing.StringFixed(4),
		Margin:       initial.Sub(billing).StringFixed(4),
	}, nil
}

func (s *cashService) HasInitial(ctx context.Context) (bool, error) {
	return s.cashRepo.HasKind(ctx, model.CashKindInitial)
}

// ResetByKinds bulk-deletes every entry of the given kinds. Destructive, no
// undo — used by the day-close reset endpoints.
func (s *cashService) ResetByKinds(ctx context.Context, kinds []string) error {
	if len(kinds) == 0 {
		return nil
	}
	for _, kind := range kinds {
		switch kind {
		case model.CashKindInitial, model.CashKindBilling, model.CashKindRemaining:
		default:
			return fmt.Errorf("invalid cash entry kind %q", kind)
		}
	}
	if err := s.cashRepo.DeleteByKinds(ctx, kinds); err != nil {
		return fmt.Errorf("failed to reset cash entries: %w", err)
	}
	return nil
}

// --- Mapping ---

func toCashEntryResponse(e model.CashEntry) CashEntryResponse {
	resp := CashEntryResponse{
		ID:        e.ID.String(),
		Amount:    e.Amount.StringFixed(4),
		Kind:      e.Kind,
		AddedBy:   e.AddedByID.String(),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
	if e.AddedBy != nil {
		resp.AddedByName = &e.AddedBy.Name
	}
	return resp
}
