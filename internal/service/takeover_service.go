package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goldloan/internal/model"
	"goldloan/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type PledgeDetailsPayload struct {
	OriginalPledgeAmount string `json:"original_pledge_amount" binding:"required"`
	PledgeDate           string `json:"pledge_date" binding:"required"` // RFC3339 or YYYY-MM-DD
	PledgedTo            string `json:"pledged_to" binding:"required"`
	LoanAccountNumber    string `json:"loan_account_number"`
}

type TakeoverDetailsPayload struct {
	TakeoverAmount      string `json:"takeover_amount" binding:"required"`
	SelectedRatePerGram string `json:"selected_rate_per_gram" binding:"required"`
	EstimatedValue      string `json:"estimated_value" binding:"required"`
	// ProfitLoss is accepted but ignored — the server always derives it.
	ProfitLoss string `json:"profit_loss"`
}

type CreateTakeoverRequest struct {
	Customer        CustomerPayload        `json:"customer" binding:"required"`
	PledgeDetails   PledgeDetailsPayload   `json:"pledge_details" binding:"required"`
	GoldDetails     GoldDetailsPayload     `json:"gold_details" binding:"required"`
	TakeoverDetails TakeoverDetailsPayload `json:"takeover_details" binding:"required"`
}

type EstimateRequest struct {
	Weight              string `json:"weight" binding:"required"`
	SelectedRatePerGram string `json:"selected_rate_per_gram" binding:"required"`
}

type EstimateResponse struct {
	EstimatedValue string `json:"estimated_value"`
}

type TakeoverResponse struct {
	ID              string                `json:"id"`
	TakeoverNo      string                `json:"takeover_no"`
	Customer        model.Customer        `json:"customer"`
	PledgeDetails   model.PledgeDetails   `json:"pledge_details"`
	GoldDetails     model.GoldDetails     `json:"gold_details"`
	TakeoverDetails model.TakeoverDetails `json:"takeover_details"`
	CreatedBy       string                `json:"created_by_id"`
	CreatedByName   *string               `json:"created_by_name,omitempty"`
	CreatedAt       string                `json:"created_at"`
}

// --- Interface ---

// TakeoverService records pledge takeovers from other lenders. Profit/loss is
// derived server-side as takeoverAmount - estimatedValue; the vault deduction
// equals the takeover amount.
type TakeoverService interface {
	CreateTakeover(ctx context.Context, userID string, req CreateTakeoverRequest) (TakeoverResponse, error)
	ListUserTakeovers(ctx context.Context, userID string, page, limit int) ([]TakeoverResponse, int64, error)
	ListAllTakeovers(ctx context.Context, page, limit int) ([]TakeoverResponse, int64, error)
	DeleteTakeover(ctx context.Context, id string) error
	CalculateEstimate(req EstimateRequest) (EstimateResponse, error)
}

type takeoverService struct {
	takeoverRepo repository.TakeoverRepository
	seqRepo      repository.SequenceRepository
	allocator    SequenceAllocator
	cashService  CashService
	txManager    repository.TransactionManager
}

func NewTakeoverService(
	takeoverRepo repository.TakeoverRepository,
	seqRepo repository.SequenceRepository,
	allocator SequenceAllocator,
	cashService CashService,
	txManager repository.TransactionManager,
) TakeoverService {
	return &takeoverService{
		takeoverRepo: takeoverRepo,
		seqRepo:      seqRepo,
		allocator:    allocator,
		cashService:  cashService,
		txManager:    txManager,
	}
}

// --- Implementation ---

func (s *takeoverService) CreateTakeover(ctx context.Context, userID string, req CreateTakeoverRequest) (TakeoverResponse, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return TakeoverResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	gold, err := toGoldDetails(req.GoldDetails)
	if err != nil {
		return TakeoverResponse{}, err
	}

	originalPledge, err := parseAmount("original_pledge_amount", req.PledgeDetails.OriginalPledgeAmount)
	if err != nil {
		return TakeoverResponse{}, err
	}
	pledgeDate, err := parseDate(req.PledgeDetails.PledgeDate)
	if err != nil {
		return TakeoverResponse{}, fmt.Errorf("invalid pledge_date: %w", err)
	}

	takeoverAmount, err := parseAmount("takeover_amount", req.TakeoverDetails.TakeoverAmount)
	if err != nil {
		return TakeoverResponse{}, err
	}
	rate, err := parseAmount("selected_rate_per_gram", req.TakeoverDetails.SelectedRatePerGram)
	if err != nil {
		return TakeoverResponse{}, err
	}
	estimatedValue, err := parseAmount("estimated_value", req.TakeoverDetails.EstimatedValue)
	if err != nil {
		return TakeoverResponse{}, err
	}

	takeover := model.Takeover{
		Customer: toCustomer(req.Customer),
		PledgeDetails: model.PledgeDetails{
			OriginalPledgeAmount: originalPledge,
			PledgeDate:           pledgeDate,
			PledgedTo:            req.PledgeDetails.PledgedTo,
			LoanAccountNumber:    req.PledgeDetails.LoanAccountNumber,
		},
		GoldDetails: gold,
		TakeoverDetails: model.TakeoverDetails{
			TakeoverAmount:      takeoverAmount,
			SelectedRatePerGram: rate,
			EstimatedValue:      estimatedValue,
			// Derived here, never taken from the client.
			ProfitLoss: takeoverAmount.Sub(estimatedValue),
		},
		CreatedByID: creatorID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, allocErr := s.allocator.Allocate(txCtx, model.KindTakeover, time.Now())
		if allocErr != nil {
			return allocErr
		}
		takeover.TakeoverNo = number

		claim := model.TransactionNumber{Number: number, Kind: model.KindTakeover}
		if claimErr := s.seqRepo.Claim(txCtx, &claim); claimErr != nil {
			if errors.Is(claimErr, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("takeover number %s: %w", number, ErrDuplicateNumber)
			}
			return fmt.Errorf("failed to claim takeover number: %w", claimErr)
		}

		if createErr := s.takeoverRepo.Create(txCtx, &takeover); createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("takeover number %s: %w", number, ErrDuplicateNumber)
			}
			return fmt.Errorf("failed to create takeover: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return TakeoverResponse{}, err
	}

	// Deduct the takeover amount from the vault after the record commits.
	if _, err := s.cashService.Append(ctx, userID, takeover.TakeoverDetails.TakeoverAmount, model.CashKindBilling); err != nil {
		return TakeoverResponse{}, fmt.Errorf("takeover %s created but vault deduction failed: %w", takeover.TakeoverNo, err)
	}

	return toTakeoverResponse(takeover), nil
}

func (s *takeoverService) ListUserTakeovers(ctx context.Context, userID string, page, limit int) ([]TakeoverResponse, int64, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}

	takeovers, total, err := s.takeoverRepo.ListByCreator(ctx, creatorID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch takeovers: %w", err)
	}
	return toTakeoverResponses(takeovers), total, nil
}

func (s *takeoverService) ListAllTakeovers(ctx context.Context, page, limit int) ([]TakeoverResponse, int64, error) {
	takeovers, total, err := s.takeoverRepo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch takeovers: %w", err)
	}
	return toTakeoverResponses(takeovers), total, nil
}

func (s *takeoverService) DeleteTakeover(ctx context.Context, id string) error {
	takeoverID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid takeover id: %w", err)
	}

	if _, err := s.takeoverRepo.FindByID(ctx, takeoverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("takeover %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to load takeover: %w", err)
	}

	return s.takeoverRepo.Delete(ctx, takeoverID)
}

// CalculateEstimate computes estimated value = weight * rate per gram.
func (s *takeoverService) CalculateEstimate(req EstimateRequest) (EstimateResponse, error) {
	weight, err := parseAmount("weight", req.Weight)
	if err != nil {
		return EstimateResponse{}, err
	}
	rate, err := parseAmount("selected_rate_per_gram", req.SelectedRatePerGram)
	if err != nil {
		return EstimateResponse{}, err
	}

	return EstimateResponse{EstimatedValue: weight.Mul(rate).StringFixed(4)}, nil
}

// --- Helpers ---

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// --- Mapping ---

func toTakeoverResponse(t model.Takeover) TakeoverResponse {
	resp := TakeoverResponse{
		ID:              t.ID.String(),
		TakeoverNo:      t.TakeoverNo,
		Customer:        t.Customer,
		PledgeDetails:   t.PledgeDetails,
		GoldDetails:     t.GoldDetails,
		TakeoverDetails: t.TakeoverDetails,
		CreatedBy:       t.CreatedByID.String(),
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
	if t.CreatedBy != nil {
		resp.CreatedByName = &t.CreatedBy.Name
	}
	return resp
}

func toTakeoverResponses(takeovers []model.Takeover) []TakeoverResponse {
	result := make([]TakeoverResponse, 0, len(takeovers))
	for _, t := range takeovers {
		result = append(result, toTakeoverResponse(t))
	}
	return result
}
