package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goldloan/internal/model"
	"goldloan/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type BankDetailsPayload struct {
	BankName          string `json:"bank_name" binding:"required"`
	BranchName        string `json:"branch_name"`
	LoanAccountNumber string `json:"loan_account_number" binding:"required"`
	LoanAmount        string `json:"loan_amount" binding:"required"`
}

type RenewalDetailsPayload struct {
	RenewalAmount        string `json:"renewal_amount" binding:"required"`
	CommissionAmount     string `json:"commission_amount" binding:"required"`
	CommissionPercentage string `json:"commission_percentage" binding:"required"`
	SelectedRatePerGram  string `json:"selected_rate_per_gram" binding:"required"`
}

type CreateRenewalRequest struct {
	Customer       CustomerPayload       `json:"customer" binding:"required"`
	BankDetails    BankDetailsPayload    `json:"bank_details" binding:"required"`
	GoldDetails    GoldDetailsPayload    `json:"gold_details" binding:"required"`
	RenewalDetails RenewalDetailsPayload `json:"renewal_details" binding:"required"`
}

type RenewalCommissionRequest struct {
	LoanAmount           string `json:"loan_amount" binding:"required"`
	CommissionPercentage string `json:"commission_percentage" binding:"required"`
}

type RenewalCommissionResponse struct {
	CommissionAmount string `json:"commission_amount"`
	RenewalAmount    string `json:"renewal_amount"`
}

type RenewalResponse struct {
	ID             string               `json:"id"`
	RenewalNo      string               `json:"renewal_no"`
	Customer       model.Customer       `json:"customer"`
	BankDetails    model.BankDetails    `json:"bank_details"`
	GoldDetails    model.GoldDetails    `json:"gold_details"`
	RenewalDetails model.RenewalDetails `json:"renewal_details"`
	CreatedBy      string               `json:"created_by_id"`
	CreatedByName  *string              `json:"created_by_name,omitempty"`
	CreatedAt      string               `json:"created_at"`
}

// --- Interface ---

// RenewalService records loan renewals paid out to banks on the customer's
// behalf. The vault deduction equals the renewal amount.
type RenewalService interface {
	CreateRenewal(ctx context.Context, userID string, req CreateRenewalRequest) (RenewalResponse, error)
	ListUserRenewals(ctx context.Context, userID string, page, limit int) ([]RenewalResponse, int64, error)
	ListAllRenewals(ctx context.Context, page, limit int) ([]RenewalResponse, int64, error)
	DeleteRenewal(ctx context.Context, id string) error
	CalculateCommission(req RenewalCommissionRequest) (RenewalCommissionResponse, error)
}

type renewalService struct {
	renewalRepo repository.RenewalRepository
	seqRepo     repository.SequenceRepository
	allocator   SequenceAllocator
	cashService CashService
	txManager   repository.TransactionManager
}

func NewRenewalService(
	renewalRepo repository.RenewalRepository,
	seqRepo repository.SequenceRepository,
	allocator SequenceAllocator,
	cashService CashService,
	txManager repository.TransactionManager,
) RenewalService {
	return &renewalService{
		renewalRepo: renewalRepo,
		seqRepo:     seqRepo,
		allocator:   allocator,
		cashService: cashService,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *renewalService) CreateRenewal(ctx context.Context, userID string, req CreateRenewalRequest) (RenewalResponse, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return RenewalResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	gold, err := toGoldDetails(req.GoldDetails)
	if err != nil {
		return RenewalResponse{}, err
	}

	loanAmount, err := parseAmount("loan_amount", req.BankDetails.LoanAmount)
	if err != nil {
		return RenewalResponse{}, err
	}
	renewalAmount, err := parseAmount("renewal_amount", req.RenewalDetails.RenewalAmount)
	if err != nil {
		return RenewalResponse{}, err
	}
	commissionAmount, err := parseAmount("commission_amount", req.RenewalDetails.CommissionAmount)
	if err != nil {
		return RenewalResponse{}, err
	}
	commissionPct, err := parseAmount("commission_percentage", req.RenewalDetails.CommissionPercentage)
	if err != nil {
		return RenewalResponse{}, err
	}
	rate, err := parseAmount("selected_rate_per_gram", req.RenewalDetails.SelectedRatePerGram)
	if err != nil {
		return RenewalResponse{}, err
	}

	renewal := model.Renewal{
		Customer: toCustomer(req.Customer),
		BankDetails: model.BankDetails{
			BankName:          req.BankDetails.BankName,
			BranchName:        req.BankDetails.BranchName,
			LoanAccountNumber: req.BankDetails.LoanAccountNumber,
			LoanAmount:        loanAmount,
		},
		GoldDetails: gold,
		RenewalDetails: model.RenewalDetails{
			RenewalAmount:        renewalAmount,
			CommissionAmount:     commissionAmount,
			CommissionPercentage: commissionPct,
			SelectedRatePerGram:  rate,
		},
		CreatedByID: creatorID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, allocErr := s.allocator.Allocate(txCtx, model.KindRenewal, time.Now())
		if allocErr != nil {
			return allocErr
		}
		renewal.RenewalNo = number

		claim := model.TransactionNumber{Number: number, Kind: model.KindRenewal}
		if claimErr := s.seqRepo.Claim(txCtx, &claim); claimErr != nil {
			if errors.Is(claimErr, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("renewal number %s: %w", number, ErrDuplicateNumber)
			}
			return fmt.Errorf("failed to claim renewal number: %w", claimErr)
		}

		if createErr := s.renewalRepo.Create(txCtx, &renewal); createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("renewal number %s: %w", number, ErrDuplicateNumber)
			}
			return fmt.Errorf("failed to create renewal: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return RenewalResponse{}, err
	}

	// Deduct the renewal amount from the vault after the record commits.
	if _, err := s.cashService.Append(ctx, userID, renewal.RenewalDetails.RenewalAmount, model.CashKindBilling); err != nil {
		return RenewalResponse{}, fmt.Errorf("renewal %s created but vault deduction failed: %w", renewal.RenewalNo, err)
	}

	return toRenewalResponse(renewal), nil
}

func (s *renewalService) ListUserRenewals(ctx context.Context, userID string, page, limit int) ([]RenewalResponse, int64, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}

	renewals, total, err := s.renewalRepo.ListByCreator(ctx, creatorID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch renewals: %w", err)
	}
	return toRenewalResponses(renewals), total, nil
}

func (s *renewalService) ListAllRenewals(ctx context.Context, page, limit int) ([]RenewalResponse, int64, error) {
	renewals, total, err := s.renewalRepo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch renewals: %w", err)
	}
	return toRenewalResponses(renewals), total, nil
}

func (s *renewalService) DeleteRenewal(ctx context.Context, id string) error {
	renewalID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid renewal id: %w", err)
	}

	if _, err := s.renewalRepo.FindByID(ctx, renewalID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("renewal %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to load renewal: %w", err)
	}

	return s.renewalRepo.Delete(ctx, renewalID)
}

// CalculateCommission computes commission = percentage/100 * loan amount and
// echoes the loan amount back as the renewal amount to pay.
func (s *renewalService) CalculateCommission(req RenewalCommissionRequest) (RenewalCommissionResponse, error) {
	loanAmount, err := parseAmount("loan_amount", req.LoanAmount)
	if err != nil {
		return RenewalCommissionResponse{}, err
	}
	percentage, err := parseAmount("commission_percentage", req.CommissionPercentage)
	if err != nil {
		return RenewalCommissionResponse{}, err
	}

	commission := percentage.Div(decimal.NewFromInt(100)).Mul(loanAmount)
	return RenewalCommissionResponse{
		CommissionAmount: commission.StringFixed(4),
		RenewalAmount:    loanAmount.StringFixed(4),
	}, nil
}

// --- Mapping ---

func toRenewalResponse(r model.Renewal) RenewalResponse {
	resp := RenewalResponse{
		ID:             r.ID.String(),
		RenewalNo:      r.RenewalNo,
		Customer:       r.Customer,
		BankDetails:    r.BankDetails,
		GoldDetails:    r.GoldDetails,
		RenewalDetails: r.RenewalDetails,
		CreatedBy:      r.CreatedByID.String(),
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
	if r.CreatedBy != nil {
		resp.CreatedByName = &r.CreatedBy.Name
	}
	return resp
}

func toRenewalResponses(renewals []model.Renewal) []RenewalResponse {
	result := make([]RenewalResponse, 0, len(renewals))
	for _, r := range renewals {
		result = append(result, toRenewalResponse(r))
	}
	return result
}
