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

type CalculationPayload struct {
	SelectedRatePerGram string `json:"selected_rate_per_gram" binding:"required"`
	Grams               string `json:"grams" binding:"required"`
	Stone               string `json:"stone"`
	Net                 string `json:"net" binding:"required"`
	FinalPayout         string `json:"final_payout" binding:"required"`
	EditedAmount        string `json:"edited_amount"` // Optional override of the effective amount
}

type BillingItemPayload struct {
	GoldDetails         GoldDetailsPayload `json:"gold_details" binding:"required"`
	SelectedRatePerGram string             `json:"selected_rate_per_gram" binding:"required"`
	Grams               string             `json:"grams" binding:"required"`
	Stone               string             `json:"stone"`
	Net                 string             `json:"net" binding:"required"`
	FinalPayout         string             `json:"final_payout" binding:"required"`
	EditedAmount        string             `json:"edited_amount"`
}

type CreateBillingRequest struct {
	Customer             CustomerPayload      `json:"customer" binding:"required"`
	GoldDetails          GoldDetailsPayload   `json:"gold_details" binding:"required"`
	Calculation          CalculationPayload   `json:"calculation" binding:"required"`
	Items                []BillingItemPayload `json:"items"`
	BillingType          string               `json:"billing_type" binding:"omitempty,oneof=Physical Release TakeOver"`
	BankName             string               `json:"bank_name"`
	CommissionPercentage string               `json:"commission_percentage"`
	CommissionAmount     string               `json:"commission_amount"`
}

type AttachPhotoRequest struct {
	CustomerPhoto string `json:"customer_photo" binding:"required"` // Base64 encoded image
}

type CommissionRequest struct {
	Percentage string `json:"percentage" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
}

type CommissionResponse struct {
	CommissionAmount string `json:"commission_amount"`
}

type BillingResponse struct {
	ID                   string              `json:"id"`
	InvoiceNo            string              `json:"invoice_no"`
	Customer             model.Customer      `json:"customer"`
	GoldDetails          model.GoldDetails   `json:"gold_details"`
	Calculation          model.Calculation   `json:"calculation"`
	Items                []model.BillingItem `json:"items,omitempty"`
	BillingType          string              `json:"billing_type"`
	BankName             string              `json:"bank_name,omitempty"`
	CommissionPercentage string              `json:"commission_percentage"`
	CommissionAmount     string              `json:"commission_amount"`
	EffectiveAmount      string              `json:"effective_amount"`
	CustomerPhoto        string              `json:"customer_photo,omitempty"`
	CreatedBy            string              `json:"created_by_id"`
	CreatedByName        *string             `json:"created_by_name,omitempty"`
	CreatedAt            string              `json:"created_at"`
}

type DailySummaryResponse struct {
	Date        string            `json:"date"`
	Count       int               `json:"count"`
	TotalPayout string            `json:"total_payout"`
	Billings    []BillingResponse `json:"billings"`
}

// --- Interface ---

// BillingService records gold purchase transactions. Creation allocates an
// invoice number, persists the record together with its registry claim in one
// DB transaction, then posts the vault deduction.
type BillingService interface {
	CreateBilling(ctx context.Context, userID string, req CreateBillingRequest) (BillingResponse, error)
	ListUserBillings(ctx context.Context, userID string, page, limit int) ([]BillingResponse, int64, error)
	ListAllBillings(ctx context.Context, page, limit int) ([]BillingResponse, int64, error)
	DailyTransactions(ctx context.Context, day time.Time) (DailySummaryResponse, error)
	AttachPhoto(ctx context.Context, id string, req AttachPhotoRequest) error
	DeleteBilling(ctx context.Context, id string) error
	ResetGoldTransactions(ctx context.Context) error
	CalculateCommission(req CommissionRequest) (CommissionResponse, error)
}

type billingService struct {
	billingRepo repository.BillingRepository
	seqRepo     repository.SequenceRepository
	allocator   SequenceAllocator
	cashService CashService
	txManager   repository.TransactionManager
}

func NewBillingService(
	billingRepo repository.BillingRepository,
	seqRepo repository.SequenceRepository,
	allocator SequenceAllocator,
	cashService CashService,
	txManager repository.TransactionManager,
) BillingService {
	return &billingService{
		billingRepo: billingRepo,
		seqRepo:     seqRepo,
		allocator:   allocator,
		cashService: cashService,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *billingService) CreateBilling(ctx context.Context, userID string, req CreateBillingRequest) (BillingResponse, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return BillingResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	gold, err := toGoldDetails(req.GoldDetails)
	if err != nil {
		return BillingResponse{}, err
	}

	calc, err := toCalculation(req.Calculation)
	if err != nil {
		return BillingResponse{}, err
	}

	commissionPct, err := parseOptionalAmount("commission_percentage", req.CommissionPercentage)
	if err != nil {
		return BillingResponse{}, err
	}
	commissionAmt, err := parseOptionalAmount("commission_amount", req.CommissionAmount)
	if err != nil {
		return BillingResponse{}, err
	}

	billingType := req.BillingType
	if billingType == "" {
		billingType = model.BillingTypePhysical
	}

	billing := model.Billing{
		Customer:             toCustomer(req.Customer),
		GoldDetails:          gold,
		Calculation:          calc,
		BillingType:          billingType,
		BankName:             req.BankName,
		CommissionPercentage: commissionPct,
		CommissionAmount:     commissionAmt,
		CreatedByID:          creatorID,
	}

	for i, item := range req.Items {
		parsed, itemErr := toBillingItem(item)
		if itemErr != nil {
			return BillingResponse{}, fmt.Errorf("item %d: %w", i+1, itemErr)
		}
		billing.Items = append(billing.Items, parsed)
	}

	if err := s.persistWithNumber(ctx, &billing); err != nil {
		return BillingResponse{}, err
	}

	// Vault deduction is posted after the record commits. The two writes are
	// deliberately not atomic — a crash in between leaves a billing with no
	// deduction, which day-close reconciliation surfaces.
	if _, err := s.cashService.Append(ctx, userID, effectiveAmount(billing.Calculation), model.CashKindBilling); err != nil {
		return BillingResponse{}, fmt.Errorf("billing %s created but vault deduction failed: %w", billing.InvoiceNo, err)
	}

	return toBillingResponse(billing), nil
}

// persistWithNumber allocates the invoice number and writes the registry claim
// and the billing row in one DB transaction, so either both commit or neither.
func (s *billingService) persistWithNumber(ctx context.Context, billing *model.Billing) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := s.allocator.Allocate(txCtx, model.KindBilling, time.Now())
		if err != nil {
			return err
		}
		billing.InvoiceNo = number

		claim := model.TransactionNumber{Number: number, Kind: model.KindBilling}
		if err := s.seqRepo.Claim(txCtx, &claim); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("invoice number %s: %w", number, ErrDuplicateNumber)
			}
			return fmt.Errorf("failed to claim invoice number: %w", err)
		}

		if err := s.billingRepo.Create(txCtx, billing); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("invoice number %s: %w", number, ErrDuplicateNumber)
			}
			return fmt.Errorf("failed to create billing: %w", err)
		}
		return nil
	})
}

func (s *billingService) ListUserBillings(ctx context.Context, userID string, page, limit int) ([]BillingResponse, int64, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}

	billings, total, err := s.billingRepo.ListByCreator(ctx, creatorID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch billings: %w", err)
	}
	return toBillingResponses(billings), total, nil
}

func (s *billingService) ListAllBillings(ctx context.Context, page, limit int) ([]BillingResponse, int64, error) {
	billings, total, err := s.billingRepo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch billings: %w", err)
	}
	return toBillingResponses(billings), total, nil
}

func (s *billingService) DailyTransactions(ctx context.Context, day time.Time) (DailySummaryResponse, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	billings, err := s.billingRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return DailySummaryResponse{}, fmt.Errorf("failed to fetch daily transactions: %w", err)
	}

	total := decimal.Zero
	for _, b := range billings {
		total = total.Add(effectiveAmount(b.Calculation))
	}

	return DailySummaryResponse{
		Date:        start.Format("2006-01-02"),
		Count:       len(billings),
		TotalPayout: total.StringFixed(4),
		Billings:    toBillingResponses(billings),
	}, nil
}

func (s *billingService) AttachPhoto(ctx context.Context, id string, req AttachPhotoRequest) error {
	billingID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid billing id: %w", err)
	}

	if _, err := s.billingRepo.FindByID(ctx, billingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("billing %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to load billing: %w", err)
	}

	return s.billingRepo.UpdatePhoto(ctx, billingID, req.CustomerPhoto)
}

// DeleteBilling is an unconditional hard delete. The invoice number stays
// consumed in the registry and the vault deduction is not reversed — the
// ledger keeps recording cash that actually moved.
func (s *billingService) DeleteBilling(ctx context.Context, id string) error {
	billingID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid billing id: %w", err)
	}

	if _, err := s.billingRepo.FindByID(ctx, billingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("billing %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to load billing: %w", err)
	}

	return s.billingRepo.Delete(ctx, billingID)
}

func (s *billingService) ResetGoldTransactions(ctx context.Context) error {
	if err := s.billingRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to reset gold transactions: %w", err)
	}
	return nil
}

// CalculateCommission is the pure helper behind the calculator endpoint:
// commission = percentage/100 * amount.
func (s *billingService) CalculateCommission(req CommissionRequest) (CommissionResponse, error) {
	percentage, err := parseAmount("percentage", req.Percentage)
	if err != nil {
		return CommissionResponse{}, err
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return CommissionResponse{}, err
	}

	commission := percentage.Div(decimal.NewFromInt(100)).Mul(amount)
	return CommissionResponse{CommissionAmount: commission.StringFixed(4)}, nil
}

// --- Helpers ---

func toCalculation(p CalculationPayload) (model.Calculation, error) {
	rate, err := parseAmount("selected_rate_per_gram", p.SelectedRatePerGram)
	if err != nil {
		return model.Calculation{}, err
	}
	grams, err := parseAmount("grams", p.Grams)
	if err != nil {
		return model.Calculation{}, err
	}
	stone, err := parseOptionalAmount("stone", p.Stone)
	if err != nil {
		return model.Calculation{}, err
	}
	net, err := parseAmount("net", p.Net)
	if err != nil {
		return model.Calculation{}, err
	}
	finalPayout, err := parseAmount("final_payout", p.FinalPayout)
	if err != nil {
		return model.Calculation{}, err
	}

	calc := model.Calculation{
		SelectedRatePerGram: rate,
		Grams:               grams,
		Stone:               stone,
		Net:                 net,
		FinalPayout:         finalPayout,
	}
	if p.EditedAmount != "" {
		edited, editErr := parseAmount("edited_amount", p.EditedAmount)
		if editErr != nil {
			return model.Calculation{}, editErr
		}
		calc.EditedAmount = &edited
	}
	return calc, nil
}

func toBillingItem(p BillingItemPayload) (model.BillingItem, error) {
	gold, err := toGoldDetails(p.GoldDetails)
	if err != nil {
		return model.BillingItem{}, err
	}
	calc, err := toCalculation(CalculationPayload{
		SelectedRatePerGram: p.SelectedRatePerGram,
		Grams:               p.Grams,
		Stone:               p.Stone,
		Net:                 p.Net,
		FinalPayout:         p.FinalPayout,
		EditedAmount:        p.EditedAmount,
	})
	if err != nil {
		return model.BillingItem{}, err
	}

	return model.BillingItem{
		GoldDetails:         gold,
		SelectedRatePerGram: calc.SelectedRatePerGram,
		Grams:               calc.Grams,
		Stone:               calc.Stone,
		Net:                 calc.Net,
		FinalPayout:         calc.FinalPayout,
		EditedAmount:        calc.EditedAmount,
	}, nil
}

// effectiveAmount is the value deducted from the vault: the explicit override
// when present, otherwise the computed payout.
func effectiveAmount(calc model.Calculation) decimal.Decimal {
	if calc.EditedAmount != nil {
		return *calc.EditedAmount
	}
	return calc.FinalPayout
}

// --- Mapping ---

func toBillingResponse(b model.Billing) BillingResponse {
	resp := BillingResponse{
		ID:                   b.ID.String(),
		InvoiceNo:            b.InvoiceNo,
		Customer:             b.Customer,
		GoldDetails:          b.GoldDetails,
		Calculation:          b.Calculation,
		Items:                b.Items,
		BillingType:          b.BillingType,
		BankName:             b.BankName,
		CommissionPercentage: b.CommissionPercentage.StringFixed(4),
		CommissionAmount:     b.CommissionAmount.StringFixed(4),
		EffectiveAmount:      effectiveAmount(b.Calculation).StringFixed(4),
		CustomerPhoto:        b.CustomerPhoto,
		CreatedBy:            b.CreatedByID.String(),
		CreatedAt:            b.CreatedAt.Format(time.RFC3339),
	}
	if b.CreatedBy != nil {
		resp.CreatedByName = &b.CreatedBy.Name
	}
	return resp
}

func toBillingResponses(billings []model.Billing) []BillingResponse {
	result := make([]BillingResponse, 0, len(billings))
	for _, b := range billings {
		result = append(result, toBillingResponse(b))
	}
	return result
}
