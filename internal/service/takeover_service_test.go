package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"goldloan/internal/model"

	"github.com/google/uuid"
)

type takeoverFixture struct {
	svc          TakeoverService
	takeoverRepo *fakeTakeoverRepo
	seqRepo      *fakeSequenceRepo
	cashRepo     *fakeCashRepo
}

func newTakeoverFixture() *takeoverFixture {
	takeoverRepo := &fakeTakeoverRepo{}
	seqRepo := newFakeSequenceRepo()
	cashRepo := &fakeCashRepo{}
	svc := NewTakeoverService(takeoverRepo, seqRepo, NewSequenceAllocator(seqRepo), NewCashService(cashRepo), fakeTxManager{})
	return &takeoverFixture{svc: svc, takeoverRepo: takeoverRepo, seqRepo: seqRepo, cashRepo: cashRepo}
}

func validTakeoverRequest() CreateTakeoverRequest {
	return CreateTakeoverRequest{
		Customer: CustomerPayload{
			Name:   "Meera Krishnan",
			Mobile: "9988776655",
		},
		PledgeDetails: PledgeDetailsPayload{
			OriginalPledgeAmount: "7000",
			PledgeDate:           "2026-05-12",
			PledgedTo:            "Muthoot Finance",
			LoanAccountNumber:    "MF-99112",
		},
		GoldDetails: GoldDetailsPayload{
			Weight:       "5.000",
			PurityIndex:  "0.916",
			PurityLabel:  "22K",
			OrnamentType: "Ring",
		},
		TakeoverDetails: TakeoverDetailsPayload{
			TakeoverAmount:      "8000",
			SelectedRatePerGram: "6200",
			EstimatedValue:      "7500",
		},
	}
}

func TestCreateTakeover_DerivesProfitLoss(t *testing.T) {
	f := newTakeoverFixture()
	userID := uuid.NewString()

	req := validTakeoverRequest()
	// A client-supplied profit figure is ignored; the server derives its own.
	req.TakeoverDetails.ProfitLoss = "99999"

	takeover, err := f.svc.CreateTakeover(context.Background(), userID, req)
	if err != nil {
		t.Fatalf("CreateTakeover returned error: %v", err)
	}

	want := "TKO-" + time.Now().Format("20060102") + "-0001"
	if takeover.TakeoverNo != want {
		t.Fatalf("takeover number = %s, want %s", takeover.TakeoverNo, want)
	}
	if got := takeover.TakeoverDetails.ProfitLoss.StringFixed(4); got != "500.0000" {
		t.Fatalf("profit/loss = %s, want 500.0000", got)
	}

	deductions := f.cashRepo.byKind(model.CashKindBilling)
	if len(deductions) != 1 || deductions[0].Amount.StringFixed(4) != "8000.0000" {
		t.Fatalf("vault deduction = %+v, want one 8000 entry", deductions)
	}
}

func TestCreateTakeover_NegativeProfitLoss(t *testing.T) {
	f := newTakeoverFixture()
	userID := uuid.NewString()

	req := validTakeoverRequest()
	req.TakeoverDetails.TakeoverAmount = "7000"
	req.TakeoverDetails.EstimatedValue = "7500"

	takeover, err := f.svc.CreateTakeover(context.Background(), userID, req)
	if err != nil {
		t.Fatalf("CreateTakeover returned error: %v", err)
	}
	if got := takeover.TakeoverDetails.ProfitLoss.StringFixed(4); got != "-500.0000" {
		t.Fatalf("profit/loss = %s, want -500.0000", got)
	}
}

func TestCreateTakeover_InvalidPledgeDate(t *testing.T) {
	f := newTakeoverFixture()
	userID := uuid.NewString()

	req := validTakeoverRequest()
	req.PledgeDetails.PledgeDate = "12/05/2026"

	if _, err := f.svc.CreateTakeover(context.Background(), userID, req); err == nil {
		t.Fatal("CreateTakeover with malformed date should fail")
	}
	if len(f.seqRepo.numbers) != 0 || len(f.takeoverRepo.takeovers) != 0 {
		t.Fatal("nothing may persist on validation failure")
	}
}

func TestCreateTakeover_DuplicateNumberWritesNothing(t *testing.T) {
	f := newTakeoverFixture()
	f.seqRepo.failClaims = 1
	userID := uuid.NewString()

	_, err := f.svc.CreateTakeover(context.Background(), userID, validTakeoverRequest())
	if !errors.Is(err, ErrDuplicateNumber) {
		t.Fatalf("CreateTakeover = %v, want ErrDuplicateNumber", err)
	}
	if len(f.takeoverRepo.takeovers) != 0 || len(f.cashRepo.entries) != 0 {
		t.Fatal("nothing may persist when the number claim fails")
	}
}

func TestDeleteTakeover_NumberStaysConsumed(t *testing.T) {
	f := newTakeoverFixture()
	userID := uuid.NewString()

	takeover, err := f.svc.CreateTakeover(context.Background(), userID, validTakeoverRequest())
	if err != nil {
		t.Fatalf("CreateTakeover returned error: %v", err)
	}
	if err := f.svc.DeleteTakeover(context.Background(), takeover.ID); err != nil {
		t.Fatalf("DeleteTakeover returned error: %v", err)
	}

	next, err := f.svc.CreateTakeover(context.Background(), userID, validTakeoverRequest())
	if err != nil {
		t.Fatalf("CreateTakeover after delete returned error: %v", err)
	}
	want := "TKO-" + time.Now().Format("20060102") + "-0002"
	if next.TakeoverNo != want {
		t.Fatalf("takeover number after delete = %s, want %s", next.TakeoverNo, want)
	}
}

func TestCalculateEstimate(t *testing.T) {
	f := newTakeoverFixture()

	tests := []struct {
		name    string
		weight  string
		rate    string
		want    string
		wantErr bool
	}{
		{"plain", "5.000", "6200", "31000.0000", false},
		{"fractional weight", "2.125", "6000", "12750.0000", false},
		{"bad weight", "heavy", "6000", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.CalculateEstimate(EstimateRequest{Weight: tt.weight, SelectedRatePerGram: tt.rate})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CalculateEstimate returned error: %v", err)
			}
			if got.EstimatedValue != tt.want {
				t.Fatalf("estimate = %s, want %s", got.EstimatedValue, tt.want)
			}
		})
	}
}
