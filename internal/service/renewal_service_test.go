package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"goldloan/internal/model"

	"github.com/google/uuid"
)

type renewalFixture struct {
	svc         RenewalService
	renewalRepo *fakeRenewalRepo
	seqRepo     *fakeSequenceRepo
	cashRepo    *fakeCashRepo
}

func newRenewalFixture() *renewalFixture {
	renewalRepo := &fakeRenewalRepo{}
	seqRepo := newFakeSequenceRepo()
	cashRepo := &fakeCashRepo{}
	svc := NewRenewalService(renewalRepo, seqRepo, NewSequenceAllocator(seqRepo), NewCashService(cashRepo), fakeTxManager{})
	return &renewalFixture{svc: svc, renewalRepo: renewalRepo, seqRepo: seqRepo, cashRepo: cashRepo}
}

func validRenewalRequest() CreateRenewalRequest {
	return CreateRenewalRequest{
		Customer: CustomerPayload{
			Name:   "Raman Pillai",
			Mobile: "9123456780",
		},
		BankDetails: BankDetailsPayload{
			BankName:          "Canara Bank",
			BranchName:        "T Nagar",
			LoanAccountNumber: "GL-445566",
			LoanAmount:        "42000",
		},
		GoldDetails: GoldDetailsPayload{
			Weight:       "8.200",
			PurityIndex:  "0.916",
			PurityLabel:  "22K",
			OrnamentType: "Chain",
		},
		RenewalDetails: RenewalDetailsPayload{
			RenewalAmount:        "42000",
			CommissionAmount:     "1050",
			CommissionPercentage: "2.5",
			SelectedRatePerGram:  "6200",
		},
	}
}

func TestCreateRenewal_AllocatesNumberAndDeductsRenewalAmount(t *testing.T) {
	f := newRenewalFixture()
	userID := uuid.NewString()

	renewal, err := f.svc.CreateRenewal(context.Background(), userID, validRenewalRequest())
	if err != nil {
		t.Fatalf("CreateRenewal returned error: %v", err)
	}

	want := "RNW-" + time.Now().Format("20060102") + "-0001"
	if renewal.RenewalNo != want {
		t.Fatalf("renewal number = %s, want %s", renewal.RenewalNo, want)
	}

	deductions := f.cashRepo.byKind(model.CashKindBilling)
	if len(deductions) != 1 || deductions[0].Amount.StringFixed(4) != "42000.0000" {
		t.Fatalf("vault deduction = %+v, want one 42000 entry", deductions)
	}
}

func TestCreateRenewal_DuplicateNumberWritesNothing(t *testing.T) {
	f := newRenewalFixture()
	f.seqRepo.failClaims = 1
	userID := uuid.NewString()

	_, err := f.svc.CreateRenewal(context.Background(), userID, validRenewalRequest())
	if !errors.Is(err, ErrDuplicateNumber) {
		t.Fatalf("CreateRenewal = %v, want ErrDuplicateNumber", err)
	}
	if len(f.renewalRepo.renewals) != 0 || len(f.cashRepo.entries) != 0 {
		t.Fatal("nothing may persist when the number claim fails")
	}
}

func TestCreateRenewal_InvalidLoanAmount(t *testing.T) {
	f := newRenewalFixture()
	userID := uuid.NewString()

	req := validRenewalRequest()
	req.BankDetails.LoanAmount = "42k"

	if _, err := f.svc.CreateRenewal(context.Background(), userID, req); err == nil {
		t.Fatal("CreateRenewal with malformed loan amount should fail")
	}
	if len(f.seqRepo.numbers) != 0 {
		t.Fatal("no number may be consumed on validation failure")
	}
}

func TestDeleteRenewal_NumberStaysConsumed(t *testing.T) {
	f := newRenewalFixture()
	userID := uuid.NewString()

	renewal, err := f.svc.CreateRenewal(context.Background(), userID, validRenewalRequest())
	if err != nil {
		t.Fatalf("CreateRenewal returned error: %v", err)
	}
	if err := f.svc.DeleteRenewal(context.Background(), renewal.ID); err != nil {
		t.Fatalf("DeleteRenewal returned error: %v", err)
	}

	next, err := f.svc.CreateRenewal(context.Background(), userID, validRenewalRequest())
	if err != nil {
		t.Fatalf("CreateRenewal after delete returned error: %v", err)
	}
	want := "RNW-" + time.Now().Format("20060102") + "-0002"
	if next.RenewalNo != want {
		t.Fatalf("renewal number after delete = %s, want %s", next.RenewalNo, want)
	}
}

func TestDeleteRenewal_NotFound(t *testing.T) {
	f := newRenewalFixture()
	if err := f.svc.DeleteRenewal(context.Background(), uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteRenewal = %v, want ErrNotFound", err)
	}
}

func TestRenewalCalculateCommission_EchoesLoanAmount(t *testing.T) {
	f := newRenewalFixture()

	got, err := f.svc.CalculateCommission(RenewalCommissionRequest{LoanAmount: "42000", CommissionPercentage: "2.5"})
	if err != nil {
		t.Fatalf("CalculateCommission returned error: %v", err)
	}
	if got.CommissionAmount != "1050.0000" {
		t.Fatalf("commission = %s, want 1050.0000", got.CommissionAmount)
	}
	if got.RenewalAmount != "42000.0000" {
		t.Fatalf("renewal amount = %s, want 42000.0000", got.RenewalAmount)
	}
}
