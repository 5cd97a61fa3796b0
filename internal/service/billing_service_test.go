package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"goldloan/internal/model"

	"github.com/google/uuid"
)

type billingFixture struct {
	svc         BillingService
	billingRepo *fakeBillingRepo
	seqRepo     *fakeSequenceRepo
	cashRepo    *fakeCashRepo
	cashService CashService
}

func newBillingFixture() *billingFixture {
	billingRepo := &fakeBillingRepo{}
	seqRepo := newFakeSequenceRepo()
	cashRepo := &fakeCashRepo{}
	cashService := NewCashService(cashRepo)
	svc := NewBillingService(billingRepo, seqRepo, NewSequenceAllocator(seqRepo), cashService, fakeTxManager{})
	return &billingFixture{
		svc:         svc,
		billingRepo: billingRepo,
		seqRepo:     seqRepo,
		cashRepo:    cashRepo,
		cashService: cashService,
	}
}

func validBillingRequest() CreateBillingRequest {
	return CreateBillingRequest{
		Customer: CustomerPayload{
			Name:   "Lakshmi Devi",
			Mobile: "9876543210",
		},
		GoldDetails: GoldDetailsPayload{
			Weight:       "12.500",
			StoneWeight:  "0.500",
			PurityIndex:  "0.916",
			PurityLabel:  "22K",
			OrnamentType: "Bangle",
		},
		Calculation: CalculationPayload{
			SelectedRatePerGram: "6200",
			Grams:               "12.500",
			Stone:               "0.500",
			Net:                 "12.000",
			FinalPayout:         "5000",
		},
	}
}

func TestCreateBilling_AllocatesNumberAndPostsDeduction(t *testing.T) {
	f := newBillingFixture()
	userID := uuid.NewString()

	appendCash(t, f.cashService, userID, "10000", model.CashKindInitial)

	billing, err := f.svc.CreateBilling(context.Background(), userID, validBillingRequest())
	if err != nil {
		t.Fatalf("CreateBilling returned error: %v", err)
	}

	wantPrefix := "INV-" + time.Now().Format("20060102") + "-0001"
	if billing.InvoiceNo != wantPrefix {
		t.Fatalf("invoice number = %s, want %s", billing.InvoiceNo, wantPrefix)
	}
	if billing.EffectiveAmount != "5000.0000" {
		t.Fatalf("effective amount = %s, want 5000.0000", billing.EffectiveAmount)
	}

	deductions := f.cashRepo.byKind(model.CashKindBilling)
	if len(deductions) != 1 || deductions[0].Amount.StringFixed(4) != "5000.0000" {
		t.Fatalf("vault deductions = %+v, want one 5000 entry", deductions)
	}

	margin, err := f.cashService.Margin(context.Background())
	if err != nil {
		t.Fatalf("Margin returned error: %v", err)
	}
	if margin.Margin != "5000.0000" {
		t.Fatalf("margin after billing = %s, want 5000.0000", margin.Margin)
	}
}

func TestCreateBilling_EditedAmountOverridesPayout(t *testing.T) {
	f := newBillingFixture()
	userID := uuid.NewString()

	req := validBillingRequest()
	req.Calculation.EditedAmount = "4800"

	billing, err := f.svc.CreateBilling(context.Background(), userID, req)
	if err != nil {
		t.Fatalf("CreateBilling returned error: %v", err)
	}
	if billing.EffectiveAmount != "4800.0000" {
		t.Fatalf("effective amount = %s, want 4800.0000", billing.EffectiveAmount)
	}

	deductions := f.cashRepo.byKind(model.CashKindBilling)
	if len(deductions) != 1 || deductions[0].Amount.StringFixed(4) != "4800.0000" {
		t.Fatalf("vault deduction should use the edited amount, got %+v", deductions)
	}
}

func TestCreateBilling_InvalidAmountWritesNothing(t *testing.T) {
	f := newBillingFixture()
	userID := uuid.NewString()

	req := validBillingRequest()
	req.Calculation.FinalPayout = "five thousand"

	if _, err := f.svc.CreateBilling(context.Background(), userID, req); err == nil {
		t.Fatal("CreateBilling with a malformed amount should fail")
	}

	if len(f.billingRepo.billings) != 0 {
		t.Fatal("no billing row may be written on validation failure")
	}
	if len(f.seqRepo.numbers) != 0 {
		t.Fatal("no number may be consumed on validation failure")
	}
	if len(f.cashRepo.entries) != 0 {
		t.Fatal("no ledger entry may be posted on validation failure")
	}
}

func TestCreateBilling_DuplicateNumberSurfacesAndWritesNothing(t *testing.T) {
	f := newBillingFixture()
	f.seqRepo.failClaims = 1
	userID := uuid.NewString()

	_, err := f.svc.CreateBilling(context.Background(), userID, validBillingRequest())
	if !errors.Is(err, ErrDuplicateNumber) {
		t.Fatalf("CreateBilling = %v, want ErrDuplicateNumber", err)
	}
	if len(f.billingRepo.billings) != 0 {
		t.Fatal("billing must not persist when the number claim loses the race")
	}
	if len(f.cashRepo.entries) != 0 {
		t.Fatal("no vault deduction may be posted when creation fails")
	}
}

func TestDeleteBilling_NumberStaysConsumed(t *testing.T) {
	f := newBillingFixture()
	userID := uuid.NewString()

	first, err := f.svc.CreateBilling(context.Background(), userID, validBillingRequest())
	if err != nil {
		t.Fatalf("CreateBilling returned error: %v", err)
	}

	if err := f.svc.DeleteBilling(context.Background(), first.ID); err != nil {
		t.Fatalf("DeleteBilling returned error: %v", err)
	}
	if len(f.billingRepo.billings) != 0 {
		t.Fatal("billing row should be hard-deleted")
	}

	// Deletion does not reverse the ledger entry.
	if len(f.cashRepo.byKind(model.CashKindBilling)) != 1 {
		t.Fatal("vault deduction must survive the delete")
	}

	// And the next billing gets the next number, not the freed one.
	second, err := f.svc.CreateBilling(context.Background(), userID, validBillingRequest())
	if err != nil {
		t.Fatalf("second CreateBilling returned error: %v", err)
	}
	want := "INV-" + time.Now().Format("20060102") + "-0002"
	if second.InvoiceNo != want {
		t.Fatalf("invoice number after delete = %s, want %s", second.InvoiceNo, want)
	}
}

func TestDeleteBilling_NotFound(t *testing.T) {
	f := newBillingFixture()

	err := f.svc.DeleteBilling(context.Background(), uuid.NewString())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteBilling = %v, want ErrNotFound", err)
	}
}

func TestResetGoldTransactions_LeavesRegistryIntact(t *testing.T) {
	f := newBillingFixture()
	userID := uuid.NewString()

	for i := 0; i < 3; i++ {
		if _, err := f.svc.CreateBilling(context.Background(), userID, validBillingRequest()); err != nil {
			t.Fatalf("CreateBilling %d returned error: %v", i, err)
		}
	}

	if err := f.svc.ResetGoldTransactions(context.Background()); err != nil {
		t.Fatalf("ResetGoldTransactions returned error: %v", err)
	}
	if len(f.billingRepo.billings) != 0 {
		t.Fatal("reset should delete every billing")
	}

	next, err := f.svc.CreateBilling(context.Background(), userID, validBillingRequest())
	if err != nil {
		t.Fatalf("CreateBilling after reset returned error: %v", err)
	}
	want := "INV-" + time.Now().Format("20060102") + "-0004"
	if next.InvoiceNo != want {
		t.Fatalf("invoice number after reset = %s, want %s", next.InvoiceNo, want)
	}
}

func TestDailyTransactions(t *testing.T) {
	f := newBillingFixture()
	userID := uuid.NewString()

	req := validBillingRequest()
	if _, err := f.svc.CreateBilling(context.Background(), userID, req); err != nil {
		t.Fatalf("CreateBilling returned error: %v", err)
	}
	req.Calculation.EditedAmount = "4500"
	if _, err := f.svc.CreateBilling(context.Background(), userID, req); err != nil {
		t.Fatalf("CreateBilling returned error: %v", err)
	}

	summary, err := f.svc.DailyTransactions(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("DailyTransactions returned error: %v", err)
	}
	if summary.Count != 2 {
		t.Fatalf("count = %d, want 2", summary.Count)
	}
	if summary.TotalPayout != "9500.0000" {
		t.Fatalf("total payout = %s, want 9500.0000", summary.TotalPayout)
	}
}

func TestAttachPhoto(t *testing.T) {
	f := newBillingFixture()
	userID := uuid.NewString()

	billing, err := f.svc.CreateBilling(context.Background(), userID, validBillingRequest())
	if err != nil {
		t.Fatalf("CreateBilling returned error: %v", err)
	}

	if err := f.svc.AttachPhoto(context.Background(), billing.ID, AttachPhotoRequest{CustomerPhoto: "data:image/png;base64,xyz"}); err != nil {
		t.Fatalf("AttachPhoto returned error: %v", err)
	}
	if f.billingRepo.billings[0].CustomerPhoto == "" {
		t.Fatal("photo should be stored on the billing")
	}

	if err := f.svc.AttachPhoto(context.Background(), uuid.NewString(), AttachPhotoRequest{CustomerPhoto: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("AttachPhoto on missing billing = %v, want ErrNotFound", err)
	}
}

func TestCalculateCommission(t *testing.T) {
	f := newBillingFixture()

	tests := []struct {
		name       string
		percentage string
		amount     string
		want       string
		wantErr    bool
	}{
		{"whole percent", "2.5", "10000", "250.0000", false},
		{"fractional result", "1", "333", "3.3300", false},
		{"zero percent", "0", "10000", "0.0000", false},
		{"bad percentage", "two", "10000", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.CalculateCommission(CommissionRequest{Percentage: tt.percentage, Amount: tt.amount})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CalculateCommission returned error: %v", err)
			}
			if got.CommissionAmount != tt.want {
				t.Fatalf("commission = %s, want %s", got.CommissionAmount, tt.want)
			}
		})
	}
}

func TestListUserBillings_ScopesToCreator(t *testing.T) {
	f := newBillingFixture()
	alice := uuid.NewString()
	bob := uuid.NewString()

	if _, err := f.svc.CreateBilling(context.Background(), alice, validBillingRequest()); err != nil {
		t.Fatalf("CreateBilling returned error: %v", err)
	}
	if _, err := f.svc.CreateBilling(context.Background(), bob, validBillingRequest()); err != nil {
		t.Fatalf("CreateBilling returned error: %v", err)
	}

	own, total, err := f.svc.ListUserBillings(context.Background(), alice, 1, 20)
	if err != nil {
		t.Fatalf("ListUserBillings returned error: %v", err)
	}
	if total != 1 || len(own) != 1 || own[0].CreatedBy != alice {
		t.Fatalf("creator scope broken: total=%d len=%d", total, len(own))
	}

	all, total, err := f.svc.ListAllBillings(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("ListAllBillings returned error: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Fatalf("admin listing: total=%d len=%d, want 2/2", total, len(all))
	}
}
