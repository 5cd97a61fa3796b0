package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"goldloan/internal/model"
)

var testDay = time.Date(2026, time.August, 29, 10, 30, 0, 0, time.Local)

func claimNumber(t *testing.T, repo *fakeSequenceRepo, number, kind string) {
	t.Helper()
	if err := repo.Claim(context.Background(), &model.TransactionNumber{Number: number, Kind: kind}); err != nil {
		t.Fatalf("claim %s: %v", number, err)
	}
}

func TestAllocate_FirstOfDay(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{model.KindBilling, "INV-20260829-0001"},
		{model.KindRenewal, "RNW-20260829-0001"},
		{model.KindTakeover, "TKO-20260829-0001"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			allocator := NewSequenceAllocator(newFakeSequenceRepo())
			got, err := allocator.Allocate(context.Background(), tt.kind, testDay)
			if err != nil {
				t.Fatalf("Allocate returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Allocate = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAllocate_SequentialDensity(t *testing.T) {
	repo := newFakeSequenceRepo()
	allocator := NewSequenceAllocator(repo)

	for i := 1; i <= 5; i++ {
		got, err := allocator.Allocate(context.Background(), model.KindBilling, testDay)
		if err != nil {
			t.Fatalf("allocation %d returned error: %v", i, err)
		}
		want := fmt.Sprintf("INV-20260829-%04d", i)
		if got != want {
			t.Fatalf("allocation %d = %s, want %s", i, got, want)
		}
		claimNumber(t, repo, got, model.KindBilling)
	}
}

func TestAllocate_KindsDoNotShareNamespace(t *testing.T) {
	repo := newFakeSequenceRepo()
	allocator := NewSequenceAllocator(repo)

	// Interleave all three kinds on the same day: each keeps its own counter.
	for i := 1; i <= 3; i++ {
		for kind, prefix := range map[string]string{
			model.KindBilling:  "INV",
			model.KindRenewal:  "RNW",
			model.KindTakeover: "TKO",
		} {
			got, err := allocator.Allocate(context.Background(), kind, testDay)
			if err != nil {
				t.Fatalf("allocate %s round %d: %v", kind, i, err)
			}
			want := fmt.Sprintf("%s-20260829-%04d", prefix, i)
			if got != want {
				t.Fatalf("allocate %s round %d = %s, want %s", kind, i, got, want)
			}
			claimNumber(t, repo, got, kind)
		}
	}
}

func TestAllocate_SkipsClaimedNumbers(t *testing.T) {
	repo := newFakeSequenceRepo()
	allocator := NewSequenceAllocator(repo)

	claimNumber(t, repo, "INV-20260829-0001", model.KindBilling)
	claimNumber(t, repo, "INV-20260829-0002", model.KindBilling)

	got, err := allocator.Allocate(context.Background(), model.KindBilling, testDay)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if got != "INV-20260829-0003" {
		t.Fatalf("Allocate = %s, want INV-20260829-0003", got)
	}
}

func TestAllocate_LastSlotThenExhausted(t *testing.T) {
	repo := newFakeSequenceRepo()
	allocator := NewSequenceAllocator(repo)

	for i := 1; i <= 9998; i++ {
		claimNumber(t, repo, fmt.Sprintf("INV-20260829-%04d", i), model.KindBilling)
	}

	got, err := allocator.Allocate(context.Background(), model.KindBilling, testDay)
	if err != nil {
		t.Fatalf("Allocate returned error with one slot left: %v", err)
	}
	if got != "INV-20260829-9999" {
		t.Fatalf("Allocate = %s, want INV-20260829-9999", got)
	}
	claimNumber(t, repo, got, model.KindBilling)

	if _, err := allocator.Allocate(context.Background(), model.KindBilling, testDay); !errors.Is(err, ErrSequenceExhausted) {
		t.Fatalf("Allocate after 9999 claims = %v, want ErrSequenceExhausted", err)
	}
}

func TestAllocate_ExhaustionIsPerKindAndPerDay(t *testing.T) {
	repo := newFakeSequenceRepo()
	allocator := NewSequenceAllocator(repo)

	for i := 1; i <= 9999; i++ {
		claimNumber(t, repo, fmt.Sprintf("INV-20260829-%04d", i), model.KindBilling)
	}

	// Billing is exhausted but renewals on the same day still allocate.
	got, err := allocator.Allocate(context.Background(), model.KindRenewal, testDay)
	if err != nil {
		t.Fatalf("renewal allocation failed: %v", err)
	}
	if got != "RNW-20260829-0001" {
		t.Fatalf("renewal allocation = %s, want RNW-20260829-0001", got)
	}

	// And billing on the next day starts fresh.
	nextDay := testDay.AddDate(0, 0, 1)
	got, err = allocator.Allocate(context.Background(), model.KindBilling, nextDay)
	if err != nil {
		t.Fatalf("next-day billing allocation failed: %v", err)
	}
	if got != "INV-20260830-0001" {
		t.Fatalf("next-day billing allocation = %s, want INV-20260830-0001", got)
	}
}

func TestAllocate_UnknownKind(t *testing.T) {
	allocator := NewSequenceAllocator(newFakeSequenceRepo())
	if _, err := allocator.Allocate(context.Background(), "PAWN", testDay); err == nil {
		t.Fatal("Allocate with unknown kind should fail")
	}
}
