package service

import (
	"context"
	"fmt"
	"time"

	"goldloan/internal/model"
	"goldloan/internal/repository"
)

// Transaction number prefixes per kind. Prefixes differ, so the three kinds
// can never collide inside the shared registry even on the same day.
var kindPrefixes = map[string]string{
	model.KindBilling:  "INV",
	model.KindRenewal:  "RNW",
	model.KindTakeover: "TKO",
}

// maxDailySequence caps the 4-digit suffix: at most 9999 numbers per kind per day.
const maxDailySequence = 9999

// SequenceAllocator produces transaction numbers of the form
// <PREFIX>-<YYYYMMDD>-<NNNN>, unique across billings, renewals and takeovers.
//
// Allocation is a read-only probe of the registry; the number is only consumed
// when the caller claims it (inside the same DB transaction that persists the
// record). The registry keeps rows for hard-deleted records, so numbers are
// never reused.
type SequenceAllocator interface {
	Allocate(ctx context.Context, kind string, today time.Time) (string, error)
}

type sequenceAllocator struct {
	seqRepo repository.SequenceRepository
}

func NewSequenceAllocator(seqRepo repository.SequenceRepository) SequenceAllocator {
	return &sequenceAllocator{seqRepo: seqRepo}
}

func (a *sequenceAllocator) Allocate(ctx context.Context, kind string, today time.Time) (string, error) {
	prefix, ok := kindPrefixes[kind]
	if !ok {
		return "", fmt.Errorf("unknown transaction kind %q", kind)
	}
	dayPrefix := prefix + "-" + today.Format("20060102") + "-"

	// Registry rows are never deleted, so the prefix count is the number of
	// suffixes already consumed today. Start just past it instead of scanning
	// from 1 on every allocation, then walk forward in case a concurrent
	// claim landed between the count and the probe.
	count, err := a.seqRepo.CountByPrefix(ctx, dayPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to count allocated numbers: %w", err)
	}

	for c := count + 1; c <= maxDailySequence; c++ {
		candidate := fmt.Sprintf("%s%04d", dayPrefix, c)
		taken, err := a.seqRepo.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to probe number %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no free number under %s after %d attempts: %w", dayPrefix, maxDailySequence, ErrSequenceExhausted)
}
