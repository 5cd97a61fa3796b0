package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"goldloan/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory fakes backing the service tests. They mimic the Postgres-backed
// repositories closely enough to exercise the allocation, ledger and recorder
// logic without a database.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// --- sequence registry ---

type fakeSequenceRepo struct {
	numbers map[string]model.TransactionNumber
	// When > 0, the next Claim calls fail with gorm.ErrDuplicatedKey, which is
	// what a concurrent claim of the same number produces.
	failClaims int
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{numbers: make(map[string]model.TransactionNumber)}
}

func (f *fakeSequenceRepo) CountByPrefix(_ context.Context, prefix string) (int64, error) {
	var count int64
	for number := range f.numbers {
		if strings.HasPrefix(number, prefix) {
			count++
		}
	}
	return count, nil
}

func (f *fakeSequenceRepo) Exists(_ context.Context, number string) (bool, error) {
	_, ok := f.numbers[number]
	return ok, nil
}

func (f *fakeSequenceRepo) Claim(_ context.Context, number *model.TransactionNumber) error {
	if f.failClaims > 0 {
		f.failClaims--
		return gorm.ErrDuplicatedKey
	}
	if _, ok := f.numbers[number.Number]; ok {
		return gorm.ErrDuplicatedKey
	}
	number.CreatedAt = time.Now()
	f.numbers[number.Number] = *number
	return nil
}

// --- cash vault ---

type fakeCashRepo struct {
	entries []model.CashEntry
}

func (f *fakeCashRepo) Create(_ context.Context, entry *model.CashEntry) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeCashRepo) List(_ context.Context, addedBy *uuid.UUID) ([]model.CashEntry, error) {
	var out []model.CashEntry
	for _, e := range f.entries {
		if addedBy == nil || e.AddedByID == *addedBy {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCashRepo) SumByKind(_ context.Context, kind string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range f.entries {
		if e.Kind == kind {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (f *fakeCashRepo) HasKind(_ context.Context, kind string) (bool, error) {
	for _, e := range f.entries {
		if e.Kind == kind {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCashRepo) DeleteByKinds(_ context.Context, kinds []string) error {
	drop := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		drop[k] = true
	}
	kept := f.entries[:0]
	for _, e := range f.entries {
		if !drop[e.Kind] {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

func (f *fakeCashRepo) byKind(kind string) []model.CashEntry {
	var out []model.CashEntry
	for _, e := range f.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// --- billings ---

type fakeBillingRepo struct {
	billings []model.Billing
}

func (f *fakeBillingRepo) Create(_ context.Context, billing *model.Billing) error {
	billing.ID = uuid.New()
	billing.CreatedAt = time.Now()
	f.billings = append(f.billings, *billing)
	return nil
}

func (f *fakeBillingRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Billing, error) {
	for i := range f.billings {
		if f.billings[i].ID == id {
			b := f.billings[i]
			return &b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBillingRepo) ListByCreator(_ context.Context, creatorID uuid.UUID, page, limit int) ([]model.Billing, int64, error) {
	var out []model.Billing
	for _, b := range f.billings {
		if b.CreatedByID == creatorID {
			out = append(out, b)
		}
	}
	return paginate(out, page, limit), int64(len(out)), nil
}

func (f *fakeBillingRepo) ListAll(_ context.Context, page, limit int) ([]model.Billing, int64, error) {
	return paginate(f.billings, page, limit), int64(len(f.billings)), nil
}

func (f *fakeBillingRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]model.Billing, error) {
	var out []model.Billing
	for _, b := range f.billings {
		if !b.CreatedAt.Before(start) && b.CreatedAt.Before(end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBillingRepo) UpdatePhoto(_ context.Context, id uuid.UUID, photo string) error {
	for i := range f.billings {
		if f.billings[i].ID == id {
			f.billings[i].CustomerPhoto = photo
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeBillingRepo) Delete(_ context.Context, id uuid.UUID) error {
	kept := f.billings[:0]
	for _, b := range f.billings {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	f.billings = kept
	return nil
}

func (f *fakeBillingRepo) DeleteAll(_ context.Context) error {
	f.billings = nil
	return nil
}

// --- renewals ---

type fakeRenewalRepo struct {
	renewals []model.Renewal
}

func (f *fakeRenewalRepo) Create(_ context.Context, renewal *model.Renewal) error {
	renewal.ID = uuid.New()
	renewal.CreatedAt = time.Now()
	f.renewals = append(f.renewals, *renewal)
	return nil
}

func (f *fakeRenewalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Renewal, error) {
	for i := range f.renewals {
		if f.renewals[i].ID == id {
			r := f.renewals[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRenewalRepo) ListByCreator(_ context.Context, creatorID uuid.UUID, page, limit int) ([]model.Renewal, int64, error) {
	var out []model.Renewal
	for _, r := range f.renewals {
		if r.CreatedByID == creatorID {
			out = append(out, r)
		}
	}
	return paginate(out, page, limit), int64(len(out)), nil
}

func (f *fakeRenewalRepo) ListAll(_ context.Context, page, limit int) ([]model.Renewal, int64, error) {
	return paginate(f.renewals, page, limit), int64(len(f.renewals)), nil
}

func (f *fakeRenewalRepo) Delete(_ context.Context, id uuid.UUID) error {
	kept := f.renewals[:0]
	for _, r := range f.renewals {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.renewals = kept
	return nil
}

// --- takeovers ---

type fakeTakeoverRepo struct {
	takeovers []model.Takeover
}

func (f *fakeTakeoverRepo) Create(_ context.Context, takeover *model.Takeover) error {
	takeover.ID = uuid.New()
	takeover.CreatedAt = time.Now()
	f.takeovers = append(f.takeovers, *takeover)
	return nil
}

func (f *fakeTakeoverRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Takeover, error) {
	for i := range f.takeovers {
		if f.takeovers[i].ID == id {
			t := f.takeovers[i]
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTakeoverRepo) ListByCreator(_ context.Context, creatorID uuid.UUID, page, limit int) ([]model.Takeover, int64, error) {
	var out []model.Takeover
	for _, t := range f.takeovers {
		if t.CreatedByID == creatorID {
			out = append(out, t)
		}
	}
	return paginate(out, page, limit), int64(len(out)), nil
}

func (f *fakeTakeoverRepo) ListAll(_ context.Context, page, limit int) ([]model.Takeover, int64, error) {
	return paginate(f.takeovers, page, limit), int64(len(f.takeovers)), nil
}

func (f *fakeTakeoverRepo) Delete(_ context.Context, id uuid.UUID) error {
	kept := f.takeovers[:0]
	for _, t := range f.takeovers {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	f.takeovers = kept
	return nil
}

// --- gold price ---

type fakeGoldPriceRepo struct {
	price *model.GoldPrice
}

func (f *fakeGoldPriceRepo) Latest(_ context.Context) (*model.GoldPrice, error) {
	if f.price == nil {
		return nil, gorm.ErrRecordNotFound
	}
	p := *f.price
	return &p, nil
}

func (f *fakeGoldPriceRepo) Create(_ context.Context, price *model.GoldPrice) error {
	price.ID = uuid.New()
	price.CreatedAt = time.Now()
	price.UpdatedAt = time.Now()
	p := *price
	f.price = &p
	return nil
}

func (f *fakeGoldPriceRepo) Save(_ context.Context, price *model.GoldPrice) error {
	price.UpdatedAt = time.Now()
	p := *price
	f.price = &p
	return nil
}

// --- users ---

type fakeUserRepo struct {
	users  map[string]model.User // keyed by ID
	tokens map[string]model.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]model.User),
		tokens: make(map[string]model.RefreshToken),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	f.users[user.ID.String()] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return &u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()
	f.users[user.ID.String()] = *user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) CreateRefreshToken(_ context.Context, token *model.RefreshToken) error {
	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	f.tokens[token.Token] = *token
	return nil
}

func (f *fakeUserRepo) GetRefreshToken(_ context.Context, token string) (*model.RefreshToken, error) {
	if t, ok := f.tokens[token]; ok {
		return &t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) DeleteRefreshToken(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeUserRepo) DeleteExpiredRefreshTokens(_ context.Context, before time.Time) error {
	for k, t := range f.tokens {
		if t.ExpiresAt.Before(before) {
			delete(f.tokens, k)
		}
	}
	return nil
}

// --- helpers ---

func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = len(items)
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
