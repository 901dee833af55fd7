package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redinteligente/authcode/internal/auth/entity"
	"github.com/redinteligente/authcode/internal/pkg/config"
	"github.com/redinteligente/authcode/internal/pkg/goerror"
	"github.com/redinteligente/authcode/internal/pkg/hash"
	"github.com/redinteligente/authcode/internal/pkg/instrument"
	"github.com/redinteligente/authcode/internal/pkg/otp"
	"github.com/redinteligente/authcode/internal/pkg/validator"
)

const testConfigYAML = `
modules:
  auth:
    code_ttl_minutes: 30
    resend_delay_minutes: 2
    max_resend_per_hour: 5
    cleanup_include_used: false
`

// fakeClock is a settable clock shared safely across goroutines.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeStore is an in-memory stand-in for the Postgres repo. SaveIssued holds
// a mutex for the whole upsert, mirroring the row lock the real store takes,
// and re-evaluates the throttle policy inside it.
type fakeStore struct {
	mu       sync.Mutex
	profiles map[string]*entity.Profile
	codes    map[string]*entity.AccessCode

	profileErr error
	saveErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: make(map[string]*entity.Profile),
		codes:    make(map[string]*entity.AccessCode),
	}
}

func (f *fakeStore) GetProfileByDocument(_ context.Context, document string) (*entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.profileErr != nil {
		return nil, f.profileErr
	}

	p, ok := f.profiles[document]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetAccessCode(_ context.Context, identity string) (*entity.AccessCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.codes[identity]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	cp := *c
	return &cp, nil
}

func (f *fakeStore) SaveIssued(_ context.Context, in entity.IssueAccessCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return f.saveErr
	}

	current, ok := f.codes[in.Identity]
	if !ok {
		var (
			count int32
			last  *time.Time
		)
		if in.Resend {
			count = 1
			last = &in.IssuedAt
		}
		f.codes[in.Identity] = &entity.AccessCode{
			Identity:        in.Identity,
			Email:           in.Email,
			Phone:           in.Phone,
			CodeHash:        in.CodeHash,
			IssuedAt:        in.IssuedAt,
			ExpiresAt:       in.ExpiresAt,
			WindowStartedAt: in.IssuedAt,
			ResendCount:     count,
			LastResendAt:    last,
		}
		return nil
	}

	count := int32(0)
	window := in.IssuedAt
	var last *time.Time

	if in.Resend {
		decision := current.EvaluateResend(in.IssuedAt, in.Policy)
		if !decision.Allowed {
			return &entity.ResendThrottledError{RetryAfterMinutes: decision.RetryAfterMinutes}
		}

		count = current.ResendCount + 1
		window = current.WindowStartedAt
		if decision.ResetWindow {
			count = 1
			window = in.IssuedAt
		}
		last = &in.IssuedAt
	}

	f.codes[in.Identity] = &entity.AccessCode{
		Identity:        in.Identity,
		Email:           in.Email,
		Phone:           in.Phone,
		CodeHash:        in.CodeHash,
		IssuedAt:        in.IssuedAt,
		ExpiresAt:       in.ExpiresAt,
		WindowStartedAt: window,
		ResendCount:     count,
		LastResendAt:    last,
	}

	return nil
}

func (f *fakeStore) MarkUsed(_ context.Context, identity, codeHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.codes[identity]
	if !ok || c.Used || c.CodeHash != codeHash {
		return false, nil
	}

	c.Used = true
	return true, nil
}

func (f *fakeStore) DeleteExpired(_ context.Context, before time.Time, includeUsed bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var deleted int64
	for identity, c := range f.codes {
		if c.ExpiresAt.Before(before) && (includeUsed || !c.Used) {
			delete(f.codes, identity)
			deleted++
		}
	}

	return deleted, nil
}

func (f *fakeStore) record(identity string) *entity.AccessCode {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.codes[identity]
	if !ok {
		return nil
	}

	cp := *c
	return &cp
}

type fakeMessaging struct {
	mu     sync.Mutex
	events []AccessCodeIssuedEvent
	err    error
}

func (f *fakeMessaging) PublishAccessCodeIssued(_ context.Context, msg AccessCodeIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.events = append(f.events, msg)
	return nil
}

func (f *fakeMessaging) published() []AccessCodeIssuedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]AccessCodeIssuedEvent(nil), f.events...)
}

type fixture struct {
	uc     *Usecase
	store  *fakeStore
	mq     *fakeMessaging
	clock  *fakeClock
	hasher hash.Hash
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	store := newFakeStore()
	mq := &fakeMessaging{}
	clk := &fakeClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	hasher := hash.NewArgon2id("test-pepper")

	uc := New(Dependency{
		RepoDB:        store,
		RepoMessaging: mq,
		Validator:     v10,
		Config:        cfg,
		Hasher:        hasher,
		Codes:         otp.NewNumeric(6),
		Clock:         clk,
		Instrument:    instrument.NewNoop(),
	})

	return &fixture{uc: uc, store: store, mq: mq, clock: clk, hasher: hasher}
}

func (f *fixture) seedProfile(document string, contractEnd *time.Time) {
	f.store.profiles[document] = &entity.Profile{
		DocumentNumber: document,
		FullName:       "Maria Campos",
		Email:          "maria.campos@example.com",
		Phone:          "+5731001122",
		Position:       "Analyst",
		OfficeCode:     "BOG-01",
		ContractEndAt:  contractEnd,
	}
}

func assertBusinessCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected a structured error, got %v", err)
	}
	if gerr.Code() != want {
		t.Fatalf("expected error code %s, got %s (message %q)", want, gerr.Code(), gerr.Msg())
	}
}
