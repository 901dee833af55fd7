package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redinteligente/authcode/internal/pkg/clock"
	"github.com/redinteligente/authcode/internal/pkg/config"
	"github.com/redinteligente/authcode/internal/pkg/idempotency"
	"github.com/redinteligente/authcode/internal/pkg/instrument"
	"github.com/redinteligente/authcode/internal/pkg/mail"
	"github.com/redinteligente/authcode/internal/pkg/validator"
)

type fakeMail struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, msg)
	return nil
}

// fakeIdempotency tracks completed keys in memory.
type fakeIdempotency struct {
	mu   sync.Mutex
	done map[string]bool
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{done: make(map[string]bool)}
}

func (f *fakeIdempotency) Acquire(_ context.Context, key string, _ time.Duration) (idempotency.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done[key] {
		return idempotency.StateCompleted, nil
	}
	return idempotency.StateNone, nil
}

func (f *fakeIdempotency) MarkCompleted(_ context.Context, key string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.done[key] = true
	return nil
}

func (f *fakeIdempotency) MarkFailed(_ context.Context, key string, _ time.Duration) error {
	return nil
}

func (f *fakeIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	state, err := f.Acquire(ctx, key, 0)
	if err != nil {
		return err
	}
	if state == idempotency.StateCompleted {
		return idempotency.ErrAlreadyCompleted
	}

	if err := fn(ctx); err != nil {
		return err
	}

	return f.MarkCompleted(ctx, key, 0)
}

func newTestNotification(t *testing.T) (*Usecase, *fakeMail) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  notification:\n    access_code_subject: \"Your access code\"\n"))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	mailer := &fakeMail{}
	uc := NewNotification(Dependency{
		Config:      cfg,
		Clock:       clock.New(),
		Validator:   v10,
		Idempotency: newFakeIdempotency(),
		RepoMail:    mailer,
		Instrument:  instrument.NewNoop(),
	})

	return uc, mailer
}

func validInput() ConsumeAccessCodeIssuedInput {
	return ConsumeAccessCodeIssuedInput{
		DocumentNumber:   "80123456",
		Email:            "maria.campos@example.com",
		FullName:         "Maria Campos",
		Code:             "042913",
		ExpiresInMinutes: 30,
		IssuedAtUnix:     1770000000,
	}
}

func TestConsumeAccessCodeIssued(t *testing.T) {
	uc, mailer := newTestNotification(t)

	if err := uc.ConsumeAccessCodeIssued(context.Background(), validInput()); err != nil {
		t.Fatalf("consume failed: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mailer.sent))
	}

	msg := mailer.sent[0]
	if msg.To[0] != "maria.campos@example.com" {
		t.Fatalf("unexpected recipient: %v", msg.To)
	}
	if msg.Subject != "Your access code" {
		t.Fatalf("unexpected subject: %q", msg.Subject)
	}
	if !strings.Contains(msg.HTMLBody, "042913") || !strings.Contains(msg.TextBody, "042913") {
		t.Fatalf("both bodies must carry the code")
	}
	if !strings.Contains(msg.HTMLBody, "30 minutes") {
		t.Fatalf("the HTML body must state the validity window")
	}
}

func TestConsumeAccessCodeIssuedDeduplicates(t *testing.T) {
	uc, mailer := newTestNotification(t)
	in := validInput()

	if err := uc.ConsumeAccessCodeIssued(context.Background(), in); err != nil {
		t.Fatalf("first consume failed: %v", err)
	}
	// Redelivery of the same issuance must not send a second email.
	if err := uc.ConsumeAccessCodeIssued(context.Background(), in); err != nil {
		t.Fatalf("redelivery must be swallowed: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected exactly one email after redelivery, got %d", len(mailer.sent))
	}
}

func TestConsumeAccessCodeIssuedInvalidPayloadSkipped(t *testing.T) {
	uc, mailer := newTestNotification(t)
	in := validInput()
	in.Email = "not-an-email"

	// A malformed payload is logged and dropped, never retried.
	if err := uc.ConsumeAccessCodeIssued(context.Background(), in); err != nil {
		t.Fatalf("invalid payload must not surface an error: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("no email must go out for an invalid payload")
	}
}

func TestConsumeAccessCodeIssuedSendFailure(t *testing.T) {
	uc, mailer := newTestNotification(t)
	mailer.err = context.DeadlineExceeded

	// A delivery failure surfaces so the bus redelivers.
	if err := uc.ConsumeAccessCodeIssued(context.Background(), validInput()); err == nil {
		t.Fatalf("expected the send failure to propagate")
	}
}
