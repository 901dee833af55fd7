package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/redinteligente/authcode/internal/pkg/goerror"
)

func TestRequestCode(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)

	out, err := f.uc.RequestCode(context.Background(), RequestCodeInput{DocumentNumber: "80123456"})
	if err != nil {
		t.Fatalf("request code failed: %v", err)
	}

	if len(out.Code) != 6 {
		t.Fatalf("expected a 6-digit code, got %q", out.Code)
	}
	if out.FullName != "Maria Campos" || out.Email != "maria.campos@example.com" {
		t.Fatalf("unexpected profile snapshot: %+v", out)
	}
	if out.ExpiresInMinutes != 30 {
		t.Fatalf("expected 30 minute validity, got %d", out.ExpiresInMinutes)
	}

	rec := f.store.record("80123456")
	if rec == nil {
		t.Fatalf("expected a stored record")
	}
	if rec.Used {
		t.Fatalf("fresh record must not be marked used")
	}
	if rec.ResendCount != 0 {
		t.Fatalf("fresh request must reset the resend counter, got %d", rec.ResendCount)
	}
	if rec.CodeHash == out.Code {
		t.Fatalf("plaintext code must never be stored")
	}
	if !f.hasher.Verify(rec.CodeHash, out.Code) {
		t.Fatalf("stored digest must verify against the issued code")
	}

	events := f.mq.published()
	if len(events) != 1 {
		t.Fatalf("expected one published event, got %d", len(events))
	}
	if events[0].Code != out.Code || events[0].Resend {
		t.Fatalf("unexpected event payload: %+v", events[0])
	}
}

func TestRequestCodeNormalizesDocument(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)

	out, err := f.uc.RequestCode(context.Background(), RequestCodeInput{DocumentNumber: " 80.123.456 "})
	if err != nil {
		t.Fatalf("request code failed: %v", err)
	}
	if out.DocumentNumber != "80123456" {
		t.Fatalf("expected normalized document, got %q", out.DocumentNumber)
	}
}

func TestRequestCodeOverwritesPrevious(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)
	ctx := context.Background()

	first, err := f.uc.RequestCode(ctx, RequestCodeInput{DocumentNumber: "80123456"})
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	f.clock.Advance(time.Minute)

	second, err := f.uc.RequestCode(ctx, RequestCodeInput{DocumentNumber: "80123456"})
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}

	rec := f.store.record("80123456")
	if f.hasher.Verify(rec.CodeHash, first.Code) && first.Code != second.Code {
		t.Fatalf("old code must not survive a regeneration")
	}
	if !f.hasher.Verify(rec.CodeHash, second.Code) {
		t.Fatalf("stored digest must match the latest code")
	}
}

func TestRequestCodeUnknownDocument(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.RequestCode(context.Background(), RequestCodeInput{DocumentNumber: "99999999"})
	assertBusinessCode(t, err, goerror.CodeNotFound)
}

func TestRequestCodeEndedContract(t *testing.T) {
	f := newFixture(t)
	ended := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	f.seedProfile("80123456", &ended)

	_, err := f.uc.RequestCode(context.Background(), RequestCodeInput{DocumentNumber: "80123456"})
	assertBusinessCode(t, err, goerror.CodeForbidden)
}

func TestRequestCodeInvalidDocument(t *testing.T) {
	f := newFixture(t)

	// Letters only, nothing left after normalization.
	_, err := f.uc.RequestCode(context.Background(), RequestCodeInput{DocumentNumber: "abcdef"})
	if err == nil {
		t.Fatalf("expected a validation error")
	}
}

func TestRequestCodePublishFailureIsTolerated(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)
	f.mq.err = context.DeadlineExceeded

	out, err := f.uc.RequestCode(context.Background(), RequestCodeInput{DocumentNumber: "80123456"})
	if err != nil {
		t.Fatalf("a bus failure must not fail the issuance: %v", err)
	}
	if f.store.record("80123456") == nil || out.Code == "" {
		t.Fatalf("the code must still be persisted and returned")
	}
}
