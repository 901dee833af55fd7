package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/redinteligente/authcode/internal/pkg/goerror"
)

func TestVerifyCode(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)
	ctx := context.Background()

	issued, err := f.uc.RequestCode(ctx, RequestCodeInput{DocumentNumber: "80123456"})
	if err != nil {
		t.Fatalf("request code failed: %v", err)
	}

	out, err := f.uc.VerifyCode(ctx, VerifyCodeInput{DocumentNumber: "80123456", Code: issued.Code})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if out.FullName != "Maria Campos" || out.Position != "Analyst" || out.OfficeCode != "BOG-01" {
		t.Fatalf("unexpected snapshot: %+v", out)
	}

	if rec := f.store.record("80123456"); !rec.Used {
		t.Fatalf("a validated code must be consumed")
	}
}

func TestVerifyCodeSingleUse(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)
	ctx := context.Background()

	issued, err := f.uc.RequestCode(ctx, RequestCodeInput{DocumentNumber: "80123456"})
	if err != nil {
		t.Fatalf("request code failed: %v", err)
	}

	if _, err := f.uc.VerifyCode(ctx, VerifyCodeInput{DocumentNumber: "80123456", Code: issued.Code}); err != nil {
		t.Fatalf("first verify failed: %v", err)
	}

	_, err = f.uc.VerifyCode(ctx, VerifyCodeInput{DocumentNumber: "80123456", Code: issued.Code})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestVerifyCodeWrong(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)
	ctx := context.Background()

	issued, err := f.uc.RequestCode(ctx, RequestCodeInput{DocumentNumber: "80123456"})
	if err != nil {
		t.Fatalf("request code failed: %v", err)
	}

	wrong := "000000"
	if wrong == issued.Code {
		wrong = "000001"
	}

	_, err = f.uc.VerifyCode(ctx, VerifyCodeInput{DocumentNumber: "80123456", Code: wrong})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)

	// A failed attempt must not consume the code.
	if rec := f.store.record("80123456"); rec.Used {
		t.Fatalf("a wrong attempt must leave the code usable")
	}
	if _, err := f.uc.VerifyCode(ctx, VerifyCodeInput{DocumentNumber: "80123456", Code: issued.Code}); err != nil {
		t.Fatalf("the right code must still verify: %v", err)
	}
}

func TestVerifyCodeExpired(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)
	ctx := context.Background()

	issued, err := f.uc.RequestCode(ctx, RequestCodeInput{DocumentNumber: "80123456"})
	if err != nil {
		t.Fatalf("request code failed: %v", err)
	}

	f.clock.Advance(30*time.Minute + time.Second)

	_, err = f.uc.VerifyCode(ctx, VerifyCodeInput{DocumentNumber: "80123456", Code: issued.Code})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestVerifyCodeNoRecord(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{DocumentNumber: "80123456", Code: "123456"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestVerifyCodeRegenerationInvalidatesOld(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)
	ctx := context.Background()

	first, err := f.uc.RequestCode(ctx, RequestCodeInput{DocumentNumber: "80123456"})
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	second, err := f.uc.RequestCode(ctx, RequestCodeInput{DocumentNumber: "80123456"})
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	if first.Code == second.Code {
		t.Skip("generator produced the same code twice")
	}

	_, err = f.uc.VerifyCode(ctx, VerifyCodeInput{DocumentNumber: "80123456", Code: first.Code})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)

	if _, err := f.uc.VerifyCode(ctx, VerifyCodeInput{DocumentNumber: "80123456", Code: second.Code}); err != nil {
		t.Fatalf("the newest code must verify: %v", err)
	}
}

func TestVerifyCodeProfileLookupFailureTolerated(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)
	ctx := context.Background()

	issued, err := f.uc.RequestCode(ctx, RequestCodeInput{DocumentNumber: "80123456"})
	if err != nil {
		t.Fatalf("request code failed: %v", err)
	}

	f.store.profileErr = context.DeadlineExceeded

	out, err := f.uc.VerifyCode(ctx, VerifyCodeInput{DocumentNumber: "80123456", Code: issued.Code})
	if err != nil {
		t.Fatalf("verify must succeed with a thinner snapshot: %v", err)
	}
	if out.DocumentNumber != "80123456" || out.FullName != "" {
		t.Fatalf("expected a thin snapshot, got %+v", out)
	}
}
