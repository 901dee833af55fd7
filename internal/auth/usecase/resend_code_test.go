package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redinteligente/authcode/internal/pkg/goerror"
)

func TestResendCodeThrottledByDelay(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)
	ctx := context.Background()

	if _, err := f.uc.ResendCode(ctx, ResendCodeInput{DocumentNumber: "80123456"}); err != nil {
		t.Fatalf("first resend failed: %v", err)
	}

	f.clock.Advance(30 * time.Second)

	_, err := f.uc.ResendCode(ctx, ResendCodeInput{DocumentNumber: "80123456"})
	assertBusinessCode(t, err, goerror.CodeTooManyRequest)
}

func TestResendCodeAfterDelay(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)
	ctx := context.Background()

	if _, err := f.uc.ResendCode(ctx, ResendCodeInput{DocumentNumber: "80123456"}); err != nil {
		t.Fatalf("first resend failed: %v", err)
	}

	f.clock.Advance(2 * time.Minute)

	if _, err := f.uc.ResendCode(ctx, ResendCodeInput{DocumentNumber: "80123456"}); err != nil {
		t.Fatalf("resend after the delay failed: %v", err)
	}

	if rec := f.store.record("80123456"); rec.ResendCount != 2 {
		t.Fatalf("expected resend count 2, got %d", rec.ResendCount)
	}
}

func TestResendCodeWithoutRecordCountsAsFirst(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)

	out, err := f.uc.ResendCode(context.Background(), ResendCodeInput{DocumentNumber: "80123456"})
	if err != nil {
		t.Fatalf("resend with no prior record failed: %v", err)
	}
	if len(out.Code) != 6 {
		t.Fatalf("expected a fresh 6-digit code, got %q", out.Code)
	}

	rec := f.store.record("80123456")
	if rec.ResendCount != 1 {
		t.Fatalf("expected resend count 1, got %d", rec.ResendCount)
	}
	if rec.LastResendAt == nil {
		t.Fatalf("expected a last resend timestamp")
	}
}

func TestResendCodeHourlyCap(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)
	ctx := context.Background()

	// Five resends spaced past the delay exhaust the hourly budget.
	for i := range 5 {
		if _, err := f.uc.ResendCode(ctx, ResendCodeInput{DocumentNumber: "80123456"}); err != nil {
			t.Fatalf("resend %d failed: %v", i+1, err)
		}
		f.clock.Advance(2 * time.Minute)
	}

	_, err := f.uc.ResendCode(ctx, ResendCodeInput{DocumentNumber: "80123456"})
	assertBusinessCode(t, err, goerror.CodeTooManyRequest)
}

func TestResendCodeWindowResets(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)
	ctx := context.Background()

	for i := range 5 {
		if _, err := f.uc.ResendCode(ctx, ResendCodeInput{DocumentNumber: "80123456"}); err != nil {
			t.Fatalf("resend %d failed: %v", i+1, err)
		}
		f.clock.Advance(2 * time.Minute)
	}

	// Wait out the rest of the window anchored at the first issuance.
	f.clock.Advance(time.Hour)

	if _, err := f.uc.ResendCode(ctx, ResendCodeInput{DocumentNumber: "80123456"}); err != nil {
		t.Fatalf("resend after the window elapsed failed: %v", err)
	}

	rec := f.store.record("80123456")
	if rec.ResendCount != 1 {
		t.Fatalf("expected the counter to restart at 1, got %d", rec.ResendCount)
	}
}

func TestResendCodeFreshRequestResetsCounters(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)
	ctx := context.Background()

	if _, err := f.uc.ResendCode(ctx, ResendCodeInput{DocumentNumber: "80123456"}); err != nil {
		t.Fatalf("resend failed: %v", err)
	}

	f.clock.Advance(2 * time.Minute)

	if _, err := f.uc.RequestCode(ctx, RequestCodeInput{DocumentNumber: "80123456"}); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	rec := f.store.record("80123456")
	if rec.ResendCount != 0 || rec.LastResendAt != nil {
		t.Fatalf("a fresh request must reset resend bookkeeping, got %+v", rec)
	}
}

func TestResendCodeConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)
	f.seedProfile("80123456", nil)
	ctx := context.Background()

	if _, err := f.uc.ResendCode(ctx, ResendCodeInput{DocumentNumber: "80123456"}); err != nil {
		t.Fatalf("initial resend failed: %v", err)
	}

	f.clock.Advance(2 * time.Minute)

	// Many concurrent resends race right after the delay elapses; the store
	// lock must let exactly one through and throttle the rest.
	const racers = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.uc.ResendCode(ctx, ResendCodeInput{DocumentNumber: "80123456"}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("expected exactly one concurrent resend to win, got %d", succeeded)
	}
	if rec := f.store.record("80123456"); rec.ResendCount != 2 {
		t.Fatalf("expected resend count 2 after the race, got %d", rec.ResendCount)
	}
}
