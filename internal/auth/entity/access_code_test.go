package entity

import (
	"testing"
	"time"
)

var testPolicy = ResendPolicy{
	Delay:        2 * time.Minute,
	MaxPerWindow: 5,
	Window:       time.Hour,
}

func TestAccessCodeExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	code := &AccessCode{ExpiresAt: now.Add(30 * time.Minute)}

	if code.Expired(now) {
		t.Fatalf("code should not be expired before its deadline")
	}
	if code.Expired(now.Add(30 * time.Minute)) {
		t.Fatalf("code should still be valid exactly at its deadline")
	}
	if !code.Expired(now.Add(30*time.Minute + time.Second)) {
		t.Fatalf("code should be expired after its deadline")
	}
}

func TestEvaluateResendDelay(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-30 * time.Second)
	code := &AccessCode{
		ResendCount:     1,
		LastResendAt:    &last,
		WindowStartedAt: now.Add(-10 * time.Minute),
	}

	decision := code.EvaluateResend(now, testPolicy)
	if decision.Allowed {
		t.Fatalf("resend 30s after the last one must be denied")
	}
	// 90 seconds remain; the reported wait rounds up to whole minutes.
	if decision.RetryAfterMinutes != 2 {
		t.Fatalf("expected retry after 2 minutes, got %d", decision.RetryAfterMinutes)
	}
}

func TestEvaluateResendDelayElapsed(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-2 * time.Minute)
	code := &AccessCode{
		ResendCount:     1,
		LastResendAt:    &last,
		WindowStartedAt: now.Add(-10 * time.Minute),
	}

	decision := code.EvaluateResend(now, testPolicy)
	if !decision.Allowed {
		t.Fatalf("resend exactly at the delay boundary must be allowed")
	}
	if decision.ResetWindow {
		t.Fatalf("window must not reset while still inside it")
	}
}

func TestEvaluateResendCap(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-5 * time.Minute)
	code := &AccessCode{
		ResendCount:     5,
		LastResendAt:    &last,
		WindowStartedAt: now.Add(-20 * time.Minute),
	}

	decision := code.EvaluateResend(now, testPolicy)
	if decision.Allowed {
		t.Fatalf("resend at the cap inside the window must be denied")
	}
	// 40 minutes of the window remain.
	if decision.RetryAfterMinutes != 40 {
		t.Fatalf("expected retry after 40 minutes, got %d", decision.RetryAfterMinutes)
	}
}

func TestEvaluateResendWindowReset(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-50 * time.Minute)
	code := &AccessCode{
		ResendCount:     5,
		LastResendAt:    &last,
		WindowStartedAt: now.Add(-time.Hour),
	}

	decision := code.EvaluateResend(now, testPolicy)
	if !decision.Allowed {
		t.Fatalf("resend after the window elapsed must be allowed")
	}
	if !decision.ResetWindow {
		t.Fatalf("an elapsed window must signal a counter reset")
	}
}

func TestEvaluateResendFreshRecord(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	code := &AccessCode{WindowStartedAt: now.Add(-time.Minute)}

	decision := code.EvaluateResend(now, testPolicy)
	if !decision.Allowed {
		t.Fatalf("a record with no prior resend must allow a resend")
	}
}

func TestWholeMinutesUp(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want int
	}{
		{0, 0},
		{-time.Minute, 0},
		{time.Second, 1},
		{time.Minute, 1},
		{90 * time.Second, 2},
		{2 * time.Minute, 2},
	}

	for _, tc := range cases {
		if got := wholeMinutesUp(tc.in); got != tc.want {
			t.Fatalf("wholeMinutesUp(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
