package entity

import "time"

// AccessCode is the single one-time passcode record kept per identity.
//
// The identity (a digits-only document number) is the primary key; issuing a
// new code overwrites this record in place instead of appending a new row.
type AccessCode struct {
	Identity        string
	Email           string
	Phone           string
	CodeHash        string
	IssuedAt        time.Time
	ExpiresAt       time.Time
	WindowStartedAt time.Time
	Used            bool
	ResendCount     int32
	LastResendAt    *time.Time
}

// Expired reports whether the code's validity window has passed.
func (c *AccessCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ResendPolicy caps how often a code may be re-issued for one identity.
type ResendPolicy struct {
	// Delay is the minimum wait between two consecutive resends.
	Delay time.Duration
	// MaxPerWindow is the resend cap inside one rolling window.
	MaxPerWindow int32
	// Window is the rolling period over which MaxPerWindow applies.
	Window time.Duration
}

// ResendDecision is the outcome of evaluating the resend policy.
type ResendDecision struct {
	Allowed bool
	// RetryAfterMinutes is the whole-minute wait (rounded up) when denied.
	RetryAfterMinutes int
	// ResetWindow signals that the rolling window elapsed and the counter
	// starts over with the next issuance.
	ResetWindow bool
}

// EvaluateResend applies the throttle policy to the current record state.
//
// The inter-resend delay is checked first so the caller can report a precise
// wait; the window cap is checked second and resets once the window anchored
// at WindowStartedAt has fully elapsed.
func (c *AccessCode) EvaluateResend(now time.Time, p ResendPolicy) ResendDecision {
	if c.LastResendAt != nil {
		if since := now.Sub(*c.LastResendAt); since < p.Delay {
			return ResendDecision{RetryAfterMinutes: wholeMinutesUp(p.Delay - since)}
		}
	}

	if c.ResendCount >= p.MaxPerWindow {
		elapsed := now.Sub(c.WindowStartedAt)
		if elapsed < p.Window {
			return ResendDecision{RetryAfterMinutes: wholeMinutesUp(p.Window - elapsed)}
		}

		return ResendDecision{Allowed: true, ResetWindow: true}
	}

	return ResendDecision{Allowed: true}
}

// IssueAccessCode carries everything the store needs to overwrite (or create)
// the record for one identity atomically.
type IssueAccessCode struct {
	Identity  string
	Email     string
	Phone     string
	CodeHash  string
	IssuedAt  time.Time
	ExpiresAt time.Time
	// Resend marks this issuance as a resend: counters are incremented
	// instead of reset, and the store re-checks Policy under the row lock.
	Resend bool
	Policy ResendPolicy
}

func wholeMinutesUp(d time.Duration) int {
	if d <= 0 {
		return 0
	}

	minutes := int(d / time.Minute)
	if d%time.Minute != 0 {
		minutes++
	}

	return minutes
}
