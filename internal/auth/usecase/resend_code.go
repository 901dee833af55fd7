package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redinteligente/authcode/internal/pkg/goerror"
)

type ResendCodeInput struct {
	DocumentNumber string `validate:"required,number,min=3"`
}

// ResendCode re-issues a passcode subject to the throttle policy. An identity
// with no record yet gets a fresh code, counted as its first resend.
//
// The policy is evaluated here first so a throttled caller pays nothing, and
// re-evaluated by the store under the row lock so concurrent resends cannot
// jointly exceed the cap.
func (s *Usecase) ResendCode(ctx context.Context, in ResendCodeInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "ResendCode")
	defer span.End()

	in.DocumentNumber = normalizeDocument(in.DocumentNumber)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	record, err := s.repoDB.GetAccessCode(ctx, in.DocumentNumber)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get access code", "document", in.DocumentNumber, "error", err)
		return nil, goerror.NewServer(err)
	}

	if record != nil {
		if decision := record.EvaluateResend(s.clock.Now(), s.resendPolicy()); !decision.Allowed {
			slog.WarnContext(ctx, "resend throttled", "document", in.DocumentNumber, "retry_after_minutes", decision.RetryAfterMinutes)
			return nil, tooManyRequests(decision.RetryAfterMinutes)
		}
	}

	return s.issue(ctx, in.DocumentNumber, true)
}
