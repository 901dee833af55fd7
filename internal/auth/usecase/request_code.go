package usecase

import (
	"context"

	"github.com/redinteligente/authcode/internal/pkg/goerror"
)

type RequestCodeInput struct {
	DocumentNumber string `validate:"required,number,min=3"`
}

// RequestCode issues a fresh 6-digit passcode for the identity, overwriting
// whatever record existed before and resetting the resend counters.
func (s *Usecase) RequestCode(ctx context.Context, in RequestCodeInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestCode")
	defer span.End()

	in.DocumentNumber = normalizeDocument(in.DocumentNumber)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	return s.issue(ctx, in.DocumentNumber, false)
}
