package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redinteligente/authcode/internal/pkg/goerror"
)

type VerifyCodeInput struct {
	DocumentNumber string `validate:"required,number,min=3"`
	Code           string `validate:"required,number,len=6"`
}

// VerifyCodeOutput is the profile snapshot returned on a successful
// validation. No session or token is minted here.
type VerifyCodeOutput struct {
	DocumentNumber string
	FullName       string
	Email          string
	Position       string
	OfficeCode     string
}

// VerifyCode validates a submitted passcode and consumes it. The check order
// is deliberate: a used or expired code reports its specific reason, while a
// wrong code reports only that it is incorrect with no partial-match detail.
func (s *Usecase) VerifyCode(ctx context.Context, in VerifyCodeInput) (*VerifyCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	in.DocumentNumber = normalizeDocument(in.DocumentNumber)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	record, err := s.repoDB.GetAccessCode(ctx, in.DocumentNumber)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "no access code for document", "document", in.DocumentNumber)
		return nil, goerror.NewBusiness("no verification code was found for this user", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get access code", "document", in.DocumentNumber, "error", err)
		return nil, goerror.NewServer(err)
	}

	if record.Used {
		slog.WarnContext(ctx, "access code already used", "document", in.DocumentNumber)
		return nil, goerror.NewBusiness("the code was already used, request a new one", goerror.CodeUnauthorized)
	}

	if record.Expired(s.clock.Now()) {
		slog.WarnContext(ctx, "access code expired", "document", in.DocumentNumber)
		return nil, goerror.NewBusiness("the code has expired, request a new one", goerror.CodeUnauthorized)
	}

	if !s.hasher.Verify(record.CodeHash, in.Code) {
		slog.WarnContext(ctx, "access code incorrect", "document", in.DocumentNumber)
		return nil, goerror.NewBusiness("the code entered is incorrect", goerror.CodeUnauthorized)
	}

	// The code_hash guard makes this a no-op when a concurrent validate beat
	// us to it or a regeneration replaced the code in between.
	used, err := s.repoDB.MarkUsed(ctx, in.DocumentNumber, record.CodeHash)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark access code used", "document", in.DocumentNumber, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !used {
		slog.WarnContext(ctx, "access code consumed concurrently", "document", in.DocumentNumber)
		return nil, goerror.NewBusiness("the code was already used, request a new one", goerror.CodeUnauthorized)
	}

	out := &VerifyCodeOutput{DocumentNumber: in.DocumentNumber}

	profile, err := s.repoDB.GetProfileByDocument(ctx, in.DocumentNumber)
	if err != nil {
		// The code is already consumed; a directory hiccup here should not
		// fail the login, the caller just gets a thinner snapshot.
		slog.WarnContext(ctx, "failed to repo get profile after validation", "document", in.DocumentNumber, "error", err)
		return out, nil
	}

	out.FullName = profile.FullName
	out.Email = profile.Email
	out.Position = profile.Position
	out.OfficeCode = profile.OfficeCode

	return out, nil
}
