package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redinteligente/authcode/internal/auth/entity"
	"github.com/redinteligente/authcode/internal/pkg/goerror"
)

// IssueOutput is the result of generating (or re-sending) a passcode. Code is
// the plaintext, handed to the caller exactly once.
type IssueOutput struct {
	DocumentNumber   string
	FullName         string
	Email            string
	Code             string
	ExpiresInMinutes int
}

// issue runs the shared generation path for RequestCode and ResendCode. The
// profile lookup happens before any record lock is taken, and hashing happens
// outside the store transaction; only the upsert itself is serialized per
// identity.
func (s *Usecase) issue(ctx context.Context, document string, resend bool) (*IssueOutput, error) {
	profile, err := s.repoDB.GetProfileByDocument(ctx, document)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "document not found in personnel directory", "document", document)
		return nil, goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get profile by document", "document", document, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	if !profile.Active(now) {
		slog.WarnContext(ctx, "document belongs to an ended contract", "document", document)
		return nil, goerror.NewBusiness("user is not active because the contract has ended", goerror.CodeForbidden)
	}

	code, err := s.codes.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate passcode", "error", err)
		return nil, goerror.NewServer(err)
	}

	digest, err := s.hasher.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash passcode", "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.codeTTL()
	if err := s.repoDB.SaveIssued(ctx, entity.IssueAccessCode{
		Identity:  document,
		Email:     profile.Email,
		Phone:     profile.Phone,
		CodeHash:  string(digest),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		Resend:    resend,
		Policy:    s.resendPolicy(),
	}); err != nil {
		var throttled *entity.ResendThrottledError
		if errors.As(err, &throttled) {
			return nil, tooManyRequests(throttled.RetryAfterMinutes)
		}

		slog.ErrorContext(ctx, "failed to repo save issued passcode", "document", document, "error", err)
		return nil, goerror.NewServer(err)
	}

	ttlMinutes := int(ttl.Minutes())

	// Delivery is fire and forget: the code is already valid in storage, so a
	// broken bus only costs the user a resend, never a rollback.
	if err := s.repoMessaging.PublishAccessCodeIssued(ctx, AccessCodeIssuedEvent{
		DocumentNumber:   document,
		Email:            profile.Email,
		FullName:         profile.FullName,
		Code:             code,
		ExpiresInMinutes: ttlMinutes,
		IssuedAt:         now,
		Resend:           resend,
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish access code issued", "document", document, "error", err)
	}

	return &IssueOutput{
		DocumentNumber:   document,
		FullName:         profile.FullName,
		Email:            profile.Email,
		Code:             code,
		ExpiresInMinutes: ttlMinutes,
	}, nil
}

func tooManyRequests(retryAfterMinutes int) error {
	msg := "resend limit reached, try again later"
	if retryAfterMinutes > 0 {
		msg = fmt.Sprintf("you must wait %d minute(s) before requesting a new code", retryAfterMinutes)
	}

	return goerror.NewBusiness(msg, goerror.CodeTooManyRequest)
}
