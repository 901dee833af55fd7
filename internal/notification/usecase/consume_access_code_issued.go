package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redinteligente/authcode/internal/pkg/idempotency"
	"github.com/redinteligente/authcode/internal/pkg/mail"
)

type ConsumeAccessCodeIssuedInput struct {
	DocumentNumber   string `validate:"required,number"`
	Email            string `validate:"required,email"`
	FullName         string `validate:"required"`
	Code             string `validate:"required,number,len=6"`
	ExpiresInMinutes int    `validate:"required,gt=0"`
	IssuedAtUnix     int64  `validate:"required,gt=0"`
	Resend           bool
}

const accessCodeEmailHTML = `<p>Hello {{.full_name}},</p>
<p>Your access code is <strong>{{.code}}</strong>.</p>
<p>It expires in {{.expires_in_minutes}} minutes. If you did not request it, ignore this message.</p>`

// ConsumeAccessCodeIssued delivers the issued passcode to the user by email.
// The bus delivers at least once, so delivery is deduplicated per identity and
// issue instant.
func (s *Usecase) ConsumeAccessCodeIssued(ctx context.Context, in ConsumeAccessCodeIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeAccessCodeIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "document_number", in.DocumentNumber, "error", err)
		return nil
	}

	key := fmt.Sprintf("notify:access-code:%s:%d", in.DocumentNumber, in.IssuedAtUnix)

	err := s.idemp.Exec(ctx, key, func(ctx context.Context) error {
		return s.sendAccessCodeEmail(ctx, in)
	}, idempotency.WithStateTTL(time.Duration(in.ExpiresInMinutes)*time.Minute))
	if errors.Is(err, idempotency.ErrAlreadyCompleted) || errors.Is(err, idempotency.ErrAlreadyInProgress) {
		slog.WarnContext(ctx, "skipping duplicate access code delivery", "document_number", in.DocumentNumber, "state", err)
		return nil
	}

	return err
}

func (s *Usecase) sendAccessCodeEmail(ctx context.Context, in ConsumeAccessCodeIssuedInput) error {
	data := map[string]any{
		"full_name":          in.FullName,
		"code":               in.Code,
		"expires_in_minutes": in.ExpiresInMinutes,
	}

	htmlBody, err := s.renderTemplate("access_code_email", accessCodeEmailHTML, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render access code email body", "document_number", in.DocumentNumber, "error", err)
		return err
	}

	subject := s.cfg.GetString("modules.notification.access_code_subject")
	if subject == "" {
		subject = "Your access code"
	}

	msg := mail.Message{
		To:      []string{in.Email},
		Subject: subject,
		TextBody: fmt.Sprintf(
			"Hello %s, your access code is %s. It expires in %d minutes.",
			in.FullName, in.Code, in.ExpiresInMinutes,
		),
		HTMLBody: htmlBody,
	}

	if err := s.repoMail.Send(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to send access code email", "document_number", in.DocumentNumber, "error", err)
		return err
	}

	return nil
}
