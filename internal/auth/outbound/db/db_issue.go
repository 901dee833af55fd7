package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redinteligente/authcode/internal/auth/entity"
)

// SaveIssued overwrites (or creates) the identity's record with a freshly
// issued code. The existing row is locked for the duration of the
// transaction; for resends the throttle policy is re-evaluated under that
// lock, which is what makes concurrent resends for one identity serialize
// instead of losing counter updates.
func (s *DB) SaveIssued(ctx context.Context, in entity.IssueAccessCode) (err error) {
	ctx, span := s.startSpan(ctx, "SaveIssued")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	row := tx.QueryRow(ctx,
		`SELECT window_started_at, resend_count, last_resend_at
		 FROM access_codes WHERE identity = $1 FOR UPDATE`,
		in.Identity,
	)

	current := entity.AccessCode{Identity: in.Identity}
	switch err := row.Scan(&current.WindowStartedAt, &current.ResendCount, &current.LastResendAt); {
	case errors.Is(err, pgx.ErrNoRows):
		if err := s.insertIssued(ctx, tx, in); err != nil {
			return s.mapError(err)
		}

	case err != nil:
		return s.mapError(err)

	default:
		if err := s.updateIssued(ctx, tx, in, current); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) insertIssued(ctx context.Context, tx pgx.Tx, in entity.IssueAccessCode) error {
	var (
		count int32
		last  *time.Time
	)
	if in.Resend {
		count = 1
		last = &in.IssuedAt
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO access_codes (`+codeColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9)`,
		in.Identity, in.Email, in.Phone, in.CodeHash,
		in.IssuedAt, in.ExpiresAt, in.IssuedAt, count, last,
	)

	return err
}

func (s *DB) updateIssued(ctx context.Context, tx pgx.Tx, in entity.IssueAccessCode, current entity.AccessCode) error {
	count := int32(0)
	window := in.IssuedAt
	var last *time.Time

	if in.Resend {
		decision := current.EvaluateResend(in.IssuedAt, in.Policy)
		if !decision.Allowed {
			return &entity.ResendThrottledError{RetryAfterMinutes: decision.RetryAfterMinutes}
		}

		count = current.ResendCount + 1
		window = current.WindowStartedAt
		if decision.ResetWindow {
			count = 1
			window = in.IssuedAt
		}
		last = &in.IssuedAt
	}

	_, err := tx.Exec(ctx,
		`UPDATE access_codes
		 SET email = $2, phone = $3, code_hash = $4, issued_at = $5, expires_at = $6,
		     window_started_at = $7, used = FALSE, resend_count = $8, last_resend_at = $9
		 WHERE identity = $1`,
		in.Identity, in.Email, in.Phone, in.CodeHash,
		in.IssuedAt, in.ExpiresAt, window, count, last,
	)
	if err != nil {
		return s.mapError(err)
	}

	return nil
}
