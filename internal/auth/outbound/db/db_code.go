package db

import (
	"context"
	"time"

	"github.com/redinteligente/authcode/internal/auth/entity"
)

const codeColumns = `identity, email, phone, code_hash, issued_at, expires_at, window_started_at, used, resend_count, last_resend_at`

// GetAccessCode returns the current record for one identity.
func (s *DB) GetAccessCode(ctx context.Context, identity string) (_ *entity.AccessCode, err error) {
	ctx, span := s.startSpan(ctx, "GetAccessCode")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx,
		`SELECT `+codeColumns+` FROM access_codes WHERE identity = $1`,
		identity,
	)

	var c entity.AccessCode
	if err := row.Scan(
		&c.Identity,
		&c.Email,
		&c.Phone,
		&c.CodeHash,
		&c.IssuedAt,
		&c.ExpiresAt,
		&c.WindowStartedAt,
		&c.Used,
		&c.ResendCount,
		&c.LastResendAt,
	); err != nil {
		return nil, s.mapError(err)
	}

	return &c, nil
}

// MarkUsed consumes a code. The code_hash guard pins the exact code that was
// verified, so a concurrent regeneration or a second validate of the same
// code can never be marked used twice.
func (s *DB) MarkUsed(ctx context.Context, identity, codeHash string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkUsed")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE access_codes SET used = TRUE WHERE identity = $1 AND code_hash = $2 AND used = FALSE`,
		identity, codeHash,
	)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

// DeleteExpired purges records whose expiry passed before the given instant.
// Used records are only reaped when includeUsed is set.
func (s *DB) DeleteExpired(ctx context.Context, before time.Time, includeUsed bool) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteExpired")
	defer func() { s.endSpan(span, err) }()

	query := `DELETE FROM access_codes WHERE expires_at < $1 AND used = FALSE`
	if includeUsed {
		query = `DELETE FROM access_codes WHERE expires_at < $1`
	}

	tag, err := s.conn.Exec(ctx, query, before)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}
