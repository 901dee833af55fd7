package db

import (
	"context"

	"github.com/redinteligente/authcode/internal/auth/entity"
)

const profileColumns = `document_number, full_name, email, phone, position, office_code, contract_end_at`

// GetProfileByDocument resolves an identity against the personnel directory.
func (s *DB) GetProfileByDocument(ctx context.Context, document string) (_ *entity.Profile, err error) {
	ctx, span := s.startSpan(ctx, "GetProfileByDocument")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM personnel WHERE document_number = $1`,
		document,
	)

	var p entity.Profile
	if err := row.Scan(
		&p.DocumentNumber,
		&p.FullName,
		&p.Email,
		&p.Phone,
		&p.Position,
		&p.OfficeCode,
		&p.ContractEndAt,
	); err != nil {
		return nil, s.mapError(err)
	}

	return &p, nil
}
