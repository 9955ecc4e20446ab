package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lankagov/gnportal/internal/staff/entity"
)

const staffColumns = `id, email, full_name, role, division_id, password_hash, status,
	totp_secret, totp_enabled, created_at, updated_at`

func scanStaff(row pgx.Row) (*entity.Staff, error) {
	var st entity.Staff
	if err := row.Scan(
		&st.ID, &st.Email, &st.FullName, &st.Role, &st.DivisionID, &st.PasswordHash, &st.Status,
		&st.TOTPSecret, &st.TOTPEnabled, &st.CreatedAt, &st.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *DB) GetStaffByEmail(ctx context.Context, email string) (_ *entity.Staff, err error) {
	ctx, span := s.startSpan(ctx, "GetStaffByEmail")
	defer func() { s.endSpan(span, err) }()

	st, err := scanStaff(s.conn.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE email = $1`, email))
	if err != nil {
		return nil, s.mapError(err)
	}
	return st, nil
}

func (s *DB) GetStaffByID(ctx context.Context, id int64) (_ *entity.Staff, err error) {
	ctx, span := s.startSpan(ctx, "GetStaffByID")
	defer func() { s.endSpan(span, err) }()

	st, err := scanStaff(s.conn.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
	if err != nil {
		return nil, s.mapError(err)
	}
	return st, nil
}

func (s *DB) GetDivisionIDByCode(ctx context.Context, code string) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetDivisionIDByCode")
	defer func() { s.endSpan(span, err) }()

	var id int64
	if err = s.conn.QueryRow(ctx, `SELECT id FROM divisions WHERE code = $1`, code).Scan(&id); err != nil {
		return 0, s.mapError(err)
	}
	return id, nil
}
