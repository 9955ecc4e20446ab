package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
	"github.com/lankagov/gnportal/internal/staff/entity"
)

// CreateStaff inserts st. An officer with a division also takes over that
// division.
func (s *DB) CreateStaff(ctx context.Context, st entity.Staff) (err error) {
	ctx, span := s.startSpan(ctx, "CreateStaff")
	defer func() { s.endSpan(span, err) }()

	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO staff (id, email, full_name, role, division_id, password_hash, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			st.ID, st.Email, st.FullName, st.Role, st.DivisionID, st.PasswordHash, st.Status,
			st.CreatedAt, st.UpdatedAt); err != nil {
			return err
		}

		if st.Role != jwt.RoleOfficer || st.DivisionID == nil {
			return nil
		}
		_, err := tx.Exec(ctx, `UPDATE divisions SET officer_id = $1 WHERE id = $2`, st.ID, *st.DivisionID)
		return err
	})
}

func (s *DB) SaveTOTPSecret(ctx context.Context, id int64, sealed []byte, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "SaveTOTPSecret")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE staff SET totp_secret = $2, updated_at = $3
		WHERE id = $1 AND totp_enabled = FALSE`, id, sealed, at)
	return s.mapError(err)
}

func (s *DB) EnableTOTP(ctx context.Context, id int64, at time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "EnableTOTP")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE staff SET totp_enabled = TRUE, updated_at = $2
		WHERE id = $1 AND totp_enabled = FALSE AND totp_secret IS NOT NULL`, id, at)
	if err != nil {
		return false, s.mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}
