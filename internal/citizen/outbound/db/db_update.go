package db

import (
	"context"
	"time"

	"github.com/lankagov/gnportal/internal/citizen/entity"
)

func (s *DB) MarkEmailVerified(ctx context.Context, id int64, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "MarkEmailVerified")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE citizens SET email_verified_at = $2, updated_at = $2
		WHERE id = $1 AND email_verified_at IS NULL`, id, at)
	return s.mapError(err)
}

// UpdateOTPStatus is a compare-and-set on status. The loser of two concurrent
// transitions sees false.
func (s *DB) UpdateOTPStatus(ctx context.Context, id int64, from, to entity.OTPStatus, at time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "UpdateOTPStatus")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE otp_records
		SET status = $3,
			verified_at = CASE WHEN $3 = 'Verified' THEN $4::timestamptz ELSE verified_at END
		WHERE id = $1 AND status = $2`,
		id, from, to, at)
	if err != nil {
		return false, s.mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *DB) ExpirePendingOTP(ctx context.Context, now time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "ExpirePendingOTP")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE otp_records SET status = 'Expired'
		WHERE status = 'Pending' AND expires_at <= $1`, now)
	if err != nil {
		return 0, s.mapError(err)
	}
	return tag.RowsAffected(), nil
}

func (s *DB) RevokeRefreshToken(ctx context.Context, tokenHash string, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = $2
		WHERE token_hash = $1 AND revoked_at IS NULL`, tokenHash, at)
	return s.mapError(err)
}

func (s *DB) RevokeAllRefreshTokens(ctx context.Context, citizenID int64, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeAllRefreshTokens")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = $2
		WHERE citizen_id = $1 AND revoked_at IS NULL`, citizenID, at)
	return s.mapError(err)
}
