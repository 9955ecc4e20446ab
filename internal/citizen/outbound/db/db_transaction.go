package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

func (s *DB) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if err := fn(tx); err != nil {
		return s.mapError(err)
	}

	return s.mapError(tx.Commit(ctx))
}

// CreateOTP supersedes the pending code of the same citizen and purpose and
// inserts rec as the new pending one.
func (s *DB) CreateOTP(ctx context.Context, rec entity.OTPRecord) (err error) {
	ctx, span := s.startSpan(ctx, "CreateOTP")
	defer func() { s.endSpan(span, err) }()

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE otp_records SET status = 'Expired'
			WHERE citizen_id = $1 AND purpose = $2 AND status = 'Pending'`,
			rec.CitizenID, rec.Purpose); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO otp_records (id, citizen_id, code_hash, purpose, status, metadata, created_at, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			rec.ID, rec.CitizenID, rec.CodeHash, rec.Purpose, rec.Status, rec.Metadata, rec.CreatedAt, rec.ExpiresAt)
		return err
	})
	return err
}

// RotateRefreshToken stores next and revokes oldID in one transaction. It
// returns goerror.ErrConflict and stores nothing when oldID was already
// revoked by a concurrent rotation.
func (s *DB) RotateRefreshToken(ctx context.Context, oldID int64, next entity.RefreshToken, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "RotateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO refresh_tokens (id, citizen_id, token_hash, expires_at)
			VALUES ($1, $2, $3, $4)`,
			next.ID, next.CitizenID, next.TokenHash, next.ExpiresAt); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
			UPDATE refresh_tokens SET revoked_at = $2, replaced_by = $3
			WHERE id = $1 AND revoked_at IS NULL`, oldID, at, next.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return goerror.ErrConflict
		}
		return nil
	})
	return err
}

// ResetPassword replaces the hash and revokes every live refresh token.
func (s *DB) ResetPassword(ctx context.Context, id int64, hash string, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "ResetPassword")
	defer func() { s.endSpan(span, err) }()

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE citizens SET password_hash = $2, updated_at = $3 WHERE id = $1`,
			id, hash, at); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			UPDATE refresh_tokens SET revoked_at = $2
			WHERE citizen_id = $1 AND revoked_at IS NULL`, id, at)
		return err
	})
	return err
}
