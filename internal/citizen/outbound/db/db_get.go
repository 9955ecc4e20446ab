package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lankagov/gnportal/internal/citizen/entity"
)

const citizenColumns = `id, nic, full_name, email, phone, password_hash, division_id, status,
	email_verified_at, created_at, updated_at`

func scanCitizen(row pgx.Row) (*entity.Citizen, error) {
	var c entity.Citizen
	if err := row.Scan(
		&c.ID, &c.NIC, &c.FullName, &c.Email, &c.Phone, &c.PasswordHash, &c.DivisionID, &c.Status,
		&c.EmailVerifiedAt, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *DB) GetCitizenByID(ctx context.Context, id int64) (_ *entity.Citizen, err error) {
	ctx, span := s.startSpan(ctx, "GetCitizenByID")
	defer func() { s.endSpan(span, err) }()

	c, err := scanCitizen(s.conn.QueryRow(ctx, `SELECT `+citizenColumns+` FROM citizens WHERE id = $1`, id))
	if err != nil {
		return nil, s.mapError(err)
	}
	return c, nil
}

func (s *DB) GetCitizenByNIC(ctx context.Context, nic string) (_ *entity.Citizen, err error) {
	ctx, span := s.startSpan(ctx, "GetCitizenByNIC")
	defer func() { s.endSpan(span, err) }()

	c, err := scanCitizen(s.conn.QueryRow(ctx, `SELECT `+citizenColumns+` FROM citizens WHERE nic = $1`, nic))
	if err != nil {
		return nil, s.mapError(err)
	}
	return c, nil
}

func (s *DB) GetCitizenProfile(ctx context.Context, id int64) (_ *entity.Profile, err error) {
	ctx, span := s.startSpan(ctx, "GetCitizenProfile")
	defer func() { s.endSpan(span, err) }()

	var (
		c           entity.Citizen
		divID       *int64
		divCode     *string
		divName     *string
		officerID   *int64
		officerName *string
	)
	err = s.conn.QueryRow(ctx, `
		SELECT c.id, c.nic, c.full_name, c.email, c.phone, c.division_id, c.status,
			c.email_verified_at, c.created_at, c.updated_at,
			d.id, d.code, d.name, d.officer_id, st.full_name
		FROM citizens c
		LEFT JOIN divisions d ON d.id = c.division_id
		LEFT JOIN staff st ON st.id = d.officer_id
		WHERE c.id = $1`, id).Scan(
		&c.ID, &c.NIC, &c.FullName, &c.Email, &c.Phone, &c.DivisionID, &c.Status,
		&c.EmailVerifiedAt, &c.CreatedAt, &c.UpdatedAt,
		&divID, &divCode, &divName, &officerID, &officerName,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	p := &entity.Profile{Citizen: c}
	if divID != nil {
		p.Division = &entity.Division{ID: *divID, Code: deref(divCode), Name: deref(divName), OfficerID: officerID}
	}
	p.OfficerName = deref(officerName)
	return p, nil
}

func (s *DB) GetDivisionByCode(ctx context.Context, code string) (_ *entity.Division, err error) {
	ctx, span := s.startSpan(ctx, "GetDivisionByCode")
	defer func() { s.endSpan(span, err) }()

	var d entity.Division
	err = s.conn.QueryRow(ctx, `SELECT id, code, name, officer_id FROM divisions WHERE code = $1`, code).
		Scan(&d.ID, &d.Code, &d.Name, &d.OfficerID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &d, nil
}

func (s *DB) CountOTPSince(ctx context.Context, citizenID int64, purpose entity.OTPPurpose, since time.Time) (_ int, err error) {
	ctx, span := s.startSpan(ctx, "CountOTPSince")
	defer func() { s.endSpan(span, err) }()

	var n int
	err = s.conn.QueryRow(ctx, `
		SELECT count(*) FROM otp_records
		WHERE citizen_id = $1 AND purpose = $2 AND created_at > $3`,
		citizenID, purpose, since).Scan(&n)
	if err != nil {
		return 0, s.mapError(err)
	}
	return n, nil
}

func (s *DB) GetPendingOTP(ctx context.Context, citizenID int64, purpose entity.OTPPurpose, codeHash string) (_ *entity.OTPRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetPendingOTP")
	defer func() { s.endSpan(span, err) }()

	var r entity.OTPRecord
	err = s.conn.QueryRow(ctx, `
		SELECT id, citizen_id, code_hash, purpose, status, metadata, created_at, expires_at, verified_at
		FROM otp_records
		WHERE citizen_id = $1 AND purpose = $2 AND code_hash = $3 AND status = 'Pending'`,
		citizenID, purpose, codeHash).Scan(
		&r.ID, &r.CitizenID, &r.CodeHash, &r.Purpose, &r.Status, &r.Metadata, &r.CreatedAt, &r.ExpiresAt, &r.VerifiedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &r, nil
}

func (s *DB) GetRefreshToken(ctx context.Context, tokenHash string) (_ *entity.RefreshToken, err error) {
	ctx, span := s.startSpan(ctx, "GetRefreshToken")
	defer func() { s.endSpan(span, err) }()

	var t entity.RefreshToken
	err = s.conn.QueryRow(ctx, `
		SELECT id, citizen_id, token_hash, expires_at, revoked_at, replaced_by
		FROM refresh_tokens WHERE token_hash = $1`, tokenHash).
		Scan(&t.ID, &t.CitizenID, &t.TokenHash, &t.ExpiresAt, &t.RevokedAt, &t.ReplacedBy)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &t, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
