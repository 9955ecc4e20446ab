package db

import (
	"context"

	"github.com/lankagov/gnportal/internal/citizen/entity"
)

func (s *DB) CreateCitizen(ctx context.Context, c entity.Citizen) (err error) {
	ctx, span := s.startSpan(ctx, "CreateCitizen")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO citizens (id, nic, full_name, email, phone, password_hash, division_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.NIC, c.FullName, c.Email, c.Phone, c.PasswordHash, c.DivisionID, c.Status, c.CreatedAt, c.UpdatedAt)
	return s.mapError(err)
}

func (s *DB) CreateRefreshToken(ctx context.Context, rt entity.RefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO refresh_tokens (id, citizen_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)`,
		rt.ID, rt.CitizenID, rt.TokenHash, rt.ExpiresAt)
	return s.mapError(err)
}
