package db

import (
	"context"

	"github.com/lankagov/gnportal/internal/appointment/entity"
)

func (s *DB) CreateAppointment(ctx context.Context, a entity.Appointment) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAppointment")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO appointments (id, citizen_id, service_id, officer_id, requested_date, purpose, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.CitizenID, a.ServiceID, a.OfficerID, a.RequestedDate, a.Purpose, a.Status, a.CreatedAt, a.UpdatedAt)
	return s.mapError(err)
}
