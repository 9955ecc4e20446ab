package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/shopspring/decimal"
)

func (s *DB) GetRequester(ctx context.Context, citizenID int64) (_ *entity.Requester, err error) {
	ctx, span := s.startSpan(ctx, "GetRequester")
	defer func() { s.endSpan(span, err) }()

	var r entity.Requester
	err = s.conn.QueryRow(ctx, `
		SELECT id, email, full_name, email_verified_at IS NOT NULL, division_id, status = 'Active'
		FROM citizens WHERE id = $1`, citizenID).
		Scan(&r.ID, &r.Email, &r.FullName, &r.EmailVerified, &r.DivisionID, &r.Active)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &r, nil
}

func (s *DB) ResolveOfficer(ctx context.Context, citizenID int64) (_ *entity.Assignment, err error) {
	ctx, span := s.startSpan(ctx, "ResolveOfficer")
	defer func() { s.endSpan(span, err) }()

	var a entity.Assignment
	err = s.conn.QueryRow(ctx, `
		SELECT c.id, d.id, st.id, st.full_name
		FROM citizens c
		JOIN divisions d ON d.id = c.division_id
		JOIN staff st ON st.id = d.officer_id AND st.status = 'Active'
		WHERE c.id = $1`, citizenID).
		Scan(&a.CitizenID, &a.DivisionID, &a.OfficerID, &a.OfficerName)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &a, nil
}

const serviceSelect = `SELECT id, code, name, description, fee::text, required_documents, enabled FROM services`

func scanService(row pgx.Row) (*entity.Service, error) {
	var (
		svc entity.Service
		fee string
	)
	if err := row.Scan(&svc.ID, &svc.Code, &svc.Name, &svc.Description, &fee, &svc.RequiredDocuments, &svc.Enabled); err != nil {
		return nil, err
	}

	d, err := decimal.NewFromString(fee)
	if err != nil {
		return nil, fmt.Errorf("service %d fee %q: %w", svc.ID, fee, err)
	}
	svc.Fee = d
	return &svc, nil
}

func (s *DB) GetServiceByCode(ctx context.Context, code string) (_ *entity.Service, err error) {
	ctx, span := s.startSpan(ctx, "GetServiceByCode")
	defer func() { s.endSpan(span, err) }()

	svc, err := scanService(s.conn.QueryRow(ctx, serviceSelect+` WHERE code = $1`, code))
	if err != nil {
		return nil, s.mapError(err)
	}
	return svc, nil
}

func (s *DB) GetServiceByID(ctx context.Context, id int64) (_ *entity.Service, err error) {
	ctx, span := s.startSpan(ctx, "GetServiceByID")
	defer func() { s.endSpan(span, err) }()

	svc, err := scanService(s.conn.QueryRow(ctx, serviceSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, s.mapError(err)
	}
	return svc, nil
}

func (s *DB) ListEnabledServices(ctx context.Context) (_ []entity.Service, err error) {
	ctx, span := s.startSpan(ctx, "ListEnabledServices")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, serviceSelect+` WHERE enabled ORDER BY code`)
	if err != nil {
		return nil, s.mapError(err)
	}
	list, err := collect(rows, scanService)
	if err != nil {
		return nil, s.mapError(err)
	}
	return list, nil
}

func (s *DB) GetAppointment(ctx context.Context, id int64) (_ *entity.Appointment, err error) {
	ctx, span := s.startSpan(ctx, "GetAppointment")
	defer func() { s.endSpan(span, err) }()

	a, err := scanAppointmentView(s.conn.QueryRow(ctx, appointmentSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, s.mapError(err)
	}
	return a, nil
}

func (s *DB) GetAppointmentDetail(ctx context.Context, id int64) (_ *entity.AppointmentDetail, err error) {
	ctx, span := s.startSpan(ctx, "GetAppointmentDetail")
	defer func() { s.endSpan(span, err) }()

	a, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	d := entity.AppointmentDetail{Appointment: *a}
	err = s.conn.QueryRow(ctx, `
		SELECT c.email, c.full_name, st.full_name
		FROM citizens c, staff st
		WHERE c.id = $1 AND st.id = $2`, a.CitizenID, a.OfficerID).
		Scan(&d.CitizenEmail, &d.CitizenName, &d.OfficerName)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &d, nil
}

func (s *DB) ListAppointmentsByCitizen(ctx context.Context, citizenID int64) (_ []entity.Appointment, err error) {
	ctx, span := s.startSpan(ctx, "ListAppointmentsByCitizen")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, appointmentSelect+`
		WHERE a.citizen_id = $1
		ORDER BY a.requested_date DESC, a.id DESC`, citizenID)
	if err != nil {
		return nil, s.mapError(err)
	}
	list, err := collect(rows, scanAppointmentView)
	if err != nil {
		return nil, s.mapError(err)
	}
	return list, nil
}

func (s *DB) ListAppointmentsByOfficer(ctx context.Context, officerID int64, date time.Time) (_ []entity.Appointment, err error) {
	ctx, span := s.startSpan(ctx, "ListAppointmentsByOfficer")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, appointmentSelect+`
		WHERE a.officer_id = $1 AND a.requested_date = $2
		ORDER BY ts.start_time NULLS LAST, a.id`, officerID, date)
	if err != nil {
		return nil, s.mapError(err)
	}
	list, err := collect(rows, scanAppointmentView)
	if err != nil {
		return nil, s.mapError(err)
	}
	return list, nil
}

func (s *DB) ListAvailableSlots(ctx context.Context, officerID int64, date time.Time) (_ []entity.TimeSlot, err error) {
	ctx, span := s.startSpan(ctx, "ListAvailableSlots")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `SELECT `+slotColumns+` FROM time_slots
		WHERE officer_id = $1 AND slot_date = $2 AND status = 'Available'
		ORDER BY start_time`, officerID, date)
	if err != nil {
		return nil, s.mapError(err)
	}
	list, err := collect(rows, scanSlot)
	if err != nil {
		return nil, s.mapError(err)
	}
	return list, nil
}
