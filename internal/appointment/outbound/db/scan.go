package db

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lankagov/gnportal/internal/appointment/entity"
)

const appointmentColumns = `id, citizen_id, service_id, officer_id, requested_date, purpose, status,
	slot_id, cancel_reason, created_at, updated_at`

const appointmentSelect = `
	SELECT a.id, a.citizen_id, a.service_id, a.officer_id, a.requested_date, a.purpose, a.status,
		a.slot_id, a.cancel_reason, a.created_at, a.updated_at,
		sv.code, sv.name, ts.slot_date, ts.start_time, ts.end_time, ts.status
	FROM appointments a
	JOIN services sv ON sv.id = a.service_id
	LEFT JOIN time_slots ts ON ts.id = a.slot_id`

const slotColumns = `id, officer_id, slot_date, start_time, end_time, status, appointment_id`

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var a entity.Appointment
	if err := row.Scan(&a.ID, &a.CitizenID, &a.ServiceID, &a.OfficerID, &a.RequestedDate, &a.Purpose, &a.Status,
		&a.SlotID, &a.CancelReason, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// scanAppointmentView reads a row of appointmentSelect.
func scanAppointmentView(row pgx.Row) (*entity.Appointment, error) {
	var (
		a          entity.Appointment
		slotDate   *time.Time
		start, end pgtype.Time
		slotStatus *string
	)
	if err := row.Scan(&a.ID, &a.CitizenID, &a.ServiceID, &a.OfficerID, &a.RequestedDate, &a.Purpose, &a.Status,
		&a.SlotID, &a.CancelReason, &a.CreatedAt, &a.UpdatedAt,
		&a.ServiceCode, &a.ServiceName, &slotDate, &start, &end, &slotStatus); err != nil {
		return nil, err
	}

	if a.SlotID != nil && slotDate != nil {
		a.Slot = &entity.TimeSlot{
			ID:        *a.SlotID,
			OfficerID: a.OfficerID,
			Date:      *slotDate,
			StartsAt:  atClock(*slotDate, start),
			EndsAt:    atClock(*slotDate, end),
			Status:    entity.SlotStatus(deref(slotStatus)),
		}
	}
	return &a, nil
}

func scanSlot(row pgx.Row) (*entity.TimeSlot, error) {
	var (
		ts         entity.TimeSlot
		start, end pgtype.Time
	)
	if err := row.Scan(&ts.ID, &ts.OfficerID, &ts.Date, &start, &end, &ts.Status, &ts.AppointmentID); err != nil {
		return nil, err
	}
	ts.StartsAt = atClock(ts.Date, start)
	ts.EndsAt = atClock(ts.Date, end)
	return &ts, nil
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// atClock places a TIME column value on date.
func atClock(date time.Time, t pgtype.Time) time.Time {
	return date.Add(time.Duration(t.Microseconds) * time.Microsecond)
}

// clockOf is the TIME column value of t.
func clockOf(t time.Time) pgtype.Time {
	return pgtype.Time{Microseconds: t.Sub(entity.DateOf(t)).Microseconds(), Valid: true}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
