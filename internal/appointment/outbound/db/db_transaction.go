package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

func lockAppointment(ctx context.Context, tx pgx.Tx, id int64) (*entity.Appointment, error) {
	a, err := scanAppointment(tx.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, goerror.ErrNotFound
	}
	return a, err
}

// BookSlot claims slotID for the appointment. The slot update only matches an
// Available slot of the appointment's officer on its date, so of two
// concurrent claims exactly one sees a row.
func (s *DB) BookSlot(ctx context.Context, appointmentID, slotID int64, guard entity.Guard, at time.Time) (_ *entity.Transition, err error) {
	ctx, span := s.startSpan(ctx, "BookSlot")
	defer func() { s.endSpan(span, err) }()

	var tr entity.Transition
	err = s.inTxRetry(ctx, func(tx pgx.Tx) error {
		a, err := lockAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}

		next, err := guard(*a)
		if err != nil {
			return err
		}

		slot, err := scanSlot(tx.QueryRow(ctx, `
			UPDATE time_slots SET status = 'Booked', appointment_id = $1
			WHERE id = $2 AND officer_id = $3 AND slot_date = $4 AND status = 'Available'
			RETURNING `+slotColumns,
			a.ID, slotID, a.OfficerID, a.RequestedDate))
		if errors.Is(err, pgx.ErrNoRows) {
			return whySlotUnclaimed(ctx, tx, slotID, *a)
		}
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			UPDATE appointments SET status = $2, slot_id = $3, updated_at = $4 WHERE id = $1`,
			a.ID, next, slot.ID, at); err != nil {
			return err
		}

		a.Status, a.SlotID, a.UpdatedAt = next, &slot.ID, at
		tr = entity.Transition{Appointment: *a, Slot: slot}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

// whySlotUnclaimed tells apart a missing slot, one on another day and one
// somebody else holds.
func whySlotUnclaimed(ctx context.Context, tx pgx.Tx, slotID int64, a entity.Appointment) error {
	var (
		date   time.Time
		status entity.SlotStatus
	)
	err := tx.QueryRow(ctx, `SELECT slot_date, status FROM time_slots WHERE id = $1 AND officer_id = $2`, slotID, a.OfficerID).
		Scan(&date, &status)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return entity.ErrSlotNotFound
	case err != nil:
		return err
	case !date.Equal(a.RequestedDate):
		return entity.ErrSlotDateMismatch
	default:
		return entity.ErrSlotTaken
	}
}

// CancelAppointment cancels the appointment and hands its slot back.
func (s *DB) CancelAppointment(ctx context.Context, appointmentID int64, reason string, guard entity.Guard, at time.Time) (_ *entity.Transition, err error) {
	ctx, span := s.startSpan(ctx, "CancelAppointment")
	defer func() { s.endSpan(span, err) }()

	var tr entity.Transition
	err = s.inTxRetry(ctx, func(tx pgx.Tx) error {
		a, err := lockAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}

		next, err := guard(*a)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			UPDATE appointments SET status = $2, cancel_reason = NULLIF($3, ''), updated_at = $4 WHERE id = $1`,
			a.ID, next, reason, at); err != nil {
			return err
		}

		a.Status, a.UpdatedAt = next, at
		if reason != "" {
			a.CancelReason = &reason
		}
		tr = entity.Transition{Appointment: *a}

		if a.SlotID == nil {
			return nil
		}

		slot, err := scanSlot(tx.QueryRow(ctx, `
			UPDATE time_slots SET status = 'Available', appointment_id = NULL
			WHERE id = $1 AND appointment_id = $2
			RETURNING `+slotColumns, *a.SlotID, a.ID))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		tr.Slot = slot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

// CreateTimeSlots inserts consecutive slots of one officer and day. The
// officer's advisory lock serializes overlap checks.
func (s *DB) CreateTimeSlots(ctx context.Context, slots []entity.TimeSlot) (err error) {
	ctx, span := s.startSpan(ctx, "CreateTimeSlots")
	defer func() { s.endSpan(span, err) }()

	if len(slots) == 0 {
		return nil
	}
	first, last := slots[0], slots[len(slots)-1]

	return s.inTxRetry(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, first.OfficerID); err != nil {
			return err
		}

		var overlap bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM time_slots
				WHERE officer_id = $1 AND slot_date = $2 AND start_time < $4 AND end_time > $3
			)`, first.OfficerID, first.Date, clockOf(first.StartsAt), clockOf(last.EndsAt)).Scan(&overlap); err != nil {
			return err
		}
		if overlap {
			return goerror.ErrConflict
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"time_slots"},
			[]string{"id", "officer_id", "slot_date", "start_time", "end_time", "status"},
			pgx.CopyFromSlice(len(slots), func(i int) ([]any, error) {
				ts := slots[i]
				return []any{ts.ID, ts.OfficerID, ts.Date, clockOf(ts.StartsAt), clockOf(ts.EndsAt), ts.Status.String()}, nil
			}))
		return err
	})
}
