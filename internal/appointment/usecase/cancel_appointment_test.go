package usecase

import (
	"testing"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

func TestUsecase_CancelAppointment(t *testing.T) {
	t.Run("cancel confirmed releases the slot", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.seedSlot(5, 10)
		a := h.createPending(t)
		if _, err := h.uc.BookSlot(asCitizen(citizenID), BookSlotInput{AppointmentID: a.ID, SlotID: 5}); err != nil {
			t.Fatalf("BookSlot() error = %v", err)
		}

		// Act
		got, err := h.uc.CancelAppointment(asCitizen(citizenID), CancelAppointmentInput{AppointmentID: a.ID, Reason: " travelling "})

		// Assert
		if err != nil {
			t.Fatalf("CancelAppointment() error = %v", err)
		}
		if got.Status != entity.AppointmentStatusCancelled || got.CancelReason == nil || *got.CancelReason != "travelling" {
			t.Fatalf("appointment = %+v", got)
		}
		if s := h.repo.slot(5); s.Status != entity.SlotStatusAvailable || s.AppointmentID != nil {
			t.Fatalf("slot = %+v", s)
		}
		if len(h.publisher.cancelled) != 1 {
			t.Fatalf("cancelled events = %d", len(h.publisher.cancelled))
		}
	})

	t.Run("released slot can be booked again", func(t *testing.T) {
		h := newHarness(t)
		h.seedSlot(5, 10)
		first, second := h.createPending(t), h.createPending(t)
		if _, err := h.uc.BookSlot(asCitizen(citizenID), BookSlotInput{AppointmentID: first.ID, SlotID: 5}); err != nil {
			t.Fatalf("BookSlot() error = %v", err)
		}
		if _, err := h.uc.CancelAppointment(asCitizen(citizenID), CancelAppointmentInput{AppointmentID: first.ID}); err != nil {
			t.Fatalf("CancelAppointment() error = %v", err)
		}

		got, err := h.uc.BookSlot(asCitizen(citizenID), BookSlotInput{AppointmentID: second.ID, SlotID: 5})

		if err != nil || got.Status != entity.AppointmentStatusConfirmed {
			t.Fatalf("rebook = %+v, %v", got, err)
		}
	})

	t.Run("cancel pending has no slot to release", func(t *testing.T) {
		h := newHarness(t)
		a := h.createPending(t)

		got, err := h.uc.CancelAppointment(asCitizen(citizenID), CancelAppointmentInput{AppointmentID: a.ID})

		if err != nil || got.Status != entity.AppointmentStatusCancelled {
			t.Fatalf("cancel = %+v, %v", got, err)
		}
	})

	t.Run("repeat cancel is an invalid state", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		a := h.createPending(t)
		if _, err := h.uc.CancelAppointment(asCitizen(citizenID), CancelAppointmentInput{AppointmentID: a.ID}); err != nil {
			t.Fatalf("first cancel: %v", err)
		}

		// Act
		_, err := h.uc.CancelAppointment(asCitizen(citizenID), CancelAppointmentInput{AppointmentID: a.ID})

		// Assert
		assertCode(t, err, goerror.CodeInvalidState)
		if len(h.publisher.cancelled) != 1 {
			t.Fatalf("cancelled events = %d, want 1", len(h.publisher.cancelled))
		}
	})

	t.Run("assigned officer may cancel", func(t *testing.T) {
		h := newHarness(t)
		a := h.createPending(t)

		_, err := h.uc.CancelAppointment(asOfficer(officerID), CancelAppointmentInput{AppointmentID: a.ID, Reason: "officer on leave"})

		if err != nil {
			t.Fatalf("CancelAppointment() error = %v", err)
		}
	})

	t.Run("other citizen is forbidden", func(t *testing.T) {
		h := newHarness(t)
		a := h.createPending(t)

		_, err := h.uc.CancelAppointment(asCitizen(2), CancelAppointmentInput{AppointmentID: a.ID})

		assertCode(t, err, goerror.CodeForbidden)
		if h.repo.appointments[a.ID].Status != entity.AppointmentStatusPending {
			t.Fatal("appointment must be untouched")
		}
	})

	t.Run("unknown appointment", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.CancelAppointment(asCitizen(citizenID), CancelAppointmentInput{AppointmentID: 4242})

		assertCode(t, err, goerror.CodeNotFound)
	})
}
