package usecase

import (
	"sync"
	"testing"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

func TestUsecase_BookSlot(t *testing.T) {
	t.Run("GNS001 on 2025-08-20 books slot 5", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.seedSlot(5, 10)
		a := h.createPending(t)

		// Act
		got, err := h.uc.BookSlot(asCitizen(citizenID), BookSlotInput{AppointmentID: a.ID, SlotID: 5})

		// Assert
		if err != nil {
			t.Fatalf("BookSlot() error = %v", err)
		}
		if got.Status != entity.AppointmentStatusConfirmed || got.SlotID == nil || *got.SlotID != 5 {
			t.Fatalf("appointment = %+v", got)
		}
		slot := h.repo.slot(5)
		if slot.Status != entity.SlotStatusBooked || slot.AppointmentID == nil || *slot.AppointmentID != a.ID {
			t.Fatalf("slot = %+v", slot)
		}
		if len(h.publisher.confirmed) != 1 || h.publisher.confirmed[0].Appointment.ID != a.ID {
			t.Fatalf("confirmed events = %+v", h.publisher.confirmed)
		}
	})

	t.Run("two appointments racing for one slot", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.seedSlot(5, 10)
		first, second := h.createPending(t), h.createPending(t)

		// Act
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, id := range []int64{first.ID, second.ID} {
			wg.Add(1)
			go func(i int, id int64) {
				defer wg.Done()
				_, errs[i] = h.uc.BookSlot(asCitizen(citizenID), BookSlotInput{AppointmentID: id, SlotID: 5})
			}(i, id)
		}
		wg.Wait()

		// Assert
		var ok, conflict int
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case goerror.CodeOf(err) == goerror.CodeConflict:
				conflict++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if ok != 1 || conflict != 1 {
			t.Fatalf("ok = %d, conflict = %d", ok, conflict)
		}

		confirmed := 0
		for _, id := range []int64{first.ID, second.ID} {
			if a, _ := h.repo.GetAppointment(asCitizen(citizenID), id); a.Status == entity.AppointmentStatusConfirmed {
				confirmed++
			}
		}
		if confirmed != 1 {
			t.Fatalf("confirmed appointments = %d, want 1", confirmed)
		}
	})

	t.Run("slot taken message is actionable", func(t *testing.T) {
		h := newHarness(t)
		h.seedSlot(5, 10)
		first, second := h.createPending(t), h.createPending(t)
		if _, err := h.uc.BookSlot(asCitizen(citizenID), BookSlotInput{AppointmentID: first.ID, SlotID: 5}); err != nil {
			t.Fatalf("first BookSlot() error = %v", err)
		}

		_, err := h.uc.BookSlot(asCitizen(citizenID), BookSlotInput{AppointmentID: second.ID, SlotID: 5})

		assertCode(t, err, goerror.CodeConflict)
		if msg := err.(*goerror.Error).Msg(); msg != "Time slot is no longer available" {
			t.Fatalf("msg = %q", msg)
		}
	})

	tests := []struct {
		name  string
		setup func(h *harness, a *entity.Appointment) BookSlotInput
		as    int64
		want  goerror.Code
	}{
		{
			name: "unknown appointment",
			setup: func(h *harness, _ *entity.Appointment) BookSlotInput {
				return BookSlotInput{AppointmentID: 9999, SlotID: 5}
			},
			want: goerror.CodeNotFound,
		},
		{
			name: "someone else's appointment",
			setup: func(h *harness, a *entity.Appointment) BookSlotInput {
				return BookSlotInput{AppointmentID: a.ID, SlotID: 5}
			},
			as:   2,
			want: goerror.CodeForbidden,
		},
		{
			name: "unknown slot",
			setup: func(h *harness, a *entity.Appointment) BookSlotInput {
				return BookSlotInput{AppointmentID: a.ID, SlotID: 404}
			},
			want: goerror.CodeNotFound,
		},
		{
			name: "slot of another officer",
			setup: func(h *harness, a *entity.Appointment) BookSlotInput {
				h.repo.slots[5].OfficerID = 99
				return BookSlotInput{AppointmentID: a.ID, SlotID: 5}
			},
			want: goerror.CodeNotFound,
		},
		{
			name: "slot on another day",
			setup: func(h *harness, a *entity.Appointment) BookSlotInput {
				h.repo.slots[5].Date = appointmentDay.AddDate(0, 0, 1)
				return BookSlotInput{AppointmentID: a.ID, SlotID: 5}
			},
			want: goerror.CodeInvalidState,
		},
		{
			name: "already confirmed",
			setup: func(h *harness, a *entity.Appointment) BookSlotInput {
				h.repo.appointments[a.ID].Status = entity.AppointmentStatusConfirmed
				return BookSlotInput{AppointmentID: a.ID, SlotID: 5}
			},
			want: goerror.CodeInvalidState,
		},
		{
			name: "cancelled",
			setup: func(h *harness, a *entity.Appointment) BookSlotInput {
				h.repo.appointments[a.ID].Status = entity.AppointmentStatusCancelled
				return BookSlotInput{AppointmentID: a.ID, SlotID: 5}
			},
			want: goerror.CodeInvalidState,
		},
		{
			name:  "missing slot id",
			setup: func(h *harness, a *entity.Appointment) BookSlotInput { return BookSlotInput{AppointmentID: a.ID} },
			want:  goerror.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			h := newHarness(t)
			h.seedSlot(5, 10)
			a := h.createPending(t)
			in := tt.setup(h, a)
			as := citizenID
			if tt.as != 0 {
				as = tt.as
			}

			// Act
			_, err := h.uc.BookSlot(asCitizen(as), in)

			// Assert
			assertCode(t, err, tt.want)
			if s := h.repo.slots[5]; s.AppointmentID != nil {
				t.Fatalf("slot must stay unclaimed, got %+v", s)
			}
			if len(h.publisher.confirmed) != 0 {
				t.Fatal("no event expected")
			}
		})
	}
}
