package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

func TestUsecase_ListAppointments(t *testing.T) {
	t.Run("newest date first then id", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		a1 := h.createPending(t)
		a2, err := h.uc.CreateAppointment(asCitizen(citizenID), CreateAppointmentInput{ServiceCode: "GNS001", Date: "2025-08-25"})
		if err != nil {
			t.Fatalf("CreateAppointment() error = %v", err)
		}
		a3 := h.createPending(t)

		// Act
		list, err := h.uc.ListAppointments(asCitizen(citizenID))

		// Assert
		if err != nil {
			t.Fatalf("ListAppointments() error = %v", err)
		}
		want := []int64{a2.ID, a3.ID, a1.ID}
		if len(list) != len(want) {
			t.Fatalf("len = %d, want %d", len(list), len(want))
		}
		for i, id := range want {
			if list[i].ID != id {
				t.Fatalf("list[%d] = %d, want %d", i, list[i].ID, id)
			}
		}
	})

	t.Run("other citizens see nothing", func(t *testing.T) {
		h := newHarness(t)
		h.createPending(t)

		list, err := h.uc.ListAppointments(asCitizen(2))

		if err != nil || len(list) != 0 {
			t.Fatalf("list = %v, %v", list, err)
		}
	})
}

func TestUsecase_GetAppointment(t *testing.T) {
	h := newHarness(t)
	a := h.createPending(t)

	t.Run("owner", func(t *testing.T) {
		got, err := h.uc.GetAppointment(asCitizen(citizenID), a.ID)
		if err != nil || got.ID != a.ID {
			t.Fatalf("GetAppointment() = %+v, %v", got, err)
		}
	})

	t.Run("assigned officer", func(t *testing.T) {
		if _, err := h.uc.GetAppointment(asOfficer(officerID), a.ID); err != nil {
			t.Fatalf("GetAppointment() error = %v", err)
		}
	})

	t.Run("stranger", func(t *testing.T) {
		_, err := h.uc.GetAppointment(asCitizen(2), a.ID)
		assertCode(t, err, goerror.CodeForbidden)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := h.uc.GetAppointment(asCitizen(citizenID), 1)
		assertCode(t, err, goerror.CodeNotFound)
	})
}

func TestUsecase_ListServices(t *testing.T) {
	t.Run("miss loads the database and fills the cache", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		first, err1 := h.uc.ListServices(context.Background())
		second, err2 := h.uc.ListServices(context.Background())

		// Assert
		if err1 != nil || err2 != nil {
			t.Fatalf("errors = %v, %v", err1, err2)
		}
		if len(first) != 1 || first[0].Code != "GNS001" || len(second) != 1 {
			t.Fatalf("services = %+v / %+v", first, second)
		}
		if h.repo.listServiceCalls != 1 {
			t.Fatalf("db calls = %d, want 1", h.repo.listServiceCalls)
		}
		if h.cache.ttl != 120*time.Second {
			t.Fatalf("ttl = %s", h.cache.ttl)
		}
	})

	t.Run("cache failure falls back to the database", func(t *testing.T) {
		h := newHarness(t)
		h.cache.err = errors.New("redis: connection refused")

		list, err := h.uc.ListServices(context.Background())

		if err != nil || len(list) != 1 {
			t.Fatalf("ListServices() = %+v, %v", list, err)
		}
	})
}

func TestUsecase_Slots(t *testing.T) {
	t.Run("officer opens a window and the citizen sees it", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		created, err := h.uc.CreateTimeSlots(asOfficer(officerID), CreateTimeSlotsInput{Date: "2025-08-20", Start: "09:00", End: "11:00", DurationMinutes: 30})
		if err != nil {
			t.Fatalf("CreateTimeSlots() error = %v", err)
		}
		open, err := h.uc.ListAvailableSlots(asCitizen(citizenID), ListAvailableSlotsInput{Date: "2025-08-20"})

		// Assert
		if err != nil {
			t.Fatalf("ListAvailableSlots() error = %v", err)
		}
		if len(created) != 4 || len(open) != 4 {
			t.Fatalf("created = %d, open = %d", len(created), len(open))
		}
		if !open[0].StartsAt.Equal(appointmentDay.Add(9*time.Hour)) || !open[3].EndsAt.Equal(appointmentDay.Add(11*time.Hour)) {
			t.Fatalf("open = %+v", open)
		}
	})

	t.Run("booked slots are hidden", func(t *testing.T) {
		h := newHarness(t)
		h.seedSlot(5, 10)
		h.seedSlot(6, 11)
		a := h.createPending(t)
		if _, err := h.uc.BookSlot(asCitizen(citizenID), BookSlotInput{AppointmentID: a.ID, SlotID: 5}); err != nil {
			t.Fatalf("BookSlot() error = %v", err)
		}

		open, err := h.uc.ListAvailableSlots(asCitizen(citizenID), ListAvailableSlotsInput{Date: "2025-08-20"})

		if err != nil || len(open) != 1 || open[0].ID != 6 {
			t.Fatalf("open = %+v, %v", open, err)
		}
	})

	t.Run("overlapping window conflicts", func(t *testing.T) {
		h := newHarness(t)
		h.seedSlot(5, 10)

		_, err := h.uc.CreateTimeSlots(asOfficer(officerID), CreateTimeSlotsInput{Date: "2025-08-20", Start: "09:45", End: "10:45", DurationMinutes: 30})

		assertCode(t, err, goerror.CodeConflict)
	})

	t.Run("window shorter than one slot", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.CreateTimeSlots(asOfficer(officerID), CreateTimeSlotsInput{Date: "2025-08-20", Start: "09:00", End: "09:10", DurationMinutes: 30})

		assertCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("citizen cannot open slots", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.CreateTimeSlots(asCitizen(citizenID), CreateTimeSlotsInput{Date: "2025-08-20", Start: "09:00", End: "10:00", DurationMinutes: 30})

		assertCode(t, err, goerror.CodeForbidden)
	})

	t.Run("officer schedule", func(t *testing.T) {
		h := newHarness(t)
		a := h.createPending(t)

		list, err := h.uc.ListOfficerAppointments(asOfficer(officerID), ListOfficerAppointmentsInput{Date: "2025-08-20"})

		if err != nil || len(list) != 1 || list[0].ID != a.ID {
			t.Fatalf("schedule = %+v, %v", list, err)
		}
		if list[0].Status != entity.AppointmentStatusPending {
			t.Fatalf("status = %s", list[0].Status)
		}
	})
}
