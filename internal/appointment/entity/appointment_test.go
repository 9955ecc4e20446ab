package entity

import (
	"errors"
	"testing"
	"time"
)

func TestAppointmentStatus_Apply(t *testing.T) {
	tests := []struct {
		name    string
		from    AppointmentStatus
		ev      AppointmentEvent
		want    AppointmentStatus
		wantErr bool
	}{
		{name: "pending book", from: AppointmentStatusPending, ev: AppointmentEventBook, want: AppointmentStatusConfirmed},
		{name: "pending cancel", from: AppointmentStatusPending, ev: AppointmentEventCancel, want: AppointmentStatusCancelled},
		{name: "confirmed cancel", from: AppointmentStatusConfirmed, ev: AppointmentEventCancel, want: AppointmentStatusCancelled},
		{name: "confirmed book again", from: AppointmentStatusConfirmed, ev: AppointmentEventBook, want: AppointmentStatusConfirmed, wantErr: true},
		{name: "cancelled cancel", from: AppointmentStatusCancelled, ev: AppointmentEventCancel, want: AppointmentStatusCancelled, wantErr: true},
		{name: "cancelled book", from: AppointmentStatusCancelled, ev: AppointmentEventBook, want: AppointmentStatusCancelled, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Apply(tt.ev)
			if tt.wantErr != (err != nil) {
				t.Fatalf("Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("Apply() error = %v, want ErrInvalidTransition", err)
			}
			if got != tt.want {
				t.Fatalf("Apply() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSplitWindow(t *testing.T) {
	day := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)
	start, end := day.Add(9*time.Hour), day.Add(10*time.Hour+10*time.Minute)

	got := SplitWindow(start, end, 30*time.Minute)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[1][0].Equal(day.Add(9*time.Hour+30*time.Minute)) || !got[1][1].Equal(day.Add(10*time.Hour)) {
		t.Fatalf("second slot = %v", got[1])
	}
	if SplitWindow(end, start, time.Minute) != nil {
		t.Fatal("reversed window must yield nothing")
	}
}
