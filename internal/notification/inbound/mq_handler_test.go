package inbound

import (
	"context"
	"errors"
	"testing"

	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/messaging"
	"github.com/lankagov/gnportal/internal/shared/event"
)

type fakeUsecase struct {
	err       error
	confirmed []event.AppointmentMessage
	cid       string
}

func (f *fakeUsecase) AppointmentConfirmed(ctx context.Context, msg event.AppointmentMessage) error {
	f.cid = instrument.GetCorrelationID(ctx)
	if f.err != nil {
		return f.err
	}
	f.confirmed = append(f.confirmed, msg)
	return nil
}

func (f *fakeUsecase) AppointmentCancelled(context.Context, event.AppointmentMessage) error {
	return f.err
}

type fixedUUID string

func (u fixedUUID) Generate() string { return string(u) }

func TestMQHandler_AppointmentConfirmed(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		headers map[string]string
		ucErr   error
		wantErr bool
		wantCID string
	}{
		{
			name:    "delivered with correlation id from header",
			body:    `{"appointment_id":"1001","citizen_email":"nimal@example.lk","date":"2025-08-20"}`,
			headers: map[string]string{event.HeaderCorrelationID: "req-42"},
			wantCID: "req-42",
		},
		{
			name:    "generated correlation id",
			body:    `{"appointment_id":"1001","citizen_email":"nimal@example.lk","date":"2025-08-20"}`,
			wantCID: "generated",
		},
		{
			name: "bad json is acked",
			body: `{not json`,
		},
		{
			name:    "invalid payload is acked",
			body:    `{"appointment_id":"1001"}`,
			ucErr:   goerror.NewInvalidInput(nil, "citizen_email", "is required"),
			wantCID: "generated",
		},
		{
			name:    "send failure is returned",
			body:    `{"appointment_id":"1001","citizen_email":"nimal@example.lk","date":"2025-08-20"}`,
			ucErr:   goerror.NewServer(errors.New("smtp down")),
			wantErr: true,
			wantCID: "generated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			uc := &fakeUsecase{err: tt.ucErr}
			h := &MQHandler{uc: uc, uuid: fixedUUID("generated"), ins: instrument.NewNoop()}

			// Act
			err := h.AppointmentConfirmed(context.Background(), messaging.Message{
				ID:      "m-1",
				Topic:   event.AppointmentConfirmedTopic,
				Body:    []byte(tt.body),
				Headers: tt.headers,
			})

			// Assert
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if uc.cid != tt.wantCID {
				t.Fatalf("correlation id = %q, want %q", uc.cid, tt.wantCID)
			}
		})
	}
}

func TestMQHandler_DecodesPayload(t *testing.T) {
	uc := &fakeUsecase{}
	h := &MQHandler{uc: uc, uuid: fixedUUID("x"), ins: instrument.NewNoop()}

	err := h.AppointmentConfirmed(context.Background(), messaging.Message{
		Body: []byte(`{"appointment_id":"1001","citizen_id":"1","citizen_email":"nimal@example.lk","service_code":"GNS001","date":"2025-08-20","start_time":"09:00"}`),
	})

	if err != nil {
		t.Fatalf("AppointmentConfirmed() error = %v", err)
	}
	if len(uc.confirmed) != 1 {
		t.Fatalf("confirmed = %d, want 1", len(uc.confirmed))
	}
	got := uc.confirmed[0]
	if got.AppointmentID != 1001 || got.CitizenID != 1 || got.ServiceCode != "GNS001" || got.StartTime != "09:00" {
		t.Fatalf("decoded = %+v", got)
	}
}
