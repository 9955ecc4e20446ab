package mq

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/messaging"
	"github.com/lankagov/gnportal/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type clocker interface {
	Now() time.Time
}

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
	clock  clocker
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation, clock clocker) *Messaging {
	return &Messaging{client: client, ins: ins, clock: clock}
}

func (m *Messaging) AppointmentConfirmed(ctx context.Context, d entity.AppointmentDetail) error {
	ctx, span := m.ins.Tracer("appointment.outbound.mq").Start(ctx, "AppointmentConfirmed")
	defer span.End()

	return m.publish(ctx, span, event.AppointmentConfirmedTopic, d)
}

func (m *Messaging) AppointmentCancelled(ctx context.Context, d entity.AppointmentDetail) error {
	ctx, span := m.ins.Tracer("appointment.outbound.mq").Start(ctx, "AppointmentCancelled")
	defer span.End()

	return m.publish(ctx, span, event.AppointmentCancelledTopic, d)
}

func (m *Messaging) publish(ctx context.Context, span trace.Span, topic string, d entity.AppointmentDetail) error {
	a := d.Appointment
	msg := event.AppointmentMessage{
		AppointmentID: a.ID,
		CitizenID:     a.CitizenID,
		CitizenEmail:  d.CitizenEmail,
		CitizenName:   d.CitizenName,
		ServiceCode:   a.ServiceCode,
		ServiceName:   a.ServiceName,
		OfficerName:   d.OfficerName,
		Date:          a.RequestedDate.Format(time.DateOnly),
		OccurredAt:    m.clock.Now(),
	}
	if a.Slot != nil {
		msg.StartTime = a.Slot.StartsAt.Format("15:04")
		msg.EndTime = a.Slot.EndsAt.Format("15:04")
	}
	if a.CancelReason != nil {
		msg.Reason = *a.CancelReason
	}

	body, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.client.Publish(ctx, topic, messaging.Message{
		Key:     strconv.FormatInt(a.ID, 10),
		Body:    body,
		Headers: map[string]string{event.HeaderCorrelationID: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
