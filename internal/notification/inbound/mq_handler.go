package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/messaging"
	"github.com/lankagov/gnportal/internal/pkg/uid"
	"github.com/lankagov/gnportal/internal/shared/event"
)

type uc interface {
	AppointmentConfirmed(ctx context.Context, msg event.AppointmentMessage) error
	AppointmentCancelled(ctx context.Context, msg event.AppointmentMessage) error
}

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) withCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cid := msg.Headers[event.HeaderCorrelationID]; cid != "" {
		return instrument.SetCorrelationID(ctx, cid)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) AppointmentConfirmed(ctx context.Context, msg messaging.Message) error {
	return h.handle(ctx, "AppointmentConfirmed", msg, h.uc.AppointmentConfirmed)
}

func (h *MQHandler) AppointmentCancelled(ctx context.Context, msg messaging.Message) error {
	return h.handle(ctx, "AppointmentCancelled", msg, h.uc.AppointmentCancelled)
}

// handle acks messages that can never succeed (bad JSON, invalid payload) and
// returns send failures so the broker redelivers.
func (h *MQHandler) handle(ctx context.Context, name string, msg messaging.Message,
	fn func(context.Context, event.AppointmentMessage) error,
) error {
	ctx = h.withCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, name)
	defer span.End()

	slog.InfoContext(ctx, "consume: appointment event", "topic", msg.Topic, "msg_id", msg.ID)

	var payload event.AppointmentMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse appointment event", "topic", msg.Topic, "msg_body", string(msg.Body), "error", err)
		return nil
	}

	err := fn(ctx, payload)
	if goerror.CodeOf(err) == goerror.CodeInvalidInput {
		slog.ErrorContext(ctx, "dropping invalid appointment event", "topic", msg.Topic, "appointment_id", payload.AppointmentID, "error", err)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to consume appointment event", "topic", msg.Topic, "appointment_id", payload.AppointmentID, "error", err)
		return err
	}

	return nil
}
