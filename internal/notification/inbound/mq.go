package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/lankagov/gnportal/internal/pkg/config"
	"github.com/lankagov/gnportal/internal/pkg/goroutine"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/messaging"
	"github.com/lankagov/gnportal/internal/pkg/uid"
	"github.com/lankagov/gnportal/internal/shared/event"
)

// RegisterMQConsumer starts one subscription per appointment topic. When
// notification.consumers lists topics, only those are consumed.
func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	consumer messaging.Consumer,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	h := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enabled := cfg.GetArray("notification.consumers")
	concurrency := cfg.GetInt("notification.concurrency")
	if concurrency <= 0 {
		concurrency = 4
	}

	consumers := []struct {
		topic   string
		handler messaging.Handler
	}{
		{topic: event.AppointmentConfirmedTopic, handler: h.AppointmentConfirmed},
		{topic: event.AppointmentCancelledTopic, handler: h.AppointmentCancelled},
	}

	for _, c := range consumers {
		if len(enabled) > 0 && !slices.Contains(enabled, c.topic) {
			continue
		}
		routine.Go(ctx, func(ctx context.Context) error {
			slog.InfoContext(ctx, "running notification consumer", "topic", c.topic, "group", event.NotificationGroup)
			return consumer.Subscribe(ctx, c.topic, c.handler,
				messaging.WithGroup(event.NotificationGroup),
				messaging.WithConcurrency(concurrency),
			)
		})
	}
}
