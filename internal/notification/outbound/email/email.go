package email

import (
	"context"

	"github.com/lankagov/gnportal/internal/notification/entity"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Mail struct {
	client mail.Mail
	from   string
	ins    instrument.Instrumentation
}

// New sends as from; an empty from leaves the sender to the mail client.
func New(client mail.Mail, from string, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, from: from, ins: ins}
}

func (m *Mail) Send(ctx context.Context, e entity.Email) error {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "Send")
	defer span.End()
	span.SetAttributes(attribute.String("email.kind", e.Kind.String()))

	if err := m.client.Send(ctx, mail.Message{
		From:    m.from,
		To:      []string{e.To},
		Subject: e.Subject,
		Body:    e.Body,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
