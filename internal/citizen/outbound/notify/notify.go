package notify

import (
	"context"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

type sender interface {
	SendOTP(ctx context.Context, msg event.OTPCodeMessage) error
}

// Notifier hands one-time codes to the notification module synchronously, so
// a failed delivery fails the request that issued the code.
type Notifier struct {
	sender sender
	ins    instrument.Instrumentation
}

func New(sender sender, ins instrument.Instrumentation) *Notifier {
	return &Notifier{sender: sender, ins: ins}
}

func (n *Notifier) Notify(ctx context.Context, msg entity.OTPMessage) error {
	ctx, span := n.ins.Tracer("citizen.outbound.notify").Start(ctx, "Notify")
	defer span.End()

	if err := n.sender.SendOTP(ctx, event.OTPCodeMessage{
		CitizenID: msg.CitizenID,
		Email:     msg.Email,
		FullName:  msg.Name,
		Purpose:   msg.Purpose.String(),
		Code:      msg.Code,
		ExpiresAt: msg.ExpiresAt,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
