package storage

import (
	"context"
	"io"
	"time"

	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/storage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Objects keeps document bytes in the configured bucket.
type Objects struct {
	client storage.Storage
	ins    instrument.Instrumentation
}

func New(client storage.Storage, ins instrument.Instrumentation) *Objects {
	return &Objects{client: client, ins: ins}
}

func (o *Objects) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return o.ins.Tracer("document.outbound.storage").Start(ctx, name)
}

func fail(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (o *Objects) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	ctx, span := o.startSpan(ctx, "Put")
	defer span.End()

	_, err := o.client.Put(ctx, key, r, storage.PutOptions{Size: size, ContentType: contentType})
	return fail(span, err)
}

func (o *Objects) Delete(ctx context.Context, key string) error {
	ctx, span := o.startSpan(ctx, "Delete")
	defer span.End()

	return fail(span, o.client.Delete(ctx, key))
}

func (o *Objects) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	ctx, span := o.startSpan(ctx, "PresignGet")
	defer span.End()

	url, err := o.client.PresignGet(ctx, key, expiry)
	return url, fail(span, err)
}
