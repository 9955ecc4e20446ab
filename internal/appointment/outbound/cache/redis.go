package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"
)

const keyServices = "appointment:services"

type Redis struct {
	client redis.UniversalClient
	ins    instrument.Instrumentation
}

func NewRedis(client redis.UniversalClient, ins instrument.Instrumentation) *Redis {
	return &Redis{client: client, ins: ins}
}

// GetServices returns the cached catalogue, or nil on a miss.
func (r *Redis) GetServices(ctx context.Context) ([]entity.Service, error) {
	ctx, span := r.ins.Tracer("appointment.outbound.cache").Start(ctx, "GetServices")
	defer span.End()

	raw, err := r.client.Get(ctx, keyServices).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var list []entity.Service
	if err := json.Unmarshal(raw, &list); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return list, nil
}

func (r *Redis) SetServices(ctx context.Context, services []entity.Service, ttl time.Duration) error {
	ctx, span := r.ins.Tracer("appointment.outbound.cache").Start(ctx, "SetServices")
	defer span.End()

	if services == nil {
		services = []entity.Service{}
	}
	raw, err := json.Marshal(services)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, keyServices, raw, ttl).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
