// Package messaging publishes domain events and delivers them to consumers
// without tying callers to a broker. Drivers exist for NATS, NSQ, Kafka and
// Google Pub/Sub, plus an in-process broker for local runs.
package messaging

import (
	"context"
	"errors"
	"io"
)

var (
	ErrTopicRequired   = errors.New("messaging: topic is required")
	ErrHandlerRequired = errors.New("messaging: handler is required")
	ErrGroupRequired   = errors.New("messaging: consumer group is required")
	ErrClosed          = errors.New("messaging: client closed")
)

type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

type Publisher interface {
	Publish(ctx context.Context, topic string, msg Message) error
}

type Consumer interface {
	// Subscribe delivers messages on topic to h until ctx is done. Consumers
	// sharing a group split the stream between them.
	Subscribe(ctx context.Context, topic string, h Handler, opts ...SubscribeOption) error
}

// Handler processes one delivery. A nil return acknowledges it; an error asks
// the broker to redeliver when the broker supports that.
type Handler func(ctx context.Context, msg Message) error

type Message struct {
	ID      string
	Topic   string
	Key     string
	Body    []byte
	Headers map[string]string
}
