package messaging

import (
	"context"
	"log/slog"
	"sync"
)

// Memory is an in-process broker for local runs and tests. Each group gets
// every message once; members of a group compete for it. Failed handlers are
// logged and the message is dropped.
type Memory struct {
	mu     sync.RWMutex
	groups map[string]map[string]chan Message
	closed bool
	buffer int
}

func NewMemory(buffer int) *Memory {
	if buffer <= 0 {
		buffer = 64
	}
	return &Memory{groups: map[string]map[string]chan Message{}, buffer: buffer}
}

// Publish drops the message when no group has subscribed to topic yet.
func (m *Memory) Publish(ctx context.Context, topic string, msg Message) error {
	if topic == "" {
		return ErrTopicRequired
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}

	msg.Topic = topic
	for _, ch := range m.groups[topic] {
		select {
		case ch <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, topic string, h Handler, opts ...SubscribeOption) error {
	if err := validate(topic, h); err != nil {
		return err
	}
	so := newSubscribeOptions(opts...)

	ch, err := m.channel(topic, so.group)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for range so.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-ch:
					if !ok {
						return
					}
					if err := safeHandle(ctx, "memory", h, msg); err != nil {
						slog.WarnContext(ctx, "memory broker dropped message", "topic", topic, "error", err)
					}
				}
			}
		})
	}
	wg.Wait()
	return ctx.Err()
}

func (m *Memory) channel(topic, group string) (chan Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	byGroup, ok := m.groups[topic]
	if !ok {
		byGroup = map[string]chan Message{}
		m.groups[topic] = byGroup
	}
	ch, ok := byGroup[group]
	if !ok {
		ch = make(chan Message, m.buffer)
		byGroup[group] = ch
	}
	return ch, nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	for _, byGroup := range m.groups {
		for _, ch := range byGroup {
			close(ch)
		}
	}
	return nil
}
