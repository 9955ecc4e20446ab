package messaging

type subscribeOptions struct {
	group       string
	concurrency int
}

type SubscribeOption func(*subscribeOptions)

func newSubscribeOptions(opts ...SubscribeOption) subscribeOptions {
	so := subscribeOptions{concurrency: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&so)
		}
	}
	if so.concurrency <= 0 {
		so.concurrency = 1
	}
	return so
}

// WithGroup names the consumer group. It maps to a Kafka group id, an NSQ
// channel, a NATS queue group and a Pub/Sub subscription suffix.
func WithGroup(group string) SubscribeOption {
	return func(o *subscribeOptions) { o.group = group }
}

// WithConcurrency sets how many handlers run in parallel.
func WithConcurrency(n int) SubscribeOption {
	return func(o *subscribeOptions) { o.concurrency = n }
}
