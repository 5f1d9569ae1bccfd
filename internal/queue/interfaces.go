package queue

import "context"

// Consumer pulls hero commands from the broker until ctx ends.
type Consumer interface {
	Start(ctx context.Context) error
}

// Publisher emits hero change events under a routing key.
type Publisher interface {
	Publish(ctx context.Context, payload []byte, routingKey string) error
}
