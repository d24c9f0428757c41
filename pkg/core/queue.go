package core

import "context"

// QueueProducer represents the queue producer.
type QueueProducer interface {
	// Enqueue inserts payload in queue.
	Enqueue(ctx context.Context, payload interface{}) error
	// Close closes the queue producer.
	Close() error
}

// QueueConsumer represents the queue consumer.
type QueueConsumer interface {
	// Run runs the queue consumer in background.
	Run(ctx context.Context)
	// Close closes the queue consumer
	Close() error
}
