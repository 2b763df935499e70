package messaging

import (
	"context"
)

// Vendor names a queue backend.
type Vendor string

const (
	// VendorMemory is the in-process channel backed queue.
	VendorMemory Vendor = "memory"

	// VendorFS is the filesystem backed queue.
	VendorFS Vendor = "fs"
)

// Queue is an abstract message queue for any payload type.
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message from the queue
	Consume(ctx context.Context) (Message[T], error)
}

// Message is a message retrieved from a queue.
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message
	Nack(err error) error
}
