package event

import (
	"context"
	"errors"
	"log"
)

// Listener runs a handler for every event consumed from a publisher.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewListener creates a stopped listener; call Start to begin consuming.
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Stop terminates the consume loop.
func (l *Listener[T]) Stop() {
	l.cancel()
}

// Start consumes events on a background goroutine until Stop is called.
func (l *Listener[T]) Start() {
	go func() {
		for {
			event, err := l.publisher.Consume(l.ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				log.Printf("event: failed to consume: %v", err)
				continue
			}
			if event != nil {
				l.handler(event)
			}
		}
	}()
}
