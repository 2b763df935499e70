package notify

import "context"

// Service delivers a message to one or more recipients on behalf of an actor.
// Delivery is fire-and-forget from the engine's perspective; implementations
// should not block on downstream acknowledgement.
type Service interface {
	Send(ctx context.Context, actor, message string, recipients []string) error
}
