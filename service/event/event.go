package event

import (
	"time"

	"github.com/complyflow/complyflow/internal/clock"
)

// Context identifies where in the engine an event originated.
type Context struct {
	InstanceID  string `json:"instanceID"`
	FeatureID   string `json:"featureID"`
	EventType   string `json:"eventType"`
	Actor       string `json:"actor"`
	TimeTakenMs int    `json:"timeTakenMs"`
}

// Event is a typed envelope published to subscribers.
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

// NewEvent creates an event with the given context and payload.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
