package instance

import "time"

// SystemActor is the sentinel identity recorded for engine-initiated events.
const SystemActor = "system"

// Event kinds appended to an instance log.
const (
	EventCreated       = "created"
	EventStepStarted   = "step-started"
	EventStepCompleted = "step-completed"
	EventActionApplied = "action-applied"
	EventAdvanced      = "advanced"
	EventFinished      = "finished"
)

// Event is one immutable entry of an instance's append-only log. Entries are
// never mutated or removed after append.
type Event struct {
	Who         string    `json:"who" yaml:"who"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	CurrFeature string    `json:"currFeature,omitempty" yaml:"currFeature,omitempty"`
	At          time.Time `json:"at" yaml:"at"`
}
