package instance

import (
	"fmt"

	"time"

	"github.com/complyflow/complyflow/internal/clock"
	"github.com/complyflow/complyflow/internal/idgen"
	"github.com/complyflow/complyflow/model"
	"github.com/complyflow/complyflow/model/graph"
)

// Instance state constants
const (
	StateRunning  = "running"
	StateComplete = "complete"
)

// Instance is one concrete, stateful run of an image. It owns a private deep
// copy of the image's step and rule graphs, so sibling instances and the
// image itself never share mutable state.
type Instance struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ImageUUID string `json:"imageUUID,omitempty"`

	// SCN is the save-change-number used for version-checked persistence
	SCN int `json:"scn"`

	State    string `json:"state"`
	Complete bool   `json:"complete"`

	StepOrder []string               `json:"stepOrder"`
	Steps     map[string]*graph.Step `json:"steps"`
	RuleOrder []string               `json:"ruleOrder,omitempty"`
	Rules     map[string]*graph.Rule `json:"rules,omitempty"`

	// CurrFeature is the id of the step currently awaiting completion
	CurrFeature string `json:"currFeature"`

	// TargetID optionally binds the instance to a target entity
	TargetID string `json:"targetId,omitempty"`
	// SetID optionally groups the instance into an instance set
	SetID string `json:"setId,omitempty"`

	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`

	Log []Event `json:"log,omitempty"`
}

// Option customises a new instance.
type Option func(*Instance)

// WithName overrides the generated instance name.
func WithName(name string) Option {
	return func(i *Instance) { i.Name = name }
}

// WithTarget binds the instance to a target entity.
func WithTarget(targetID string) Option {
	return func(i *Instance) { i.TargetID = targetID }
}

// WithSet places the instance into an instance set.
func WithSet(setID string) Option {
	return func(i *Instance) { i.SetID = setID }
}

// New creates an instance from an image by deep-copying its graphs. The
// image must validate cleanly and have at least one step.
func New(image *model.Image, options ...Option) (*Instance, error) {
	if image == nil {
		return nil, fmt.Errorf("image was nil")
	}
	if issues := image.Validate(); len(issues) > 0 {
		return nil, fmt.Errorf("invalid image %s: %w", image.Name, issues[0])
	}

	now := clock.Now()
	clone := image.Clone()
	ret := &Instance{
		ID:          idgen.New(),
		Name:        image.Name,
		ImageUUID:   image.UUID,
		State:       StateRunning,
		StepOrder:   clone.StepOrder,
		Steps:       clone.Steps,
		RuleOrder:   clone.RuleOrder,
		Rules:       clone.Rules,
		CurrFeature: image.FirstStep(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, option := range options {
		option(ret)
	}

	ret.Steps[ret.CurrFeature].Start(now)
	ret.AppendEvent(SystemActor, EventCreated, fmt.Sprintf("instance created from image %s", image.Name))
	return ret, nil
}

// Step returns the instance's private copy of a step, or nil.
func (i *Instance) Step(id string) *graph.Step {
	return i.Steps[id]
}

// CurrentStep returns the step currently awaiting completion.
func (i *Instance) CurrentStep() *graph.Step {
	return i.Steps[i.CurrFeature]
}

// NextStep returns the id following the current step in declared order; ok
// is false when the current step is the last one.
func (i *Instance) NextStep() (string, bool) {
	for idx, candidate := range i.StepOrder {
		if candidate == i.CurrFeature {
			if idx+1 < len(i.StepOrder) {
				return i.StepOrder[idx+1], true
			}
			return "", false
		}
	}
	return "", false
}

// OnLastStep reports whether the current step is the final one.
func (i *Instance) OnLastStep() bool {
	return len(i.StepOrder) > 0 && i.StepOrder[len(i.StepOrder)-1] == i.CurrFeature
}

// AppendEvent appends an immutable entry to the instance log, recording the
// current step at the time of the event.
func (i *Instance) AppendEvent(who, name, description string) {
	i.Log = append(i.Log, Event{
		Who:         who,
		Name:        name,
		Description: description,
		CurrFeature: i.CurrFeature,
		At:          clock.Now(),
	})
}

// Finish marks the instance complete; terminal, never undone.
func (i *Instance) Finish() {
	now := clock.Now()
	i.Complete = true
	i.State = StateComplete
	i.FinishedAt = &now
	i.UpdatedAt = now
}

// CopyFrom updates mutable fields from src. Used by stores that keep a
// canonical entry per id.
func (i *Instance) CopyFrom(src *Instance) {
	if src == nil || src == i {
		return
	}
	i.SCN = src.SCN
	i.State = src.State
	i.Complete = src.Complete
	i.StepOrder = src.StepOrder
	i.Steps = src.Steps
	i.RuleOrder = src.RuleOrder
	i.Rules = src.Rules
	i.CurrFeature = src.CurrFeature
	i.UpdatedAt = src.UpdatedAt
	i.FinishedAt = src.FinishedAt
	i.Log = src.Log
}

// Clone creates a deep copy of the instance suitable for safe mutation
// outside the original store.
func (i *Instance) Clone() *Instance {
	if i == nil {
		return nil
	}

	out := *i

	if i.StepOrder != nil {
		out.StepOrder = append([]string(nil), i.StepOrder...)
	}
	if i.Steps != nil {
		out.Steps = make(map[string]*graph.Step, len(i.Steps))
		for k, v := range i.Steps {
			out.Steps[k] = v.Clone()
		}
	}
	if i.RuleOrder != nil {
		out.RuleOrder = append([]string(nil), i.RuleOrder...)
	}
	if i.Rules != nil {
		out.Rules = make(map[string]*graph.Rule, len(i.Rules))
		for k, v := range i.Rules {
			out.Rules[k] = v.Clone()
		}
	}
	if i.FinishedAt != nil {
		t := *i.FinishedAt
		out.FinishedAt = &t
	}
	if i.Log != nil {
		out.Log = append([]Event(nil), i.Log...)
	}

	return &out
}
