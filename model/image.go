package model

import (
	"fmt"

	"github.com/complyflow/complyflow/model/graph"
)

// Image is a compiled, reusable workflow template: an ordered step graph and
// an ordered rule graph. An image is not an executor - instances clone its
// graphs and advance on their own.
type Image struct {
	// Name is the unique identifier for the image
	Name string `json:"name" yaml:"name"`

	UUID string `json:"uuid,omitempty" yaml:"uuid,omitempty"`

	// Description provides a human-readable description of the image
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Recipe optionally backs the image with its free-text source
	Recipe *Recipe `json:"recipe,omitempty" yaml:"recipe,omitempty"`

	// StepOrder is the declared step sequence; it is exactly the key set of
	// Steps
	StepOrder []string `json:"stepOrder,omitempty" yaml:"stepOrder,omitempty"`

	Steps map[string]*graph.Step `json:"steps,omitempty" yaml:"steps,omitempty"`

	// RuleOrder is the declared rule sequence; evaluation preserves it
	RuleOrder []string `json:"ruleOrder,omitempty" yaml:"ruleOrder,omitempty"`

	Rules map[string]*graph.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`

	// CurrFeature seeds new instances with their starting step
	CurrFeature string `json:"currFeature,omitempty" yaml:"currFeature,omitempty"`
}

// NewImage creates a new image with the given name
func NewImage(name string) *Image {
	return &Image{
		Name:  name,
		Steps: make(map[string]*graph.Step),
		Rules: make(map[string]*graph.Rule),
	}
}

// WithDescription sets the description of the image
func (m *Image) WithDescription(description string) *Image {
	m.Description = description
	return m
}

// WithRecipe attaches the free-text source the image was compiled from
func (m *Image) WithRecipe(recipe *Recipe) *Image {
	m.Recipe = recipe
	return m
}

// AddStep appends a step to the ordered step graph
func (m *Image) AddStep(step *graph.Step) *Image {
	if m.Steps == nil {
		m.Steps = make(map[string]*graph.Step)
	}
	m.StepOrder = append(m.StepOrder, step.ID)
	m.Steps[step.ID] = step
	if m.CurrFeature == "" {
		m.CurrFeature = step.ID
	}
	return m
}

// AddRule appends a rule to the ordered rule graph
func (m *Image) AddRule(rule *graph.Rule) *Image {
	if m.Rules == nil {
		m.Rules = make(map[string]*graph.Rule)
	}
	m.RuleOrder = append(m.RuleOrder, rule.ID)
	m.Rules[rule.ID] = rule
	return m
}

// Step returns a step by id or nil
func (m *Image) Step(id string) *graph.Step {
	return m.Steps[id]
}

// FirstStep returns the id of the first declared step
func (m *Image) FirstStep() string {
	if len(m.StepOrder) == 0 {
		return ""
	}
	return m.StepOrder[0]
}

// NextStep returns the id following the supplied one in declared order; ok
// is false when id is the last step or unknown.
func (m *Image) NextStep(id string) (string, bool) {
	for i, candidate := range m.StepOrder {
		if candidate == id {
			if i+1 < len(m.StepOrder) {
				return m.StepOrder[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// IsLastStep reports whether id is the final element of the step order
func (m *Image) IsLastStep(id string) bool {
	return len(m.StepOrder) > 0 && m.StepOrder[len(m.StepOrder)-1] == id
}

// Validate performs a best-effort structural validation of the image. The
// returned slice is empty when the image is sound; otherwise it contains
// human-readable error descriptions. It verifies only static properties.
func (m *Image) Validate() []error {
	var issues []error

	if len(m.StepOrder) == 0 {
		issues = append(issues, fmt.Errorf("image has no steps"))
	}

	stepSeen := map[string]bool{}
	for _, id := range m.StepOrder {
		if stepSeen[id] {
			issues = append(issues, fmt.Errorf("duplicate step id %s", id))
		}
		stepSeen[id] = true
		if m.Steps[id] == nil {
			issues = append(issues, fmt.Errorf("step order names unknown step %s", id))
		}
	}
	for id := range m.Steps {
		if !stepSeen[id] {
			issues = append(issues, fmt.Errorf("step %s missing from step order", id))
		}
	}

	ruleSeen := map[string]bool{}
	for _, id := range m.RuleOrder {
		if ruleSeen[id] {
			issues = append(issues, fmt.Errorf("duplicate rule id %s", id))
		}
		ruleSeen[id] = true
		if m.Rules[id] == nil {
			issues = append(issues, fmt.Errorf("rule order names unknown rule %s", id))
		}
		if stepSeen[id] {
			issues = append(issues, fmt.Errorf("rule id %s collides with a step id", id))
		}
	}
	for id := range m.Rules {
		if !ruleSeen[id] {
			issues = append(issues, fmt.Errorf("rule %s missing from rule order", id))
		}
	}

	if m.CurrFeature != "" && !stepSeen[m.CurrFeature] {
		issues = append(issues, fmt.Errorf("current feature %s is not a step", m.CurrFeature))
	}

	return issues
}

// Clone creates a deep copy of the image
func (m *Image) Clone() *Image {
	if m == nil {
		return nil
	}

	clone := &Image{
		Name:        m.Name,
		UUID:        m.UUID,
		Description: m.Description,
		CurrFeature: m.CurrFeature,
	}

	if m.Recipe != nil {
		recipe := *m.Recipe
		clone.Recipe = &recipe
	}

	if m.StepOrder != nil {
		clone.StepOrder = append([]string(nil), m.StepOrder...)
	}
	if m.Steps != nil {
		clone.Steps = make(map[string]*graph.Step, len(m.Steps))
		for k, v := range m.Steps {
			clone.Steps[k] = v.Clone()
		}
	}

	if m.RuleOrder != nil {
		clone.RuleOrder = append([]string(nil), m.RuleOrder...)
	}
	if m.Rules != nil {
		clone.Rules = make(map[string]*graph.Rule, len(m.Rules))
		for k, v := range m.Rules {
			clone.Rules[k] = v.Clone()
		}
	}

	return clone
}
