package graph

import (
	"time"

	"github.com/complyflow/complyflow/model/expr"
)

// RuleCmd is the command tag that classifies a parsed feature as a rule;
// every other tag yields a step.
const RuleCmd = "rule"

// PlaceholderText is used when no prompt can be derived from a recipe line.
const PlaceholderText = "No prompt provided"

// Step status values.
const (
	StatusNotStarted = "not-started"
	StatusStarted    = "started"
	StatusCompleted  = "completed"
)

type (
	// Feature is one parsed unit of recipe text - the common part of steps
	// and rules. Features are immutable once parsed; re-assembling a recipe
	// replaces them wholesale.
	Feature struct {
		ID     string            `json:"id" yaml:"id"`
		Cmd    string            `json:"cmd,omitempty" yaml:"cmd,omitempty"`
		Text   string            `json:"text,omitempty" yaml:"text,omitempty"`
		Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
		Props  map[string]string `json:"props,omitempty" yaml:"props,omitempty"`
	}

	// Step is a feature with runtime state. Inside an image the runtime
	// fields hold their defaults; instances mutate their own private copy.
	Step struct {
		Feature     `yaml:",inline"`
		Complete    bool        `json:"complete" yaml:"complete"`
		Status      string      `json:"status" yaml:"status"`
		Hidden      bool        `json:"hidden,omitempty" yaml:"hidden,omitempty"`
		Answer      interface{} `json:"answer,omitempty" yaml:"answer,omitempty"`
		StartedAt   *time.Time  `json:"startedAt,omitempty" yaml:"startedAt,omitempty"`
		CompletedAt *time.Time  `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	}

	// Rule is a feature carrying a boolean test expression and an action
	// call. The parsed forms are cached at assembly time; a rule whose test
	// or action failed to parse keeps a nil AST and can never fire.
	Rule struct {
		Feature     `yaml:",inline"`
		TestPattern string           `json:"testPattern,omitempty" yaml:"testPattern,omitempty"`
		TrueAction  string           `json:"trueAction,omitempty" yaml:"trueAction,omitempty"`
		Test        *expr.Comparison `json:"-" yaml:"-"`
		Action      *expr.Call       `json:"-" yaml:"-"`
	}
)

// NewStep creates a step from a parsed feature with runtime fields at their
// defaults.
func NewStep(feature Feature) *Step {
	return &Step{
		Feature: feature,
		Status:  StatusNotStarted,
	}
}

// NewRule creates a rule from a parsed feature, lifting the test and action
// substrings out of the feature params.
func NewRule(feature Feature) *Rule {
	return &Rule{
		Feature:     feature,
		TestPattern: feature.Params["test"],
		TrueAction:  feature.Params["true"],
	}
}

// Start marks the step as the one currently awaiting completion.
func (s *Step) Start(now time.Time) {
	s.Status = StatusStarted
	s.StartedAt = &now
}

// Finish marks the step completed.
func (s *Step) Finish(now time.Time) {
	s.Status = StatusCompleted
	s.Complete = true
	s.CompletedAt = &now
}

// Clone creates a deep copy of the feature.
func (f Feature) Clone() Feature {
	out := f
	if f.Params != nil {
		out.Params = make(map[string]string, len(f.Params))
		for k, v := range f.Params {
			out.Params[k] = v
		}
	}
	if f.Props != nil {
		out.Props = make(map[string]string, len(f.Props))
		for k, v := range f.Props {
			out.Props[k] = v
		}
	}
	return out
}

// Clone creates a deep copy of the step.
func (s *Step) Clone() *Step {
	if s == nil {
		return nil
	}
	out := *s
	out.Feature = s.Feature.Clone()
	if s.StartedAt != nil {
		t := *s.StartedAt
		out.StartedAt = &t
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

// Clone creates a deep copy of the rule. The cached ASTs are immutable after
// assembly and are shared.
func (r *Rule) Clone() *Rule {
	if r == nil {
		return nil
	}
	out := *r
	out.Feature = r.Feature.Clone()
	return &out
}
