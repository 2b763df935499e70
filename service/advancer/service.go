package advancer

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/complyflow/complyflow/internal/clock"
	"github.com/complyflow/complyflow/model/graph"
	"github.com/complyflow/complyflow/runtime/evaluator"
	"github.com/complyflow/complyflow/runtime/instance"
	"github.com/complyflow/complyflow/service/action"
	"github.com/complyflow/complyflow/service/dao"
	"github.com/complyflow/complyflow/service/event"
	"github.com/complyflow/complyflow/tracing"
)

// Advanced is the payload published to subscribers after each successful
// advancement.
type Advanced struct {
	InstanceID  string `json:"instanceID"`
	PrevFeature string `json:"prevFeature"`
	CurrFeature string `json:"currFeature"`
	Complete    bool   `json:"complete"`
}

// Service drives the advancement state machine: marking the current step
// complete, running the instance's rules in declared order and moving the
// current-feature pointer, all as one persisted transition.
type Service struct {
	store    dao.Service[string, instance.Instance]
	registry *action.Registry
	events   *event.Service

	mux   sync.Mutex
	locks map[string]*sync.Mutex
}

// Option customizes the advancer.
type Option func(*Service)

// WithEventService publishes an Advanced event after each transition.
func WithEventService(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// New creates an advancer over the given instance store and action registry.
func New(store dao.Service[string, instance.Instance], registry *action.Registry, options ...Option) *Service {
	ret := &Service{
		store:    store,
		registry: registry,
		locks:    make(map[string]*sync.Mutex),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Advance marks the instance's current step complete on behalf of actor and
// runs one full transition. Rule and action failures are logged and never
// block the transition; a failed save is the only hard error. Advancing a
// complete instance is a no-op.
func (s *Service) Advance(ctx context.Context, id, actor string) (*instance.Instance, error) {
	ctx, span := tracing.StartSpan(ctx, "advancer.advance")
	var err error
	defer func() {
		tracing.EndSpan(span, err)
	}()

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	inst, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	span.WithAttributes(map[string]string{
		"instance.id":  id,
		"instance.scn": strconv.Itoa(inst.SCN),
	})
	if inst.Complete {
		return inst, nil
	}

	prev := inst.CurrFeature
	step := inst.CurrentStep()
	if step == nil {
		err = fmt.Errorf("instance %v current feature %v not found", id, inst.CurrFeature)
		return nil, err
	}
	step.Finish(clock.Now())
	inst.AppendEvent(actor, instance.EventStepCompleted, step.ID)

	for _, ruleID := range inst.RuleOrder {
		rule := inst.Rules[ruleID]
		if rule == nil || rule.TrueAction == "" {
			continue
		}
		s.runRule(ctx, inst, rule, actor)
	}

	if inst.OnLastStep() {
		inst.Finish()
		inst.AppendEvent(actor, instance.EventFinished, "all steps completed")
	} else {
		next, ok := inst.NextStep()
		if !ok {
			err = fmt.Errorf("instance %v has no step after %v", id, inst.CurrFeature)
			return nil, err
		}
		inst.CurrFeature = next
		if nextStep := inst.CurrentStep(); nextStep != nil && nextStep.Status == graph.StatusNotStarted {
			nextStep.Start(clock.Now())
			inst.AppendEvent(actor, instance.EventStepStarted, nextStep.ID)
		}
		inst.AppendEvent(actor, instance.EventAdvanced, fmt.Sprintf("%v -> %v", prev, next))
	}

	if err = s.store.Save(ctx, inst); err != nil {
		return nil, err
	}
	s.publish(ctx, inst, prev, actor)
	return inst, nil
}

// runRule evaluates one rule and dispatches its action when the test holds.
// A panic or failure inside the rule layer never escapes the transition.
func (s *Service) runRule(ctx context.Context, inst *instance.Instance, rule *graph.Rule, actor string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("advancer: rule %v panicked: %v", rule.ID, r)
		}
	}()
	fired, err := evaluator.Evaluate(rule, inst)
	if err != nil {
		log.Printf("advancer: rule %v skipped: %v", rule.ID, err)
		return
	}
	if !fired {
		return
	}
	if rule.Action == nil {
		log.Printf("advancer: rule %v fired but has no usable action", rule.ID)
		return
	}
	if err := s.registry.Dispatch(ctx, inst, rule.Action, actor); err != nil {
		log.Printf("advancer: rule %v action failed: %v", rule.ID, err)
	}
}

func (s *Service) publish(ctx context.Context, inst *instance.Instance, prev, actor string) {
	if s.events == nil {
		return
	}
	publisher, err := event.PublisherOf[Advanced](s.events)
	if err != nil {
		log.Printf("advancer: failed to resolve publisher: %v", err)
		return
	}
	eventType := instance.EventAdvanced
	if inst.Complete {
		eventType = instance.EventFinished
	}
	payload := Advanced{
		InstanceID:  inst.ID,
		PrevFeature: prev,
		CurrFeature: inst.CurrFeature,
		Complete:    inst.Complete,
	}
	if err := publisher.Publish(ctx, event.NewEvent(&event.Context{
		InstanceID: inst.ID,
		FeatureID:  inst.CurrFeature,
		EventType:  eventType,
		Actor:      actor,
	}, payload)); err != nil {
		log.Printf("advancer: failed to publish event: %v", err)
	}
}

func (s *Service) lockFor(id string) *sync.Mutex {
	s.mux.Lock()
	defer s.mux.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}
