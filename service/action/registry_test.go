package action_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/complyflow/complyflow/model"
	"github.com/complyflow/complyflow/model/expr"
	"github.com/complyflow/complyflow/model/graph"
	"github.com/complyflow/complyflow/policy"
	"github.com/complyflow/complyflow/runtime/instance"
	"github.com/complyflow/complyflow/service/action"
	anotify "github.com/complyflow/complyflow/service/action/notify"
	"github.com/complyflow/complyflow/service/action/setanswer"
	"github.com/complyflow/complyflow/service/action/visibility"
	nmemory "github.com/complyflow/complyflow/service/notify/memory"
)

func newTestInstance(t *testing.T) *instance.Instance {
	image := model.NewImage("audit")
	image.AddStep(graph.NewStep(graph.Feature{ID: "q1", Cmd: "ask", Text: "Host name?"}))
	image.AddStep(graph.NewStep(graph.Feature{ID: "q2", Cmd: "ask", Text: "Patched?"}))
	inst, err := instance.New(image)
	if err != nil {
		t.Fatalf("failed to create instance: %v", err)
	}
	return inst
}

func TestRegistry_Dispatch(t *testing.T) {
	notifier := nmemory.New()
	registry := action.NewRegistry(setanswer.New(), visibility.New(), anotify.New(notifier))
	assert.EqualValues(t, []string{"NOTIFY", "SETANS", "SHOWQ"}, registry.Names())

	var testCases = []struct {
		description string
		call        *expr.Call
		expectErr   bool
		validate    func(t *testing.T, inst *instance.Instance)
	}{
		{
			description: "setans stores a literal answer",
			call: &expr.Call{Name: "SETANS", Args: []expr.Operand{
				{Kind: expr.KindRef, Ref: "q2"},
				{Kind: expr.KindString, Text: "done"},
			}},
			validate: func(t *testing.T, inst *instance.Instance) {
				assert.Equal(t, "done", inst.Step("q2").Answer)
				events := inst.Log
				assert.Equal(t, instance.EventActionApplied, events[len(events)-1].Name)
			},
		},
		{
			description: "setans copies an answered step by reference",
			call: &expr.Call{Name: "SETANS", Args: []expr.Operand{
				{Kind: expr.KindRef, Ref: "q2"},
				{Kind: expr.KindRef, Ref: "q1"},
			}},
			validate: func(t *testing.T, inst *instance.Instance) {
				assert.Equal(t, "web-01", inst.Step("q2").Answer)
			},
		},
		{
			description: "showq hides a step on false",
			call: &expr.Call{Name: "SHOWQ", Args: []expr.Operand{
				{Kind: expr.KindRef, Ref: "q2"},
				{Kind: expr.KindString, Text: "false"},
			}},
			validate: func(t *testing.T, inst *instance.Instance) {
				assert.True(t, inst.Step("q2").Hidden)
			},
		},
		{
			description: "showq reveals a step on a nonzero number",
			call: &expr.Call{Name: "SHOWQ", Args: []expr.Operand{
				{Kind: expr.KindRef, Ref: "q2"},
				{Kind: expr.KindNumber, Number: 1},
			}},
			validate: func(t *testing.T, inst *instance.Instance) {
				assert.False(t, inst.Step("q2").Hidden)
			},
		},
		{
			description: "unknown action is a logged no-op",
			call: &expr.Call{Name: "FOO", Args: []expr.Operand{
				{Kind: expr.KindRef, Ref: "q1"},
			}},
			validate: func(t *testing.T, inst *instance.Instance) {
				assert.Empty(t, inst.Step("q2").Answer)
			},
		},
		{
			description: "arity mismatch errors and leaves state untouched",
			call: &expr.Call{Name: "SETANS", Args: []expr.Operand{
				{Kind: expr.KindRef, Ref: "q2"},
			}},
			expectErr: true,
		},
		{
			description: "unknown target errors",
			call: &expr.Call{Name: "SETANS", Args: []expr.Operand{
				{Kind: expr.KindRef, Ref: "missing"},
				{Kind: expr.KindNumber, Number: 1},
			}},
			expectErr: true,
		},
		{
			description: "unresolved value reference errors",
			call: &expr.Call{Name: "SETANS", Args: []expr.Operand{
				{Kind: expr.KindRef, Ref: "q2"},
				{Kind: expr.KindRef, Ref: "missing"},
			}},
			expectErr: true,
		},
	}

	for _, testCase := range testCases {
		inst := newTestInstance(t)
		inst.Step("q1").Answer = "web-01"
		err := registry.Dispatch(context.Background(), inst, testCase.call, "auditor")
		if testCase.expectErr {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		if testCase.validate != nil {
			testCase.validate(t, inst)
		}
	}
}

func TestRegistry_DispatchHonorsPolicy(t *testing.T) {
	registry := action.NewRegistry(setanswer.New())
	inst := newTestInstance(t)
	ctx := policy.WithPolicy(context.Background(), &policy.Policy{BlockList: []string{"SETANS"}})

	call := &expr.Call{Name: "SETANS", Args: []expr.Operand{
		{Kind: expr.KindRef, Ref: "q2"},
		{Kind: expr.KindString, Text: "done"},
	}}
	err := registry.Dispatch(ctx, inst, call, "auditor")
	assert.Nil(t, err)
	assert.Nil(t, inst.Step("q2").Answer)

	// without the policy the same call applies
	err = registry.Dispatch(context.Background(), inst, call, "auditor")
	assert.Nil(t, err)
	assert.Equal(t, "done", inst.Step("q2").Answer)
}

func TestRegistry_DispatchNotify(t *testing.T) {
	notifier := nmemory.New()
	registry := action.NewRegistry(anotify.New(notifier))
	inst := newTestInstance(t)

	call := &expr.Call{Name: "NOTIFY", Args: []expr.Operand{
		{Kind: expr.KindString, Text: "secops"},
		{Kind: expr.KindString, Text: "host review complete"},
	}}
	err := registry.Dispatch(context.Background(), inst, call, "auditor")
	assert.Nil(t, err)

	notices := notifier.Notices()
	if assert.Equal(t, 1, len(notices)) {
		assert.Equal(t, "auditor", notices[0].Actor)
		assert.Equal(t, "host review complete", notices[0].Message)
		assert.EqualValues(t, []string{"secops"}, notices[0].Recipients)
	}
}
