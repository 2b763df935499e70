package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/complyflow/complyflow/model"
	"github.com/complyflow/complyflow/model/expr"
	"github.com/complyflow/complyflow/model/graph"
	"github.com/complyflow/complyflow/runtime/instance"
)

func testInstance(t *testing.T) *instance.Instance {
	image := model.NewImage("review")
	image.AddStep(graph.NewStep(graph.Feature{ID: "a", Cmd: "step"}))
	image.AddStep(graph.NewStep(graph.Feature{ID: "b", Cmd: "step"}))
	inst, err := instance.New(image)
	if err != nil {
		t.Fatalf("failed to build instance: %v", err)
	}
	inst.Steps["a"].Answer = "yes"
	inst.Steps["b"].Answer = 7.0
	return inst
}

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name        string
		test        string
		expect      bool
		expectedErr bool
	}{
		{name: "literal equality", test: "1 == 1", expect: true},
		{name: "literal inequality", test: "1 == 2", expect: false},
		{name: "ref against string literal", test: "a == 'yes'", expect: true},
		{name: "ref against number", test: "b >= 7", expect: true},
		{name: "ref strictly greater", test: "b > 7", expect: false},
		{name: "string ordering", test: "a < 'zz'", expect: true},
		{name: "not equal refs", test: "a != 'no'", expect: true},
		{name: "unresolved reference", test: "ghost == 1", expectedErr: true},
		{name: "mixed types", test: "a == 1", expectedErr: true},
	}

	inst := testInstance(t)
	for _, tc := range testCases {
		test, err := expr.ParseComparison(tc.test)
		if !assert.Nil(t, err, tc.name) {
			continue
		}
		rule := &graph.Rule{Feature: graph.Feature{ID: "r"}, Test: test}
		actual, err := Evaluate(rule, inst)
		if tc.expectedErr {
			assert.NotNil(t, err, tc.name)
			assert.False(t, actual, tc.name)
			continue
		}
		assert.Nil(t, err, tc.name)
		assert.Equal(t, tc.expect, actual, tc.name)
	}
}

func TestEvaluate_missingAST(t *testing.T) {
	inst := testInstance(t)
	rule := &graph.Rule{Feature: graph.Feature{ID: "r"}, TestPattern: "not ~ parseable"}
	fired, err := Evaluate(rule, inst)
	assert.NotNil(t, err)
	assert.False(t, fired)
}

// A reference to a step that exists but has no recorded answer must fail
// resolution, not compare against an absent value.
func TestResolve_noAnswer(t *testing.T) {
	image := model.NewImage("review")
	image.AddStep(graph.NewStep(graph.Feature{ID: "a", Cmd: "step"}))
	inst, err := instance.New(image)
	assert.Nil(t, err)

	_, err = Resolve(expr.Operand{Kind: expr.KindRef, Ref: "a"}, inst)
	assert.NotNil(t, err)
}
