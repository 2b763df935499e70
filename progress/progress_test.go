package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/complyflow/complyflow/model"
	"github.com/complyflow/complyflow/model/graph"
	"github.com/complyflow/complyflow/runtime/instance"
)

func TestOf(t *testing.T) {
	image := model.NewImage("review")
	for _, id := range []string{"a", "b", "c", "d"} {
		image.AddStep(graph.NewStep(graph.Feature{ID: id, Cmd: "ask", Text: id}))
	}
	inst, err := instance.New(image)
	if err != nil {
		t.Fatalf("failed to create instance: %v", err)
	}

	now := time.Now()
	inst.Step("a").Finish(now)
	inst.Step("a").Answer = "yes"
	inst.Step("b").Hidden = true
	inst.CurrFeature = "c"

	snapshot := Of(inst)
	assert.Equal(t, 4, snapshot.TotalSteps)
	assert.Equal(t, 1, snapshot.CompletedSteps)
	assert.Equal(t, 1, snapshot.HiddenSteps)
	assert.Equal(t, 1, snapshot.AnsweredSteps)
	assert.Equal(t, "c", snapshot.CurrFeature)
	assert.Equal(t, 33, snapshot.Percent)
	assert.False(t, snapshot.Complete)

	assert.Nil(t, Of(nil))
}

func TestOf_CompleteInstance(t *testing.T) {
	image := model.NewImage("review")
	image.AddStep(graph.NewStep(graph.Feature{ID: "a", Cmd: "ask", Text: "a"}))
	inst, err := instance.New(image)
	if err != nil {
		t.Fatalf("failed to create instance: %v", err)
	}
	inst.Step("a").Finish(time.Now())
	inst.Finish()

	snapshot := Of(inst)
	assert.True(t, snapshot.Complete)
	assert.Equal(t, 100, snapshot.Percent)
}
