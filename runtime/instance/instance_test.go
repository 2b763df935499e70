package instance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/complyflow/complyflow/internal/clock"
	"github.com/complyflow/complyflow/model"
	"github.com/complyflow/complyflow/model/graph"
)

func testImage() *model.Image {
	image := model.NewImage("intake")
	image.UUID = "img-1"
	image.AddStep(graph.NewStep(graph.Feature{ID: "s1", Cmd: "step", Text: "A"}))
	image.AddStep(graph.NewStep(graph.Feature{ID: "s2", Cmd: "step", Text: "B"}))
	return image
}

func TestNew(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return fixed }
	defer func() { clock.NowFunc = time.Now }()

	image := testImage()
	inst, err := New(image, WithTarget("sys-9"), WithName("intake for sys-9"))
	assert.Nil(t, err)
	assert.Equal(t, "s1", inst.CurrFeature)
	assert.Equal(t, StateRunning, inst.State)
	assert.Equal(t, "sys-9", inst.TargetID)
	assert.Equal(t, "intake for sys-9", inst.Name)
	assert.Equal(t, graph.StatusStarted, inst.CurrentStep().Status)
	if assert.Equal(t, 1, len(inst.Log)) {
		assert.Equal(t, SystemActor, inst.Log[0].Who)
		assert.Equal(t, EventCreated, inst.Log[0].Name)
		assert.Equal(t, fixed, inst.Log[0].At)
	}
}

func TestNew_invalidImage(t *testing.T) {
	_, err := New(nil)
	assert.NotNil(t, err)

	empty := model.NewImage("empty")
	_, err = New(empty)
	assert.NotNil(t, err)
}

// Mutating one instance's copy of a step must not affect a sibling instance
// created from the same image, nor the image itself.
func TestInstance_isolation(t *testing.T) {
	image := testImage()

	first, err := New(image)
	assert.Nil(t, err)
	second, err := New(image)
	assert.Nil(t, err)

	first.Steps["s2"].Answer = "done"
	first.Steps["s2"].Finish(time.Now())

	assert.Nil(t, second.Steps["s2"].Answer)
	assert.Equal(t, graph.StatusNotStarted, second.Steps["s2"].Status)
	assert.False(t, image.Steps["s2"].Complete)
	assert.Nil(t, image.Steps["s2"].Answer)
}

func TestInstance_Clone(t *testing.T) {
	image := testImage()
	inst, err := New(image)
	assert.Nil(t, err)

	clone := inst.Clone()
	clone.Steps["s1"].Answer = 42.0
	clone.AppendEvent("alice", EventActionApplied, "set answer")
	clone.CurrFeature = "s2"

	assert.Nil(t, inst.Steps["s1"].Answer)
	assert.Equal(t, 1, len(inst.Log))
	assert.Equal(t, "s1", inst.CurrFeature)
}

func TestInstance_order(t *testing.T) {
	image := testImage()
	inst, err := New(image)
	assert.Nil(t, err)

	next, ok := inst.NextStep()
	assert.True(t, ok)
	assert.Equal(t, "s2", next)
	assert.False(t, inst.OnLastStep())

	inst.CurrFeature = "s2"
	_, ok = inst.NextStep()
	assert.False(t, ok)
	assert.True(t, inst.OnLastStep())
}
