package fs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/complyflow/complyflow/model"
	"github.com/complyflow/complyflow/model/expr"
	"github.com/complyflow/complyflow/model/graph"
	"github.com/complyflow/complyflow/service/dao"
)

func testImage() *model.Image {
	image := model.NewImage("intake")
	image.AddStep(graph.NewStep(graph.Feature{ID: "s1", Cmd: "step", Text: "A"}))
	image.AddStep(graph.NewStep(graph.Feature{ID: "b", Cmd: "step", Text: "B"}))
	rule := graph.NewRule(graph.Feature{
		ID: "r1",
		Params: map[string]string{
			"test": "1 == 1",
			"true": "SETANS(b, 'done')",
		},
	})
	image.AddRule(rule)
	return image
}

func TestService_roundTrip(t *testing.T) {
	ctx := context.Background()
	service, err := New(t.TempDir())
	assert.Nil(t, err)

	image := testImage()
	assert.Nil(t, service.Save(ctx, image))
	assert.NotEmpty(t, image.UUID)

	loaded, err := service.Load(ctx, image.UUID)
	assert.Nil(t, err)
	assert.Equal(t, image.Name, loaded.Name)
	assert.EqualValues(t, image.StepOrder, loaded.StepOrder)
	assert.EqualValues(t, image.RuleOrder, loaded.RuleOrder)

	// rule expressions are re-parsed on load
	rule := loaded.Rules["r1"]
	if assert.NotNil(t, rule) {
		assert.EqualValues(t, &expr.Comparison{
			Left:  expr.Operand{Kind: expr.KindNumber, Number: 1},
			Op:    expr.OpEq,
			Right: expr.Operand{Kind: expr.KindNumber, Number: 1},
		}, rule.Test)
		if assert.NotNil(t, rule.Action) {
			assert.Equal(t, "SETANS", rule.Action.Name)
		}
	}

	images, err := service.List(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(images))
}

func TestService_missing(t *testing.T) {
	ctx := context.Background()
	service, err := New(t.TempDir())
	assert.Nil(t, err)

	_, err = service.Load(ctx, "ghost")
	assert.True(t, errors.Is(err, dao.ErrNotFound))
	assert.True(t, errors.Is(service.Delete(ctx, "ghost"), dao.ErrNotFound))
}
