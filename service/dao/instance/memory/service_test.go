package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/complyflow/complyflow/model"
	"github.com/complyflow/complyflow/model/graph"
	"github.com/complyflow/complyflow/runtime/instance"
	"github.com/complyflow/complyflow/service/dao"
)

func newInstance(t *testing.T, options ...instance.Option) *instance.Instance {
	image := model.NewImage("intake")
	image.AddStep(graph.NewStep(graph.Feature{ID: "s1", Cmd: "step"}))
	image.AddStep(graph.NewStep(graph.Feature{ID: "s2", Cmd: "step"}))
	inst, err := instance.New(image, options...)
	if err != nil {
		t.Fatalf("failed to build instance: %v", err)
	}
	return inst
}

func TestService_SaveLoad(t *testing.T) {
	ctx := context.Background()
	service := New()
	inst := newInstance(t)

	assert.Nil(t, service.Save(ctx, inst))
	assert.Equal(t, 1, inst.SCN)

	loaded, err := service.Load(ctx, inst.ID)
	assert.Nil(t, err)
	assert.Equal(t, inst.ID, loaded.ID)
	assert.Equal(t, "s1", loaded.CurrFeature)

	// a loaded copy is private
	loaded.Steps["s1"].Answer = "mutated"
	again, err := service.Load(ctx, inst.ID)
	assert.Nil(t, err)
	assert.Nil(t, again.Steps["s1"].Answer)
}

func TestService_conflict(t *testing.T) {
	ctx := context.Background()
	service := New()
	inst := newInstance(t)
	assert.Nil(t, service.Save(ctx, inst))

	first, err := service.Load(ctx, inst.ID)
	assert.Nil(t, err)
	second, err := service.Load(ctx, inst.ID)
	assert.Nil(t, err)

	first.CurrFeature = "s2"
	assert.Nil(t, service.Save(ctx, first))

	// the second copy now carries a stale SCN
	second.CurrFeature = "s1"
	err = service.Save(ctx, second)
	assert.True(t, errors.Is(err, dao.ErrConflict))

	stored, err := service.Load(ctx, inst.ID)
	assert.Nil(t, err)
	assert.Equal(t, "s2", stored.CurrFeature)
}

func TestService_setCascade(t *testing.T) {
	ctx := context.Background()
	service := New()

	set := instance.NewSet("q3 audit", "img-1")
	assert.Nil(t, service.SaveSet(ctx, set))

	member := newInstance(t, instance.WithSet(set.ID))
	orphan := newInstance(t)
	assert.Nil(t, service.Save(ctx, member))
	assert.Nil(t, service.Save(ctx, orphan))

	assert.Nil(t, service.DeleteSet(ctx, set.ID))

	_, err := service.Load(ctx, member.ID)
	assert.True(t, errors.Is(err, dao.ErrNotFound))
	_, err = service.Load(ctx, orphan.ID)
	assert.Nil(t, err)
}

func TestService_missing(t *testing.T) {
	ctx := context.Background()
	service := New()

	_, err := service.Load(ctx, "ghost")
	assert.True(t, errors.Is(err, dao.ErrNotFound))
	assert.True(t, errors.Is(service.Delete(ctx, "ghost"), dao.ErrNotFound))
	assert.True(t, errors.Is(service.Save(ctx, nil), dao.ErrNilEntity))
}
