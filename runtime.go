package complyflow

import (
	"context"

	"github.com/complyflow/complyflow/model"
	"github.com/complyflow/complyflow/progress"
	"github.com/complyflow/complyflow/runtime/instance"
	"github.com/complyflow/complyflow/service/advancer"
	"github.com/complyflow/complyflow/service/allocator"
	"github.com/complyflow/complyflow/service/assembler"
	"github.com/complyflow/complyflow/service/dao"
	"github.com/complyflow/complyflow/service/dao/criteria"
	"github.com/complyflow/complyflow/service/event"
)

// Runtime is the operational surface of a wired engine: compiling recipes,
// allocating instances and advancing them.
type Runtime struct {
	imageDAO    dao.Service[string, model.Image]
	instanceDAO allocator.InstanceStore
	assembler   *assembler.Service
	allocator   *allocator.Service
	advancer    *advancer.Service
	events      *event.Service
}

// CompileRecipe compiles recipe text into a persisted image. Recompiling a
// recipe under the same name updates the existing image in place.
func (r *Runtime) CompileRecipe(ctx context.Context, name, text string) (*model.Image, error) {
	return r.assembler.Compile(ctx, model.NewRecipe(name, text))
}

// RecipeText renders a best-effort recipe text from a compiled image.
func (r *Runtime) RecipeText(image *model.Image) string {
	return r.assembler.Text(image)
}

// Image returns a compiled image by uuid.
func (r *Runtime) Image(ctx context.Context, uuid string) (*model.Image, error) {
	return r.imageDAO.Load(ctx, uuid)
}

// Images lists compiled images.
func (r *Runtime) Images(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Image, error) {
	return r.imageDAO.List(ctx, parameters...)
}

// NewInstance instantiates an image.
func (r *Runtime) NewInstance(ctx context.Context, imageUUID string, options ...instance.Option) (*instance.Instance, error) {
	return r.allocator.CreateInstance(ctx, imageUUID, options...)
}

// NewInstanceSet instantiates an image once per matching target entity and
// groups the instances under a named set.
func (r *Runtime) NewInstanceSet(ctx context.Context, imageUUID, setName string, filter *criteria.Filter) (*instance.Set, []*instance.Instance, error) {
	return r.allocator.CreateSet(ctx, imageUUID, setName, filter)
}

// DeleteInstanceSet removes a set and all its instances.
func (r *Runtime) DeleteInstanceSet(ctx context.Context, id string) error {
	return r.allocator.DeleteSet(ctx, id)
}

// Advance marks an instance's current step complete on behalf of actor and
// runs one advancement transition.
func (r *Runtime) Advance(ctx context.Context, instanceID, actor string) (*instance.Instance, error) {
	return r.advancer.Advance(ctx, instanceID, actor)
}

// Instance returns an instance by id.
func (r *Runtime) Instance(ctx context.Context, id string) (*instance.Instance, error) {
	return r.instanceDAO.Load(ctx, id)
}

// Instances lists instances.
func (r *Runtime) Instances(ctx context.Context, parameters ...*dao.Parameter) ([]*instance.Instance, error) {
	return r.instanceDAO.List(ctx, parameters...)
}

// Progress returns an aggregated completion snapshot for an instance.
func (r *Runtime) Progress(ctx context.Context, instanceID string) (*progress.Progress, error) {
	inst, err := r.instanceDAO.Load(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	return progress.Of(inst), nil
}

// Events exposes the event service so callers can subscribe to engine
// events, e.g. advancer.Advanced.
func (r *Runtime) Events() *event.Service {
	return r.events
}
