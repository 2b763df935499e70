// Package allocator creates workflow instances from compiled images, singly
// or in bulk against a filtered collection of target entities.
package allocator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/complyflow/complyflow/model"
	"github.com/complyflow/complyflow/runtime/instance"
	"github.com/complyflow/complyflow/service/dao"
	"github.com/complyflow/complyflow/service/dao/criteria"
	"github.com/complyflow/complyflow/service/target"
	"github.com/complyflow/complyflow/tracing"
)

// InstanceStore extends the generic instance store with set persistence.
type InstanceStore interface {
	dao.Service[string, instance.Instance]
	SaveSet(ctx context.Context, set *instance.Set) error
	LoadSet(ctx context.Context, id string) (*instance.Set, error)
	DeleteSet(ctx context.Context, id string) error
}

// Service allocates instances from images.
type Service struct {
	images    dao.Service[string, model.Image]
	instances InstanceStore
	targets   target.Service
}

// New creates an allocator. The target service may be nil when bulk
// creation is not used.
func New(images dao.Service[string, model.Image], instances InstanceStore, targets target.Service) *Service {
	return &Service{images: images, instances: instances, targets: targets}
}

// CreateInstance instantiates the image with the given uuid and persists the
// new instance.
func (s *Service) CreateInstance(ctx context.Context, imageUUID string, options ...instance.Option) (*instance.Instance, error) {
	image, err := s.images.Load(ctx, imageUUID)
	if err != nil {
		return nil, err
	}
	inst, err := instance.New(image, options...)
	if err != nil {
		return nil, err
	}
	if err := s.instances.Save(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// CreateSet instantiates the image once per target entity matching the
// filter and groups the instances under a named set. On a failed save the
// set and any instances already created for it are removed.
func (s *Service) CreateSet(ctx context.Context, imageUUID, setName string, filter *criteria.Filter) (*instance.Set, []*instance.Instance, error) {
	ctx, span := tracing.StartSpan(ctx, "allocator.createSet")
	var err error
	defer func() {
		tracing.EndSpan(span, err)
	}()

	if s.targets == nil {
		err = fmt.Errorf("allocator has no target service")
		return nil, nil, err
	}
	image, err := s.images.Load(ctx, imageUUID)
	if err != nil {
		return nil, nil, err
	}
	entities, err := s.targets.Find(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	set := instance.NewSet(setName, image.UUID)
	if err = s.instances.SaveSet(ctx, set); err != nil {
		return nil, nil, err
	}
	span.WithAttributes(map[string]string{
		"set.id":      set.ID,
		"set.targets": strconv.Itoa(len(entities)),
	})

	var created []*instance.Instance
	for _, entity := range entities {
		inst, instErr := instance.New(image,
			instance.WithName(fmt.Sprintf("%v/%v", setName, entity.ID)),
			instance.WithTarget(entity.ID),
			instance.WithSet(set.ID),
		)
		if instErr == nil {
			instErr = s.instances.Save(ctx, inst)
		}
		if instErr != nil {
			_ = s.instances.DeleteSet(ctx, set.ID)
			err = fmt.Errorf("failed to allocate instance for target %v: %w", entity.ID, instErr)
			return nil, nil, err
		}
		created = append(created, inst)
	}
	return set, created, nil
}

// Set returns a previously created set.
func (s *Service) Set(ctx context.Context, id string) (*instance.Set, error) {
	return s.instances.LoadSet(ctx, id)
}

// DeleteSet removes a set and cascades to all its instances.
func (s *Service) DeleteSet(ctx context.Context, id string) error {
	return s.instances.DeleteSet(ctx, id)
}
