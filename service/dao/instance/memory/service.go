package memory

import (
	"context"
	"sync"

	"github.com/complyflow/complyflow/runtime/instance"
	"github.com/complyflow/complyflow/service/dao"
	"github.com/complyflow/complyflow/service/dao/criteria"
)

// Service implements an in-memory, thread-safe store for workflow instances
// and instance sets. Saves are version-checked: an instance whose
// save-change-number does not match the stored one is rejected with
// dao.ErrConflict, surfacing concurrent advancement instead of losing an
// update.
type Service struct {
	instances map[string]*instance.Instance
	sets      map[string]*instance.Set
	mux       sync.RWMutex
}

var _ dao.Service[string, instance.Instance] = (*Service)(nil)

// Save persists an instance. The whole state - steps, pointer, log - is
// applied in one step under the store lock; a conflict leaves the stored
// instance untouched.
func (s *Service) Save(_ context.Context, inst *instance.Instance) error {
	if inst == nil {
		return dao.ErrNilEntity
	}
	if inst.ID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	existing, ok := s.instances[inst.ID]
	if ok && existing.SCN != inst.SCN {
		return dao.ErrConflict
	}

	saved := inst.Clone()
	saved.SCN++
	s.instances[inst.ID] = saved
	inst.SCN = saved.SCN
	return nil
}

func (s *Service) Load(_ context.Context, id string) (*instance.Instance, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	defer s.mux.RUnlock()

	inst, ok := s.instances[id]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return inst.Clone(), nil
}

func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.instances[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.instances, id)
	return nil
}

func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*instance.Instance, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*instance.Instance, 0, len(s.instances))
	for _, inst := range s.instances {
		if !criteria.FilterByState(inst.State, parameters) {
			continue
		}
		out = append(out, inst.Clone())
	}
	return out, nil
}

// SaveSet persists an instance set.
func (s *Service) SaveSet(_ context.Context, set *instance.Set) error {
	if set == nil {
		return dao.ErrNilEntity
	}
	if set.ID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	copied := *set
	s.sets[set.ID] = &copied
	return nil
}

// LoadSet retrieves an instance set.
func (s *Service) LoadSet(_ context.Context, id string) (*instance.Set, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	defer s.mux.RUnlock()

	set, ok := s.sets[id]
	if !ok {
		return nil, dao.ErrNotFound
	}
	copied := *set
	return &copied, nil
}

// DeleteSet removes a set and cascades to every instance it owns.
func (s *Service) DeleteSet(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.sets[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.sets, id)
	for instanceID, inst := range s.instances {
		if inst.SetID == id {
			delete(s.instances, instanceID)
		}
	}
	return nil
}

func New() *Service {
	return &Service{
		instances: map[string]*instance.Instance{},
		sets:      map[string]*instance.Set{},
	}
}
