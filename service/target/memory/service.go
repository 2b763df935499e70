package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/complyflow/complyflow/service/dao"
	"github.com/complyflow/complyflow/service/dao/criteria"
	"github.com/complyflow/complyflow/service/target"
)

// Service is an in-memory target registry.
type Service struct {
	mux      sync.RWMutex
	order    []string
	entities map[string]*target.Entity
}

// Register adds or replaces entities in the registry.
func (s *Service) Register(entities ...*target.Entity) {
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, entity := range entities {
		if entity == nil || entity.ID == "" {
			continue
		}
		if _, ok := s.entities[entity.ID]; !ok {
			s.order = append(s.order, entity.ID)
		}
		s.entities[entity.ID] = entity.Clone()
	}
}

// Lookup returns the entity with the given id.
func (s *Service) Lookup(ctx context.Context, id string) (*target.Entity, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mux.RLock()
	defer s.mux.RUnlock()
	entity, ok := s.entities[id]
	if !ok {
		return nil, fmt.Errorf("failed to lookup target %v, %w", id, dao.ErrNotFound)
	}
	return entity.Clone(), nil
}

// Find returns entities matching the filter in registration order.
func (s *Service) Find(ctx context.Context, filter *criteria.Filter) ([]*target.Entity, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	var ret []*target.Entity
	for _, id := range s.order {
		if !filter.Matches(id) {
			continue
		}
		ret = append(ret, s.entities[id].Clone())
	}
	return ret, nil
}

// New creates a new in-memory target service.
func New() *Service {
	return &Service{entities: make(map[string]*target.Entity)}
}
