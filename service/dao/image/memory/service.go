package memory

import (
	"context"
	"sync"

	"github.com/complyflow/complyflow/internal/idgen"
	"github.com/complyflow/complyflow/model"
	"github.com/complyflow/complyflow/service/dao"
)

// Service implements an in-memory, thread-safe store for workflow images.
// Save is create-or-update: an image with a known uuid, or a known name and
// no uuid, replaces the stored content in place.
type Service struct {
	images map[string]*model.Image
	byName map[string]string
	mux    sync.RWMutex
}

var _ dao.Service[string, model.Image] = (*Service)(nil)

func (s *Service) Save(_ context.Context, image *model.Image) error {
	if image == nil {
		return dao.ErrNilEntity
	}
	if image.Name == "" && image.UUID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if image.UUID == "" {
		if known, ok := s.byName[image.Name]; ok {
			image.UUID = known
		} else {
			image.UUID = idgen.New()
		}
	}
	s.images[image.UUID] = image.Clone()
	s.byName[image.Name] = image.UUID
	return nil
}

func (s *Service) Load(_ context.Context, id string) (*model.Image, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	defer s.mux.RUnlock()

	image, ok := s.images[id]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return image.Clone(), nil
}

// LoadByName resolves an image by its unique name.
func (s *Service) LoadByName(_ context.Context, name string) (*model.Image, error) {
	if name == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	defer s.mux.RUnlock()

	id, ok := s.byName[name]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return s.images[id].Clone(), nil
}

// Delete removes an image. Instances created from it keep their own graph
// copies and are deliberately left untouched.
func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	image, ok := s.images[id]
	if !ok {
		return dao.ErrNotFound
	}
	delete(s.byName, image.Name)
	delete(s.images, id)
	return nil
}

func (s *Service) List(_ context.Context, _ ...*dao.Parameter) ([]*model.Image, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*model.Image, 0, len(s.images))
	for _, image := range s.images {
		out = append(out, image.Clone())
	}
	return out, nil
}

func New() *Service {
	return &Service{
		images: map[string]*model.Image{},
		byName: map[string]string{},
	}
}
