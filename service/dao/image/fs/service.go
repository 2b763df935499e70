package fs

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/complyflow/complyflow/internal/idgen"
	"github.com/complyflow/complyflow/model"
	"github.com/complyflow/complyflow/model/expr"
	"github.com/complyflow/complyflow/service/dao"
)

// Service implements a filesystem-backed image store. Images are persisted
// as YAML documents, one file per image uuid.
type Service struct {
	basePath string
	fs       afs.Service
	mu       sync.RWMutex
}

var _ dao.Service[string, model.Image] = (*Service)(nil)

// Save persists an image, assigning a uuid when missing.
func (s *Service) Save(ctx context.Context, image *model.Image) error {
	if image == nil {
		return dao.ErrNilEntity
	}
	if image.Name == "" && image.UUID == "" {
		return dao.ErrInvalidID
	}
	if image.UUID == "" {
		image.UUID = idgen.New()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(image)
	if err != nil {
		return fmt.Errorf("failed to marshal image %s: %w", image.Name, err)
	}

	filePath := s.imagePath(image.UUID)
	if err := s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save image to %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves an image by uuid, restoring each rule's cached test and
// action ASTs from their raw substrings.
func (s *Service) Load(ctx context.Context, id string) (*model.Image, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := s.imagePath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check image %s: %w", id, err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}

	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file %s: %w", filePath, err)
	}
	return decode(data)
}

// LoadByName scans the store for an image with a matching name.
func (s *Service) LoadByName(ctx context.Context, name string) (*model.Image, error) {
	if name == "" {
		return nil, dao.ErrInvalidID
	}
	images, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, image := range images {
		if image.Name == name {
			return image, nil
		}
	}
	return nil, dao.ErrNotFound
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.imagePath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check image %s: %w", id, err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	return s.fs.Delete(ctx, filePath)
}

func (s *Service) List(ctx context.Context, _ ...*dao.Parameter) ([]*model.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list image files: %w", err)
	}

	var images []*model.Image
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".yaml") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			log.Printf("error reading image file %s: %v", object.URL(), err)
			continue
		}
		image, err := decode(data)
		if err != nil {
			log.Printf("error decoding image from %s: %v", object.URL(), err)
			continue
		}
		images = append(images, image)
	}
	return images, nil
}

// decode unmarshals an image document and re-parses rule expressions; a rule
// whose expressions no longer parse keeps nil ASTs and never fires.
func decode(data []byte) (*model.Image, error) {
	image := &model.Image{}
	if err := yaml.Unmarshal(data, image); err != nil {
		return nil, fmt.Errorf("failed to unmarshal image: %w", err)
	}
	for _, id := range image.RuleOrder {
		rule := image.Rules[id]
		if rule == nil {
			continue
		}
		if rule.TestPattern != "" {
			if test, err := expr.ParseComparison(rule.TestPattern); err == nil {
				rule.Test = test
			} else {
				log.Printf("rule %s: unparseable test %q: %v", id, rule.TestPattern, err)
			}
		}
		if rule.TrueAction != "" {
			if action, err := expr.ParseCall(rule.TrueAction); err == nil {
				rule.Action = action
			} else {
				log.Printf("rule %s: unparseable action %q: %v", id, rule.TrueAction, err)
			}
		}
	}
	return image, nil
}

// imagePath returns the file path for an image
func (s *Service) imagePath(id string) string {
	return url.Join(s.basePath, fmt.Sprintf("%s.yaml", id))
}

// New creates a filesystem image store rooted at basePath.
func New(basePath string) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	fs := afs.New()
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	basePath = url.Normalize(basePath, file.Scheme)

	return &Service{
		basePath: basePath,
		fs:       fs,
	}, nil
}
