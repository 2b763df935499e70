package complyflow

import (
	"log"

	"github.com/complyflow/complyflow/model"
	"github.com/complyflow/complyflow/service/action"
	anotify "github.com/complyflow/complyflow/service/action/notify"
	"github.com/complyflow/complyflow/service/action/setanswer"
	"github.com/complyflow/complyflow/service/action/visibility"
	"github.com/complyflow/complyflow/service/advancer"
	"github.com/complyflow/complyflow/service/allocator"
	"github.com/complyflow/complyflow/service/assembler"
	"github.com/complyflow/complyflow/service/dao"
	gfs "github.com/complyflow/complyflow/service/dao/image/fs"
	gmemory "github.com/complyflow/complyflow/service/dao/image/memory"
	imemory "github.com/complyflow/complyflow/service/dao/instance/memory"
	"github.com/complyflow/complyflow/service/event"
	"github.com/complyflow/complyflow/service/messaging"
	"github.com/complyflow/complyflow/service/messaging/fs"
	"github.com/complyflow/complyflow/service/notify"
	nmemory "github.com/complyflow/complyflow/service/notify/memory"
	"github.com/complyflow/complyflow/service/target"
	tmemory "github.com/complyflow/complyflow/service/target/memory"
	"github.com/viant/afs/url"
)

// Service is the engine facade: it wires the assembler, allocator and
// advancer over pluggable stores and collaborators.
type Service struct {
	runtime       *Runtime
	config        *Config
	registry      *action.Registry
	notifier      notify.Service
	targets       target.Service
	extraHandlers []action.Handler
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()

	s.registry = action.NewRegistry(
		setanswer.New(),
		visibility.New(),
		anotify.New(s.notifier),
	)
	for _, handler := range s.extraHandlers {
		s.registry.Register(handler)
	}

	s.runtime.assembler = assembler.New(assembler.WithImageStore(s.runtime.imageDAO))
	s.runtime.allocator = allocator.New(s.runtime.imageDAO, s.runtime.instanceDAO, s.targets)
	s.runtime.advancer = advancer.New(s.runtime.instanceDAO, s.registry,
		advancer.WithEventService(s.runtime.events))
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		log.Printf("complyflow: invalid config, falling back to defaults: %v", err)
		s.config = DefaultConfig()
	}
	if s.runtime.imageDAO == nil {
		if s.config.Store.BaseURL != "" {
			imageDAO, err := gfs.New(s.config.Store.BaseURL)
			if err != nil {
				log.Printf("complyflow: failed to open image store at %v, using memory: %v", s.config.Store.BaseURL, err)
			} else {
				s.runtime.imageDAO = imageDAO
			}
		}
		if s.runtime.imageDAO == nil {
			s.runtime.imageDAO = gmemory.New()
		}
	}
	if s.runtime.instanceDAO == nil {
		s.runtime.instanceDAO = imemory.New()
	}
	if s.notifier == nil {
		s.notifier = nmemory.New()
	}
	if s.targets == nil {
		s.targets = tmemory.New()
	}
	if s.runtime.events == nil {
		vendor := s.config.Messaging.Vendor
		if vendor == "" {
			vendor = messaging.VendorMemory
		}
		var opts []event.Option
		if vendor == messaging.VendorFS {
			baseURL := s.config.Messaging.QueueBaseURL
			opts = append(opts, event.WithNewFsQueueConfig(func(name string) fs.Config {
				return fs.DefaultConfig(url.Join(baseURL, name))
			}))
		}
		events, err := event.New(vendor, opts...)
		if err != nil {
			log.Printf("complyflow: failed to create event service: %v", err)
		} else {
			s.runtime.events = events
		}
	}
}

// Registry exposes the action registry, e.g. to enumerate registered names.
func (s *Service) Registry() *action.Registry {
	return s.registry
}

// Notifier returns the notification collaborator in use.
func (s *Service) Notifier() notify.Service {
	return s.notifier
}

// Runtime returns the runtime facade.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// ImageDAO returns the image store in use.
func (s *Service) ImageDAO() dao.Service[string, model.Image] {
	return s.runtime.imageDAO
}

// New creates the engine service.
func New(options ...Option) *Service {
	ret := &Service{runtime: &Runtime{}}
	ret.init(options)
	return ret
}
