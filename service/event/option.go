package event

import (
	"github.com/complyflow/complyflow/service/messaging/fs"
	"github.com/complyflow/complyflow/service/messaging/memory"
)

type Option func(s *Service)

// WithNewFsQueueConfig sets the per-queue filesystem configuration factory.
func WithNewFsQueueConfig(newConfig func(name string) fs.Config) Option {
	return func(s *Service) {
		s.fsNewQueueConfig = newConfig
	}
}

// WithNewMemoryQueueConfig sets the per-queue memory configuration factory.
func WithNewMemoryQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memNewQueueConfig = newConfig
	}
}
