package memory

import (
	"context"
	"sync"
	"time"

	"github.com/complyflow/complyflow/internal/clock"
)

// Notice is a single delivered notification.
type Notice struct {
	Actor      string
	Message    string
	Recipients []string
	At         time.Time
}

// Service is an in-memory notification sink, primarily for tests and
// local runs.
type Service struct {
	mux     sync.Mutex
	notices []Notice
}

// Send records the notice.
func (s *Service) Send(ctx context.Context, actor, message string, recipients []string) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.notices = append(s.notices, Notice{
		Actor:      actor,
		Message:    message,
		Recipients: append([]string{}, recipients...),
		At:         clock.Now(),
	})
	return nil
}

// Notices returns a copy of all recorded notices.
func (s *Service) Notices() []Notice {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]Notice{}, s.notices...)
}

// New creates a new in-memory notification service.
func New() *Service {
	return &Service{}
}
