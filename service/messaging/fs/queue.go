package fs

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/complyflow/complyflow/internal/clock"
	"github.com/complyflow/complyflow/internal/idgen"
	"github.com/complyflow/complyflow/service/messaging"
)

const (
	pendingFolder    = "pending"
	processingFolder = "processing"
	failedFolder     = "failed"
)

// Config for the filesystem queue.
type Config struct {
	// BaseURL is the queue root; pending, processing and failed messages
	// live in subfolders underneath it.
	BaseURL string

	// MaxRetries caps how many times a nacked message is requeued before
	// it is parked in the failed folder.
	MaxRetries int
}

// DefaultConfig returns a standard configuration rooted at baseURL.
func DefaultConfig(baseURL string) Config {
	return Config{BaseURL: baseURL, MaxRetries: 3}
}

type envelope[T any] struct {
	ID        string    `yaml:"id"`
	Data      T         `yaml:"data"`
	Retries   int       `yaml:"retries"`
	Error     string    `yaml:"error,omitempty"`
	CreatedAt time.Time `yaml:"createdAt"`
}

// Message implements messaging.Message for the filesystem queue.
type Message[T any] struct {
	envelope[T]
	queue     *Queue[T]
	name      string
	mu        sync.Mutex
	processed bool
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack removes the message from the processing folder.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	return m.queue.fs.Delete(context.Background(), m.queue.messageURL(processingFolder, m.name))
}

// Nack requeues the message, or parks it in the failed folder once the retry
// budget is exhausted.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.Retries++
	if err != nil {
		m.Error = err.Error()
	}
	ctx := context.Background()
	folder := pendingFolder
	if m.Retries > m.queue.config.MaxRetries {
		folder = failedFolder
	}
	if err := m.queue.upload(ctx, folder, m.name, &m.envelope); err != nil {
		return err
	}
	return m.queue.fs.Delete(ctx, m.queue.messageURL(processingFolder, m.name))
}

// Queue implements a filesystem backed messaging.Queue. Messages survive a
// restart; consumers on the same base URL within one process are serialized.
type Queue[T any] struct {
	fs     afs.Service
	config Config
	mu     sync.Mutex
}

// NewQueue creates a filesystem queue rooted at config.BaseURL.
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("queue base URL was empty")
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultConfig(config.BaseURL).MaxRetries
	}
	config.BaseURL = url.Normalize(config.BaseURL, file.Scheme)
	ret := &Queue[T]{fs: fs, config: config}
	ctx := context.Background()
	for _, folder := range []string{pendingFolder, processingFolder, failedFolder} {
		folderURL := url.Join(config.BaseURL, folder)
		if exists, _ := fs.Exists(ctx, folderURL); !exists {
			if err := fs.Create(ctx, folderURL, file.DefaultDirOsMode, true); err != nil {
				return nil, fmt.Errorf("failed to create queue folder %v: %w", folderURL, err)
			}
		}
	}
	return ret, nil
}

// Publish writes the payload as a pending message.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	env := &envelope[T]{
		ID:        idgen.New(),
		Data:      *t,
		CreatedAt: clock.Now(),
	}
	name := fmt.Sprintf("%020d_%v.yaml", env.CreatedAt.UnixNano(), env.ID)
	return q.upload(ctx, pendingFolder, name, env)
}

// Consume claims the oldest pending message by moving it to the processing
// folder, blocking with a short poll until one arrives or ctx ends.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	for {
		msg, err := q.claim(ctx)
		if err != nil {
			return nil, err
		}
		if msg != nil {
			return msg, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func (q *Queue[T]) claim(ctx context.Context) (*Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	objects, err := q.fs.List(ctx, url.Join(q.config.BaseURL, pendingFolder))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".yaml") {
			continue
		}
		names = append(names, object.Name())
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)
	name := names[0]
	data, err := q.fs.DownloadWithURL(ctx, q.messageURL(pendingFolder, name))
	if err != nil {
		return nil, err
	}
	env := &envelope[T]{}
	if err := yaml.Unmarshal(data, env); err != nil {
		return nil, fmt.Errorf("failed to decode message %v: %w", name, err)
	}
	if err := q.upload(ctx, processingFolder, name, env); err != nil {
		return nil, err
	}
	if err := q.fs.Delete(ctx, q.messageURL(pendingFolder, name)); err != nil {
		return nil, err
	}
	return &Message[T]{envelope: *env, queue: q, name: name}, nil
}

// Size returns the number of pending messages.
func (q *Queue[T]) Size() int {
	objects, err := q.fs.List(context.Background(), url.Join(q.config.BaseURL, pendingFolder))
	if err != nil {
		return 0
	}
	count := 0
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), ".yaml") {
			count++
		}
	}
	return count
}

func (q *Queue[T]) upload(ctx context.Context, folder, name string, env *envelope[T]) error {
	data, err := yaml.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode message %v: %w", env.ID, err)
	}
	return q.fs.Upload(ctx, q.messageURL(folder, name), file.DefaultFileOsMode, bytes.NewReader(data))
}

func (q *Queue[T]) messageURL(folder, name string) string {
	return url.Join(q.config.BaseURL, folder, name)
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
