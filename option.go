package complyflow

import (
	"github.com/complyflow/complyflow/model"
	"github.com/complyflow/complyflow/service/action"
	"github.com/complyflow/complyflow/service/allocator"
	"github.com/complyflow/complyflow/service/dao"
	"github.com/complyflow/complyflow/service/event"
	"github.com/complyflow/complyflow/service/notify"
	"github.com/complyflow/complyflow/service/target"
	"github.com/complyflow/complyflow/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customizes the engine service.
type Option func(s *Service)

// WithConfig sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithImageDAO sets the image store.
func WithImageDAO(store dao.Service[string, model.Image]) Option {
	return func(s *Service) {
		s.runtime.imageDAO = store
	}
}

// WithInstanceDAO sets the instance store.
func WithInstanceDAO(store allocator.InstanceStore) Option {
	return func(s *Service) {
		s.runtime.instanceDAO = store
	}
}

// WithNotifier sets the notification collaborator used by the NOTIFY action.
func WithNotifier(notifier notify.Service) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// WithTargetService sets the target entity resolver used for bulk
// instantiation.
func WithTargetService(targets target.Service) Option {
	return func(s *Service) {
		s.targets = targets
	}
}

// WithHandlers registers additional action handlers on top of the built-in
// set.
func WithHandlers(handlers ...action.Handler) Option {
	return func(s *Service) {
		s.extraHandlers = append(s.extraHandlers, handlers...)
	}
}

// WithEventService sets the event service engine events are published to.
func WithEventService(events *event.Service) Option {
	return func(s *Service) {
		s.runtime.events = events
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file
// path. Safe to call multiple times; the first successful initialisation
// wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter, enabling integrations beyond the built-in stdout exporter
// (OTLP, Jaeger, Zipkin). Safe to call multiple times; the first successful
// initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
