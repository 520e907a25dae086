/*
Package xrayotel exports OpenTelemetry spans as AWS X-Ray segment
documents.

	sink := xrayotel.WriteToDaemon(conn)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithIDGenerator(xrayotel.NewIDGenerator()),
		sdktrace.WithBatcher(xrayotel.NewExporter(sink)),
	)

X-Ray rejects trace ids that do not start with a recent timestamp, so
spans must be created with IDGenerator (or an equivalent) to be
exportable.
*/
package xrayotel

import (
	"context"
	"sync"

	"github.com/xoplog/xray-go/xrayconv"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var _ sdktrace.SpanExporter = &Exporter{}

type Exporter struct {
	id           string
	sink         Sink
	converter    *xrayconv.Converter
	convOpts     []xrayconv.Option
	logger       *zap.Logger
	registerer   prometheus.Registerer
	metrics      *metrics
	mu           sync.RWMutex
	stopped      bool
	shutdownOnce sync.Once
}

type Option func(*Exporter)

// WithConverterOptions are passed to xrayconv.New.
func WithConverterOptions(opts ...xrayconv.Option) Option {
	return func(e *Exporter) {
		e.convOpts = append(e.convOpts, opts...)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// WithRegisterer registers the exporter's metrics. Without it the
// metrics are kept but not registered anywhere.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Exporter) {
		e.registerer = reg
	}
}

func NewExporter(sink Sink, opts ...Option) *Exporter {
	e := &Exporter{
		id:     "xray-" + uuid.New().String(),
		sink:   sink,
		logger: zap.NewNop(),
	}
	for _, f := range opts {
		f(e)
	}
	e.logger = e.logger.With(zap.String("exporter", e.id))
	e.converter = xrayconv.New(append(e.convOpts, xrayconv.WithLogger(e.logger))...)
	e.metrics = newMetrics(e.registerer, e.id)
	return e
}

// ID identifies this exporter in logs and in the "exporter" metric label.
func (e *Exporter) ID() string { return e.id }

// ExportSpans converts and writes each span. A span that fails does not
// stop the others; all failures are combined into the returned error.
func (e *Exporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.stopped {
		return nil
	}
	var errs error
	for _, span := range spans {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		doc, err := e.converter.Convert(span)
		if err == nil {
			err = e.sink.WriteSegment(doc)
		}
		if err != nil {
			e.metrics.failed.Inc()
			e.logger.Warn("could not export span",
				zap.String("span.name", span.Name()),
				zap.Stringer("span.id", span.SpanContext().SpanID()),
				zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		e.metrics.converted.Inc()
		e.metrics.size.Observe(float64(len(doc)))
	}
	return errs
}

// Shutdown closes the sink. Later exports are dropped.
func (e *Exporter) Shutdown(ctx context.Context) error {
	var err error
	e.shutdownOnce.Do(func() {
		e.mu.Lock()
		e.stopped = true
		e.mu.Unlock()
		err = e.sink.Close()
		e.logger.Debug("exporter shut down", zap.Error(err))
	})
	if err != nil {
		return err
	}
	return ctx.Err()
}
