/*
Package xraycause writes the "cause" part of an X-Ray segment along
with the error, throttle, and fault flags.

Exception events become cause records. Their stack traces are parsed by
a per-language Dialect; java traces may produce a chain of records linked
through "Caused by:" lines. Spans that failed without an exception event
get a single synthetic record carrying the status description.
*/
package xraycause

import (
	"strings"

	"github.com/xoplog/xray-go/xrayid"
	"github.com/xoplog/xray-go/xrayjson"
	"github.com/xoplog/xray-go/xraytags"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// Span is the subset of sdktrace.ReadOnlySpan that the Builder reads.
type Span interface {
	Status() sdktrace.Status
	Events() []sdktrace.Event
	Attributes() []attribute.KeyValue
}

var _ Span = sdktrace.ReadOnlySpan(nil)

type Flags struct {
	Error    bool
	Throttle bool
	Fault    bool
}

type Builder struct {
	ids             xrayid.Generator
	logger          *zap.Logger
	defaultLanguage string
}

type Option func(*Builder)

// WithIDGenerator replaces the random generator used for record IDs.
func WithIDGenerator(g xrayid.Generator) Option {
	return func(b *Builder) {
		b.ids = g
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithDefaultLanguage sets the dialect used when Write is given an empty
// language. The default is DefaultLanguage.
func WithDefaultLanguage(language string) Option {
	return func(b *Builder) {
		b.defaultLanguage = language
	}
}

func New(opts ...Option) *Builder {
	b := &Builder{
		ids:             xrayid.RandomGenerator{},
		logger:          zap.NewNop(),
		defaultLanguage: DefaultLanguage,
	}
	for _, f := range opts {
		f(b)
	}
	return b
}

// Write adds "cause" (when there is one) and the three flags to the
// object currently open in w. tags must hold the span's attributes; any
// HTTP status text used as the cause message is consumed from it. language
// is the telemetry.sdk.language of the span's resource.
func (b *Builder) Write(w *xrayjson.Writer, span Span, tags *xraytags.Map, language string) Flags {
	records, flags := b.Build(span, tags, language)
	if len(records) > 0 {
		w.Key("cause")
		w.StartObject()
		w.Key("exceptions")
		w.StartArray()
		WriteRecords(w, records)
		w.EndArray()
		w.EndObject()
	}
	w.BoolKV("error", flags.Error)
	w.BoolKV("throttle", flags.Throttle)
	w.BoolKV("fault", flags.Fault)
	return flags
}

// Build is Write without the output: it returns the records and flags
// that Write would emit and has the same effect on tags.
func (b *Builder) Build(span Span, tags *xraytags.Map, language string) ([]Record, Flags) {
	status := span.Status()
	code := status.Code
	if code == codes.Unset {
		if v, ok := tags.TryGetString(xraytags.KeyStatusCode); ok && v == "ERROR" {
			code = codes.Error
		}
		tags.ResetConsume()
	}

	var records []Record
	if exceptions := exceptionEvents(span.Events()); len(exceptions) > 0 {
		if language == "" {
			language = b.defaultLanguage
		}
		dialect, ok := DialectFor(language)
		if !ok {
			b.logger.Debug("no stack trace parser for language",
				zap.String("language", language))
		}
		for _, event := range exceptions {
			records = append(records, b.exception(event, dialect)...)
		}
	} else if code == codes.Error {
		message := status.Description
		if text, ok := tags.TryGetString(xraytags.KeyHTTPStatusText); ok && message == "" {
			message = text
		}
		tags.Consume()
		if message != "" {
			records = append(records, Record{
				ID:      b.ids.NewID().String(),
				Message: message,
			})
		}
	}

	var flags Flags
	if code == codes.Error {
		if httpCode, ok := httpStatusCode(span.Attributes()); ok && httpCode >= 400 && httpCode <= 499 {
			flags.Error = true
			flags.Throttle = httpCode == 429
		} else {
			flags.Fault = true
		}
		tags.ResetConsume()
	}
	return records, flags
}

func (b *Builder) exception(event sdktrace.Event, dialect Dialect) []Record {
	head := Record{ID: b.ids.NewID().String()}
	var stacktrace string
	for _, kv := range event.Attributes {
		switch string(kv.Key) {
		case xraytags.AttributeExceptionType:
			head.Type = xraytags.AsString(kv.Value)
		case xraytags.AttributeExceptionMessage:
			head.Message = xraytags.AsString(kv.Value)
		case xraytags.AttributeExceptionStacktrace:
			stacktrace = xraytags.AsString(kv.Value)
		}
	}
	if dialect == nil || stacktrace == "" {
		return []Record{head}
	}
	return dialect.Parse(head, stacktrace, b.ids)
}

func exceptionEvents(events []sdktrace.Event) []sdktrace.Event {
	var found []sdktrace.Event
	for _, e := range events {
		if e.Name == xraytags.ExceptionEventName {
			found = append(found, e)
		}
	}
	return found
}

// httpStatusCode reads http.status_code straight from the span so that
// it is found even after the map has consumed it.
func httpStatusCode(attributes []attribute.KeyValue) (int64, bool) {
	for _, kv := range attributes {
		if strings.EqualFold(string(kv.Key), xraytags.AttributeHTTPStatusCode) {
			return xraytags.AsInt64(kv.Value)
		}
	}
	return 0, false
}
