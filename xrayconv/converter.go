/*
Package xrayconv turns finished OpenTelemetry spans into AWS X-Ray
segment documents.

Each conversion loads the span's attributes into an xraytags.Map. The
segment sections (user, cause, http, sql, aws) each claim the attributes
they render; whatever nobody claimed ends up in metadata, or in
annotations when it is indexed.

	conv := xrayconv.New(xrayconv.WithIndexedAttributes("customer.tier"))
	doc, err := conv.Convert(span)
*/
package xrayconv

import (
	"sync"
	"time"

	"github.com/xoplog/xray-go/xraycause"
	"github.com/xoplog/xray-go/xrayid"
	"github.com/xoplog/xray-go/xrayjson"
	"github.com/xoplog/xray-go/xraytags"

	"github.com/muir/list"
	"github.com/pkg/errors"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Converter struct {
	indexed         []string
	indexedSet      map[string]bool
	indexAll        bool
	ids             xrayid.Generator
	logger          *zap.Logger
	now             func() time.Time
	defaultLanguage string
	cause           *xraycause.Builder
	maps            sync.Pool // *xraytags.Map
	bufferSize      int
}

type Option func(*Converter)

// WithIndexedAttributes names attributes that become annotations instead
// of metadata. Names are matched exactly against span attribute keys and,
// prefixed with "otel.resource.", against resource attributes.
func WithIndexedAttributes(names ...string) Option {
	return func(c *Converter) {
		c.indexed = append(c.indexed, list.Copy(names)...)
	}
}

// WithIndexAllAttributes turns every attribute with a string, bool, or
// numeric value into an annotation.
func WithIndexAllAttributes(b bool) Option {
	return func(c *Converter) {
		c.indexAll = b
	}
}

// WithIDGenerator sets the generator for exception ids.
func WithIDGenerator(g xrayid.Generator) Option {
	return func(c *Converter) {
		c.ids = g
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithNow overrides the clock used to validate trace id age.
func WithNow(now func() time.Time) Option {
	return func(c *Converter) {
		c.now = now
	}
}

// WithDefaultLanguage sets the stack trace dialect for spans whose
// resource has no telemetry.sdk.language.
func WithDefaultLanguage(language string) Option {
	return func(c *Converter) {
		c.defaultLanguage = language
	}
}

// WithBufferSize sets the initial capacity of each document buffer.
func WithBufferSize(n int) Option {
	return func(c *Converter) {
		c.bufferSize = n
	}
}

func New(opts ...Option) *Converter {
	c := &Converter{
		ids:             xrayid.RandomGenerator{},
		logger:          zap.NewNop(),
		now:             time.Now,
		defaultLanguage: xraycause.DefaultLanguage,
		bufferSize:      2048,
	}
	for _, f := range opts {
		f(c)
	}
	c.indexedSet = make(map[string]bool, len(c.indexed))
	for _, name := range c.indexed {
		c.indexedSet[name] = true
	}
	c.cause = xraycause.New(
		xraycause.WithIDGenerator(c.ids),
		xraycause.WithLogger(c.logger),
		xraycause.WithDefaultLanguage(c.defaultLanguage),
	)
	c.maps.New = func() any {
		return xraytags.New()
	}
	return c
}

// Convert renders span as a segment document. The only failure is a
// trace id whose embedded timestamp X-Ray would reject.
func (c *Converter) Convert(span sdktrace.ReadOnlySpan) ([]byte, error) {
	sc := span.SpanContext()
	traceID, err := xrayid.AmazonTraceID(sc.TraceID(), c.now())
	if err != nil {
		return nil, errors.Wrapf(err, "convert span %s", sc.SpanID())
	}

	tags := c.maps.Get().(*xraytags.Map)
	defer func() {
		tags.Clear()
		c.maps.Put(tags)
	}()
	tags.AddAll(span.Attributes())

	res := resourceOf(span)
	// Only the local root carries resource information.
	root := span.SpanKind() == trace.SpanKindServer || !span.Parent().SpanID().IsValid()

	w := xrayjson.NewWriter(make([]byte, 0, c.bufferSize))
	w.StartObject()
	w.StringKV("name", segmentName(span, tags, res))
	w.StringKV("id", sc.SpanID().String())
	w.Float64KV("start_time", epochSeconds(span.StartTime()))
	w.StringKV("trace_id", traceID)
	w.Float64KV("end_time", epochSeconds(span.EndTime()))
	if parent := span.Parent().SpanID(); parent.IsValid() {
		w.StringKV("parent_id", parent.String())
	}
	if !root {
		w.StringKV("type", "subsegment")
	}
	if root {
		if origin := awsOrigin(res); origin != "" {
			w.StringKV("origin", origin)
		}
	}
	if ns := namespace(span, tags); ns != "" {
		w.StringKV("namespace", ns)
	}
	if user, ok := tags.TryGetString(xraytags.KeyEnduserID); ok {
		w.StringKV("user", user)
	}
	tags.Consume()

	c.cause.Write(w, span, tags, res.language)

	writeHTTP(w, span, tags)
	writeSQL(w, tags)
	c.writeAWS(w, tags, res)
	if root {
		writeService(w, res)
	}
	c.writeAttributes(w, span, tags, res, root)
	w.EndObject()

	if ce := c.logger.Check(zap.DebugLevel, "converted span"); ce != nil {
		ce.Write(
			zap.String("trace.id", traceID),
			zap.Stringer("span.id", sc.SpanID()),
			zap.Int("bytes", w.Len()),
		)
	}
	return w.Bytes(), nil
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
