/*
Package stdoutspans reads the JSON written by the stdouttrace exporter
back into tracetest.SpanStubs so that recorded spans can be replayed
through the X-Ray converter.
*/
package stdoutspans

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/instrumentation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// spanStub mirrors tracetest.SpanStub, which cannot be unmarshaled
// directly because attribute.Value has no UnmarshalJSON.
type spanStub struct {
	Name                   string
	SpanContext            spanContext
	Parent                 spanContext
	SpanKind               oteltrace.SpanKind
	StartTime              time.Time
	EndTime                time.Time
	Attributes             []keyValue
	Events                 []event
	Links                  []link
	Status                 sdktrace.Status
	DroppedAttributes      int
	DroppedEvents          int
	DroppedLinks           int
	ChildSpanCount         int
	Resource               []keyValue
	InstrumentationLibrary instrumentation.Library
}

type event struct {
	Name                  string
	Attributes            []keyValue
	DroppedAttributeCount int
	Time                  time.Time
}

type link struct {
	SpanContext           spanContext
	Attributes            []keyValue
	DroppedAttributeCount int
}

type spanContext struct {
	TraceID    string
	SpanID     string
	TraceFlags string
	TraceState string
	Remote     bool
}

func (sc spanContext) decode() (oteltrace.SpanContext, error) {
	var cfg oteltrace.SpanContextConfig
	if err := decodeHex(cfg.TraceID[:], sc.TraceID); err != nil {
		return oteltrace.SpanContext{}, errors.Wrap(err, "trace id")
	}
	if err := decodeHex(cfg.SpanID[:], sc.SpanID); err != nil {
		return oteltrace.SpanContext{}, errors.Wrap(err, "span id")
	}
	var flags [1]byte
	if err := decodeHex(flags[:], sc.TraceFlags); err != nil {
		return oteltrace.SpanContext{}, errors.Wrap(err, "trace flags")
	}
	cfg.TraceFlags = oteltrace.TraceFlags(flags[0])
	if sc.TraceState != "" {
		ts, err := oteltrace.ParseTraceState(sc.TraceState)
		if err != nil {
			return oteltrace.SpanContext{}, errors.Wrap(err, "trace state")
		}
		cfg.TraceState = ts
	}
	cfg.Remote = sc.Remote
	return oteltrace.NewSpanContext(cfg), nil
}

// decodeHex leaves dst zeroed for an empty string.
func decodeHex(dst []byte, h string) error {
	if h == "" {
		return nil
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return err
	}
	if len(b) != len(dst) {
		return errors.Errorf("wrong length %d, want %d", len(b), len(dst))
	}
	copy(dst, b)
	return nil
}

type keyValue struct {
	Key   string
	Value struct {
		Type  string
		Value json.RawMessage
	}
}

func (kv keyValue) decode() (attribute.KeyValue, error) {
	k := attribute.Key(kv.Key)
	raw := kv.Value.Value
	var err error
	switch kv.Value.Type {
	case "BOOL":
		var v bool
		err = json.Unmarshal(raw, &v)
		return k.Bool(v), err
	case "INT64":
		var v int64
		err = json.Unmarshal(raw, &v)
		return k.Int64(v), err
	case "FLOAT64":
		var v float64
		err = json.Unmarshal(raw, &v)
		return k.Float64(v), err
	case "STRING":
		var v string
		err = json.Unmarshal(raw, &v)
		return k.String(v), err
	case "BOOLSLICE":
		var v []bool
		err = json.Unmarshal(raw, &v)
		return k.BoolSlice(v), err
	case "INT64SLICE":
		var v []int64
		err = json.Unmarshal(raw, &v)
		return k.Int64Slice(v), err
	case "FLOAT64SLICE":
		var v []float64
		err = json.Unmarshal(raw, &v)
		return k.Float64Slice(v), err
	case "STRINGSLICE":
		var v []string
		err = json.Unmarshal(raw, &v)
		return k.StringSlice(v), err
	}
	return attribute.KeyValue{}, errors.Errorf("attribute %s: unknown type %q", kv.Key, kv.Value.Type)
}

func decodeAttributes(kvs []keyValue) ([]attribute.KeyValue, error) {
	if len(kvs) == 0 {
		return nil, nil
	}
	out := make([]attribute.KeyValue, len(kvs))
	for i, kv := range kvs {
		var err error
		out[i], err = kv.decode()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s spanStub) decode() (tracetest.SpanStub, error) {
	stub := tracetest.SpanStub{
		Name:                   s.Name,
		SpanKind:               s.SpanKind,
		StartTime:              s.StartTime,
		EndTime:                s.EndTime,
		Status:                 s.Status,
		DroppedAttributes:      s.DroppedAttributes,
		DroppedEvents:          s.DroppedEvents,
		DroppedLinks:           s.DroppedLinks,
		ChildSpanCount:         s.ChildSpanCount,
		InstrumentationLibrary: s.InstrumentationLibrary,
	}
	var err error
	if stub.SpanContext, err = s.SpanContext.decode(); err != nil {
		return stub, err
	}
	if stub.Parent, err = s.Parent.decode(); err != nil {
		return stub, errors.Wrap(err, "parent")
	}
	if stub.Attributes, err = decodeAttributes(s.Attributes); err != nil {
		return stub, err
	}
	for _, e := range s.Events {
		attrs, err := decodeAttributes(e.Attributes)
		if err != nil {
			return stub, errors.Wrapf(err, "event %s", e.Name)
		}
		stub.Events = append(stub.Events, sdktrace.Event{
			Name:                  e.Name,
			Attributes:            attrs,
			DroppedAttributeCount: e.DroppedAttributeCount,
			Time:                  e.Time,
		})
	}
	for _, l := range s.Links {
		sc, err := l.SpanContext.decode()
		if err != nil {
			return stub, errors.Wrap(err, "link")
		}
		attrs, err := decodeAttributes(l.Attributes)
		if err != nil {
			return stub, errors.Wrap(err, "link")
		}
		stub.Links = append(stub.Links, sdktrace.Link{
			SpanContext:           sc,
			Attributes:            attrs,
			DroppedAttributeCount: l.DroppedAttributeCount,
		})
	}
	res, err := decodeAttributes(s.Resource)
	if err != nil {
		return stub, errors.Wrap(err, "resource")
	}
	stub.Resource = resource.NewSchemaless(res...)
	return stub, nil
}

// Decode reads a stream of span objects, pretty printed or not, as
// written by stdouttrace. Each object is one span.
func Decode(r io.Reader) ([]tracetest.SpanStub, error) {
	dec := json.NewDecoder(r)
	var stubs []tracetest.SpanStub
	for {
		var s spanStub
		err := dec.Decode(&s)
		if errors.Is(err, io.EOF) {
			return stubs, nil
		}
		if err != nil {
			return stubs, errors.Wrap(err, "decode span")
		}
		stub, err := s.decode()
		if err != nil {
			return stubs, errors.Wrapf(err, "span %s", s.Name)
		}
		stubs = append(stubs, stub)
	}
}

// Snapshots is Decode followed by tracetest.SpanStubs.Snapshots.
func Snapshots(r io.Reader) ([]sdktrace.ReadOnlySpan, error) {
	stubs, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return tracetest.SpanStubs(stubs).Snapshots(), nil
}
