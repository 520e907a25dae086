package stdoutspans_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xoplog/xray-go/xrayotel/stdoutspans"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func record(t *testing.T, pretty bool) *bytes.Buffer {
	var buffer bytes.Buffer
	opts := []stdouttrace.Option{stdouttrace.WithWriter(&buffer)}
	if pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	require.NoError(t, err, "exporter")
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", "decoder"))),
	)
	ctx := context.Background()
	tracer := tp.Tracer("decoder-test")

	ctx, parent := tracer.Start(ctx, "parent", trace.WithSpanKind(trace.SpanKindServer))
	_, child := tracer.Start(ctx, "child", trace.WithAttributes(
		attribute.String("s", "x"),
		attribute.Int("i", 7),
		attribute.Float64("f", 1.5),
		attribute.Bool("b", true),
		attribute.StringSlice("ss", []string{"a", "b"}),
	))
	child.RecordError(errors.New("boom"))
	child.SetStatus(codes.Error, "child failed")
	child.End()
	parent.End()
	require.NoError(t, tp.Shutdown(context.Background()))
	return &buffer
}

func TestDecode(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		buffer := record(t, pretty)
		stubs, err := stdoutspans.Decode(buffer)
		require.NoError(t, err)
		require.Len(t, stubs, 2)

		child, parent := stubs[0], stubs[1]
		assert.Equal(t, "child", child.Name)
		assert.Equal(t, "parent", parent.Name)
		assert.Equal(t, trace.SpanKindServer, parent.SpanKind)
		assert.Equal(t, trace.SpanKindInternal, child.SpanKind)
		assert.Equal(t, parent.SpanContext.SpanID(), child.Parent.SpanID())
		assert.Equal(t, parent.SpanContext.TraceID(), child.SpanContext.TraceID())
		assert.True(t, child.SpanContext.IsSampled())
		assert.False(t, parent.Parent.IsValid())

		assert.ElementsMatch(t, []attribute.KeyValue{
			attribute.String("s", "x"),
			attribute.Int("i", 7),
			attribute.Float64("f", 1.5),
			attribute.Bool("b", true),
			attribute.StringSlice("ss", []string{"a", "b"}),
		}, child.Attributes)
		assert.Equal(t, codes.Error, child.Status.Code)
		assert.Equal(t, "child failed", child.Status.Description)
		require.Len(t, child.Events, 1)
		assert.Equal(t, "exception", child.Events[0].Name)

		v, ok := child.Resource.Set().Value("service.name")
		require.True(t, ok)
		assert.Equal(t, "decoder", v.AsString())
	}
}

func TestDecodeError(t *testing.T) {
	_, err := stdoutspans.Decode(bytes.NewBufferString(`{"Name":"x","Attributes":[{"Key":"k","Value":{"Type":"MAP","Value":{}}}]}`))
	assert.Error(t, err)

	stubs, err := stdoutspans.Decode(bytes.NewBufferString(""))
	assert.NoError(t, err)
	assert.Empty(t, stubs)
}
