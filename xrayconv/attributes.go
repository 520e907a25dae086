package xrayconv

import (
	"github.com/xoplog/xray-go/xrayjson"
	"github.com/xoplog/xray-go/xraytags"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const resourcePrefix = "otel.resource."

// writeAttributes writes annotations and metadata from everything still
// present in tags. For a root segment the resource attributes are added
// under the "otel.resource." prefix.
func (c *Converter) writeAttributes(w *xrayjson.Writer, span sdktrace.ReadOnlySpan, tags *xraytags.Map, res resourceInfo, root bool) {
	var extra map[string]bool
	if v, ok := tags.TryGet(xraytags.KeyXRayAnnotations); ok {
		if v.Type() == attribute.STRINGSLICE {
			names := v.AsStringSlice()
			extra = make(map[string]bool, len(names))
			for _, name := range names {
				extra[name] = true
			}
		}
	}
	tags.Consume()
	indexed := func(key string) bool {
		return c.indexAll || c.indexedSet[key] || extra[key]
	}

	var annotations, metadata []attribute.KeyValue
	var annotated map[string]bool
	if len(c.indexed) > 0 && !c.indexAll {
		annotated = make(map[string]bool, len(c.indexed))
	}
	for key, value := range tags.All() {
		if indexed(key) && isAnnotationValue(value) {
			annotations = append(annotations, attribute.KeyValue{Key: attribute.Key(key), Value: value})
			if annotated != nil {
				annotated[key] = true
			}
			continue
		}
		if !c.indexAll {
			metadata = append(metadata, attribute.KeyValue{Key: attribute.Key(key), Value: value})
		}
	}
	// Explicitly indexed attributes are annotated even if an earlier
	// section already rendered them.
	for _, name := range c.indexed {
		if annotated == nil || annotated[name] {
			continue
		}
		for _, kv := range span.Attributes() {
			if string(kv.Key) == name && isAnnotationValue(kv.Value) {
				annotations = append(annotations, kv)
				annotated[name] = true
				break
			}
		}
	}
	if root {
		for iter := res.attributes.Iter(); iter.Next(); {
			kv := iter.Attribute()
			key := resourcePrefix + string(kv.Key)
			if indexed(key) && isAnnotationValue(kv.Value) {
				annotations = append(annotations, attribute.KeyValue{Key: attribute.Key(key), Value: kv.Value})
			} else {
				metadata = append(metadata, attribute.KeyValue{Key: attribute.Key(key), Value: kv.Value})
			}
		}
	}

	if len(annotations) > 0 {
		w.Key("annotations")
		w.StartObject()
		for _, kv := range annotations {
			w.AttributeKV(fixAnnotationKey(string(kv.Key)), kv.Value)
		}
		w.EndObject()
	}
	if len(metadata) > 0 {
		w.Key("metadata")
		w.StartObject()
		w.Key("default")
		w.StartObject()
		for _, kv := range metadata {
			w.AttributeKV(string(kv.Key), kv.Value)
		}
		w.EndObject()
		w.EndObject()
	}
}

func isAnnotationValue(v attribute.Value) bool {
	switch v.Type() {
	case attribute.STRING, attribute.BOOL, attribute.INT64, attribute.FLOAT64:
		return true
	}
	return false
}
