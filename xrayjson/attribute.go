package xrayjson

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute writes an OTel attribute value as the closest JSON type.
// Slices become arrays; INVALID becomes null.
func (w *Writer) Attribute(v attribute.Value) {
	switch v.Type() {
	case attribute.BOOL:
		w.Bool(v.AsBool())
	case attribute.INT64:
		w.Int64(v.AsInt64())
	case attribute.FLOAT64:
		w.Float64(v.AsFloat64())
	case attribute.STRING:
		w.String(v.AsString())
	case attribute.BOOLSLICE:
		w.StartArray()
		for _, b := range v.AsBoolSlice() {
			w.Bool(b)
		}
		w.EndArray()
	case attribute.INT64SLICE:
		w.StartArray()
		for _, i := range v.AsInt64Slice() {
			w.Int64(i)
		}
		w.EndArray()
	case attribute.FLOAT64SLICE:
		w.StartArray()
		for _, f := range v.AsFloat64Slice() {
			w.Float64(f)
		}
		w.EndArray()
	case attribute.STRINGSLICE:
		w.StartArray()
		for _, s := range v.AsStringSlice() {
			w.String(s)
		}
		w.EndArray()
	default:
		w.Null()
	}
}

func (w *Writer) AttributeKV(k string, v attribute.Value) {
	w.Key(k)
	w.Attribute(v)
}
