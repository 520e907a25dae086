/*
Package xrayjson is a forward-only JSON writer for segment documents.

The Writer appends to a byte slice and never revisits what it has
written: commas are inserted by looking only at the last byte. Callers
are responsible for balancing StartObject/EndObject and
StartArray/EndArray.

	var w xrayjson.Writer
	w.StartObject()
	w.StringKV("id", id)
	w.Key("stack")
	w.StartArray()
	...
	w.EndArray()
	w.EndObject()
*/
package xrayjson

import (
	"io"
	"math"
	"strconv"
)

type Writer struct {
	B []byte
}

var _ io.Writer = &Writer{}

// NewWriter returns a Writer that appends to buf[:0].
func NewWriter(buf []byte) *Writer {
	return &Writer{B: buf[:0]}
}

// Comma adds a comma if one is needed based on what is already in the
// Writer: if the previous byte is '[', '{', or ':' then it does not add a
// comma. Otherwise it does.
func (w *Writer) Comma() {
	if len(w.B) == 0 {
		return
	}
	switch w.B[len(w.B)-1] {
	case '[', '{', ':':
		return
	}
	w.B = append(w.B, ',')
}

func (w *Writer) StartObject() {
	w.Comma()
	w.B = append(w.B, '{')
}

func (w *Writer) EndObject() {
	w.B = append(w.B, '}')
}

func (w *Writer) StartArray() {
	w.Comma()
	w.B = append(w.B, '[')
}

func (w *Writer) EndArray() {
	w.B = append(w.B, ']')
}

// Key writes a property name. The next call must write its value.
func (w *Writer) Key(k string) {
	w.Comma()
	w.B = append(w.B, '"')
	w.stringBody(k)
	w.B = append(w.B, '"', ':')
}

func (w *Writer) String(v string) {
	w.Comma()
	w.B = append(w.B, '"')
	w.stringBody(v)
	w.B = append(w.B, '"')
}

func (w *Writer) Bool(v bool) {
	w.Comma()
	w.B = strconv.AppendBool(w.B, v)
}

func (w *Writer) Int64(i int64) {
	w.Comma()
	w.B = strconv.AppendInt(w.B, i, 10)
}

// Float64 writes f with the fewest digits that round-trip. NaN and the
// infinities have no JSON form and are written as null.
func (w *Writer) Float64(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		w.Null()
		return
	}
	w.Comma()
	w.B = strconv.AppendFloat(w.B, f, 'f', -1, 64)
}

func (w *Writer) Null() {
	w.Comma()
	w.B = append(w.B, "null"...)
}

func (w *Writer) StringKV(k string, v string) {
	w.Key(k)
	w.String(v)
}

func (w *Writer) BoolKV(k string, v bool) {
	w.Key(k)
	w.Bool(v)
}

func (w *Writer) Int64KV(k string, v int64) {
	w.Key(k)
	w.Int64(v)
}

func (w *Writer) Float64KV(k string, v float64) {
	w.Key(k)
	w.Float64(v)
}

// Write appends raw bytes without escaping or commas so that the Writer
// can be used as an io.Writer.
func (w *Writer) Write(v []byte) (int, error) {
	w.B = append(w.B, v...)
	return len(v), nil
}

func (w *Writer) Bytes() []byte { return w.B }
func (w *Writer) Len() int      { return len(w.B) }
