package xraycause

import (
	"github.com/xoplog/xray-go/xrayjson"
)

// Frame is one line of a parsed stack trace. Path is written whenever the
// line named a location (HasPath), even when that location is empty. Label
// is omitted when empty and Line when zero.
type Frame struct {
	Path    string
	HasPath bool
	Label   string
	Line    int
}

// Record is one entry of the "exceptions" array. Cause, when set, is the
// ID of the record that this one was caused by; chains are kept as flat
// slices in the order they are written.
type Record struct {
	ID      string
	Type    string
	Message string
	Stack   []Frame
	Cause   string
}

// WriteRecords writes each record as an exception object. The caller
// provides the surrounding array.
func WriteRecords(w *xrayjson.Writer, records []Record) {
	for _, r := range records {
		w.StartObject()
		w.StringKV("id", r.ID)
		if r.Type != "" {
			w.StringKV("type", r.Type)
		}
		if r.Message != "" {
			w.StringKV("message", r.Message)
		}
		if len(r.Stack) > 0 {
			w.Key("stack")
			w.StartArray()
			for _, f := range r.Stack {
				writeFrame(w, f)
			}
			w.EndArray()
		}
		if r.Cause != "" {
			w.StringKV("cause", r.Cause)
		}
		w.EndObject()
	}
}

func writeFrame(w *xrayjson.Writer, f Frame) {
	w.StartObject()
	if f.HasPath {
		w.StringKV("path", f.Path)
	}
	if f.Label != "" {
		w.StringKV("label", f.Label)
	}
	if f.Line != 0 {
		w.Int64KV("line", int64(f.Line))
	}
	w.EndObject()
}
