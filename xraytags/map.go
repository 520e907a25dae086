/*
Package xraytags holds span attributes while a span is being converted
into an X-Ray segment.

A Map has a fixed slot for every known attribute name (see the
Attribute* constants) and an ordered overflow list for everything else.
Known slots are tracked with two bitsets: present and consumed.

Reading is two-phase. TryGet marks the key as consumed but leaves it
present. Consume then removes everything that was marked; ResetConsume
drops the marks instead. That lets several writers look at the same
attribute, and lets a writer back out of a tentative read, while the final
"everything else" pass (Enumerate) still sees exactly the attributes
nobody claimed.

	m.AddAll(span.Attributes())
	if v, ok := m.TryGet(xraytags.KeyHTTPStatusText); ok {
		...
	}
	m.Consume()
	for e := m.Enumerate(); e.Next(); {
		... e.Key(), e.Value()
	}

A Map is not safe for concurrent use. Consume must not be called until
every probe of the current pass has finished: attributes marked by an
earlier probe are removed regardless of which writer marked them.
*/
package xraytags

import (
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// Map is usable as a zero value.
type Map struct {
	present  [numWords]uint64
	consumed [numWords]uint64
	values   [numKeys]attribute.Value
	overflow []attribute.KeyValue
}

func New() *Map {
	return &Map{}
}

// AddOrReplace stores value under name. Known names (compared
// case-insensitively) replace whatever value their slot held and become
// present. A consumed mark left on the key by an earlier TryGet in the same
// pass is not cleared, so the next Consume removes the new value too.
// Unknown names are appended to the overflow list unless ignoreOverflow is
// set, in which case they are dropped.
func (m *Map) AddOrReplace(name string, value attribute.Value, ignoreOverflow bool) {
	if k, ok := LookupKey(name); ok {
		m.values[k.ordinal] = value
		m.present[k.word] |= k.mask
		return
	}
	if !ignoreOverflow {
		m.overflow = append(m.overflow, attribute.KeyValue{
			Key:   attribute.Key(name),
			Value: value,
		})
	}
}

// AddAll adds every attribute, keeping unknown names in overflow.
func (m *Map) AddAll(attributes []attribute.KeyValue) {
	for _, kv := range attributes {
		m.AddOrReplace(string(kv.Key), kv.Value, false)
	}
}

// TryGet returns the value of k if it is present and marks it consumed.
// Repeated calls within a pass all succeed.
func (m *Map) TryGet(k Key) (attribute.Value, bool) {
	if m.present[k.word]&k.mask == 0 {
		return attribute.Value{}, false
	}
	m.consumed[k.word] |= k.mask
	return m.values[k.ordinal], true
}

// TryGetString is TryGet with the value rendered as a string.
func (m *Map) TryGetString(k Key) (string, bool) {
	v, ok := m.TryGet(k)
	if !ok {
		return "", false
	}
	return AsString(v), true
}

// TryGetInt64 is TryGet with the value converted to an integer. A value
// that is present but not numeric is left unclaimed and returns false.
func (m *Map) TryGetInt64(k Key) (int64, bool) {
	if m.present[k.word]&k.mask == 0 {
		return 0, false
	}
	i, ok := AsInt64(m.values[k.ordinal])
	if ok {
		m.consumed[k.word] |= k.mask
	}
	return i, ok
}

// Consume removes every key marked by TryGet since the last Consume or
// ResetConsume.
func (m *Map) Consume() {
	for w := range m.present {
		m.present[w] &^= m.consumed[w]
		m.consumed[w] = 0
	}
}

// ResetConsume forgets the marks without removing anything.
func (m *Map) ResetConsume() {
	for w := range m.consumed {
		m.consumed[w] = 0
	}
}

// Clear empties the map so it can be reused for another span.
func (m *Map) Clear() {
	m.present = [numWords]uint64{}
	m.consumed = [numWords]uint64{}
	m.values = [numKeys]attribute.Value{}
	for i := range m.overflow {
		m.overflow[i] = attribute.KeyValue{}
	}
	m.overflow = m.overflow[:0]
}

func (m *Map) IsEmpty() bool {
	for _, bits := range m.present {
		if bits != 0 {
			return false
		}
	}
	return len(m.overflow) == 0
}

// State is a snapshot of which known keys are present. It does not
// include values or overflow.
type State struct {
	m       *Map
	present [numWords]uint64
}

func (m *Map) Snapshot() State {
	return State{
		m:       m,
		present: m.present,
	}
}

// Restore puts the presence bits back the way they were at Snapshot.
func (s State) Restore() {
	s.m.present = s.present
}

// AsString renders any attribute value as a string.
func AsString(v attribute.Value) string {
	if v.Type() == attribute.STRING {
		return v.AsString()
	}
	return v.Emit()
}

// AsInt64 converts numeric values, and strings holding an integer, to
// int64.
func AsInt64(v attribute.Value) (int64, bool) {
	switch v.Type() {
	case attribute.INT64:
		return v.AsInt64(), true
	case attribute.FLOAT64:
		return int64(v.AsFloat64()), true
	case attribute.STRING:
		i, err := strconv.ParseInt(strings.TrimSpace(v.AsString()), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
