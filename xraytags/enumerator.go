package xraytags

import (
	"iter"
	"math/bits"

	"go.opentelemetry.io/otel/attribute"
)

// Enumerator walks the present known keys in ordinal order and then the
// overflow entries in insertion order. It reads the map but never
// changes it. An Enumerator must be discarded if the map is modified.
type Enumerator struct {
	m        *Map
	word     int
	bits     uint64
	overflow int
	key      string
	value    attribute.Value
}

func (m *Map) Enumerate() Enumerator {
	return Enumerator{
		m:    m,
		bits: m.present[0],
	}
}

// Next advances to the next attribute and reports whether there was one.
func (e *Enumerator) Next() bool {
	for e.word < numWords {
		if e.bits != 0 {
			tz := bits.TrailingZeros64(e.bits)
			e.bits &^= 1 << uint(tz)
			ordinal := e.word*bitsPerWord + tz
			e.key = table.keys[ordinal].name
			e.value = e.m.values[ordinal]
			return true
		}
		e.word++
		if e.word < numWords {
			e.bits = e.m.present[e.word]
		}
	}
	if e.overflow < len(e.m.overflow) {
		kv := e.m.overflow[e.overflow]
		e.overflow++
		e.key = string(kv.Key)
		e.value = kv.Value
		return true
	}
	e.key = ""
	e.value = attribute.Value{}
	return false
}

func (e *Enumerator) Key() string            { return e.key }
func (e *Enumerator) Value() attribute.Value { return e.value }
func (e *Enumerator) KeyValue() attribute.KeyValue {
	return attribute.KeyValue{Key: attribute.Key(e.key), Value: e.value}
}

// All is a fresh enumeration each time it is ranged over.
func (m *Map) All() iter.Seq2[string, attribute.Value] {
	return func(yield func(string, attribute.Value) bool) {
		for e := m.Enumerate(); e.Next(); {
			if !yield(e.Key(), e.Value()) {
				return
			}
		}
	}
}
