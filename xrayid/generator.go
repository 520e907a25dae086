/*
Package xrayid generates and formats the identifiers that appear in
X-Ray segment documents: 96-bit exception ids, 64-bit segment ids, and
the "1-<epoch>-<identifier>" form of trace ids.
*/
package xrayid

import (
	"encoding/binary"
	"sync/atomic"
)

// Generator produces fresh exception ids on demand. Implementations
// must be safe to call from a single goroutine; RandomGenerator is also
// safe for concurrent use.
type Generator interface {
	NewID() HexBytes12
}

// RandomGenerator draws ids from crypto/rand. Collisions are ignored.
type RandomGenerator struct{}

var _ Generator = RandomGenerator{}
var _ Generator = &SequenceGenerator{}

func (RandomGenerator) NewID() HexBytes12 {
	var x HexBytes12
	x.setRandom()
	return x
}

// NewSegmentID returns a random, non-zero 64-bit id.
func NewSegmentID() HexBytes8 {
	var x HexBytes8
	x.setRandom()
	return x
}

// SequenceGenerator hands out predictable ids: 000000000000000000000001,
// 000000000000000000000002, and so on. It exists for tests and for
// reproducible output.
type SequenceGenerator struct {
	next uint64
}

func (g *SequenceGenerator) NewID() HexBytes12 {
	n := atomic.AddUint64(&g.next, 1)
	var b [12]byte
	binary.BigEndian.PutUint64(b[4:], n)
	return NewHexBytes12FromSlice(b[:])
}
