package xrayid

import (
	"crypto/rand"
	"encoding/hex"
)

// HexBytes12 is a 96-bit identifier that keeps its lowercase hex form
// alongside the raw bytes. Exception ids and the identifier portion of
// an X-Ray trace id are this size.
type HexBytes12 struct {
	b [12]byte
	h [12 * 2]byte
}

// HexBytes8 is a 64-bit identifier. Segment ids and OTel span ids are
// this size.
type HexBytes8 struct {
	b [8]byte
	h [8 * 2]byte
}

var (
	zeroHexBytes12b = [12]byte{}
	zeroHexBytes8b  = [8]byte{}
)

func NewHexBytes12FromSlice(b []byte) HexBytes12 {
	var x HexBytes12
	setBytes(x.b[:], b)
	hex.Encode(x.h[:], x.b[:])
	return x
}

func (x HexBytes12) IsZero() bool  { return x.b == zeroHexBytes12b }
func (x HexBytes12) Bytes() []byte { return x.b[:] }
func (x HexBytes8) IsZero() bool   { return x.b == zeroHexBytes8b }

// String returns the hex form. The zero value renders as all zeros.
func (x HexBytes12) String() string {
	if x.h[0] == 0 {
		return string(hexZero(x.b[:]))
	}
	return string(x.h[:])
}

func (x HexBytes8) String() string {
	if x.h[0] == 0 {
		return string(hexZero(x.b[:]))
	}
	return string(x.h[:])
}

// Array returns the underlying byte array.
func (x HexBytes8) Array() [8]byte { return x.b }

func (x *HexBytes12) setRandom() {
	for {
		_, _ = rand.Read(x.b[:])
		if x.b != zeroHexBytes12b {
			break
		}
	}
	hex.Encode(x.h[:], x.b[:])
}

func (x *HexBytes8) setRandom() {
	for {
		_, _ = rand.Read(x.b[:])
		if x.b != zeroHexBytes8b {
			break
		}
	}
	hex.Encode(x.h[:], x.b[:])
}

func hexZero(b []byte) []byte {
	h := make([]byte, len(b)*2)
	hex.Encode(h, b)
	return h
}

func setBytes(dest []byte, b []byte) {
	n := copy(dest, b)
	for i := n; i < len(dest); i++ {
		dest[i] = 0
	}
}
