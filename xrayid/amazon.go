package xrayid

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
)

var ErrInvalidTraceID = errors.New("invalid xray trace id")

const (
	traceIDLength    = 35 // fixed length of an X-Ray trace id
	identifierOffset = 11 // offset of the 96-bit identifier within it

	// X-Ray refuses traces older than 30 days; stay a little inside that.
	maxAge  = 28 * 24 * time.Hour
	maxSkew = 5 * time.Minute
)

// AmazonTraceID converts a W3C trace id into the X-Ray form
// 1-<8 hex digit epoch>-<24 hex digit identifier>. The first four bytes of
// the W3C id are taken as the epoch, which is what X-Ray id generators
// produce. Ids whose epoch is outside the window X-Ray accepts are rejected.
func AmazonTraceID(traceID [16]byte, now time.Time) (string, error) {
	epoch := int64(binary.BigEndian.Uint32(traceID[0:4]))
	delta := now.Unix() - epoch
	if delta > int64(maxAge/time.Second) || delta < -int64(maxSkew/time.Second) {
		return "", errors.Wrapf(ErrInvalidTraceID, "epoch %d of %s", epoch, hex.EncodeToString(traceID[:]))
	}
	var content [traceIDLength]byte
	content[0] = '1'
	content[1] = '-'
	hex.Encode(content[2:10], traceID[0:4])
	content[10] = '-'
	id := Identifier(traceID)
	copy(content[identifierOffset:], id.h[:])
	return string(content[:]), nil
}

// Identifier returns the 96-bit portion of a W3C trace id that X-Ray
// treats as the unique identifier.
func Identifier(traceID [16]byte) HexBytes12 {
	return NewHexBytes12FromSlice(traceID[4:16])
}
