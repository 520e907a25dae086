package xrayotel

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/xoplog/xray-go/xrayid"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// IDGenerator makes trace ids that X-Ray accepts: the first four bytes
// are the current Unix time. Install it with sdktrace.WithIDGenerator.
type IDGenerator struct {
	now func() time.Time
}

var _ sdktrace.IDGenerator = IDGenerator{}

func NewIDGenerator() IDGenerator {
	return IDGenerator{now: time.Now}
}

func (g IDGenerator) NewIDs(ctx context.Context) (trace.TraceID, trace.SpanID) {
	var tid trace.TraceID
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	binary.BigEndian.PutUint32(tid[0:4], uint32(now().Unix()))
	copy(tid[4:], xrayid.RandomGenerator{}.NewID().Bytes())
	return tid, g.NewSpanID(ctx, tid)
}

func (g IDGenerator) NewSpanID(_ context.Context, _ trace.TraceID) trace.SpanID {
	return trace.SpanID(xrayid.NewSegmentID().Array())
}
