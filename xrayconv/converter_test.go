package xrayconv_test

import (
	"encoding/binary"
	"encoding/json"
	"testing"
	"time"

	"github.com/xoplog/xray-go/xrayconv"
	"github.com/xoplog/xray-go/xrayid"
	"github.com/xoplog/xray-go/xraytags"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zaptest"
)

var now = time.Unix(1700000000, 0)

func traceID(epoch time.Time) trace.TraceID {
	var id trace.TraceID
	binary.BigEndian.PutUint32(id[0:4], uint32(epoch.Unix()))
	copy(id[4:], []byte{4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
	return id
}

var (
	spanID   = trace.SpanID{0, 0, 0, 0, 0, 0, 0, 2}
	parentID = trace.SpanID{0, 0, 0, 0, 0, 0, 0, 1}
)

func stub(kind trace.SpanKind, withParent bool, attributes ...attribute.KeyValue) tracetest.SpanStub {
	s := tracetest.SpanStub{
		Name: "GET /users/{id}",
		SpanContext: trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID(now.Add(-time.Minute)),
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		}),
		SpanKind:   kind,
		StartTime:  now.Add(-time.Second),
		EndTime:    now.Add(-time.Second / 2),
		Attributes: attributes,
	}
	if withParent {
		s.Parent = trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: s.SpanContext.TraceID(),
			SpanID:  parentID,
		})
	}
	return s
}

func convert(t *testing.T, s tracetest.SpanStub, opts ...xrayconv.Option) map[string]interface{} {
	opts = append([]xrayconv.Option{
		xrayconv.WithNow(func() time.Time { return now }),
		xrayconv.WithIDGenerator(&xrayid.SequenceGenerator{}),
		xrayconv.WithLogger(zaptest.NewLogger(t)),
	}, opts...)
	doc, err := xrayconv.New(opts...).Convert(s.Snapshot())
	require.NoError(t, err)
	t.Log(string(doc))
	var seg map[string]interface{}
	require.NoError(t, json.Unmarshal(doc, &seg))
	return seg
}

func object(t *testing.T, seg map[string]interface{}, path ...string) map[string]interface{} {
	cur := seg
	for _, p := range path {
		next, ok := cur[p].(map[string]interface{})
		require.Truef(t, ok, "%s in %v", p, cur)
		cur = next
	}
	return cur
}

func TestDatabaseURL(t *testing.T) {
	cases := []struct {
		name   string
		system string
		conn   string
		want   string
	}{
		{name: "connection string", system: "mysql", conn: "mysql://db.example.com:3306", want: "mysql://db.example.com:3306/customers"},
		{name: "generated", system: "postgresql", conn: "", want: "localhost/customers"},
		{name: "not sql", system: "redis", conn: "redis://db.example.com:3306"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seg := convert(t, stub(trace.SpanKindClient, true,
				attribute.String(xraytags.AttributeDBSystem, tc.system),
				attribute.String(xraytags.AttributeDBName, "customers"),
				attribute.String(xraytags.AttributeDBStatement, "SELECT * FROM user WHERE user_id = ?"),
				attribute.String(xraytags.AttributeDBUser, "readonly_user"),
				attribute.String(xraytags.AttributeDBConnectionString, tc.conn),
				attribute.String(xraytags.AttributeNetPeerName, "db.example.com"),
				attribute.String(xraytags.AttributeNetPeerPort, "3306"),
			))
			if tc.want == "" {
				assert.NotContains(t, seg, "sql")
				md := object(t, seg, "metadata", "default")
				assert.Equal(t, "redis", md[xraytags.AttributeDBSystem])
				return
			}
			sql := object(t, seg, "sql")
			assert.Equal(t, tc.want, sql["url"])
			assert.Equal(t, tc.system, sql["database_type"])
			assert.Equal(t, "readonly_user", sql["user"])
			assert.Equal(t, "SELECT * FROM user WHERE user_id = ?", sql["sanitized_query"])
			md := object(t, seg, "metadata", "default")
			assert.NotContains(t, md, xraytags.AttributeDBStatement)
			assert.Equal(t, "3306", md[xraytags.AttributeNetPeerPort])
		})
	}
}

func TestServerSegment(t *testing.T) {
	s := stub(trace.SpanKindServer, true,
		attribute.String(xraytags.AttributeHTTPMethod, "GET"),
		attribute.String(xraytags.AttributeHTTPScheme, "https"),
		attribute.String(xraytags.AttributeHTTPHost, "api.example.com"),
		attribute.String(xraytags.AttributeHTTPTarget, "/users/7"),
		attribute.String(xraytags.AttributeHTTPClientIP, "10.0.0.9"),
		attribute.String(xraytags.AttributeHTTPUserAgent, "curl/8"),
		attribute.Int(xraytags.AttributeHTTPStatusCode, 200),
		attribute.Int(xraytags.AttributeHTTPResponseContentLength, 512),
		attribute.String(xraytags.AttributeEnduserID, "user-7"),
		attribute.String("app.shard", "b"),
	)
	s.Resource = resource.NewSchemaless(
		attribute.String(xraytags.ResourceServiceName, "users"),
		attribute.String(xraytags.ResourceServiceVersion, "2.4.1"),
		attribute.String(xraytags.ResourceTelemetrySDKLang, "go"),
		attribute.String(xraytags.ResourceTelemetrySDKVersion, "v1.10"),
		attribute.String(xraytags.ResourceCloudProvider, "aws"),
		attribute.String(xraytags.ResourceCloudPlatform, "aws_eks"),
	)
	seg := convert(t, s)

	assert.Equal(t, "users", seg["name"])
	assert.Equal(t, "0000000000000002", seg["id"])
	assert.Equal(t, "0000000000000001", seg["parent_id"])
	assert.Equal(t, "1-6553f0c4-0405060708090a0b0c0d0e0f", seg["trace_id"])
	assert.InDelta(t, 1699999999.0, seg["start_time"], 0.001)
	assert.InDelta(t, 1699999999.5, seg["end_time"], 0.001)
	assert.NotContains(t, seg, "type")
	assert.NotContains(t, seg, "namespace")
	assert.Equal(t, xrayconv.OriginEKS, seg["origin"])
	assert.Equal(t, "user-7", seg["user"])
	assert.Equal(t, false, seg["error"])
	assert.Equal(t, false, seg["fault"])
	assert.Equal(t, false, seg["throttle"])
	assert.NotContains(t, seg, "cause")

	req := object(t, seg, "http", "request")
	assert.Equal(t, "GET", req["method"])
	assert.Equal(t, "https://api.example.com/users/7", req["url"])
	assert.Equal(t, "10.0.0.9", req["client_ip"])
	assert.Equal(t, "curl/8", req["user_agent"])
	assert.Equal(t, true, req["x_forwarded_for"])
	resp := object(t, seg, "http", "response")
	assert.Equal(t, 200.0, resp["status"])
	assert.Equal(t, 512.0, resp["content_length"])

	xray := object(t, seg, "aws", "xray")
	assert.Equal(t, "opentelemetry for go", xray["sdk"])
	assert.Equal(t, "1.10.0", xray["sdk_version"])
	assert.Equal(t, "2.4.1", object(t, seg, "service")["version"])

	md := object(t, seg, "metadata", "default")
	assert.Equal(t, "b", md["app.shard"])
	assert.Equal(t, "users", md["otel.resource.service.name"])
	for _, gone := range []string{
		xraytags.AttributeHTTPMethod, xraytags.AttributeHTTPHost, xraytags.AttributeHTTPStatusCode,
		xraytags.AttributeEnduserID,
	} {
		assert.NotContains(t, md, gone)
	}
}

func TestClientSubsegment(t *testing.T) {
	s := stub(trace.SpanKindClient, true,
		attribute.String(xraytags.AttributePeerService, "billing"),
		attribute.String(xraytags.AttributeHTTPURL, "http://billing/charge"),
	)
	s.Resource = resource.NewSchemaless(attribute.String(xraytags.ResourceServiceName, "users"))
	seg := convert(t, s)
	assert.Equal(t, "billing", seg["name"])
	assert.Equal(t, "subsegment", seg["type"])
	assert.Equal(t, "remote", seg["namespace"])
	assert.NotContains(t, seg, "origin")
	assert.Equal(t, "http://billing/charge", object(t, seg, "http", "request")["url"])
	md := object(t, seg, "metadata", "default")
	assert.Equal(t, "billing", md[xraytags.AttributePeerService], "naming does not consume")
	assert.NotContains(t, md, "otel.resource.service.name", "resource is only stored on the root")
}

func TestAWSCall(t *testing.T) {
	seg := convert(t, stub(trace.SpanKindClient, true,
		attribute.String(xraytags.AttributeRPCSystem, "aws-api"),
		attribute.String(xraytags.AttributeAWSService, "DynamoDB"),
		attribute.String(xraytags.AttributeAWSOperation, "GetItem"),
		attribute.String(xraytags.AttributeAWSRegion, "us-west-2"),
		attribute.String(xraytags.AttributeAWSRequestID2, "req-1"),
		attribute.String(xraytags.AttributeAWSTableName2, "orders"),
	))
	assert.Equal(t, "DynamoDB", seg["name"])
	assert.Equal(t, "aws", seg["namespace"])
	aws := object(t, seg, "aws")
	assert.Equal(t, "GetItem", aws["operation"])
	assert.Equal(t, "us-west-2", aws["region"])
	assert.Equal(t, "req-1", aws["request_id"])
	assert.Equal(t, "orders", aws["table_name"])
	assert.NotContains(t, aws, "xray")
}

func TestSegmentNames(t *testing.T) {
	cases := []struct {
		name       string
		kind       trace.SpanKind
		attributes []attribute.KeyValue
		spanName   string
		want       string
	}{
		{
			name: "db with host",
			kind: trace.SpanKindClient,
			attributes: []attribute.KeyValue{
				attribute.String(xraytags.AttributeDBName, "customers"),
				attribute.String(xraytags.AttributeDBConnectionString, "mysql://db.example.com:3306"),
			},
			want: "customers@db.example.com",
		},
		{
			name:       "rpc service",
			kind:       trace.SpanKindClient,
			attributes: []attribute.KeyValue{attribute.String(xraytags.AttributeRPCService, "Greeter")},
			want:       "Greeter",
		},
		{
			name:       "net peer",
			kind:       trace.SpanKindClient,
			attributes: []attribute.KeyValue{attribute.String(xraytags.AttributeNetPeerName, "cache.local")},
			want:       "cache.local",
		},
		{name: "invalid characters", kind: trace.SpanKindInternal, spanName: "a<b>c!", want: "abc"},
		{name: "empty", kind: trace.SpanKindInternal, spanName: "!!", want: "span"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := stub(tc.kind, true, tc.attributes...)
			if tc.spanName != "" {
				s.Name = tc.spanName
			}
			assert.Equal(t, tc.want, convert(t, s)["name"])
		})
	}
}

func TestAnnotations(t *testing.T) {
	attrs := []attribute.KeyValue{
		attribute.String("customer.tier", "gold"),
		attribute.Int("retries", 3),
		attribute.StringSlice("tags", []string{"a", "b"}),
		attribute.Bool("cached", true),
		attribute.StringSlice(xraytags.AttributeXRayAnnotations, []string{"cached"}),
		attribute.String(xraytags.AttributeHTTPMethod, "POST"),
	}

	seg := convert(t, stub(trace.SpanKindClient, true, attrs...),
		xrayconv.WithIndexedAttributes("customer.tier", "tags", xraytags.AttributeHTTPMethod))
	ann := object(t, seg, "annotations")
	assert.Equal(t, map[string]interface{}{
		"customer_tier": "gold",
		"cached":        true,
		"http_method":   "POST",
	}, ann)
	md := object(t, seg, "metadata", "default")
	assert.Equal(t, 3.0, md["retries"])
	assert.Equal(t, []interface{}{"a", "b"}, md["tags"], "slices cannot be annotations")
	assert.NotContains(t, md, xraytags.AttributeXRayAnnotations)

	seg = convert(t, stub(trace.SpanKindClient, true, attrs...), xrayconv.WithIndexAllAttributes(true))
	ann = object(t, seg, "annotations")
	assert.Equal(t, "gold", ann["customer_tier"])
	assert.Equal(t, 3.0, ann["retries"])
	assert.Equal(t, true, ann["cached"])
	assert.NotContains(t, seg, "metadata")
}

func TestNonNumericStatusKeptInMetadata(t *testing.T) {
	seg := convert(t, stub(trace.SpanKindClient, true,
		attribute.String(xraytags.AttributeHTTPMethod, "GET"),
		attribute.String(xraytags.AttributeHTTPStatusCode, "abc"),
	))
	http := object(t, seg, "http")
	assert.Equal(t, "GET", object(t, http, "request")["method"])
	assert.NotContains(t, http, "response")
	md := object(t, seg, "metadata", "default")
	assert.Equal(t, "abc", md[xraytags.AttributeHTTPStatusCode])
	assert.NotContains(t, md, xraytags.AttributeHTTPMethod)
}

func TestErrorSpan(t *testing.T) {
	s := stub(trace.SpanKindServer, false,
		attribute.String(xraytags.AttributeHTTPMethod, "GET"),
		attribute.Int(xraytags.AttributeHTTPStatusCode, 404),
		attribute.String(xraytags.AttributeHTTPStatusText, "Not Found"),
	)
	s.Status = sdktrace.Status{Code: codes.Error}
	seg := convert(t, s)
	assert.Equal(t, true, seg["error"])
	assert.Equal(t, false, seg["fault"])
	exceptions, ok := object(t, seg, "cause")["exceptions"].([]interface{})
	require.True(t, ok)
	require.Len(t, exceptions, 1)
	assert.Equal(t, map[string]interface{}{
		"id":      "000000000000000000000001",
		"message": "Not Found",
	}, exceptions[0])
	assert.Equal(t, 404.0, object(t, seg, "http", "response")["status"])
	assert.NotContains(t, seg, "metadata")
}

func TestInvalidTraceID(t *testing.T) {
	s := stub(trace.SpanKindServer, false)
	s.SpanContext = s.SpanContext.WithTraceID(traceID(now.Add(-29 * 24 * time.Hour)))
	_, err := xrayconv.New(xrayconv.WithNow(func() time.Time { return now })).Convert(s.Snapshot())
	require.Error(t, err)
	assert.True(t, errors.Is(err, xrayid.ErrInvalidTraceID))
}

func TestConverterReusesMaps(t *testing.T) {
	conv := xrayconv.New(xrayconv.WithNow(func() time.Time { return now }))
	_, err := conv.Convert(stub(trace.SpanKindClient, true, attribute.String("first.only", "x")).Snapshot())
	require.NoError(t, err)
	doc, err := conv.Convert(stub(trace.SpanKindClient, true, attribute.String("second.only", "y")).Snapshot())
	require.NoError(t, err)
	assert.NotContains(t, string(doc), "first.only")
	assert.Contains(t, string(doc), "second.only")
}
