package xrayconv

import (
	"strings"

	"github.com/xoplog/xray-go/xrayjson"
	"github.com/xoplog/xray-go/xraytags"

	"github.com/Masterminds/semver/v3"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	keyNetHostName = xraytags.MustKey(xraytags.AttributeNetHostName)
	keyNetPeerIP   = xraytags.MustKey(xraytags.AttributeNetPeerIP)
)

// writeHTTP claims the request and response attributes. Nothing is
// written when the span has none.
func writeHTTP(w *xrayjson.Writer, span sdktrace.ReadOnlySpan, tags *xraytags.Map) {
	method, hasMethod := tags.TryGetString(xraytags.KeyHTTPMethod)
	fullURL, hasURL := tags.TryGetString(xraytags.KeyHTTPURL)
	if !hasURL {
		fullURL, hasURL = constructURL(span, tags)
	}
	clientIP, hasClientIP := tags.TryGetString(xraytags.KeyHTTPClientIP)
	forwarded := hasClientIP
	if v, ok := tags.TryGet(xraytags.KeyXRayXForwardedFor); ok && v.Type() == attribute.BOOL {
		forwarded = v.AsBool()
	}
	if !hasClientIP && span.SpanKind() == trace.SpanKindServer && (hasMethod || hasURL) {
		clientIP, hasClientIP = tags.TryGetString(keyNetPeerIP)
	}
	userAgent, hasUserAgent := tags.TryGetString(xraytags.KeyHTTPUserAgent)
	status, hasStatus := tags.TryGetInt64(xraytags.KeyHTTPStatusCode)
	length, hasLength := tags.TryGetInt64(xraytags.KeyHTTPResponseContentLength)

	hasRequest := hasMethod || hasURL || hasClientIP || hasUserAgent
	hasResponse := hasStatus || hasLength
	if !hasRequest && !hasResponse {
		tags.ResetConsume()
		return
	}
	w.Key("http")
	w.StartObject()
	if hasRequest {
		w.Key("request")
		w.StartObject()
		if hasMethod {
			w.StringKV("method", method)
		}
		if hasURL {
			w.StringKV("url", fullURL)
		}
		if hasClientIP {
			w.StringKV("client_ip", clientIP)
		}
		if hasUserAgent {
			w.StringKV("user_agent", userAgent)
		}
		if hasClientIP && forwarded {
			w.BoolKV("x_forwarded_for", true)
		}
		w.EndObject()
	}
	if hasResponse {
		w.Key("response")
		w.StartObject()
		if hasStatus {
			w.Int64KV("status", status)
		}
		if hasLength {
			w.Int64KV("content_length", length)
		}
		w.EndObject()
	}
	w.EndObject()
	tags.Consume()
}

// constructURL builds scheme://host/target when http.url is missing.
// Server spans fall back to net.host.name for the host.
func constructURL(span sdktrace.ReadOnlySpan, tags *xraytags.Map) (string, bool) {
	host, ok := tags.TryGetString(xraytags.KeyHTTPHost)
	if !ok && span.SpanKind() == trace.SpanKindServer {
		host, ok = tags.TryGetString(keyNetHostName)
	}
	if !ok || host == "" {
		return "", false
	}
	scheme, ok := tags.TryGetString(xraytags.KeyHTTPScheme)
	if !ok || scheme == "" {
		scheme = "http"
	}
	target, _ := tags.TryGetString(xraytags.KeyHTTPTarget)
	if target != "" && !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	return scheme + "://" + host + target, true
}

var sqlSystems = map[string]bool{
	"adabas":     true,
	"cache":      true,
	"cloudscape": true,
	"db2":        true,
	"derby":      true,
	"edb":        true,
	"firebird":   true,
	"h2":         true,
	"hanadb":     true,
	"hsqldb":     true,
	"informix":   true,
	"ingres":     true,
	"instantdb":  true,
	"interbase":  true,
	"mariadb":    true,
	"maxdb":      true,
	"mssql":      true,
	"mysql":      true,
	"netezza":    true,
	"oracle":     true,
	"other_sql":  true,
	"pervasive":  true,
	"pointbase":  true,
	"postgresql": true,
	"progress":   true,
	"redshift":   true,
	"sqlite":     true,
	"sybase":     true,
	"teradata":   true,
	"vertica":    true,
}

// writeSQL only handles SQL databases. Spans for other systems, such as
// redis, keep their db attributes for metadata.
func writeSQL(w *xrayjson.Writer, tags *xraytags.Map) {
	system, ok := tags.TryGetString(xraytags.KeyDBSystem)
	if !ok || !sqlSystems[strings.ToLower(system)] {
		tags.ResetConsume()
		return
	}
	dbName, _ := tags.TryGetString(xraytags.KeyDBName)
	conn, _ := tags.TryGetString(xraytags.KeyDBConnectionString)
	if conn == "" {
		conn = "localhost"
	}
	user, hasUser := tags.TryGetString(xraytags.KeyDBUser)
	statement, hasStatement := tags.TryGetString(xraytags.KeyDBStatement)

	w.Key("sql")
	w.StartObject()
	w.StringKV("url", conn+"/"+dbName)
	w.StringKV("database_type", system)
	if hasUser {
		w.StringKV("user", user)
	}
	if hasStatement {
		w.StringKV("sanitized_query", statement)
	}
	w.EndObject()
	tags.Consume()
}

func tryGetEither(tags *xraytags.Map, a, b xraytags.Key) (string, bool) {
	if v, ok := tags.TryGetString(a); ok {
		return v, true
	}
	return tags.TryGetString(b)
}

func (c *Converter) writeAWS(w *xrayjson.Writer, tags *xraytags.Map, res resourceInfo) {
	type field struct {
		key   string
		value string
	}
	var fields []field
	add := func(key string, value string, ok bool) {
		if ok {
			fields = append(fields, field{key: key, value: value})
		}
	}
	v, ok := tags.TryGetString(xraytags.KeyAWSOperation)
	add("operation", v, ok)
	v, ok = tags.TryGetString(xraytags.KeyAWSAccount)
	add("account_id", v, ok)
	v, ok = tags.TryGetString(xraytags.KeyAWSRegion)
	add("region", v, ok)
	v, ok = tryGetEither(tags, xraytags.KeyAWSRequestID, xraytags.KeyAWSRequestID2)
	add("request_id", v, ok)
	v, ok = tryGetEither(tags, xraytags.KeyAWSQueueURL, xraytags.KeyAWSQueueURL2)
	add("queue_url", v, ok)
	v, ok = tryGetEither(tags, xraytags.KeyAWSTableName, xraytags.KeyAWSTableName2)
	add("table_name", v, ok)
	tags.Consume()

	if res.language == "" && len(fields) == 0 {
		return
	}
	w.Key("aws")
	w.StartObject()
	if res.language != "" {
		w.Key("xray")
		w.StartObject()
		w.StringKV("sdk", "opentelemetry for "+res.language)
		if res.sdkVersion != "" {
			w.StringKV("sdk_version", c.normalizeVersion(res.sdkVersion))
		}
		w.EndObject()
	}
	for _, f := range fields {
		w.StringKV(f.key, f.value)
	}
	w.EndObject()
}

// normalizeVersion trims a leading "v" and fills in missing minor and
// patch numbers. Versions that are not semver are passed through.
func (c *Converter) normalizeVersion(version string) string {
	v, err := semver.NewVersion(version)
	if err != nil {
		c.logger.Debug("telemetry.sdk.version is not semver",
			zap.String("version", version), zap.Error(err))
		return version
	}
	return v.String()
}

func writeService(w *xrayjson.Writer, res resourceInfo) {
	if res.serviceVersion == "" {
		return
	}
	w.Key("service")
	w.StartObject()
	w.StringKV("version", res.serviceVersion)
	w.EndObject()
}
