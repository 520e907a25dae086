package xraytags

import (
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
)

// Attribute names with special meaning in an X-Ray segment. Every name
// listed here has a fixed slot in a Map; anything else goes to overflow.
const (
	AttributeHTTPMethod                = string(semconv.HTTPMethodKey)
	AttributeHTTPURL                   = string(semconv.HTTPURLKey)
	AttributeHTTPTarget                = string(semconv.HTTPTargetKey)
	AttributeHTTPHost                  = string(semconv.HTTPHostKey)
	AttributeHTTPScheme                = string(semconv.HTTPSchemeKey)
	AttributeHTTPStatusCode            = string(semconv.HTTPStatusCodeKey)
	AttributeHTTPStatusText            = "http.status_text"
	AttributeHTTPUserAgent             = string(semconv.HTTPUserAgentKey)
	AttributeHTTPClientIP              = string(semconv.HTTPClientIPKey)
	AttributeHTTPFlavor                = string(semconv.HTTPFlavorKey)
	AttributeHTTPServerName            = "http.server_name"
	AttributeHTTPRoute                 = string(semconv.HTTPRouteKey)
	AttributeHTTPRequestContentLength  = "http.request_content_length"
	AttributeHTTPResponseContentLength = "http.response_content_length"

	AttributeNetPeerName  = string(semconv.NetPeerNameKey)
	AttributeNetPeerPort  = string(semconv.NetPeerPortKey)
	AttributeNetPeerIP    = string(semconv.NetPeerIPKey)
	AttributeNetHostName  = "net.host.name"
	AttributeNetHostPort  = "net.host.port"
	AttributeNetHostIP    = "net.host.ip"
	AttributeNetTransport = string(semconv.NetTransportKey)

	AttributeDBSystem           = string(semconv.DBSystemKey)
	AttributeDBName             = string(semconv.DBNameKey)
	AttributeDBStatement        = string(semconv.DBStatementKey)
	AttributeDBUser             = string(semconv.DBUserKey)
	AttributeDBConnectionString = string(semconv.DBConnectionStringKey)
	AttributeDBOperation        = string(semconv.DBOperationKey)

	AttributeRPCSystem         = string(semconv.RPCSystemKey)
	AttributeRPCService        = string(semconv.RPCServiceKey)
	AttributeRPCMethod         = string(semconv.RPCMethodKey)
	AttributeRPCGRPCStatusCode = "rpc.grpc.status_code"

	AttributeMessagingSystem      = "messaging.system"
	AttributeMessagingDestination = "messaging.destination"
	AttributeMessagingURL         = "messaging.url"
	AttributeMessagingOperation   = "messaging.operation"

	AttributePeerService = string(semconv.PeerServiceKey)
	AttributeEnduserID   = string(semconv.EnduserIDKey)

	AttributeExceptionType       = string(semconv.ExceptionTypeKey)
	AttributeExceptionMessage    = string(semconv.ExceptionMessageKey)
	AttributeExceptionStacktrace = string(semconv.ExceptionStacktraceKey)
	AttributeExceptionEscaped    = string(semconv.ExceptionEscapedKey)

	AttributeStatusCode        = "otel.status_code"
	AttributeStatusDescription = "otel.status_description"

	AttributeAWSOperation      = "aws.operation"
	AttributeAWSAccount        = "aws.account_id"
	AttributeAWSRegion         = "aws.region"
	AttributeAWSRequestID      = "aws.request_id"
	AttributeAWSRequestID2     = "aws.requestId"
	AttributeAWSQueueURL       = "aws.queue_url"
	AttributeAWSQueueURL2      = "aws.queue.url"
	AttributeAWSService        = "aws.service"
	AttributeAWSTableName      = "aws.table_name"
	AttributeAWSTableName2     = "aws.table.name"
	AttributeXRayInProgress    = "aws.xray.inprogress"
	AttributeXRayXForwardedFor = "aws.xray.x_forwarded_for"
	AttributeXRayResourceARN   = "aws.xray.resource_arn"
	AttributeXRayTraced        = "aws.xray.traced"
	AttributeXRayAnnotations   = "aws.xray.annotations"
	AttributeXRayRetries       = "aws.xray.retries"

	AttributeFaaSTrigger   = "faas.trigger"
	AttributeFaaSExecution = "faas.execution"

	AttributeThreadID      = "thread.id"
	AttributeThreadName    = "thread.name"
	AttributeCodeFunction  = "code.function"
	AttributeCodeNamespace = "code.namespace"
	AttributeCodeFilepath  = "code.filepath"
	AttributeCodeLineNo    = "code.lineno"
)

// ExceptionEventName is the name of span events that carry an exception.
const ExceptionEventName = semconv.ExceptionEventName

// Resource attributes consulted during conversion. These describe the
// process, not the span, so they never enter a Map.
const (
	ResourceServiceName         = string(semconv.ServiceNameKey)
	ResourceServiceVersion      = string(semconv.ServiceVersionKey)
	ResourceTelemetrySDKName    = string(semconv.TelemetrySDKNameKey)
	ResourceTelemetrySDKVersion = string(semconv.TelemetrySDKVersionKey)
	ResourceTelemetrySDKLang    = string(semconv.TelemetrySDKLanguageKey)
	ResourceCloudProvider       = string(semconv.CloudProviderKey)
	ResourceCloudPlatform       = string(semconv.CloudPlatformKey)
)

var knownNames = [...]string{
	AttributeHTTPMethod,
	AttributeHTTPURL,
	AttributeHTTPTarget,
	AttributeHTTPHost,
	AttributeHTTPScheme,
	AttributeHTTPStatusCode,
	AttributeHTTPStatusText,
	AttributeHTTPUserAgent,
	AttributeHTTPClientIP,
	AttributeHTTPFlavor,
	AttributeHTTPServerName,
	AttributeHTTPRoute,
	AttributeHTTPRequestContentLength,
	AttributeHTTPResponseContentLength,
	AttributeNetPeerName,
	AttributeNetPeerPort,
	AttributeNetPeerIP,
	AttributeNetHostName,
	AttributeNetHostPort,
	AttributeNetHostIP,
	AttributeNetTransport,
	AttributeDBSystem,
	AttributeDBName,
	AttributeDBStatement,
	AttributeDBUser,
	AttributeDBConnectionString,
	AttributeDBOperation,
	AttributeRPCSystem,
	AttributeRPCService,
	AttributeRPCMethod,
	AttributeRPCGRPCStatusCode,
	AttributeMessagingSystem,
	AttributeMessagingDestination,
	AttributeMessagingURL,
	AttributeMessagingOperation,
	AttributePeerService,
	AttributeEnduserID,
	AttributeExceptionType,
	AttributeExceptionMessage,
	AttributeExceptionStacktrace,
	AttributeExceptionEscaped,
	AttributeStatusCode,
	AttributeStatusDescription,
	AttributeAWSOperation,
	AttributeAWSAccount,
	AttributeAWSRegion,
	AttributeAWSRequestID,
	AttributeAWSRequestID2,
	AttributeAWSQueueURL,
	AttributeAWSQueueURL2,
	AttributeAWSService,
	AttributeAWSTableName,
	AttributeAWSTableName2,
	AttributeXRayInProgress,
	AttributeXRayXForwardedFor,
	AttributeXRayResourceARN,
	AttributeXRayTraced,
	AttributeXRayAnnotations,
	AttributeXRayRetries,
	AttributeFaaSTrigger,
	AttributeFaaSExecution,
	AttributeThreadID,
	AttributeThreadName,
	AttributeCodeFunction,
	AttributeCodeNamespace,
	AttributeCodeFilepath,
	AttributeCodeLineNo,
}
