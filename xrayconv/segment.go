package xrayconv

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/xoplog/xray-go/xraytags"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Origin values that X-Ray accepts.
const (
	OriginEC2       = "AWS::EC2::Instance"
	OriginECS       = "AWS::ECS::Container"
	OriginEB        = "AWS::ElasticBeanstalk::Environment"
	OriginEKS       = "AWS::EKS::Container"
	OriginAppRunner = "AWS::AppRunner::Service"
)

const (
	defaultSegmentName   = "span"
	maxSegmentNameLength = 200
)

var reInvalidSegmentName = regexp.MustCompile(`[^ 0-9\p{L}N_.:/%&#=+,\-@]`)

type resourceInfo struct {
	attributes     *attribute.Set
	serviceName    string
	serviceVersion string
	language       string
	sdkVersion     string
	cloudProvider  string
	cloudPlatform  string
}

func resourceOf(span sdktrace.ReadOnlySpan) resourceInfo {
	res := span.Resource()
	if res == nil {
		res = resource.Empty()
	}
	set := res.Set()
	get := func(key string) string {
		if v, ok := set.Value(attribute.Key(key)); ok {
			return v.Emit()
		}
		return ""
	}
	return resourceInfo{
		attributes:     set,
		serviceName:    get(xraytags.ResourceServiceName),
		serviceVersion: get(xraytags.ResourceServiceVersion),
		language:       get(xraytags.ResourceTelemetrySDKLang),
		sdkVersion:     get(xraytags.ResourceTelemetrySDKVersion),
		cloudProvider:  get(xraytags.ResourceCloudProvider),
		cloudPlatform:  get(xraytags.ResourceCloudPlatform),
	}
}

// segmentName picks a service name for the segment. X-Ray names segments
// after services where OpenTelemetry names spans after operations.
func segmentName(span sdktrace.ReadOnlySpan, tags *xraytags.Map, res resourceInfo) string {
	defer tags.ResetConsume()
	if v, ok := tags.TryGetString(xraytags.KeyPeerService); ok && v != "" {
		return v
	}
	if v, ok := tags.TryGetString(xraytags.KeyAWSService); ok && v != "" {
		return v
	}
	if v, ok := tags.TryGetString(xraytags.KeyDBName); ok && v != "" {
		if conn, ok := tags.TryGetString(xraytags.KeyDBConnectionString); ok {
			if u, err := url.Parse(conn); err == nil && u.Hostname() != "" {
				v += "@" + u.Hostname()
			}
		}
		return v
	}
	if span.SpanKind() == trace.SpanKindServer && res.serviceName != "" {
		return res.serviceName
	}
	for _, k := range []xraytags.Key{xraytags.KeyRPCService, xraytags.KeyHTTPHost, xraytags.KeyNetPeerName} {
		if v, ok := tags.TryGetString(k); ok && v != "" {
			return v
		}
	}
	return fixSegmentName(span.Name())
}

func fixSegmentName(name string) string {
	if reInvalidSegmentName.MatchString(name) {
		name = reInvalidSegmentName.ReplaceAllString(name, "")
	}
	if len(name) > maxSegmentNameLength {
		name = name[:maxSegmentNameLength]
	} else if name == "" {
		name = defaultSegmentName
	}
	return name
}

func namespace(span sdktrace.ReadOnlySpan, tags *xraytags.Map) string {
	defer tags.ResetConsume()
	if v, ok := tags.TryGetString(xraytags.KeyRPCSystem); ok && v == "aws-api" {
		return "aws"
	}
	if _, ok := tags.TryGet(xraytags.KeyAWSService); ok {
		return "aws"
	}
	if span.SpanKind() == trace.SpanKindClient {
		return "remote"
	}
	return ""
}

func awsOrigin(res resourceInfo) string {
	if res.cloudProvider != "" && res.cloudProvider != "aws" {
		return ""
	}
	switch res.cloudPlatform {
	case "aws_ec2":
		return OriginEC2
	case "aws_ecs":
		return OriginECS
	case "aws_eks":
		return OriginEKS
	case "aws_elastic_beanstalk":
		return OriginEB
	case "aws_app_runner":
		return OriginAppRunner
	}
	return ""
}

// fixAnnotationKey replaces everything outside [A-Za-z0-9] with '_'.
func fixAnnotationKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case '0' <= r && r <= '9', 'A' <= r && r <= 'Z', 'a' <= r && r <= 'z':
			return r
		default:
			return '_'
		}
	}, key)
}
