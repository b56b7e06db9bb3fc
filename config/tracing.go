package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/akeren/resfi-api/internal/log"
	"github.com/akeren/resfi-api/pkg/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

const defaultOTLPEndpoint = "http://localhost:4318"

// SetupTracing installs the global tracer provider when OTEL_TRACES_ENABLED is
// true. The returned shutdown func is nil when tracing is off.
func SetupTracing(logger *log.Logger) (func(context.Context) error, error) {
	if !utils.IsTracingEnabled() {
		return nil, nil
	}

	endpoint := utils.GetEnvTrimmedOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", defaultOTLPEndpoint)

	exporter, err := newTraceExporter(endpoint)
	if err != nil {
		return nil, err
	}

	serviceName := utils.OTelServiceName()
	attrs := []attribute.KeyValue{attribute.String("service.name", serviceName)}
	if env := GetAppEnv(); env != "" {
		attrs = append(attrs, attribute.String("deployment.environment", env))
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("setup tracing resource: %w", err)
	}

	ratio := utils.TraceSampleRatio()
	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(ratio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Info("OpenTelemetry tracing enabled", "service", serviceName, "endpoint", endpoint, "sample_ratio", ratio)

	return tp.Shutdown, nil
}

func newTraceExporter(endpoint string) (*otlptrace.Exporter, error) {
	hostport, urlPath, insecure, err := parseOTLPEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(hostport),
		otlptracehttp.WithURLPath(urlPath),
	}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("setup tracing exporter: %w", err)
	}

	return exporter, nil
}

// parseOTLPEndpoint accepts http(s)://host:port[/path] or a bare host:port.
func parseOTLPEndpoint(raw string) (hostport string, urlPath string, insecure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false, fmt.Errorf("empty OTLP endpoint")
	}

	if !strings.Contains(raw, "://") {
		// otlptracehttp.WithEndpoint takes host:port only.
		if strings.ContainsAny(raw, "/?#") {
			return "", "", false, fmt.Errorf("invalid OTLP endpoint %q: use http://host:port[/path] to set a path", raw)
		}
		return raw, "/v1/traces", true, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", false, fmt.Errorf("invalid OTLP endpoint %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", "", false, fmt.Errorf("invalid OTLP endpoint %q: missing host", raw)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", "", false, fmt.Errorf("unsupported OTLP endpoint scheme %q in %q", u.Scheme, raw)
	}

	urlPath = u.EscapedPath()
	if urlPath == "" || urlPath == "/" {
		urlPath = "/v1/traces"
	}

	return u.Host, urlPath, scheme == "http", nil
}
