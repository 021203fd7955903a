package telemetry

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ViBiOh/flags"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	tr "go.opentelemetry.io/otel/trace"
)

type Service struct {
	provider *trace.TracerProvider
}

type Config struct {
	url  *string
	rate *string
}

func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) Config {
	return Config{
		url:  flags.New("URL", "OpenTelemetry gRPC endpoint (e.g. otel-exporter:4317)").Prefix(prefix).DocPrefix("telemetry").String(fs, "", overrides),
		rate: flags.New("Rate", "OpenTelemetry sample rate, 'always', 'never' or a float value").Prefix(prefix).DocPrefix("telemetry").String(fs, "always", overrides),
	}
}

func New(ctx context.Context, config Config) (Service, error) {
	url := strings.TrimSpace(*config.url)
	if len(url) == 0 {
		return Service{}, nil
	}

	otelResource, err := newResource(ctx)
	if err != nil {
		return Service{}, fmt.Errorf("otel resource: %w", err)
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(url),
	)
	if err != nil {
		return Service{}, fmt.Errorf("trace exporter: %w", err)
	}

	sampler, err := newSampler(strings.TrimSpace(*config.rate))
	if err != nil {
		return Service{}, fmt.Errorf("sampler: %w", err)
	}

	return Service{
		provider: trace.NewTracerProvider(
			trace.WithBatcher(exporter),
			trace.WithResource(otelResource),
			trace.WithSampler(sampler),
		),
	}, nil
}

func (s Service) TracerProvider() tr.TracerProvider {
	if s.provider == nil {
		return nil
	}

	return s.provider
}

func (s Service) Middleware(name string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil || s.provider == nil {
			return next
		}

		return otelhttp.NewHandler(next, name,
			otelhttp.WithTracerProvider(s.provider),
			otelhttp.WithPropagators(propagation.TraceContext{}),
		)
	}
}

func (s Service) Close(ctx context.Context) {
	if s.provider == nil {
		return
	}

	if err := s.provider.Shutdown(ctx); err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "shutdown trace provider", slog.Any("error", err))
	}
}

func newResource(ctx context.Context) (*resource.Resource, error) {
	newResource, err := resource.New(ctx, resource.WithFromEnv())
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	r, err := resource.Merge(resource.Default(), newResource)
	if err != nil {
		return nil, fmt.Errorf("merge resource with default: %w", err)
	}

	return r, nil
}

func newSampler(rate string) (trace.Sampler, error) {
	switch rate {
	case "always":
		return trace.AlwaysSample(), nil

	case "never":
		return trace.NeverSample(), nil

	default:
		rateRatio, err := strconv.ParseFloat(rate, 64)
		if err != nil {
			return nil, fmt.Errorf("parse sample rate `%s`: %w", rate, err)
		}

		return trace.TraceIDRatioBased(rateRatio), nil
	}
}
