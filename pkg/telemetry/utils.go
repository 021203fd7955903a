package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	tr "go.opentelemetry.io/otel/trace"
)

type FinishSpan = func(err *error, options ...tr.SpanEndOption)

var noopFunc FinishSpan = func(*error, ...tr.SpanEndOption) {
	// Nothing to do
}

func StartSpan(ctx context.Context, tracer tr.Tracer, name string, opts ...tr.SpanStartOption) (context.Context, FinishSpan) {
	if tracer == nil {
		return ctx, noopFunc
	}

	ctx, span := tracer.Start(ctx, name, opts...)

	return ctx, func(err *error, options ...tr.SpanEndOption) {
		if err != nil && *err != nil {
			span.SetStatus(codes.Error, (*err).Error())
		}

		span.End(options...)
	}
}

func AddAttributes(ctx context.Context, attributes ...attribute.KeyValue) {
	tr.SpanFromContext(ctx).SetAttributes(attributes...)
}
