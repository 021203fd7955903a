package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ViBiOh/httpgzip/pkg/hash"
	"github.com/ViBiOh/httpgzip/pkg/httperror"
	"github.com/ViBiOh/httpgzip/pkg/httputils"
	"github.com/ViBiOh/httpgzip/pkg/model"
	"github.com/ViBiOh/httpgzip/pkg/recoverer"
	"github.com/ViBiOh/httpgzip/pkg/request"
	"github.com/ViBiOh/httpgzip/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	echoPath   = "/echo"
	streamPath = "/stream"

	defaultContentType = "application/octet-stream"
	defaultEvents      = 5
	maxEvents          = 100
)

func newPort(clients clients, services services) http.Handler {
	var tracer trace.Tracer
	if provider := clients.telemetry.TracerProvider(); provider != nil {
		tracer = provider.Tracer("port")
	}

	mux := http.NewServeMux()
	mux.Handle(echoPath, echoHandler(tracer))
	mux.Handle(streamPath, streamHandler())

	return httputils.Handler(mux, clients.health, middlewares(clients, services)...)
}

func middlewares(clients clients, services services) []model.Middleware {
	return []model.Middleware{
		clients.telemetry.Middleware("http"),
		clients.prometheus.Middleware,
		recoverer.Middleware,
		services.cors.Middleware,
		services.gzip.Middleware,
		services.unzip.Middleware,
	}
}

func echoHandler(tracer trace.Tracer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var err error

		ctx, end := telemetry.StartSpan(r.Context(), tracer, "echo", trace.WithSpanKind(trace.SpanKindInternal))
		defer end(&err)

		content, err := request.ReadBodyRequest(r)
		if err != nil {
			httperror.InternalServerError(ctx, w, fmt.Errorf("read body: %w", err))
			return
		}

		telemetry.AddAttributes(ctx, attribute.Int("length", len(content)))

		contentType := r.Header.Get("Content-Type")
		if len(contentType) == 0 {
			contentType = defaultContentType
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("ETag", hash.ETag(content))
		w.WriteHeader(http.StatusOK)

		if _, err = w.Write(content); err != nil {
			slog.LogAttrs(ctx, slog.LevelError, "write echo", slog.Any("error", err))
		}
	})
}

func streamHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		ctx := r.Context()

		count, err := parseEvents(r.URL.Query().Get("count"))
		if httperror.HandleError(ctx, w, err) {
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			httperror.InternalServerError(ctx, w, errors.New("streaming is not supported by the writer"))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)

		for i := 1; i <= count; i++ {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if _, err = fmt.Fprintf(w, "id: %d\ndata: event %d of %d\n\n", i, i, count); err != nil {
				slog.LogAttrs(ctx, slog.LevelError, "write event", slog.Int("id", i), slog.Any("error", err))
				return
			}

			flusher.Flush()
		}
	})
}

func parseEvents(raw string) (int, error) {
	if len(raw) == 0 {
		return defaultEvents, nil
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.WrapInvalid(fmt.Errorf("parse count: %w", err))
	}

	if count < 1 || count > maxEvents {
		return 0, model.WrapInvalid(fmt.Errorf("count must be between 1 and %d", maxEvents))
	}

	return count, nil
}
