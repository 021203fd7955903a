package unzip

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httpgzip/pkg/httperror"
	"github.com/ViBiOh/httpgzip/pkg/model"
	"github.com/ViBiOh/httpgzip/pkg/request"
	"github.com/ViBiOh/httpgzip/pkg/telemetry"
	"github.com/klauspost/compress/gzip"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source unzip.go -destination ../mocks/unzip.go -package mocks -mock_names Recorder=UnzipRecorder

const (
	// EncodingHeader is the request meta-key triggering decompression.
	// It's read from the request, never confused with the response's own Content-Encoding.
	EncodingHeader = "Content-Encoding"

	// TooLargePayload is the body of the response for oversized payloads
	TooLargePayload = "<h1>Unzipped file is too large</h1>"

	encoding = "gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// ErrTooLarge occurs when the decompressed body exceeds the configured size
var ErrTooLarge = model.WrapTooLarge(errors.New("unzipped file"))

// Recorder observes decompression outcomes
type Recorder interface {
	Decompressed(compressed, decompressed int)
	Oversized()
	Malformed()
}

type Service struct {
	recorder Recorder
	tracer   trace.Tracer
	maxSize  int
}

type Config struct {
	maxSize *int
}

func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) Config {
	return Config{
		maxSize: flags.New("MaxSize", "Maximum size in bytes of a decompressed request body").Prefix(prefix).DocPrefix("unzip").Int(fs, 10<<20, overrides),
	}
}

func New(config Config, recorder Recorder, tracerProvider trace.TracerProvider) (Service, error) {
	maxSize := *config.maxSize
	if maxSize <= 0 {
		return Service{}, fmt.Errorf("max size must be positive, got %d", maxSize)
	}

	if recorder == nil {
		recorder = noopRecorder{}
	}

	service := Service{
		maxSize:  maxSize,
		recorder: recorder,
	}

	if tracerProvider != nil {
		service.tracer = tracerProvider.Tracer("unzip")
	}

	return service, nil
}

// Middleware decompresses gzip request bodies and answers 400 when they exceed the max size
func (s Service) Middleware(next http.Handler) http.Handler {
	if next == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		err := s.decompress(ctx, r)

		switch {
		case err == nil:
			next.ServeHTTP(w, r)

		case errors.Is(err, ErrTooLarge):
			slog.LogAttrs(ctx, slog.LevelWarn, "Unzipped file is too large", slog.String("path", r.URL.Path), slog.Int("status_code", http.StatusBadRequest))
			httperror.Payload(ctx, w, http.StatusBadRequest, "text/html; charset=utf-8", TooLargePayload)

		default:
			httperror.InternalServerError(ctx, w, err)
		}
	})
}

func (s Service) decompress(ctx context.Context, r *http.Request) (err error) {
	if r.Header.Get(EncodingHeader) != encoding {
		return nil
	}

	ctx, end := telemetry.StartSpan(ctx, s.tracer, "decompress", trace.WithSpanKind(trace.SpanKindInternal))
	defer end(&err)

	result, err := Decompress(r, s.maxSize)

	telemetry.AddAttributes(ctx, attribute.String("outcome", result.Outcome.String()), attribute.Int("compressed", result.Compressed))

	switch result.Outcome {
	case Decompressed:
		s.recorder.Decompressed(result.Compressed, result.Decompressed)
	case Oversized:
		s.recorder.Oversized()
	case Malformed:
		slog.LogAttrs(ctx, slog.LevelDebug, "malformed gzip body, passing raw bytes", slog.String("path", r.URL.Path))
		s.recorder.Malformed()
	}

	return err
}

type Outcome int

const (
	Passthrough Outcome = iota
	Decompressed
	Oversized
	Malformed
)

var outcomeValues = []string{"passthrough", "decompressed", "oversized", "malformed"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeValues) {
		return "unknown"
	}

	return outcomeValues[o]
}

type Result struct {
	Outcome      Outcome
	Compressed   int
	Decompressed int
}

// Decompress replaces the body of a gzip encoded request by its content, up to maxSize bytes.
// A malformed gzip body is kept as-is, with its encoding header left in place.
func Decompress(r *http.Request, maxSize int) (Result, error) {
	if r.Header.Get(EncodingHeader) != encoding {
		return Result{Outcome: Passthrough}, nil
	}

	raw, err := request.ReadBodyRequest(r)
	if err != nil {
		return Result{Outcome: Passthrough}, fmt.Errorf("read body: %w", err)
	}

	result := Result{Compressed: len(raw)}

	content, err := inflate(raw, maxSize)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			result.Outcome = Oversized
			return result, err
		}

		result.Outcome = Malformed
		setBody(r, raw)

		return result, nil
	}

	result.Outcome = Decompressed
	result.Decompressed = len(content)

	setBody(r, content)
	r.Header.Del(EncodingHeader)

	return result, nil
}

// inflate decodes every gzip member of raw, ignoring trailing bytes that don't start a new member
func inflate(raw []byte, maxSize int) ([]byte, error) {
	input := bytes.NewReader(raw)

	reader, err := gzip.NewReader(input)
	if err != nil {
		return nil, fmt.Errorf("gzip header: %w", err)
	}

	defer func() {
		_ = reader.Close()
	}()

	var output bytes.Buffer

	for {
		reader.Multistream(false)

		if _, err = io.Copy(&output, io.LimitReader(reader, int64(maxSize-output.Len()))); err != nil {
			return nil, fmt.Errorf("gzip content: %w", err)
		}

		n, err := reader.Read(make([]byte, 1))
		if n != 0 {
			return nil, ErrTooLarge
		}

		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("gzip trailer: %w", err)
		}

		if !startsMember(input) {
			return output.Bytes(), nil
		}

		if err = reader.Reset(input); err != nil {
			return nil, fmt.Errorf("gzip member: %w", err)
		}
	}
}

func startsMember(input *bytes.Reader) bool {
	if input.Len() < len(gzipMagic) {
		return false
	}

	magic := make([]byte, len(gzipMagic))
	if _, err := input.ReadAt(magic, input.Size()-int64(input.Len())); err != nil {
		return false
	}

	return bytes.Equal(magic, gzipMagic)
}

func setBody(r *http.Request, content []byte) {
	r.Body = request.BoundedBody(content)
	r.ContentLength = int64(len(content))

	if len(r.Header.Get("Content-Length")) != 0 {
		r.Header.Set("Content-Length", strconv.Itoa(len(content)))
	}
}
