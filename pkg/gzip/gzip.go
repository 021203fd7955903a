package gzip

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/ViBiOh/flags"
	"github.com/klauspost/compress/gzip"
)

//go:generate mockgen -source gzip.go -destination ../mocks/gzip.go -package mocks -mock_names Recorder=GzipRecorder

const (
	// DefaultMinSize is the buffered length under which compression isn't worth it
	DefaultMinSize = 200

	// DefaultLegacyAgent flags clients that mishandle gzip on non-text content
	DefaultLegacyAgent = "msie"

	encoding       = "gzip"
	acceptEncoding = "Accept-Encoding"
)

const (
	reasonShort   = "short"
	reasonEncoded = "encoded"
	reasonLegacy  = "legacy"
	reasonAccept  = "accept"
	reasonLarger  = "larger"
	reasonError   = "error"
)

var acceptGzip = regexp.MustCompile(`\bgzip\b`)

// Recorder observes compression outcomes
type Recorder interface {
	Skip(reason string)
	Compress(original, compressed int)
	Stream()
}

type Service struct {
	recorder    Recorder
	writers     sync.Pool
	legacyAgent string
	minSize     int
	level       int
}

type Config struct {
	minSize     *int
	level       *int
	legacyAgent *string
}

func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) Config {
	return Config{
		minSize:     flags.New("MinSize", "Minimum body size for compressing a buffered response").Prefix(prefix).DocPrefix("gzip").Int(fs, DefaultMinSize, overrides),
		level:       flags.New("Level", "Compression level, from -2 (huffman only) to 9 (best compression)").Prefix(prefix).DocPrefix("gzip").Int(fs, gzip.DefaultCompression, overrides),
		legacyAgent: flags.New("LegacyAgent", "User-Agent token of clients only receiving compressed text").Prefix(prefix).DocPrefix("gzip").String(fs, DefaultLegacyAgent, overrides),
	}
}

func New(config Config, recorder Recorder) (*Service, error) {
	level := *config.level

	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		return nil, fmt.Errorf("invalid compression level `%d`", level)
	}

	if recorder == nil {
		recorder = noopRecorder{}
	}

	service := &Service{
		minSize:     *config.minSize,
		level:       level,
		legacyAgent: strings.ToLower(strings.TrimSpace(*config.legacyAgent)),
		recorder:    recorder,
	}

	service.writers.New = func() any {
		writer, _ := gzip.NewWriterLevel(io.Discard, level)
		return writer
	}

	return service, nil
}

// Compress returns the response gzip-encoded when the client and the content allow it.
// Header of given response is updated in place.
func (s *Service) Compress(r *http.Request, response Response) Response {
	if response.Header == nil {
		response.Header = http.Header{}
	}

	PatchVary(response.Header, acceptEncoding)

	if !response.Streaming && len(response.Body) < s.minSize {
		s.recorder.Skip(reasonShort)
		return response
	}

	if !s.accept(r, response.Header) {
		return response
	}

	if response.Streaming {
		response.Source = s.compressSource(response.Source)
		s.prepareStream(response.Header)

		return response
	}

	compressed, err := s.compressBytes(response.Body)
	if err != nil {
		slog.LogAttrs(r.Context(), slog.LevelWarn, "compress response", slog.String("path", r.URL.Path), slog.Any("error", err))
		s.recorder.Skip(reasonError)

		return response
	}

	if len(compressed) >= len(response.Body) {
		s.recorder.Skip(reasonLarger)
		return response
	}

	s.recorder.Compress(len(response.Body), len(compressed))

	response.Body = compressed
	response.Header.Set("Content-Length", strconv.Itoa(len(compressed)))
	markEncoded(response.Header)

	return response
}

func (s *Service) accept(r *http.Request, header http.Header) bool {
	if reason := s.refusal(r, header); len(reason) != 0 {
		s.recorder.Skip(reason)
		return false
	}

	return true
}

func (s *Service) refusal(r *http.Request, header http.Header) string {
	if len(header.Values("Content-Encoding")) != 0 {
		return reasonEncoded
	}

	if len(s.legacyAgent) != 0 && strings.Contains(strings.ToLower(r.Header.Get("User-Agent")), s.legacyAgent) {
		contentType := strings.ToLower(header.Get("Content-Type"))
		if !strings.HasPrefix(contentType, "text/") || strings.Contains(contentType, "javascript") {
			return reasonLegacy
		}
	}

	if !acceptGzip.MatchString(strings.Join(r.Header.Values(acceptEncoding), ", ")) {
		return reasonAccept
	}

	return ""
}

func (s *Service) prepareStream(header http.Header) {
	header.Del("Content-Length")
	markEncoded(header)

	s.recorder.Stream()
}

func (s *Service) compressBytes(content []byte) ([]byte, error) {
	var buffer bytes.Buffer

	writer := s.getWriter(&buffer)
	defer s.putWriter(writer)

	if _, err := writer.Write(content); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close: %w", err)
	}

	return buffer.Bytes(), nil
}

func (s *Service) getWriter(output io.Writer) *gzip.Writer {
	writer := s.writers.Get().(*gzip.Writer)
	writer.Reset(output)

	return writer
}

func (s *Service) putWriter(writer *gzip.Writer) {
	writer.Reset(io.Discard)
	s.writers.Put(writer)
}

func markEncoded(header http.Header) {
	if etag := header.Get("ETag"); strings.HasSuffix(etag, `"`) {
		header.Set("ETag", etag[:len(etag)-1]+`;gzip"`)
	}

	header.Set("Content-Encoding", encoding)
}

// PatchVary adds values to the Vary header, unless already listed
func PatchVary(header http.Header, values ...string) {
	var existing []string

	for _, line := range header.Values("Vary") {
		for _, item := range strings.Split(line, ",") {
			if item = strings.TrimSpace(item); len(item) != 0 {
				existing = append(existing, item)
			}
		}
	}

	output := existing

	for _, value := range values {
		if !containsFold(output, value) {
			output = append(output, value)
		}
	}

	if len(output) == len(existing) {
		return
	}

	header.Set("Vary", strings.Join(output, ", "))
}

func containsFold(items []string, value string) bool {
	for _, item := range items {
		if strings.EqualFold(item, value) {
			return true
		}
	}

	return false
}
