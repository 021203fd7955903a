package gzip

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/ViBiOh/httpgzip/pkg/model"
)

var _ model.Middleware = (&Service{}).Middleware

// Middleware buffers the handler's output and compresses it once the handler returns.
// A handler calling Flush switches the response to streaming.
func (s *Service) Middleware(next http.Handler) http.Handler {
	if next == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseWriter{
			ResponseWriter: w,
			request:        r,
			service:        s,
		}

		next.ServeHTTP(writer, r)

		writer.close()
	})
}

type responseWriter struct {
	http.ResponseWriter
	request   *http.Request
	service   *Service
	source    Source
	buffer    bytes.Buffer
	status    int
	streaming bool
	done      bool
	failed    bool
	hijacked  bool
}

var errStreamFailed = errors.New("gzip stream failed")

func (rw *responseWriter) WriteHeader(status int) {
	if rw.status != 0 {
		return
	}

	rw.status = status
}

func (rw *responseWriter) Write(content []byte) (int, error) {
	if rw.status == 0 {
		rw.WriteHeader(http.StatusOK)
	}

	if rw.failed {
		return 0, errStreamFailed
	}

	if !rw.streaming || rw.source != nil {
		return rw.buffer.Write(content)
	}

	if rw.isHead() {
		return len(content), nil
	}

	return rw.ResponseWriter.Write(content)
}

func (rw *responseWriter) Flush() {
	if rw.hijacked {
		return
	}

	if !rw.streaming {
		rw.startStreaming()
	}

	if rw.source != nil {
		rw.forward()
	}

	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("http.Hijacker not available")
	}

	conn, buffer, err := hijacker.Hijack()
	if err == nil {
		rw.hijacked = true
	}

	return conn, buffer, err
}

func (rw *responseWriter) startStreaming() {
	rw.streaming = true

	if rw.status == 0 {
		rw.status = http.StatusOK
	}

	header := rw.Header()

	if rw.bodyAllowed() {
		rw.detectContentType(header)

		response := rw.service.Compress(rw.request, NewStreamingResponse(rw.status, header, rw.pending))
		if !rw.isHead() {
			rw.source = response.Source
		}
	} else {
		PatchVary(header, acceptEncoding)
	}

	rw.ResponseWriter.WriteHeader(rw.status)

	if rw.source == nil {
		rw.buffer.Reset()
	}
}

// pending yields what the handler wrote since the previous pull, io.EOF once it returned
func (rw *responseWriter) pending() ([]byte, error) {
	if rw.buffer.Len() == 0 && rw.done {
		return nil, io.EOF
	}

	chunk := bytes.Clone(rw.buffer.Bytes())
	rw.buffer.Reset()

	return chunk, nil
}

func (rw *responseWriter) forward() {
	chunk, err := rw.source()
	if err == nil {
		err = rw.writeChunk(chunk)
	}

	if err != nil && !errors.Is(err, io.EOF) {
		rw.fail(err)
	}
}

func (rw *responseWriter) writeChunk(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	_, err := rw.ResponseWriter.Write(chunk)

	return err
}

func (rw *responseWriter) fail(err error) {
	rw.failed = true
	rw.source = nil

	slog.LogAttrs(rw.request.Context(), slog.LevelError, "stream response", slog.String("path", rw.request.URL.Path), slog.Any("error", err))
}

func (rw *responseWriter) close() {
	if rw.hijacked {
		return
	}

	if rw.streaming {
		if rw.source == nil {
			return
		}

		rw.done = true

		if err := rw.source.Each(rw.writeChunk); err != nil {
			rw.fail(err)
		}

		return
	}

	if rw.status == 0 {
		rw.status = http.StatusOK
	}

	response := Response{
		Status: rw.status,
		Header: rw.Header(),
		Body:   rw.buffer.Bytes(),
	}

	if rw.bodyAllowed() {
		rw.detectContentType(response.Header)
		response = rw.service.Compress(rw.request, response)
	} else {
		PatchVary(response.Header, acceptEncoding)
	}

	rw.ResponseWriter.WriteHeader(response.Status)

	if len(response.Body) == 0 || rw.isHead() {
		return
	}

	if _, err := rw.ResponseWriter.Write(response.Body); err != nil {
		slog.LogAttrs(rw.request.Context(), slog.LevelError, "write response", slog.String("path", rw.request.URL.Path), slog.Any("error", err))
	}
}

// bodyAllowed reports whether the status carries a body. HEAD responses go through the gating too, so their headers match GET.
func (rw *responseWriter) bodyAllowed() bool {
	switch {
	case rw.status >= 100 && rw.status < 200, rw.status == http.StatusNoContent, rw.status == http.StatusNotModified:
		return false
	default:
		return true
	}
}

func (rw *responseWriter) isHead() bool {
	return rw.request.Method == http.MethodHead
}

// detectContentType prevents net/http from sniffing the compressed bytes
func (rw *responseWriter) detectContentType(header http.Header) {
	if _, ok := header["Content-Type"]; ok || rw.buffer.Len() == 0 {
		return
	}

	header.Set("Content-Type", http.DetectContentType(rw.buffer.Bytes()))
}
