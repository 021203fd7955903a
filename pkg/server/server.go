package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ViBiOh/flags"
)

type Server struct {
	done            chan struct{}
	server          *http.Server
	cert            string
	key             string
	name            string
	shutdownTimeout time.Duration
}

type Config struct {
	address         *string
	cert            *string
	key             *string
	port            *uint
	readTimeout     *time.Duration
	writeTimeout    *time.Duration
	idleTimeout     *time.Duration
	shutdownTimeout *time.Duration
}

func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) Config {
	return Config{
		address:         flags.New("Address", "Listen address").Prefix(prefix).DocPrefix("server").String(fs, "", overrides),
		port:            flags.New("Port", "Listen port (0 to disable)").Prefix(prefix).DocPrefix("server").Uint(fs, 1080, overrides),
		cert:            flags.New("Cert", "Certificate file").Prefix(prefix).DocPrefix("server").String(fs, "", overrides),
		key:             flags.New("Key", "Key file").Prefix(prefix).DocPrefix("server").String(fs, "", overrides),
		readTimeout:     flags.New("ReadTimeout", "Read Timeout").Prefix(prefix).DocPrefix("server").Duration(fs, 5*time.Second, overrides),
		writeTimeout:    flags.New("WriteTimeout", "Write Timeout").Prefix(prefix).DocPrefix("server").Duration(fs, 10*time.Second, overrides),
		idleTimeout:     flags.New("IdleTimeout", "Idle Timeout").Prefix(prefix).DocPrefix("server").Duration(fs, 2*time.Minute, overrides),
		shutdownTimeout: flags.New("ShutdownTimeout", "Shutdown Timeout").Prefix(prefix).DocPrefix("server").Duration(fs, 10*time.Second, overrides),
	}
}

func New(name string, config Config) *Server {
	port := *config.port

	var server *http.Server
	if port != 0 {
		server = &http.Server{
			Addr:         fmt.Sprintf("%s:%d", *config.address, port),
			ReadTimeout:  *config.readTimeout,
			WriteTimeout: *config.writeTimeout,
			IdleTimeout:  *config.idleTimeout,
		}
	}

	return &Server{
		name:            name,
		cert:            *config.cert,
		key:             *config.key,
		shutdownTimeout: *config.shutdownTimeout,
		server:          server,
		done:            make(chan struct{}),
	}
}

// Done is closed once the server is stopped
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Start serves the handler until the context is done
func (s *Server) Start(ctx context.Context, handler http.Handler) {
	defer close(s.done)

	if s.server == nil {
		slog.WarnContext(ctx, "No port configured, server disabled", slog.String("name", s.name))
		return
	}

	s.server.Handler = handler

	serveErr := make(chan error, 1)

	go func() {
		defer close(serveErr)

		var err error

		if len(s.cert) != 0 && len(s.key) != 0 {
			slog.InfoContext(ctx, "Listening with TLS", slog.String("name", s.name), slog.String("address", s.server.Addr))
			err = s.server.ListenAndServeTLS(s.cert, s.key)
		} else {
			slog.WarnContext(ctx, "Listening without TLS", slog.String("name", s.name), slog.String("address", s.server.Addr))
			err = s.server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			slog.LogAttrs(ctx, slog.LevelError, "serve", slog.String("name", s.name), slog.Any("error", err))
		}

	case <-ctx.Done():
		s.shutdown(context.WithoutCancel(ctx))
	}
}

func (s *Server) shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	slog.InfoContext(ctx, "Shutting down server", slog.String("name", s.name))

	if err := s.server.Shutdown(ctx); err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "shutdown", slog.String("name", s.name), slog.Any("error", err))
	}
}

// GracefulWait blocks until every given done channel is closed
func GracefulWait(dones ...<-chan struct{}) {
	for _, done := range dones {
		<-done
	}
}
