package main

import (
	"flag"
	"os"
	"time"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httpgzip/pkg/alcotest"
	"github.com/ViBiOh/httpgzip/pkg/cors"
	"github.com/ViBiOh/httpgzip/pkg/gzip"
	"github.com/ViBiOh/httpgzip/pkg/health"
	"github.com/ViBiOh/httpgzip/pkg/logger"
	"github.com/ViBiOh/httpgzip/pkg/prometheus"
	"github.com/ViBiOh/httpgzip/pkg/server"
	"github.com/ViBiOh/httpgzip/pkg/telemetry"
	"github.com/ViBiOh/httpgzip/pkg/unzip"
)

type configuration struct {
	appServer  server.Config
	promServer server.Config
	health     health.Config
	alcotest   alcotest.Config
	logger     logger.Config
	prometheus prometheus.Config
	telemetry  telemetry.Config
	cors       cors.Config
	gzip       gzip.Config
	unzip      unzip.Config
}

func newConfig() (configuration, error) {
	fs := flag.NewFlagSet("httpgzip", flag.ExitOnError)
	return configuration{
		appServer:  server.Flags(fs, ""),
		promServer: server.Flags(fs, "prometheus", flags.NewOverride("Port", uint(9090)), flags.NewOverride("IdleTimeout", 10*time.Second), flags.NewOverride("ShutdownTimeout", 5*time.Second)),
		health:     health.Flags(fs, ""),
		alcotest:   alcotest.Flags(fs, ""),
		logger:     logger.Flags(fs, "logger"),
		prometheus: prometheus.Flags(fs, "prometheus"),
		telemetry:  telemetry.Flags(fs, "telemetry"),
		cors:       cors.Flags(fs, "cors"),
		gzip:       gzip.Flags(fs, "gzip"),
		unzip:      unzip.Flags(fs, "unzip"),
	}, fs.Parse(os.Args[1:])
}
