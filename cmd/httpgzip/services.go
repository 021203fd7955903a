package main

import (
	"fmt"

	"github.com/ViBiOh/httpgzip/pkg/cors"
	"github.com/ViBiOh/httpgzip/pkg/gzip"
	"github.com/ViBiOh/httpgzip/pkg/server"
	"github.com/ViBiOh/httpgzip/pkg/unzip"
)

const metricsNamespace = "httpgzip"

type services struct {
	server     *server.Server
	promServer *server.Server
	cors       cors.Service
	gzip       *gzip.Service
	unzip      unzip.Service
}

func newServices(config configuration, clients clients) (services, error) {
	var output services
	var err error

	output.server = server.New("app", config.appServer)
	output.promServer = server.New("prometheus", config.promServer)
	output.cors = cors.New(config.cors)

	registerer := clients.prometheus.Registerer()

	gzipRecorder, err := gzip.NewMetrics(registerer, metricsNamespace)
	if err != nil {
		return output, fmt.Errorf("gzip metrics: %w", err)
	}

	output.gzip, err = gzip.New(config.gzip, gzipRecorder)
	if err != nil {
		return output, fmt.Errorf("gzip: %w", err)
	}

	unzipRecorder, err := unzip.NewMetrics(registerer, metricsNamespace)
	if err != nil {
		return output, fmt.Errorf("unzip metrics: %w", err)
	}

	output.unzip, err = unzip.New(config.unzip, unzipRecorder, clients.telemetry.TracerProvider())
	if err != nil {
		return output, fmt.Errorf("unzip: %w", err)
	}

	return output, nil
}
