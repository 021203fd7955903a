package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ViBiOh/httpgzip/pkg/health"
	"github.com/ViBiOh/httpgzip/pkg/logger"
	"github.com/ViBiOh/httpgzip/pkg/prometheus"
	"github.com/ViBiOh/httpgzip/pkg/telemetry"
)

type clients struct {
	telemetry  telemetry.Service
	prometheus prometheus.Service
	health     *health.Service
}

const closeTimeout = time.Second * 10

func newClients(ctx context.Context, config configuration) (clients, error) {
	var output clients
	var err error

	logger.Init(ctx, config.logger)

	output.telemetry, err = telemetry.New(ctx, config.telemetry)
	if err != nil {
		return output, fmt.Errorf("telemetry: %w", err)
	}

	output.prometheus = prometheus.New(config.prometheus)
	output.health = health.New(config.health)

	return output, nil
}

func (c clients) Close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, closeTimeout)
	defer cancel()

	c.telemetry.Close(ctx)
}
