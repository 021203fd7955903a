package main

import (
	"context"
	"syscall"

	"github.com/ViBiOh/httpgzip/pkg/alcotest"
	"github.com/ViBiOh/httpgzip/pkg/logger"
	"github.com/ViBiOh/httpgzip/pkg/server"
)

func main() {
	ctx := context.Background()

	config, err := newConfig()
	logger.FatalfOnErr(ctx, err, "config")

	alcotest.DoAndExit(config.alcotest)

	clients, err := newClients(ctx, config)
	logger.FatalfOnErr(ctx, err, "clients")

	defer clients.Close(ctx)

	services, err := newServices(config, clients)
	logger.FatalfOnErr(ctx, err, "services")

	ctxEnd := clients.health.EndCtx(ctx)

	go services.promServer.Start(ctxEnd, clients.prometheus.Handler())
	go services.server.Start(ctxEnd, newPort(clients, services))

	clients.health.WaitForTermination(services.server.Done(), syscall.SIGTERM, syscall.SIGINT)
	server.GracefulWait(services.server.Done(), services.promServer.Done())
}
