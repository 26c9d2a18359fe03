// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// The newsletter-api command relays newsletter signups to the email marketing provider.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/cmd/newsletter-api/service"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
	logging "github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/log"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/utils"
)

const otelShutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	var (
		port       = flag.String("p", "", "listen port, overrides PORT")
		bind       = flag.String("bind", "*", "interface to bind on")
		configFile = flag.String("config", os.Getenv(constants.EnvConfigFile), "optional YAML configuration file")
	)
	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	logging.InitStructureLogConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error setting up OpenTelemetry SDK", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "error shutting down OpenTelemetry SDK", "error", err)
		}
	}()

	config, err := service.LoadConfig(*configFile)
	if err != nil {
		slog.ErrorContext(ctx, "error loading configuration", "error", err, logging.PriorityCritical())
		return 1
	}
	if *port != "" {
		config.Server.Port = *port
	}

	providers, err := service.NewProviders(ctx, config)
	if err != nil {
		slog.ErrorContext(ctx, "error initializing providers", "error", err, logging.PriorityCritical())
		return 1
	}
	defer func() {
		if err := providers.Close(); err != nil {
			slog.ErrorContext(ctx, "error closing providers", "error", err)
		}
	}()

	svc := service.NewNewsletterService(providers.Relay(config), providers.Pingers()...)
	handler := service.NewRouter(svc, config.Server)

	addr := listenAddr(*bind, config.Server.Port)
	if err := runHTTPServer(ctx, addr, handler); err != nil {
		slog.ErrorContext(ctx, "HTTP server exited with error", "error", err)
		return 1
	}

	slog.InfoContext(ctx, "exited")
	return 0
}

// listenAddr joins the bind flag and port, "*" meaning every interface
func listenAddr(bind, port string) string {
	if bind == "*" {
		bind = ""
	}
	return bind + ":" + port
}
