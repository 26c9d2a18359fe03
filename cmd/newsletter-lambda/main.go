// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// The newsletter-lambda command runs the subscription relay behind an API Gateway HTTP API.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	apiservice "github.com/linuxfoundation/lfx-v2-newsletter-service/cmd/newsletter-api/service"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/cmd/newsletter-lambda/handler"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
	logging "github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/log"
	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/utils"
)

const shutdownTimeout = 2 * time.Second

func main() {
	logging.InitStructureLogConfig()
	ctx := context.Background()

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		log.Fatalf("error setting up OpenTelemetry SDK: %v", err)
	}

	config, err := apiservice.LoadConfig(os.Getenv(constants.EnvConfigFile))
	if err != nil {
		log.Fatalf("error loading configuration: %v", err)
	}

	providers, err := apiservice.NewProviders(ctx, config)
	if err != nil {
		log.Fatalf("error initializing providers: %v", err)
	}

	h := handler.New(providers.Relay(config), config.Server.BodyLimitBytes)

	lambda.StartWithOptions(h.Subscribe, lambda.WithEnableSIGTERM(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := providers.Close(); err != nil {
			slog.ErrorContext(shutdownCtx, "error closing providers", "error", err)
		}
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "error shutting down OpenTelemetry SDK", "error", err)
		}
	}))
}
