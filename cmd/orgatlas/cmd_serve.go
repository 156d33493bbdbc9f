// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AleutianAI/OrgAtlas/pkg/logging"
	"github.com/AleutianAI/OrgAtlas/services/insight"
	"github.com/AleutianAI/OrgAtlas/services/insight/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// runServe starts the Insight HTTP API server.
//
// The server loads the snapshot at startup when a data path is
// configured, and otherwise reports not ready until a reload supplies
// one. SIGINT/SIGTERM trigger a graceful shutdown that drains in-flight
// requests before the snapshot watcher and telemetry are torn down.
func runServe(cmd *cobra.Command, args []string) {
	logger := logging.New(logging.Config{
		Level:   parseLogLevel(serveLogLevel),
		LogDir:  serveLogDir,
		Service: "insight",
		JSON:    true,
	})
	slog.SetDefault(logger.Slog())
	defer logger.Close()

	ctx := context.Background()

	// --- Telemetry ---
	shutdownTelemetry := func(context.Context) error { return nil }
	if !serveNoTelem {
		shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
		if err != nil {
			log.Fatalf("Failed to initialize telemetry: %v", err)
		}
		shutdownTelemetry = shutdown
	}

	// --- Insight service ---
	svcCfg := newServiceConfig()
	svcCfg.WatchData = serveWatch
	svc, err := insight.NewService(svcCfg)
	if err != nil {
		log.Fatalf("Failed to create insight service: %v", err)
	}
	defer svc.Close()

	if svcCfg.DataPath != "" {
		stats, err := svc.Load(ctx)
		if err != nil {
			log.Fatalf("Failed to load snapshot %s: %v", svcCfg.DataPath, err)
		}
		slog.Info("Snapshot loaded",
			"source", svcCfg.DataPath,
			"nodes", stats.Nodes,
			"edges", stats.Edges,
			"skipped", stats.Skipped)
	} else {
		slog.Warn("No data path configured, serving not-ready until a reload supplies one")
	}

	if serveWatch {
		if err := svc.Watch(); err != nil {
			log.Fatalf("Failed to start snapshot watcher: %v", err)
		}
	}

	// --- Router ---
	if serveDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if serveDebug {
		router.Use(gin.Logger())
	}
	if !serveNoTelem {
		router.Use(otelgin.Middleware("insight-service"))
	}
	rateLimit := serveRateLimit
	if rateLimit == 0 {
		rateLimit = config.Server.RateLimit
	}
	if rateLimit > 0 {
		burst := serveRateBurst
		if config.Server.RateBurst > 0 && !cmd.Flags().Changed("rate-burst") {
			burst = config.Server.RateBurst
		}
		router.Use(insight.RateLimitMiddleware(rateLimit, burst))
	}

	handlers := insight.NewHandlers(svc)
	v1 := router.Group("/v1")
	insight.RegisterRoutes(v1, handlers)

	if mh := telemetry.MetricsHandler(); mh != nil {
		router.GET("/metrics", gin.WrapH(mh))
	}

	port := servePort
	if config.Server.Port != 0 && !cmd.Flags().Changed("port") {
		port = config.Server.Port
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting Insight server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down Insight server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry shutdown failed", slog.String("error", err.Error()))
	}
}

// parseLogLevel maps the --log-level flag to a logging level,
// defaulting to info for unknown values.
func parseLogLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
