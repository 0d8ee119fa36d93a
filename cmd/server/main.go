package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/supplyplan/internal/api"
	"github.com/andresuchdata/supplyplan/internal/bootstrap"
	"github.com/andresuchdata/supplyplan/internal/config"
	"github.com/andresuchdata/supplyplan/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize planner")
	}
	defer app.Close()

	router := api.NewRouter(&api.Services{Planner: app.Planner}, api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadMB:    cfg.Server.MaxUploadMB,
	})

	if err := api.Serve(ctx, cfg.Server, router); err != nil {
		logger.Log.Error().Err(err).Msg("Server stopped with error")
	}
}
