package main

import (
	"context"
	"labplanner/config"
	"labplanner/di"
	"labplanner/helper"
	"labplanner/shared/logger"
	"time"

	"github.com/rs/zerolog/log"
)

const closeTimeout = 10 * time.Second

// @title Lab Planner API
// @version 1.0
// @description Booking capacity planner for lab equipment.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg.Server.Env)

	logger.SetLogLevel(cfg)

	if err := helper.AutoMigrate(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database migrations")
	}

	app, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize service")
	}

	app.Jobs.Start()
	app.HTTP.Serve()

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	app.Close(ctx)
}
