package di

import (
	"context"
	"labplanner/infras/kafka"
	"labplanner/infras/otel"
	"labplanner/infras/postgres"
	"labplanner/internal/jobs"
	"labplanner/transport/http"

	"github.com/rs/zerolog/log"
)

// App is the process: the HTTP server plus the resources it must release on exit.
type App struct {
	HTTP  *http.HTTP
	Jobs  *jobs.Jobs
	Kafka kafka.Client
	Otel  otel.Otel
	DB    *postgres.Connection
}

// Close releases everything in reverse dependency order.
func (a *App) Close(ctx context.Context) {
	if err := a.Jobs.Shutdown(); err != nil {
		log.Error().Err(err).Msg("failed to stop scheduler")
	}

	if err := a.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close kafka writers")
	}

	if err := a.DB.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close postgres connections")
	}

	otel.Shutdown(ctx, a.Otel)
}
