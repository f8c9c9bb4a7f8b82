//go:build wireinject
// +build wireinject

package di

import (
	"labplanner/config"
	"labplanner/infras/jwt"
	"labplanner/infras/kafka"
	"labplanner/infras/otel"
	"labplanner/infras/postgres"
	"labplanner/infras/redis"
	"labplanner/infras/s3"
	"labplanner/infras/scheduler"
	"labplanner/internal/jobs"
	"labplanner/permissions"
	"labplanner/shared/cache"
	"labplanner/transport/http"
	"labplanner/transport/http/middleware"
	"labplanner/transport/http/router"

	"github.com/google/wire"

	authService "labplanner/internal/domains/auth/service"
	bookingRepository "labplanner/internal/domains/booking/repository"
	bookingService "labplanner/internal/domains/booking/service"
	equipmentRepository "labplanner/internal/domains/equipment/repository"
	equipmentService "labplanner/internal/domains/equipment/service"
	overrideRepository "labplanner/internal/domains/override/repository"
	overrideService "labplanner/internal/domains/override/service"
	plannerService "labplanner/internal/domains/planner/service"
	projectRepository "labplanner/internal/domains/project/repository"
	projectService "labplanner/internal/domains/project/service"
	authHandler "labplanner/internal/handlers/auth"
	bookingHandler "labplanner/internal/handlers/booking"
	equipmentHandler "labplanner/internal/handlers/equipment"
	overrideHandler "labplanner/internal/handlers/override"
	plannerHandler "labplanner/internal/handlers/planner"
	projectHandler "labplanner/internal/handlers/project"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	scheduler.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	wire.Struct(new(router.Middlewares), "*"),
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var equipmentDomain = wire.NewSet(
	equipmentRepository.New,
	equipmentService.New,
)

var overrideDomain = wire.NewSet(
	overrideRepository.New,
	overrideService.New,
)

var projectDomain = wire.NewSet(
	projectRepository.New,
	projectService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	authService.New,
	equipmentDomain,
	overrideDomain,
	projectDomain,
	bookingDomain,
	plannerService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	equipmentHandler.New,
	overrideHandler.New,
	projectHandler.New,
	bookingHandler.New,
	plannerHandler.New,
	router.New,
)

func InitializeService() (*App, error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		jobs.New,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}, nil
}
