package service

import (
	"context"
	"fmt"
	"labplanner/config"
	"labplanner/infras/otel"
	bookingModel "labplanner/internal/domains/booking/model"
	bookingDto "labplanner/internal/domains/booking/model/dto"
	bookingRepo "labplanner/internal/domains/booking/repository"
	equipmentModel "labplanner/internal/domains/equipment/model"
	equipmentDto "labplanner/internal/domains/equipment/model/dto"
	equipmentRepo "labplanner/internal/domains/equipment/repository"
	"labplanner/internal/domains/planner/model/dto"
	projectModel "labplanner/internal/domains/project/model"
	projectDto "labplanner/internal/domains/project/model/dto"
	projectRepo "labplanner/internal/domains/project/repository"
	"labplanner/shared"
	"labplanner/shared/cache"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Planner interface {
	Data(ctx context.Context) (dto.DataResponse, error)
}

type serviceImpl struct {
	equipment equipmentRepo.Equipment
	bookings  bookingRepo.Booking
	projects  projectRepo.Project
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	equipment equipmentRepo.Equipment,
	bookings bookingRepo.Booking,
	projects projectRepo.Project,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Planner {
	return &serviceImpl{
		equipment: equipment,
		bookings:  bookings,
		projects:  projects,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func sortedBy(field string) gDto.QueryParams {
	return gDto.QueryParams{SortBy: field, SortDir: gDto.SortDirAsc}
}

func (s *serviceImpl) Data(ctx context.Context) (res dto.DataResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Data")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(constant.CacheKeyPlannerData, "all")

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	var (
		equipments []equipmentModel.Equipment
		bookings   []bookingModel.Booking
		projects   []projectModel.Project
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		equipments, err = s.equipment.GetAll(groupCtx, sortedBy(equipmentModel.FieldName), gDto.FilterGroup{})
		if err != nil {
			return fmt.Errorf("failed to get equipment: %w", err)
		}

		return nil
	})

	group.Go(func() (err error) {
		bookings, err = s.bookings.GetAll(groupCtx, sortedBy(bookingModel.FieldStartDate), gDto.FilterGroup{})
		if err != nil {
			return fmt.Errorf("failed to get bookings: %w", err)
		}

		return nil
	})

	group.Go(func() (err error) {
		projects, err = s.projects.GetAll(groupCtx, sortedBy(projectModel.FieldName), gDto.FilterGroup{})
		if err != nil {
			return fmt.Errorf("failed to get projects: %w", err)
		}

		return nil
	})

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to load planner data")

		return res, err
	}

	res.Equipment = make([]equipmentDto.EquipmentResponse, len(equipments))
	for i, m := range equipments {
		res.Equipment[i].FromModel(m)
	}

	res.Bookings = make([]bookingDto.BookingResponse, len(bookings))
	for i, m := range bookings {
		res.Bookings[i].FromModel(m)
	}

	res.Projects = make([]projectDto.ProjectResponse, len(projects))
	for i, m := range projects {
		res.Projects[i].FromModel(m)
	}

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save planner data to cache")
		}
	}()

	return res, nil
}
