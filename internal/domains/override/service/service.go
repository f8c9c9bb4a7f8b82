package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"labplanner/config"
	"labplanner/infras/kafka"
	"labplanner/infras/otel"
	"labplanner/internal/domains/booking/collision"
	equipmentModel "labplanner/internal/domains/equipment/model"
	equipmentRepo "labplanner/internal/domains/equipment/repository"
	"labplanner/internal/domains/override/model"
	"labplanner/internal/domains/override/model/dto"
	"labplanner/internal/domains/override/repository"
	"labplanner/shared"
	"labplanner/shared/cache"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"
	"labplanner/shared/event"
	"labplanner/shared/failure"
	"labplanner/shared/timezone"
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	errOverrideNotFound  = "capacity override not found"
	errEquipmentNotFound = "equipment not found"
	errInvalidDate       = "date must be in YYYY-MM-DD format"
)

type Override interface {
	GetAll(ctx context.Context) (dto.GetOverridesResponse, error)
	GetByEquipment(ctx context.Context, equipmentName string) (dto.GetOverridesResponse, error)
	Create(ctx context.Context, equipmentName string, req dto.CreateOverrideRequest) (dto.OverrideResponse, error)
	Delete(ctx context.Context, id int64) error
	Capacity(ctx context.Context, equipmentName, date string) (dto.CapacityResponse, error)
	PurgeExpired(ctx context.Context) (dto.PurgeResponse, error)
}

type serviceImpl struct {
	repo          repository.Override
	equipmentRepo equipmentRepo.Equipment
	resolver      *storeResolver
	cfg           *config.Config
	cache         cache.RedisCache
	kafka         kafka.Client
	otel          otel.Otel
}

func New(
	repo repository.Override,
	equipment equipmentRepo.Equipment,
	cfg *config.Config,
	cache cache.RedisCache,
	kafka kafka.Client,
	otel otel.Otel,
) Override {
	return &serviceImpl{
		repo:          repo,
		equipmentRepo: equipment,
		resolver:      &storeResolver{equipment: equipment, overrides: repo},
		cfg:           cfg,
		cache:         cache,
		kafka:         kafka,
		otel:          otel,
	}
}

func byID(id int64) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

// sortOverrides orders by equipment, then start date, then id.
func sortOverrides(overrides []model.CapacityOverride) {
	slices.SortStableFunc(overrides, func(a, b model.CapacityOverride) int {
		return cmp.Or(
			cmp.Compare(a.EquipmentName, b.EquipmentName),
			a.StartDate.Compare(b.StartDate),
			cmp.Compare(a.ID, b.ID),
		)
	})
}

func (s *serviceImpl) afterWrite(ctx context.Context, evt event.Event) {
	c := context.WithoutCancel(ctx)

	shared.InvalidateCaches(c, s.cache, constant.CacheKeyOverrideGets)
	shared.InvalidateCaches(c, s.cache, constant.CacheKeyOverrideCapacity)
	shared.InvalidateCaches(c, s.cache, constant.CacheKeyPlannerData)

	event.Publish(c, s.kafka, s.cfg.Kafka.Topic.Override, evt)
}

func (s *serviceImpl) list(ctx context.Context, cacheKey string, filter gDto.FilterGroup) (res dto.GetOverridesResponse, err error) {
	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for capacity overrides")

		return res, nil
	}

	overrides, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get capacity overrides")

		return res, fmt.Errorf("failed to get capacity overrides: %w", err)
	}

	sortOverrides(overrides)
	res.FromModels(overrides)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save capacity overrides to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context) (res dto.GetOverridesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.list(ctx, shared.BuildCacheKey(constant.CacheKeyOverrideGets, "all"), gDto.FilterGroup{})
}

func (s *serviceImpl) GetByEquipment(ctx context.Context, equipmentName string) (res dto.GetOverridesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByEquipment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.ensureEquipment(ctx, equipmentName); err != nil {
		return res, err
	}

	return s.list(ctx,
		shared.BuildCacheKey(constant.CacheKeyOverrideGets, "equipment", equipmentName),
		repository.FilterByEquipment(equipmentName),
	)
}

func (s *serviceImpl) ensureEquipment(ctx context.Context, equipmentName string) error {
	exist, err := s.equipmentRepo.Exist(ctx, shared.FilterByID(equipmentName, equipmentModel.FieldName, equipmentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check equipment existence")

		return fmt.Errorf("failed to check equipment existence: %w", err)
	}

	if !exist {
		return failure.NotFound(errEquipmentNotFound) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Create(ctx context.Context, equipmentName string, req dto.CreateOverrideRequest) (res dto.OverrideResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	start, end, err := req.Window()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = s.ensureEquipment(ctx, equipmentName); err != nil {
		return res, err
	}

	user := shared.Actor(ctx)
	override := req.ToModel(user, equipmentName, start, end)

	override.ID, err = s.repo.InsertReturningID(ctx, override)
	if err != nil {
		if shared.IsForeignKeyViolation(err) {
			return res, failure.NotFound(errEquipmentNotFound) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create capacity override")

		return res, fmt.Errorf("failed to create capacity override: %w", err)
	}

	res.FromModel(override)

	go s.afterWrite(ctx, event.New(ctx, model.EntityName, event.ActionCreated, strconv.FormatInt(override.ID, 10), res))

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	deleted, err := s.repo.DeleteCount(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to delete capacity override")

		return fmt.Errorf("failed to delete capacity override: %w", err)
	}

	if deleted == 0 {
		return failure.NotFound(errOverrideNotFound) // nolint:wrapcheck
	}

	key := strconv.FormatInt(id, 10)
	go s.afterWrite(ctx, event.New(ctx, model.EntityName, event.ActionDeleted, key, nil))

	return nil
}

// Capacity reports the base and effective capacity of the equipment on date.
func (s *serviceImpl) Capacity(ctx context.Context, equipmentName, date string) (res dto.CapacityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Capacity")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	day, err := collision.ParseDate(date)
	if err != nil {
		return res, failure.BadRequestFromString(errInvalidDate) // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(constant.CacheKeyOverrideCapacity, equipmentName, day.String())

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	base, err := s.resolver.BaseCapacity(ctx, equipmentName)
	if err != nil {
		if errors.Is(err, collision.ErrEquipmentNotFound) {
			return res, failure.NotFound(errEquipmentNotFound) // nolint:wrapcheck
		}

		log.Error().Err(err).Str("equipment", equipmentName).Msg("failed to resolve base capacity")

		return res, err
	}

	override, found, err := s.resolver.activeOverride(ctx, equipmentName, day)
	if err != nil {
		log.Error().Err(err).Str("equipment", equipmentName).Msg("failed to resolve capacity override")

		return res, err
	}

	res = dto.CapacityResponse{
		EquipmentName:     equipmentName,
		Date:              day.String(),
		BaseCapacity:      base,
		EffectiveCapacity: base,
	}

	if found {
		res.EffectiveCapacity = override.MaxTests
		res.OverrideID = &override.ID
	}

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save capacity to cache")
		}
	}()

	return res, nil
}

// PurgeExpired deletes overrides that ended more than the configured retention ago.
// A non-positive retention disables purging.
func (s *serviceImpl) PurgeExpired(ctx context.Context) (res dto.PurgeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".PurgeExpired")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	retention := s.cfg.Booking.OverrideRetentionDays
	if retention <= 0 {
		log.Debug().Msg("capacity override purge disabled")

		return res, nil
	}

	cutoff := timezone.Today().AddDays(-retention)
	res.Cutoff = cutoff.String()

	res.Deleted, err = s.repo.DeleteCount(ctx, repository.FilterEndedBefore(cutoff.In(time.UTC)))
	if err != nil {
		log.Error().Err(err).Msg("failed to purge capacity overrides")

		return res, fmt.Errorf("failed to purge capacity overrides: %w", err)
	}

	log.Info().Int64("deleted", res.Deleted).Str("cutoff", res.Cutoff).Msg("purged expired capacity overrides")

	if res.Deleted > 0 {
		go s.afterWrite(ctx, event.New(ctx, model.EntityName, event.ActionPurged, res.Cutoff, res))
	}

	return res, nil
}
