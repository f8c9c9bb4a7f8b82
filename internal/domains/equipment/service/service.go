package service

import (
	"context"
	"fmt"

	"labplanner/config"
	"labplanner/infras/otel"
	"labplanner/internal/domains/equipment/model"
	"labplanner/internal/domains/equipment/model/dto"
	"labplanner/internal/domains/equipment/repository"
	"labplanner/shared"
	"labplanner/shared/cache"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"
	"labplanner/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetEquipment    = "equipment:get"
	cacheGetAllEquipment = "equipment:gets"
	cacheCountEquipment  = "equipment:count"

	errEquipmentNotFound = "equipment not found"
	errEquipmentExists   = "equipment with this name already exists"
)

type Equipment interface {
	Create(ctx context.Context, req dto.CreateEquipmentRequest) (dto.EquipmentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetEquipmentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, name string) (dto.EquipmentResponse, error)
	Update(ctx context.Context, req dto.UpdateEquipmentRequest, name string) error
	Delete(ctx context.Context, name string) error
}

type serviceImpl struct {
	repo  repository.Equipment
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Equipment, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Equipment {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func byName(name string) gDto.FilterGroup {
	return shared.FilterByID(name, model.FieldName, model.TableName)
}

func (s *serviceImpl) invalidate(ctx context.Context, name string) {
	c := context.WithoutCancel(ctx)

	if name != constant.Empty {
		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetEquipment, name)); err != nil {
			log.Error().Err(err).Str("equipment", name).Msg("failed to delete equipment cache")
		}
	}

	shared.InvalidateCaches(c, s.cache, cacheGetAllEquipment)
	shared.InvalidateCaches(c, s.cache, cacheCountEquipment)
	shared.InvalidateCaches(c, s.cache, constant.CacheKeyOverrideCapacity)
	shared.InvalidateCaches(c, s.cache, constant.CacheKeyPlannerData)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateEquipmentRequest) (res dto.EquipmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := shared.Actor(ctx)
	equipment := req.ToModel(user, s.cfg)

	exist, err := s.repo.Exist(ctx, byName(equipment.Name))
	if err != nil {
		log.Error().Err(err).Msg("failed to check equipment existence")

		return res, fmt.Errorf("failed to check equipment existence: %w", err)
	}

	if exist {
		return res, failure.Conflict(errEquipmentExists) // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, equipment); err != nil {
		if shared.IsUniqueViolation(err) {
			return res, failure.Conflict(errEquipmentExists) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create equipment")

		return res, fmt.Errorf("failed to create equipment: %w", err)
	}

	go s.invalidate(ctx, constant.Empty)

	res.FromModel(equipment)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetEquipmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllEquipment, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for equipment list")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get equipment")

		return res, fmt.Errorf("failed to get equipment: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save equipment list to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountEquipment, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count equipment")

		return res, fmt.Errorf("failed to count equipment: %w", err)
	}

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save equipment count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, name string) (res dto.EquipmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetEquipment, name)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	equipment, err := s.repo.Get(ctx, byName(name))
	if err != nil {
		log.Error().Err(err).Str("equipment", name).Msg("failed to get equipment")

		return res, fmt.Errorf("failed to get equipment: %w", err)
	}

	if equipment.Name == constant.Empty {
		return res, failure.NotFound(errEquipmentNotFound) // nolint:wrapcheck
	}

	res.FromModel(equipment)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save equipment to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateEquipmentRequest, name string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := shared.Actor(ctx)

	exist, err := s.repo.Exist(ctx, byName(name))
	if err != nil {
		log.Error().Err(err).Msg("failed to check equipment existence")

		return fmt.Errorf("failed to check equipment existence: %w", err)
	}

	if !exist {
		return failure.NotFound(errEquipmentNotFound) // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), byName(name)); err != nil {
		log.Error().Err(err).Str("equipment", name).Msg("failed to update equipment")

		return fmt.Errorf("failed to update equipment: %w", err)
	}

	go s.invalidate(ctx, name)

	return nil
}

// Delete removes the equipment. Its capacity overrides go with it through the foreign key.
func (s *serviceImpl) Delete(ctx context.Context, name string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exist, err := s.repo.Exist(ctx, byName(name))
	if err != nil {
		log.Error().Err(err).Msg("failed to check equipment existence")

		return fmt.Errorf("failed to check equipment existence: %w", err)
	}

	if !exist {
		return failure.NotFound(errEquipmentNotFound) // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, byName(name)); err != nil {
		log.Error().Err(err).Str("equipment", name).Msg("failed to delete equipment")

		return fmt.Errorf("failed to delete equipment: %w", err)
	}

	go func() {
		s.invalidate(ctx, name)
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, constant.CacheKeyOverrideGets)
	}()

	return nil
}
