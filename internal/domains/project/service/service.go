package service

import (
	"context"
	"fmt"

	"labplanner/config"
	"labplanner/infras/otel"
	"labplanner/internal/domains/project/model"
	"labplanner/internal/domains/project/model/dto"
	"labplanner/internal/domains/project/repository"
	"labplanner/shared"
	"labplanner/shared/cache"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"
	"labplanner/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetProject    = "project:get"
	cacheGetAllProject = "project:gets"
	cacheCountProject  = "project:count"
)

type Project interface {
	Create(ctx context.Context, req dto.CreateProjectRequest) (dto.ProjectResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetProjectsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, name string) (dto.ProjectResponse, error)
	Update(ctx context.Context, req dto.UpdateProjectRequest, name string) (dto.ProjectResponse, error)
	Delete(ctx context.Context, name string) error
}

type serviceImpl struct {
	repo  repository.Project
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Project, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Project {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func filterByName(name string) gDto.FilterGroup {
	return shared.FilterByID(name, model.FieldName, model.TableName)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateProjectRequest) (res dto.ProjectResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := shared.Actor(ctx)
	project := req.ToModel(user, s.cfg.Booking.DefaultTextColor)

	if err = s.repo.Insert(ctx, project); err != nil {
		if shared.IsUniqueViolation(err) {
			return res, failure.Conflict("project with this name already exists") // nolint:wrapcheck
		}

		log.Error().Err(err).Str("project", project.Name).Msg("failed to create project")

		return res, fmt.Errorf("failed to create project: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllProject)
		shared.InvalidateCaches(c, s.cache, cacheCountProject)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyPlannerData)
	}()

	res.FromModel(project)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetProjectsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllProject, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get projects")

		return res, fmt.Errorf("failed to get projects: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save projects to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountProject, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	if res, err = s.repo.Count(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to count projects")

		return res, fmt.Errorf("failed to count projects: %w", err)
	}

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save project count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, name string) (res dto.ProjectResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetProject, name)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	project, err := s.find(ctx, name)
	if err != nil {
		return res, err
	}

	res.FromModel(project)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save project to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, name string) (model.Project, error) {
	project, err := s.repo.Get(ctx, filterByName(name))
	if err != nil {
		log.Error().Err(err).Str("project", name).Msg("failed to get project")

		return project, fmt.Errorf("failed to get project: %w", err)
	}

	if project.Name == constant.Empty {
		return project, failure.NotFound("project not found") // nolint:wrapcheck
	}

	return project, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateProjectRequest, name string) (res dto.ProjectResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := shared.Actor(ctx)

	if _, err = s.find(ctx, name); err != nil {
		return res, err
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filterByName(name)); err != nil {
		log.Error().Err(err).Str("project", name).Msg("failed to update project")

		return res, fmt.Errorf("failed to update project: %w", err)
	}

	s.afterWrite(ctx, name)

	updated, err := s.find(ctx, name)
	if err != nil {
		return res, err
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, name string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.find(ctx, name); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, filterByName(name)); err != nil {
		log.Error().Err(err).Str("project", name).Msg("failed to delete project")

		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.afterWrite(ctx, name)

	return nil
}

func (s *serviceImpl) afterWrite(ctx context.Context, name string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetProject, name)); err != nil {
			log.Error().Err(err).Msg("failed to delete project cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllProject)
		shared.InvalidateCaches(c, s.cache, cacheCountProject)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyPlannerData)
	}()
}
