package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"
	"labplanner/config"
	"labplanner/infras/kafka"
	"labplanner/infras/otel"
	"labplanner/infras/s3"
	"labplanner/internal/domains/booking/collision"
	"labplanner/internal/domains/booking/model"
	"labplanner/internal/domains/booking/model/dto"
	"labplanner/internal/domains/booking/repository"
	equipmentModel "labplanner/internal/domains/equipment/model"
	equipmentRepo "labplanner/internal/domains/equipment/repository"
	overrideModel "labplanner/internal/domains/override/model"
	overrideRepo "labplanner/internal/domains/override/repository"
	"labplanner/shared"
	"labplanner/shared/cache"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"
	"labplanner/shared/event"
	"labplanner/shared/failure"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	errBookingNotFound = "booking not found"
	errCollision       = "booking collides with existing bookings or exceeds equipment capacity"
)

type Booking interface {
	Create(ctx context.Context, req dto.BookingRequest) (dto.BookingResponse, error)
	Check(ctx context.Context, req dto.BookingRequest, id int64) (dto.CheckResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id int64) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.BookingRequest, id int64) (dto.BookingResponse, error)
	Delete(ctx context.Context, id int64) error
	Export(ctx context.Context, req dto.ExportRequest) (dto.ExportResponse, error)
}

type serviceImpl struct {
	repo          repository.Booking
	equipmentRepo equipmentRepo.Equipment
	overrideRepo  overrideRepo.Override
	strategy      collision.Strategy
	rules         dto.Rules
	cfg           *config.Config
	cache         cache.RedisCache
	kafka         kafka.Client
	storage       s3.S3
	otel          otel.Otel
}

func New(
	repo repository.Booking,
	equipment equipmentRepo.Equipment,
	overrides overrideRepo.Override,
	cfg *config.Config,
	cache cache.RedisCache,
	kafka kafka.Client,
	storage s3.S3,
	otel otel.Otel,
) Booking {
	strategy, err := collision.ParseStrategy(cfg.Booking.CollisionStrategy)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to the per_day collision strategy")

		strategy = collision.StrategyPerDay
	}

	return &serviceImpl{
		repo:          repo,
		equipmentRepo: equipment,
		overrideRepo:  overrides,
		strategy:      strategy,
		rules:         dto.RulesFromConfig(cfg),
		cfg:           cfg,
		cache:         cache,
		kafka:         kafka,
		storage:       storage,
		otel:          otel,
	}
}

func byID(id int64) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func (s *serviceImpl) afterWrite(ctx context.Context, id int64, evt event.Event) {
	c := context.WithoutCancel(ctx)

	if id != 0 {
		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, strconv.FormatInt(id, 10))); err != nil {
			log.Error().Err(err).Int64("id", id).Msg("failed to delete booking from cache")
		}
	}

	shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	shared.InvalidateCaches(c, s.cache, constant.CacheKeyPlannerData)

	event.Publish(c, s.kafka, s.cfg.Kafka.Topic.Booking, evt)
}

// prepare normalises and validates the request, returning the date window it covers.
func (s *serviceImpl) prepare(req *dto.BookingRequest) (time.Time, time.Time, error) {
	req.Normalize()

	if ok, msg := req.Validate(s.rules); !ok {
		return time.Time{}, time.Time{}, failure.BadRequestFromString(msg) // nolint:wrapcheck
	}

	start, _ := civil.ParseDate(req.StartDate)
	end, _ := civil.ParseDate(req.EndDate)

	return start.In(time.UTC), end.In(time.UTC), nil
}

// evaluate loads the equipment, override and booking snapshots relevant to
// the candidate and runs the collision evaluator over them. A nil tx reads
// outside any transaction.
func (s *serviceImpl) evaluate(ctx context.Context, tx *sqlx.Tx, candidate collision.Candidate, from, to time.Time) (collision.Decision, error) {
	base := candidate.Equipment.Base

	equipment, err := s.equipmentRepo.Get(ctx,
		shared.FilterByID(base, equipmentModel.FieldName, equipmentModel.TableName),
		equipmentModel.FieldName, equipmentModel.FieldMaxTests,
	)
	if err != nil {
		return collision.Decision{}, fmt.Errorf("failed to get equipment: %w", err)
	}

	var snapshot []collision.Equipment
	if equipment.Name != constant.Empty {
		snapshot = append(snapshot, collision.Equipment{Name: equipment.Name, MaxTests: equipment.MaxTests})
	}

	var (
		overrides []overrideModel.CapacityOverride
		bookings  []model.Booking
	)

	overrideFilter := overrideRepo.FilterCovering(base, from, to)
	bookingFilter := repository.FilterOverlapping(base, from, to)

	if tx != nil {
		overrides, err = s.overrideRepo.GetAllTx(ctx, tx, gDto.QueryParams{}, overrideFilter)
	} else {
		overrides, err = s.overrideRepo.GetAll(ctx, gDto.QueryParams{}, overrideFilter)
	}

	if err != nil {
		return collision.Decision{}, fmt.Errorf("failed to get capacity overrides: %w", err)
	}

	if tx != nil {
		bookings, err = s.repo.GetAllTx(ctx, tx, gDto.QueryParams{}, bookingFilter)
	} else {
		bookings, err = s.repo.GetAll(ctx, gDto.QueryParams{}, bookingFilter)
	}

	if err != nil {
		return collision.Decision{}, fmt.Errorf("failed to get bookings: %w", err)
	}

	resolver := collision.NewSnapshotResolver(snapshot, overrideModel.ToCollision(overrides))

	return collision.New(s.strategy, resolver).Evaluate(ctx, candidate, model.ToReservations(bookings)), nil
}

// admit turns a rejected decision into the error returned to the caller.
func admit(decision collision.Decision) error {
	if decision.Accepted {
		return nil
	}

	if decision.Reason == collision.ReasonCapacityUnresolved {
		return fmt.Errorf("failed to resolve equipment capacity: %w", decision.Err)
	}

	return failure.Conflict(fmt.Sprintf("%s: %s", errCollision, decision.Reason)) // nolint:wrapcheck
}

func (s *serviceImpl) Create(ctx context.Context, req dto.BookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	from, to, err := s.prepare(&req)
	if err != nil {
		return res, err
	}

	user := shared.Actor(ctx)
	booking := req.ToModel(user)
	candidate := req.ToCandidate(0)

	err = s.repo.WithEquipmentLock(ctx, []string{booking.EquipmentName}, func(ctx context.Context, tx *sqlx.Tx) error {
		decision, err := s.evaluate(ctx, tx, candidate, from, to)
		if err != nil {
			return err
		}

		if err := admit(decision); err != nil {
			log.Warn().Str("equipment", req.EquipmentID).Str("reason", string(decision.Reason)).Msg("booking rejected")

			return err
		}

		booking.ID, err = s.repo.InsertReturningIDTx(ctx, tx, booking)
		if err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}

		return nil
	})
	if err != nil {
		if failure.GetCode(err) == http.StatusInternalServerError {
			log.Error().Err(err).Msg("failed to create booking")
		}

		return res, err
	}

	res.FromModel(booking)

	log.Info().Int64("id", booking.ID).Str("equipment", res.EquipmentID).Msg("booking created")

	go s.afterWrite(ctx, 0, event.New(ctx, model.EntityName, event.ActionCreated, strconv.FormatInt(booking.ID, 10), res))

	return res, nil
}

// Check evaluates the request without writing. id is the booking being
// edited, zero for a new one.
func (s *serviceImpl) Check(ctx context.Context, req dto.BookingRequest, id int64) (res dto.CheckResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Check")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	from, to, err := s.prepare(&req)
	if err != nil {
		return res, err
	}

	decision, err := s.evaluate(ctx, nil, req.ToCandidate(id), from, to)
	if err != nil {
		log.Error().Err(err).Msg("failed to evaluate booking")

		return res, err
	}

	if decision.Reason == collision.ReasonCapacityUnresolved {
		return res, admit(decision)
	}

	res.Strategy = string(s.strategy)
	res.Decision = decision

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, strconv.FormatInt(id, 10))

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	booking, err := s.repo.Get(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return res, failure.NotFound(errBookingNotFound) // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// Update replaces every field of the booking. The booking is re-evaluated
// with its own id excluded from the occupancy count.
func (s *serviceImpl) Update(ctx context.Context, req dto.BookingRequest, id int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	from, to, err := s.prepare(&req)
	if err != nil {
		return res, err
	}

	current, err := s.repo.Get(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if current.ID == 0 {
		return res, failure.NotFound(errBookingNotFound) // nolint:wrapcheck
	}

	user := shared.Actor(ctx)
	candidate := req.ToCandidate(id)
	fields := req.ToUpdate(user)

	// Moving a booking frees capacity on its previous equipment, so both are locked.
	locked := []string{current.EquipmentName, candidate.Equipment.Base}

	err = s.repo.WithEquipmentLock(ctx, locked, func(ctx context.Context, tx *sqlx.Tx) error {
		decision, err := s.evaluate(ctx, tx, candidate, from, to)
		if err != nil {
			return err
		}

		if err := admit(decision); err != nil {
			log.Warn().Int64("id", id).Str("reason", string(decision.Reason)).Msg("booking update rejected")

			return err
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, byID(id)); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		return nil
	})
	if err != nil {
		if failure.GetCode(err) == http.StatusInternalServerError {
			log.Error().Err(err).Int64("id", id).Msg("failed to update booking")
		}

		return res, err
	}

	booking, err := s.repo.Get(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get updated booking")

		return res, fmt.Errorf("failed to get updated booking: %w", err)
	}

	res.FromModel(booking)

	go s.afterWrite(ctx, id, event.New(ctx, model.EntityName, event.ActionUpdated, strconv.FormatInt(id, 10), res))

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	deleted, err := s.repo.DeleteCount(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if deleted == 0 {
		return failure.NotFound(errBookingNotFound) // nolint:wrapcheck
	}

	go s.afterWrite(ctx, id, event.New(ctx, model.EntityName, event.ActionDeleted, strconv.FormatInt(id, 10), nil))

	return nil
}
