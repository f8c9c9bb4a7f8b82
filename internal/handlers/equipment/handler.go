package equipment

import (
	"labplanner/infras/otel"
	"labplanner/internal/domains/equipment/model"
	"labplanner/internal/domains/equipment/model/dto"
	"labplanner/internal/domains/equipment/service"
	overrideDto "labplanner/internal/domains/override/model/dto"
	overrideService "labplanner/internal/domains/override/service"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"
	"labplanner/shared/validator"
	"labplanner/transport/http/response"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service   service.Equipment
	overrides overrideService.Override
	otel      otel.Otel
}

func New(service service.Equipment, overrides overrideService.Override, otel otel.Otel) Handler {
	return Handler{
		service:   service,
		overrides: overrides,
		otel:      otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/equipment", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetEquipments)
		routerGroup.Post("/", handler.CreateEquipment)
		routerGroup.Get("/{name}", handler.GetEquipment)
		routerGroup.Put("/{name}", handler.UpdateEquipment)
		routerGroup.Delete("/{name}", handler.DeleteEquipment)
		routerGroup.Get("/{name}/capacity", handler.GetCapacity)
		routerGroup.Get("/{name}/capacity-overrides", handler.GetOverrides)
		routerGroup.Post("/{name}/capacity-overrides", handler.CreateOverride)
	})
}

// CreateEquipment handles the creation of new equipment.
// @Summary Create equipment
// @Description Register a new piece of equipment. Missing capacity and sides fall back to the configured defaults.
// @Tags Equipment
// @Accept json
// @Produce json
// @Param request body dto.CreateEquipmentRequest true "Create Equipment Request"
// @Success 201 {object} response.Data[dto.EquipmentResponse] "Created equipment"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/equipment [post]
// @Security BearerAuth
func (handler *Handler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateEquipment")
	defer scope.End()

	req := dto.CreateEquipmentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	equipment, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create equipment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Equipment created successfully")

	response.WithJSON(w, http.StatusCreated, equipment)
}

// GetEquipments lists equipment.
// @Summary Get all equipment
// @Tags Equipment
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status (active, maintenance, retired)"
// @Success 200 {object} response.Data[dto.GetEquipmentsResponse] "List of equipment"
// @Failure 500 {object} response.Error
// @Router /v1/equipment [get]
func (handler *Handler) GetEquipments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEquipments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldCategory, model.FieldStatus} {
		value := strings.TrimSpace(r.URL.Query().Get(field))
		if value == "" {
			continue
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    field,
			Operator: gDto.FilterOperatorEq,
			Value:    value,
			Table:    model.TableName,
		})
	}

	equipments, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get equipments")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, equipments)
}

// GetEquipment retrieves equipment by name.
// @Summary Get equipment by name
// @Tags Equipment
// @Produce json
// @Param name path string true "Equipment name"
// @Success 200 {object} response.Data[dto.EquipmentResponse] "Equipment details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/equipment/{name} [get]
func (handler *Handler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEquipment")
	defer scope.End()

	equipment, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamName))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get equipment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, equipment)
}

// UpdateEquipment updates the attributes of existing equipment.
// @Summary Update equipment
// @Tags Equipment
// @Accept json
// @Produce json
// @Param name path string true "Equipment name"
// @Param request body dto.UpdateEquipmentRequest true "Update Equipment Request"
// @Success 200 {object} response.Message "Equipment updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/equipment/{name} [put]
// @Security BearerAuth
func (handler *Handler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateEquipment")
	defer scope.End()

	req := dto.UpdateEquipmentRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamName)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update equipment")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Equipment updated successfully")
}

// DeleteEquipment removes equipment together with its capacity overrides.
// @Summary Delete equipment
// @Tags Equipment
// @Produce json
// @Param name path string true "Equipment name"
// @Success 200 {object} response.Message "Equipment deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/equipment/{name} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteEquipment")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamName)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete equipment")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Equipment deleted successfully")
}

// GetCapacity reports the effective capacity of equipment on a date.
// @Summary Get effective capacity
// @Tags Equipment
// @Produce json
// @Param name path string true "Equipment name"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[overrideDto.CapacityResponse] "Capacity"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/equipment/{name}/capacity [get]
func (handler *Handler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCapacity")
	defer scope.End()

	capacity, err := handler.overrides.Capacity(
		ctx,
		chi.URLParam(r, constant.RequestParamName),
		strings.TrimSpace(r.URL.Query().Get(constant.RequestParamDate)),
	)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get capacity")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, capacity)
}

// GetOverrides lists the capacity overrides of one piece of equipment.
// @Summary Get equipment capacity overrides
// @Tags Capacity Override
// @Produce json
// @Param name path string true "Equipment name"
// @Success 200 {object} response.Data[overrideDto.GetOverridesResponse] "Overrides"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/equipment/{name}/capacity-overrides [get]
func (handler *Handler) GetOverrides(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOverrides")
	defer scope.End()

	overrides, err := handler.overrides.GetByEquipment(ctx, chi.URLParam(r, constant.RequestParamName))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get capacity overrides")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, overrides)
}

// CreateOverride adds a capacity override to equipment.
// @Summary Create capacity override
// @Tags Capacity Override
// @Accept json
// @Produce json
// @Param name path string true "Equipment name"
// @Param request body overrideDto.CreateOverrideRequest true "Create Override Request"
// @Success 201 {object} response.Data[overrideDto.OverrideResponse] "Created override"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/equipment/{name}/capacity-overrides [post]
// @Security BearerAuth
func (handler *Handler) CreateOverride(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateOverride")
	defer scope.End()

	req := overrideDto.CreateOverrideRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	override, err := handler.overrides.Create(ctx, chi.URLParam(r, constant.RequestParamName), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create capacity override")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Capacity override created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, override)
}
