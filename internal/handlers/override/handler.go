package override

import (
	"labplanner/infras/otel"
	"labplanner/internal/domains/override/service"
	"labplanner/shared"
	"labplanner/shared/constant"
	"labplanner/shared/failure"
	"labplanner/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Override
	otel    otel.Otel
}

func New(service service.Override, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/capacity-overrides", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetOverrides)
		routerGroup.Delete("/{id}", handler.DeleteOverride)
	})
}

// GetOverrides lists every capacity override.
// @Summary Get all capacity overrides
// @Description Overrides are ordered by equipment name, then start date.
// @Tags Capacity Override
// @Produce json
// @Success 200 {object} response.Data[dto.GetOverridesResponse] "Overrides"
// @Failure 500 {object} response.Error
// @Router /v1/capacity-overrides [get]
func (handler *Handler) GetOverrides(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAllOverrides")
	defer scope.End()

	overrides, err := handler.service.GetAll(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get capacity overrides")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, overrides)
}

// DeleteOverride removes a capacity override.
// @Summary Delete capacity override
// @Tags Capacity Override
// @Produce json
// @Param id path int true "Override ID"
// @Success 200 {object} response.Message "Capacity override deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/capacity-overrides/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteOverride")
	defer scope.End()

	id, ok := shared.ConvertStringToInt64(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		response.WithError(w, failure.BadRequestFromString("invalid capacity override id"))

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete capacity override")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Capacity override deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Capacity override deleted successfully")
}
