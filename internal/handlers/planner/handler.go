package planner

import (
	"labplanner/infras/otel"
	"labplanner/internal/domains/planner/service"
	"labplanner/shared/constant"
	"labplanner/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Planner
	otel    otel.Otel
}

func New(service service.Planner, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/data", handler.GetData)
}

// GetData returns the planner board.
// @Summary Get planner data
// @Description Equipment, bookings and projects in one payload.
// @Tags Planner
// @Produce json
// @Success 200 {object} response.Data[dto.DataResponse] "Planner data"
// @Failure 500 {object} response.Error
// @Router /v1/data [get]
func (handler *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetData")
	defer scope.End()

	data, err := handler.service.Data(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get planner data")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, data)
}
