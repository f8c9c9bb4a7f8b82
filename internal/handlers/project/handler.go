package project

import (
	"labplanner/infras/otel"
	"labplanner/internal/domains/project/model"
	"labplanner/internal/domains/project/model/dto"
	"labplanner/internal/domains/project/service"
	"labplanner/shared"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"
	"labplanner/shared/validator"
	"labplanner/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Project
	otel    otel.Otel
}

func New(service service.Project, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/projects", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetProjects)
		routerGroup.Post("/", handler.CreateProject)
		routerGroup.Get("/{name}", handler.GetProject)
		routerGroup.Put("/{name}", handler.UpdateProject)
		routerGroup.Delete("/{name}", handler.DeleteProject)
	})
}

// CreateProject handles the creation of a new project.
// @Summary Create a project
// @Tags Project
// @Accept json
// @Produce json
// @Param request body dto.CreateProjectRequest true "Create Project Request"
// @Success 201 {object} response.Data[dto.ProjectResponse] "Created project"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/projects [post]
// @Security BearerAuth
func (handler *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateProject")
	defer scope.End()

	req := dto.CreateProjectRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	project, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create project")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, project)
}

// GetProjects lists projects.
// @Summary Get all projects
// @Tags Project
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetProjectsResponse] "List of projects"
// @Failure 500 {object} response.Error
// @Router /v1/projects [get]
func (handler *Handler) GetProjects(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProjects")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	projects, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get projects")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, projects)
}

// GetProject retrieves a project by name.
// @Summary Get a project by name
// @Tags Project
// @Produce json
// @Param name path string true "Project name"
// @Success 200 {object} response.Data[dto.ProjectResponse] "Project details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/projects/{name} [get]
func (handler *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProject")
	defer scope.End()

	project, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamName))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get project")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, project)
}

// UpdateProject updates the colours or active flag of a project.
// @Summary Update a project
// @Tags Project
// @Accept json
// @Produce json
// @Param name path string true "Project name"
// @Param request body dto.UpdateProjectRequest true "Update Project Request"
// @Success 200 {object} response.Data[dto.ProjectResponse] "Updated project"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/projects/{name} [put]
// @Security BearerAuth
func (handler *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProject")
	defer scope.End()

	req := dto.UpdateProjectRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	project, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamName))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update project")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, project)
}

// DeleteProject deletes a project by name.
// @Summary Delete a project
// @Tags Project
// @Produce json
// @Param name path string true "Project name"
// @Success 200 {object} response.Message "Project deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/projects/{name} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteProject")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamName)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete project")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Project deleted successfully")
}
