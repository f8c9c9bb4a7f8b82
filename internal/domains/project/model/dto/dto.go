package dto

import (
	"labplanner/internal/domains/project/model"
	"labplanner/shared"
	gDto "labplanner/shared/dto"
	gModel "labplanner/shared/model"
	"labplanner/shared/timezone"
	"strings"
)

type CreateProjectRequest struct {
	Name      string `json:"name"       validate:"notblank,max=100"`
	Color     string `json:"color"      validate:"required,hexcolor"`
	TextColor string `json:"text_color" validate:"omitempty,hexcolor"`
	Active    *bool  `json:"active"`
}

func (c *CreateProjectRequest) ToModel(user, defaultTextColor string) model.Project {
	textColor := defaultTextColor
	if c.TextColor != "" {
		textColor = c.TextColor
	}

	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Project{
		Name:      strings.TrimSpace(c.Name),
		Color:     c.Color,
		TextColor: textColor,
		Active:    active,
		Metadata:  gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateProjectRequest struct {
	Color     string `db:"color"      json:"color"      validate:"omitempty,hexcolor"`
	TextColor string `db:"text_color" json:"text_color" validate:"omitempty,hexcolor"`
	Active    *bool  `db:"active"     json:"active"`
}

type ProjectResponse struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	TextColor string `json:"text_color"`
	Active    bool   `json:"active"`
	gDto.Metadata
}

func (r *ProjectResponse) FromModel(m model.Project) {
	r.Name = m.Name
	r.Color = m.Color
	r.TextColor = m.TextColor
	r.Active = m.Active
	r.Metadata.FromModel(m.Metadata)
}

type GetProjectsResponse struct {
	Projects  []ProjectResponse `json:"projects"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetProjectsResponse) FromModels(models []model.Project, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Projects = make([]ProjectResponse, 0, len(models))

	for _, m := range models {
		var res ProjectResponse
		res.FromModel(m)

		r.Projects = append(r.Projects, res)
	}
}
