package dto

import (
	"labplanner/config"
	"labplanner/internal/domains/equipment/model"
	"labplanner/shared"
	gDto "labplanner/shared/dto"
	gModel "labplanner/shared/model"
	"labplanner/shared/timezone"
	"strings"
)

type CreateEquipmentRequest struct {
	Name     string `json:"name"      validate:"notblank,max=100"`
	Category string `json:"category"  validate:"notblank,max=100"`
	MaxTests *int   `json:"max_tests" validate:"omitempty,gte=0"`
	Sides    *int   `json:"sides"     validate:"omitempty,gte=1"`
	Status   string `json:"status"    validate:"omitempty,oneof=active maintenance retired"`
}

// ToModel fills absent capacity, sides and status from the configured defaults.
func (c *CreateEquipmentRequest) ToModel(user string, cfg *config.Config) model.Equipment {
	maxTests := cfg.Booking.DefaultMaxTests
	if c.MaxTests != nil {
		maxTests = *c.MaxTests
	}

	sides := cfg.Booking.DefaultSides
	if c.Sides != nil {
		sides = *c.Sides
	}

	status := model.StatusActive
	if c.Status != "" {
		status = c.Status
	}

	return model.Equipment{
		Name:     strings.TrimSpace(c.Name),
		Category: strings.TrimSpace(c.Category),
		MaxTests: maxTests,
		Sides:    sides,
		Status:   status,
		Metadata: gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateEquipmentRequest struct {
	Category string `db:"category"  json:"category"  validate:"omitempty,max=100"`
	MaxTests *int   `db:"max_tests" json:"max_tests" validate:"omitempty,gte=0"`
	Sides    *int   `db:"sides"     json:"sides"     validate:"omitempty,gte=1"`
	Status   string `db:"status"    json:"status"    validate:"omitempty,oneof=active maintenance retired"`
}

type EquipmentResponse struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	MaxTests int    `json:"max_tests"`
	Sides    int    `json:"sides"`
	Status   string `json:"status"`
	gDto.Metadata
}

func (r *EquipmentResponse) FromModel(m model.Equipment) {
	r.Name = m.Name
	r.Category = m.Category
	r.MaxTests = m.MaxTests
	r.Sides = m.Sides
	r.Status = m.Status
	r.Metadata.FromModel(m.Metadata)
}

type GetEquipmentsResponse struct {
	Equipment []EquipmentResponse `json:"equipment"`
	TotalPage int                 `json:"total_page"`
	TotalData int                 `json:"total_data"`
}

func (r *GetEquipmentsResponse) FromModels(models []model.Equipment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Equipment = make([]EquipmentResponse, 0, len(models))

	for _, m := range models {
		var res EquipmentResponse
		res.FromModel(m)

		r.Equipment = append(r.Equipment, res)
	}
}
