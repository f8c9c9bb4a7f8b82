package dto

import (
	"labplanner/internal/domains/booking/collision"
	"labplanner/internal/domains/override/model"
	gDto "labplanner/shared/dto"
	gModel "labplanner/shared/model"
	"labplanner/shared/timezone"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type CreateOverrideRequest struct {
	StartDate string `json:"start_date" validate:"required,isodate"`
	EndDate   string `json:"end_date"   validate:"required,isodate"`
	MaxTests  *int   `json:"max_tests"  validate:"required,gte=0"`
	Reason    string `json:"reason"     validate:"max=500"`
}

// Window parses the request dates, rejecting an end before the start.
func (c *CreateOverrideRequest) Window() (civil.Date, civil.Date, error) {
	return collision.ParseRange(c.StartDate, c.EndDate) //nolint:wrapcheck
}

func (c *CreateOverrideRequest) ToModel(user, equipmentName string, start, end civil.Date) model.CapacityOverride {
	return model.CapacityOverride{
		EquipmentName: equipmentName,
		StartDate:     start.In(time.UTC),
		EndDate:       end.In(time.UTC),
		MaxTests:      *c.MaxTests,
		Reason:        strings.TrimSpace(c.Reason),
		Metadata:      gModel.NewMetadata(timezone.Now(), user),
	}
}

type OverrideResponse struct {
	ID            int64  `json:"id"`
	EquipmentName string `json:"equipment_name"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	MaxTests      int    `json:"max_tests"`
	Reason        string `json:"reason,omitempty"`
	gDto.Metadata
}

func (r *OverrideResponse) FromModel(m model.CapacityOverride) {
	r.ID = m.ID
	r.EquipmentName = m.EquipmentName
	r.StartDate = civil.DateOf(m.StartDate).String()
	r.EndDate = civil.DateOf(m.EndDate).String()
	r.MaxTests = m.MaxTests
	r.Reason = m.Reason
	r.Metadata.FromModel(m.Metadata)
}

type GetOverridesResponse struct {
	Overrides []OverrideResponse `json:"overrides"`
	TotalData int                `json:"total_data"`
}

func (r *GetOverridesResponse) FromModels(models []model.CapacityOverride) {
	r.TotalData = len(models)
	r.Overrides = make([]OverrideResponse, 0, len(models))

	for _, m := range models {
		var res OverrideResponse
		res.FromModel(m)

		r.Overrides = append(r.Overrides, res)
	}
}

// CapacityResponse explains the capacity of one equipment on one day.
type CapacityResponse struct {
	EquipmentName     string `json:"equipment_name"`
	Date              string `json:"date"`
	BaseCapacity      int    `json:"base_capacity"`
	EffectiveCapacity int    `json:"effective_capacity"`
	OverrideID        *int64 `json:"override_id,omitempty"`
}

type PurgeResponse struct {
	Cutoff  string `json:"cutoff"`
	Deleted int64  `json:"deleted"`
}
