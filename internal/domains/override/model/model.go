package model

import (
	"labplanner/internal/domains/booking/collision"
	"labplanner/shared/model"
	"time"

	"cloud.google.com/go/civil"
)

const (
	TableName  = "equipment_capacity_overrides"
	EntityName = "capacity_override"

	FieldID            = "id"
	FieldEquipmentName = "equipment_name"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldMaxTests      = "max_tests"
	FieldReason        = "reason"
)

// CapacityOverride replaces the equipment capacity between StartDate and EndDate inclusive.
type CapacityOverride struct {
	ID            int64     `db:"id"             readonly:"true"`
	EquipmentName string    `db:"equipment_name"`
	StartDate     time.Time `db:"start_date"`
	EndDate       time.Time `db:"end_date"`
	MaxTests      int       `db:"max_tests"`
	Reason        string    `db:"reason"`
	model.Metadata
}

func (o CapacityOverride) ToCollision() collision.Override {
	return collision.Override{
		ID:            o.ID,
		EquipmentName: o.EquipmentName,
		Start:         civil.DateOf(o.StartDate),
		End:           civil.DateOf(o.EndDate),
		MaxTests:      o.MaxTests,
	}
}

func ToCollision(overrides []CapacityOverride) []collision.Override {
	res := make([]collision.Override, 0, len(overrides))
	for _, o := range overrides {
		res = append(res, o.ToCollision())
	}

	return res
}
