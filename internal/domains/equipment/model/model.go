package model

import "labplanner/shared/model"

const (
	TableName  = "equipment"
	EntityName = "equipment"

	FieldName     = "name"
	FieldCategory = "category"
	FieldMaxTests = "max_tests"
	FieldSides    = "sides"
	FieldStatus   = "status"
)

const (
	StatusActive      = "active"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
)

// Equipment is keyed by name. Bookings reference it through the base part of their equipment reference.
type Equipment struct {
	Name     string `db:"name"`
	Category string `db:"category"`
	MaxTests int    `db:"max_tests"`
	Sides    int    `db:"sides"`
	Status   string `db:"status"`
	model.Metadata
}
