package model

import "labplanner/shared/model"

const (
	TableName  = "projects"
	EntityName = "project"

	FieldName      = "name"
	FieldColor     = "color"
	FieldTextColor = "text_color"
	FieldActive    = "active"
)

type Project struct {
	Name      string `db:"name"`
	Color     string `db:"color"`
	TextColor string `db:"text_color"`
	Active    bool   `db:"active"`
	model.Metadata
}
