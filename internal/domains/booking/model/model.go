package model

import (
	"labplanner/internal/domains/booking/collision"
	"labplanner/shared/model"
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldEquipmentName = "equipment_name"
	FieldSubResource   = "sub_resource"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldDescription   = "description"
	FieldTmaNumber     = "tma_number"
	FieldProjectName   = "project_name"
	FieldProjectColor  = "project_color"
	FieldNote          = "note"
	FieldIsBlocker     = "is_blocker"
	FieldTextStyle     = "text_style"
)

// Booking reserves one equipment reference for an inclusive range of calendar days.
// The reference is stored split into its base equipment name and sub-resource.
type Booking struct {
	ID            int64          `db:"id"             readonly:"true"`
	EquipmentName string         `db:"equipment_name"`
	SubResource   string         `db:"sub_resource"`
	StartDate     time.Time      `db:"start_date"`
	EndDate       time.Time      `db:"end_date"`
	Description   string         `db:"description"`
	TmaNumber     *string        `db:"tma_number"`
	ProjectName   *string        `db:"project_name"`
	ProjectColor  *string        `db:"project_color"`
	Note          *string        `db:"note"`
	IsBlocker     bool           `db:"is_blocker"`
	TextStyle     types.JSONText `db:"text_style"`
	model.Metadata
}

func (b Booking) Reference() collision.EquipmentRef {
	return collision.EquipmentRef{Base: b.EquipmentName, Sub: b.SubResource}
}

func (b Booking) ToReservation() collision.Reservation {
	return collision.Reservation{
		ID:        b.ID,
		Equipment: b.Reference(),
		Start:     b.StartDate.Format(time.DateOnly),
		End:       b.EndDate.Format(time.DateOnly),
		IsBlocker: b.IsBlocker,
	}
}

func ToReservations(bookings []Booking) []collision.Reservation {
	res := make([]collision.Reservation, 0, len(bookings))
	for _, b := range bookings {
		res = append(res, b.ToReservation())
	}

	return res
}
