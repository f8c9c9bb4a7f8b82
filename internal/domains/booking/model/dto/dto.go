package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"labplanner/config"
	"labplanner/internal/domains/booking/collision"
	"labplanner/internal/domains/booking/model"
	"labplanner/shared"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"
	gModel "labplanner/shared/model"
	"labplanner/shared/timezone"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/jmoiron/sqlx/types"
)

const (
	defaultMaxDescriptionLength = 200
	defaultMaxNoteLength        = 500
)

var (
	tmaPattern     = regexp.MustCompile(`EU-SVA-\d{6}-\d{2}`)
	tmaExact       = regexp.MustCompile(`^EU-SVA-\d{6}-\d{2}$`)
	emptyTextStyle = types.JSONText("{}")
)

// Rules holds the configurable limits applied by BookingRequest.Validate.
type Rules struct {
	MaxDescriptionLength int
	MaxNoteLength        int
}

func RulesFromConfig(cfg *config.Config) Rules {
	rules := Rules{
		MaxDescriptionLength: cfg.Booking.MaxDescriptionLength,
		MaxNoteLength:        cfg.Booking.MaxNoteLength,
	}

	if rules.MaxDescriptionLength <= 0 {
		rules.MaxDescriptionLength = defaultMaxDescriptionLength
	}

	if rules.MaxNoteLength <= 0 {
		rules.MaxNoteLength = defaultMaxNoteLength
	}

	return rules
}

// BookingRequest is the wire form of a booking. EquipmentID is the composite
// reference, e.g. "EKV-2000 - Side A".
type BookingRequest struct {
	EquipmentID  string          `json:"equipment_id"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	Description  string          `json:"description"`
	TmaNumber    string          `json:"tma_number"`
	ProjectName  string          `json:"project_name"`
	ProjectColor string          `json:"project_color"  validate:"omitempty,hexcolor"`
	Note         string          `json:"note"`
	IsBlocker    bool            `json:"is_blocker"`
	TextStyle    json.RawMessage `json:"text_style"     swaggertype:"object"`
}

// Normalize trims the free-text fields and, when no TMA number was given,
// moves the first one found in the description into TmaNumber.
func (r *BookingRequest) Normalize() {
	r.EquipmentID = strings.TrimSpace(r.EquipmentID)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
	r.Description = strings.TrimSpace(r.Description)
	r.TmaNumber = strings.TrimSpace(r.TmaNumber)
	r.ProjectName = strings.TrimSpace(r.ProjectName)
	r.ProjectColor = strings.TrimSpace(r.ProjectColor)
	r.Note = strings.TrimSpace(r.Note)

	if r.TmaNumber != "" {
		return
	}

	if tma := tmaPattern.FindString(r.Description); tma != "" {
		r.TmaNumber = tma
		r.Description = strings.Join(strings.Fields(strings.Replace(r.Description, tma, "", 1)), " ")
	}
}

// Validate checks the request structurally and returns the first problem found.
func (r *BookingRequest) Validate(rules Rules) (bool, string) {
	required := []struct {
		field string
		value string
	}{
		{"equipment_id", r.EquipmentID},
		{"start_date", r.StartDate},
		{"end_date", r.EndDate},
		{"description", r.Description},
	}

	for _, req := range required {
		if strings.TrimSpace(req.value) == "" {
			return false, "missing required field: " + req.field
		}
	}

	start, err := civil.ParseDate(r.StartDate)
	if err != nil {
		return false, "invalid date format, expected YYYY-MM-DD"
	}

	end, err := civil.ParseDate(r.EndDate)
	if err != nil {
		return false, "invalid date format, expected YYYY-MM-DD"
	}

	if end.Before(start) {
		return false, "end date cannot be before start date"
	}

	if utf8.RuneCountInString(r.Description) > rules.MaxDescriptionLength {
		return false, fmt.Sprintf("description is too long (max %d characters)", rules.MaxDescriptionLength)
	}

	if utf8.RuneCountInString(r.Note) > rules.MaxNoteLength {
		return false, fmt.Sprintf("note is too long (max %d characters)", rules.MaxNoteLength)
	}

	if r.TmaNumber != "" && !tmaExact.MatchString(r.TmaNumber) {
		return false, "tma_number must look like EU-SVA-123456-01"
	}

	if len(r.TextStyle) > 0 && !json.Valid(r.TextStyle) {
		return false, "text_style must be valid JSON"
	}

	return true, ""
}

// ParseReference splits a composite equipment_id into base name and sub-resource.
func ParseReference(equipmentID string) collision.EquipmentRef {
	return collision.ParseEquipmentRef(equipmentID)
}

func (r *BookingRequest) Reference() collision.EquipmentRef {
	return ParseReference(r.EquipmentID)
}

// ToCandidate builds the evaluator input. id is zero for new bookings.
func (r *BookingRequest) ToCandidate(id int64) collision.Candidate {
	return collision.Candidate{
		ID:        id,
		Equipment: r.Reference(),
		Start:     r.StartDate,
		End:       r.EndDate,
		IsBlocker: r.IsBlocker,
	}
}

// ToModel expects a request that passed Validate.
func (r *BookingRequest) ToModel(user string) model.Booking {
	ref := r.Reference()
	start, _ := civil.ParseDate(r.StartDate)
	end, _ := civil.ParseDate(r.EndDate)

	textStyle := emptyTextStyle
	if trimmed := bytes.TrimSpace(r.TextStyle); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		textStyle = types.JSONText(trimmed)
	}

	return model.Booking{
		EquipmentName: ref.Base,
		SubResource:   ref.Sub,
		StartDate:     start.In(time.UTC),
		EndDate:       end.In(time.UTC),
		Description:   r.Description,
		TmaNumber:     optional(r.TmaNumber),
		ProjectName:   optional(r.ProjectName),
		ProjectColor:  optional(r.ProjectColor),
		Note:          optional(r.Note),
		IsBlocker:     r.IsBlocker,
		TextStyle:     textStyle,
		Metadata:      gModel.NewMetadata(timezone.Now(), user),
	}
}

// ToUpdate returns the full column set written on replacement. Optional
// fields left empty are cleared.
func (r *BookingRequest) ToUpdate(user string) map[string]any {
	booking := r.ToModel(user)

	return map[string]any{
		model.FieldEquipmentName: booking.EquipmentName,
		model.FieldSubResource:   booking.SubResource,
		model.FieldStartDate:     booking.StartDate,
		model.FieldEndDate:       booking.EndDate,
		model.FieldDescription:   booking.Description,
		model.FieldTmaNumber:     booking.TmaNumber,
		model.FieldProjectName:   booking.ProjectName,
		model.FieldProjectColor:  booking.ProjectColor,
		model.FieldNote:          booking.Note,
		model.FieldIsBlocker:     booking.IsBlocker,
		model.FieldTextStyle:     booking.TextStyle,
		constant.FieldModifiedAt: booking.ModifiedAt,
		constant.FieldModifiedBy: user,
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}

type BookingResponse struct {
	ID           int64           `json:"id"`
	EquipmentID  string          `json:"equipment_id"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	Description  string          `json:"description"`
	TmaNumber    string          `json:"tma_number,omitempty"`
	ProjectName  string          `json:"project_name,omitempty"`
	ProjectColor string          `json:"project_color,omitempty"`
	Note         string          `json:"note,omitempty"`
	IsBlocker    bool            `json:"is_blocker"`
	TextStyle    json.RawMessage `json:"text_style"             swaggertype:"object"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.EquipmentID = m.Reference().String()
	r.StartDate = m.StartDate.Format(time.DateOnly)
	r.EndDate = m.EndDate.Format(time.DateOnly)
	r.Description = m.Description
	r.TmaNumber = deref(m.TmaNumber)
	r.ProjectName = deref(m.ProjectName)
	r.ProjectColor = deref(m.ProjectColor)
	r.Note = deref(m.Note)
	r.IsBlocker = m.IsBlocker

	r.TextStyle = json.RawMessage(emptyTextStyle)
	if len(m.TextStyle) > 0 {
		r.TextStyle = json.RawMessage(m.TextStyle)
	}

	r.Metadata.FromModel(m.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// CheckResponse reports whether a booking would be accepted as submitted.
type CheckResponse struct {
	Strategy string `json:"strategy"`
	collision.Decision
}

type ExportRequest struct {
	From string `json:"from" validate:"required,isodate"`
	To   string `json:"to"   validate:"required,isodate"`
}

type ExportResponse struct {
	URL       string `json:"url"`
	FileName  string `json:"file_name"`
	TotalData int    `json:"total_data"`
}
