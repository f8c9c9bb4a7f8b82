package dto_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labplanner/config"
	"labplanner/internal/domains/booking/collision"
	"labplanner/internal/domains/booking/model"
	"labplanner/internal/domains/booking/model/dto"
)

func validRequest() dto.BookingRequest {
	return dto.BookingRequest{
		EquipmentID: "EKV-2000 - Side A",
		StartDate:   "2024-01-01",
		EndDate:     "2024-01-05",
		Description: "Thermal shock",
	}
}

func TestRulesFromConfig(t *testing.T) {
	rules := dto.RulesFromConfig(&config.Config{})
	assert.Equal(t, 200, rules.MaxDescriptionLength)
	assert.Equal(t, 500, rules.MaxNoteLength)

	cfg := &config.Config{}
	cfg.Booking.MaxDescriptionLength = 50
	assert.Equal(t, 50, dto.RulesFromConfig(cfg).MaxDescriptionLength)
}

func TestBookingRequest_Validate(t *testing.T) {
	rules := dto.Rules{MaxDescriptionLength: 200, MaxNoteLength: 500}

	tests := []struct {
		name    string
		mutate  func(r *dto.BookingRequest)
		wantOK  bool
		wantMsg string
	}{
		{name: "valid", mutate: func(*dto.BookingRequest) {}, wantOK: true},
		{name: "single day", mutate: func(r *dto.BookingRequest) { r.EndDate = r.StartDate }, wantOK: true},
		{name: "missing equipment", mutate: func(r *dto.BookingRequest) { r.EquipmentID = "" }, wantMsg: "missing required field: equipment_id"},
		{name: "missing start", mutate: func(r *dto.BookingRequest) { r.StartDate = "" }, wantMsg: "missing required field: start_date"},
		{name: "missing end", mutate: func(r *dto.BookingRequest) { r.EndDate = " " }, wantMsg: "missing required field: end_date"},
		{name: "missing description", mutate: func(r *dto.BookingRequest) { r.Description = "" }, wantMsg: "missing required field: description"},
		{name: "bad date", mutate: func(r *dto.BookingRequest) { r.StartDate = "01.01.2024" }, wantMsg: "invalid date format, expected YYYY-MM-DD"},
		{name: "impossible date", mutate: func(r *dto.BookingRequest) { r.EndDate = "2024-02-30" }, wantMsg: "invalid date format, expected YYYY-MM-DD"},
		{name: "end before start", mutate: func(r *dto.BookingRequest) { r.EndDate = "2023-12-31" }, wantMsg: "end date cannot be before start date"},
		{
			name:    "description too long",
			mutate:  func(r *dto.BookingRequest) { r.Description = strings.Repeat("x", 201) },
			wantMsg: "description is too long (max 200 characters)",
		},
		{name: "description at limit", mutate: func(r *dto.BookingRequest) { r.Description = strings.Repeat("ž", 200) }, wantOK: true},
		{
			name:    "note too long",
			mutate:  func(r *dto.BookingRequest) { r.Note = strings.Repeat("x", 501) },
			wantMsg: "note is too long (max 500 characters)",
		},
		{name: "bad tma", mutate: func(r *dto.BookingRequest) { r.TmaNumber = "EU-SVA-12-1" }, wantMsg: "tma_number must look like EU-SVA-123456-01"},
		{name: "good tma", mutate: func(r *dto.BookingRequest) { r.TmaNumber = "EU-SVA-123456-01" }, wantOK: true},
		{name: "bad text style", mutate: func(r *dto.BookingRequest) { r.TextStyle = json.RawMessage("{") }, wantMsg: "text_style must be valid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			ok, msg := req.Validate(rules)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestBookingRequest_Normalize(t *testing.T) {
	t.Run("extracts tma from description", func(t *testing.T) {
		req := dto.BookingRequest{Description: "  Vibration EU-SVA-123456-01 run 2 "}
		req.Normalize()

		assert.Equal(t, "EU-SVA-123456-01", req.TmaNumber)
		assert.Equal(t, "Vibration run 2", req.Description)
	})

	t.Run("explicit tma wins", func(t *testing.T) {
		req := dto.BookingRequest{Description: "EU-SVA-123456-01", TmaNumber: "EU-SVA-654321-02"}
		req.Normalize()

		assert.Equal(t, "EU-SVA-654321-02", req.TmaNumber)
		assert.Equal(t, "EU-SVA-123456-01", req.Description)
	})
}

func TestBookingRequest_ToModel(t *testing.T) {
	req := validRequest()
	req.ProjectName = "Atlas"
	req.IsBlocker = true

	m := req.ToModel("test-user-id")
	assert.Equal(t, "EKV-2000", m.EquipmentName)
	assert.Equal(t, "Side A", m.SubResource)
	assert.Equal(t, "2024-01-01", m.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2024-01-05", m.EndDate.Format("2006-01-02"))
	require.NotNil(t, m.ProjectName)
	assert.Equal(t, "Atlas", *m.ProjectName)
	assert.Nil(t, m.Note)
	assert.Nil(t, m.TmaNumber)
	assert.Equal(t, "{}", string(m.TextStyle))
	assert.True(t, m.IsBlocker)
	assert.Equal(t, "test-user-id", m.CreatedBy)

	candidate := req.ToCandidate(42)
	assert.Equal(t, int64(42), candidate.ID)
	assert.Equal(t, collision.EquipmentRef{Base: "EKV-2000", Sub: "Side A"}, candidate.Equipment)
	assert.True(t, candidate.IsBlocker)

	fields := req.ToUpdate("editor")
	assert.Equal(t, "EKV-2000", fields[model.FieldEquipmentName])
	assert.Equal(t, "editor", fields["modified_by"])
	assert.Contains(t, fields, model.FieldNote)
}

func TestBookingResponse_FromModel(t *testing.T) {
	req := validRequest()
	req.EquipmentID = "EKV-2000 — Side B"
	req.TextStyle = json.RawMessage(`{"bold":true}`)

	var res dto.BookingResponse
	res.FromModel(req.ToModel("u"))

	assert.Equal(t, "EKV-2000 - Side B", res.EquipmentID)
	assert.JSONEq(t, `{"bold":true}`, string(res.TextStyle))
}

func TestBookingFilter(t *testing.T) {
	t.Run("all filters", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/bookings?equipment_name=EKV-2000%20-%20Side%20A&project_name=Atlas&from=2024-01-01&to=2024-01-31&is_blocker=true", nil)

		var f dto.BookingFilter
		f.FromRequest(r)

		group, err := f.ToFilterGroup()
		require.NoError(t, err)

		where, args := group.GetWhereClause()
		assert.Contains(t, where, "bookings.sub_resource = :sub_resource")
		assert.Contains(t, where, "bookings.end_date >= :end_date")
		assert.Contains(t, where, "bookings.start_date <= :start_date")
		assert.Equal(t, "EKV-2000", args[model.FieldEquipmentName])
		assert.Equal(t, true, args[model.FieldIsBlocker])
	})

	t.Run("bad date", func(t *testing.T) {
		f := dto.BookingFilter{From: "yesterday"}

		_, err := f.ToFilterGroup()
		require.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		var f dto.BookingFilter

		group, err := f.ToFilterGroup()
		require.NoError(t, err)

		where, _ := group.GetWhereClause()
		assert.Empty(t, where)
	})
}
