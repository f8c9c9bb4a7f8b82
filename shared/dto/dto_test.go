package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"labplanner/shared/constant"
	"labplanner/shared/dto"
	"labplanner/shared/model"
)

func TestMetadata_FromModel(t *testing.T) {
	at := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

	metadata := dto.Metadata{}
	metadata.FromModel(model.NewMetadata(at, "creator"))

	assert.NotEmpty(t, metadata.CreatedAt)
	assert.Equal(t, metadata.CreatedAt, metadata.ModifiedAt)
	assert.Equal(t, "creator", metadata.CreatedBy)
	assert.Equal(t, "creator", metadata.ModifiedBy)

	parsed, err := time.Parse(constant.DateFormat, metadata.CreatedAt)
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(at))
}

func TestMetadata_FromModelZero(t *testing.T) {
	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{})

	assert.Empty(t, metadata.CreatedAt)
	assert.Empty(t, metadata.ModifiedAt)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		withDefaults bool
		expected     dto.QueryParams
	}{
		{
			name:         "defaults applied",
			query:        "",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults leaves the listing unpaginated",
			query:    "",
			expected: dto.QueryParams{},
		},
		{
			name:     "explicit values and lowercase direction",
			query:    "page=3&limit=25&sort_by=start_date&sort_dir=asc",
			expected: dto.QueryParams{Page: 3, Limit: 25, SortBy: "start_date", SortDir: dto.SortDirAsc},
		},
		{
			name:     "sort column without direction",
			query:    "sort_by=name",
			expected: dto.QueryParams{SortBy: "name", SortDir: dto.SortDirAsc},
		},
		{
			name:     "limit clamped",
			query:    "limit=100000",
			expected: dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:         "invalid values ignored",
			query:        "page=-1&limit=abc&sort_dir=sideways",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/v1/bookings?"+tt.query, nil)

			params := dto.QueryParams{}
			params.FromRequest(request, tt.withDefaults)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestQueryParams_Offset(t *testing.T) {
	assert.Equal(t, 0, dto.QueryParams{}.Offset())
	assert.Equal(t, 0, dto.QueryParams{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, dto.QueryParams{Page: 3, Limit: 10}.Offset())
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "equality with table",
			filter:    dto.Filter{Field: "equipment_name", Value: "EKV-2000", Operator: dto.FilterOperatorEq, Table: "bookings"},
			wantWhere: "bookings.equipment_name = :equipment_name",
			wantArgs:  map[string]any{"equipment_name": "EKV-2000"},
		},
		{
			name:      "comparison with arg name",
			filter:    dto.Filter{ArgName: "range_end", Field: "start_date", Value: "2025-03-07", Operator: dto.FilterOperatorLessEq},
			wantWhere: "start_date <= :range_end",
			wantArgs:  map[string]any{"range_end": "2025-03-07"},
		},
		{
			name:      "in with slice",
			filter:    dto.Filter{Field: "name", Value: []string{"a", "b"}, Operator: dto.FilterOperatorIn},
			wantWhere: "name IN (:name_0, :name_1)",
			wantArgs:  map[string]any{"name_0": "a", "name_1": "b"},
		},
		{
			name:      "in with empty slice",
			filter:    dto.Filter{Field: "name", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "like",
			filter:    dto.Filter{Field: "description", Value: "climate", Operator: dto.FilterOperatorLike},
			wantWhere: "LOWER(description) LIKE LOWER(:description)",
			wantArgs:  map[string]any{"description": "%climate%"},
		},
		{
			name:      "is null",
			filter:    dto.Filter{Field: "note", Operator: dto.FilterIsNull},
			wantWhere: "note IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "unknown operator renders nothing",
			filter:    dto.Filter{Field: "note", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "equipment_name", Value: "EKV-2000", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "is_blocker", Value: true, Operator: dto.FilterOperatorEq},
					dto.Filter{Field: "note", Operator: dto.FilterIsNotNull},
				},
			},
			dto.Filter{Field: "ignored", Operator: "unknown"},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(equipment_name = :equipment_name AND (is_blocker = :is_blocker OR note IS NOT NULL))", where)
	assert.Equal(t, map[string]any{"equipment_name": "EKV-2000", "is_blocker": true}, args)

	empty := dto.FilterGroup{}
	where, args = empty.GetWhereClause()
	assert.Empty(t, where)
	assert.Empty(t, args)
}
