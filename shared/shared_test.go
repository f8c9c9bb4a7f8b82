package shared_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"labplanner/shared"
	cacheMocks "labplanner/shared/cache/mocks"
	"labplanner/shared/constant"
	"labplanner/shared/dto"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: ""},
		{name: "true", input: "true", expected: boolPtr(true)},
		{name: "false", input: "false", expected: boolPtr(false)},
		{name: "one", input: "1", expected: boolPtr(true)},
		{name: "invalid returns nil", input: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestConvertStringToInt64(t *testing.T) {
	value, ok := shared.ConvertStringToInt64(" 101 ")
	require.True(t, ok)
	assert.Equal(t, int64(101), value)

	_, ok = shared.ConvertStringToInt64("abc")
	assert.False(t, ok)
}

func TestCalculateTotalPage(t *testing.T) {
	assert.Equal(t, 1, shared.CalculateTotalPage(0, 10))
	assert.Equal(t, 1, shared.CalculateTotalPage(5, 0))
	assert.Equal(t, 3, shared.CalculateTotalPage(21, 10))
	assert.Equal(t, 2, shared.CalculateTotalPage(20, 10))
}

func TestTransformFields(t *testing.T) {
	type update struct {
		Category string `db:"category"`
		MaxTests *int   `db:"max_tests"`
		Skipped  string
	}

	capacity := 3
	fields := shared.TransformFields(update{MaxTests: &capacity, Skipped: "x"}, "planner-1")

	assert.NotContains(t, fields, "category")
	assert.Equal(t, &capacity, fields["max_tests"])
	assert.Equal(t, "planner-1", fields[constant.FieldModifiedBy])
	assert.Contains(t, fields, constant.FieldModifiedAt)
	assert.Len(t, fields, 3)
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID(int64(7), "id", "bookings")

	where, args := group.GetWhereClause()
	assert.Equal(t, "(bookings.id = :id)", where)
	assert.Equal(t, map[string]any{"id": int64(7)}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "override:capacity:EKV-2000:2025-03-03", shared.BuildCacheKey(constant.CacheKeyOverrideCapacity, "EKV-2000", "2025-03-03"))
	assert.Equal(t, "planner:data", shared.BuildCacheKey(constant.CacheKeyPlannerData))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	filter := dto.FilterGroup{Filters: []any{dto.Filter{Field: "name", Value: "EKV-2000", Operator: dto.FilterOperatorEq}}}
	other := dto.FilterGroup{Filters: []any{dto.Filter{Field: "name", Value: "Climate-1", Operator: dto.FilterOperatorEq}}}

	first := shared.BuildCacheKeyWithQuery("equipment:gets", params, filter)

	assert.Equal(t, first, shared.BuildCacheKeyWithQuery("equipment:gets", params, filter))
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("equipment:gets", params, other))
	assert.Contains(t, first, "equipment:gets:")
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "booking:gets:*").Return(nil)
	shared.InvalidateCaches(context.Background(), mockCache, "booking:gets")

	mockCache.EXPECT().Clear(gomock.Any(), "booking:count:*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), mockCache, "booking:count")
}

func TestPostgresErrorClassification(t *testing.T) {
	unique := fmt.Errorf("failed to insert: %w", &pq.Error{Code: constant.PqErrorCodeUniqueViolation})
	foreign := &pq.Error{Code: constant.PqErrorCodeFkViolation}

	assert.True(t, shared.IsUniqueViolation(unique))
	assert.False(t, shared.IsUniqueViolation(foreign))
	assert.True(t, shared.IsForeignKeyViolation(foreign))
	assert.False(t, shared.IsForeignKeyViolation(errors.New("plain")))
}

func boolPtr(b bool) *bool {
	return &b
}

func TestActor(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "planner-1")

	assert.Equal(t, "planner-1", shared.Actor(ctx))
	assert.Equal(t, constant.ContextSystem, shared.Actor(context.Background()))
}
