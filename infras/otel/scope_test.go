package otel

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestAttributeOf(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  attribute.Value
	}{
		{name: "bool", value: true, want: attribute.BoolValue(true)},
		{name: "string", value: "EKV-2000", want: attribute.StringValue("EKV-2000")},
		{name: "int", value: 3, want: attribute.IntValue(3)},
		{name: "int64", value: int64(101), want: attribute.Int64Value(101)},
		{name: "float", value: 0.5, want: attribute.Float64Value(0.5)},
		{name: "strings", value: []string{"admin", "planner"}, want: attribute.StringSliceValue([]string{"admin", "planner"})},
		{name: "date", value: civil.Date{Year: 2025, Month: time.March, Day: 3}, want: attribute.StringValue("2025-03-03")},
		{name: "fallback", value: uint8(7), want: attribute.StringValue("7")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := attributeOf("key", tt.value)

			assert.Equal(t, attribute.Key("key"), kv.Key)
			assert.Equal(t, tt.want, kv.Value)
		})
	}
}
