package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"labplanner/internal/domains/booking/collision"
	equipmentMocks "labplanner/internal/domains/equipment/mocks"
	equipmentModel "labplanner/internal/domains/equipment/model"
	overrideMocks "labplanner/internal/domains/override/mocks"
	"labplanner/internal/domains/override/model"
)

func TestStoreResolver(t *testing.T) {
	day := civil.Date{Year: 2025, Month: 3, Day: 10}

	t.Run("effective capacity falls back to base", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		equipment := equipmentMocks.NewMockEquipment(ctrl)
		overrides := overrideMocks.NewMockOverride(ctrl)

		overrides.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.CapacityOverride{}, nil)
		equipment.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(equipmentModel.Equipment{Name: "EKV-2000", MaxTests: 3}, nil)

		r := &storeResolver{equipment: equipment, overrides: overrides}

		capacity, err := r.EffectiveCapacity(context.Background(), "EKV-2000", day)
		require.NoError(t, err)
		assert.Equal(t, 3, capacity)
	})

	t.Run("override skips base lookup", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		equipment := equipmentMocks.NewMockEquipment(ctrl)
		overrides := overrideMocks.NewMockOverride(ctrl)

		overrides.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.CapacityOverride{
			{ID: 1, EquipmentName: "EKV-2000", StartDate: day.In(time.UTC), EndDate: day.In(time.UTC), MaxTests: 0},
		}, nil)

		r := &storeResolver{equipment: equipment, overrides: overrides}

		capacity, err := r.EffectiveCapacity(context.Background(), "EKV-2000", day)
		require.NoError(t, err)
		assert.Zero(t, capacity)
	})

	t.Run("unknown equipment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		equipment := equipmentMocks.NewMockEquipment(ctrl)

		equipment.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(equipmentModel.Equipment{}, nil)

		r := &storeResolver{equipment: equipment}

		_, err := r.BaseCapacity(context.Background(), "missing")
		assert.ErrorIs(t, err, collision.ErrEquipmentNotFound)
	})

	t.Run("store error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		overrides := overrideMocks.NewMockOverride(ctrl)

		overrides.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

		r := &storeResolver{overrides: overrides}

		_, err := r.EffectiveCapacity(context.Background(), "EKV-2000", day)
		require.Error(t, err)
		assert.NotErrorIs(t, err, collision.ErrEquipmentNotFound)
	})
}
