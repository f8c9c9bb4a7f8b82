package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"labplanner/config"
	"labplanner/infras/otel/mocks"
	bookingMocks "labplanner/internal/domains/booking/mocks"
	bookingModel "labplanner/internal/domains/booking/model"
	equipmentMocks "labplanner/internal/domains/equipment/mocks"
	equipmentModel "labplanner/internal/domains/equipment/model"
	"labplanner/internal/domains/planner/service"
	projectMocks "labplanner/internal/domains/project/mocks"
	projectModel "labplanner/internal/domains/project/model"
	cacheMocks "labplanner/shared/cache/mocks"
)

type fixture struct {
	equipment *equipmentMocks.MockEquipment
	bookings  *bookingMocks.MockBooking
	projects  *projectMocks.MockProject
	cache     *cacheMocks.MockRedisCache
	svc       service.Planner
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		equipment: equipmentMocks.NewMockEquipment(ctrl),
		bookings:  bookingMocks.NewMockBooking(ctrl),
		projects:  projectMocks.NewMockProject(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.svc = service.New(f.equipment, f.bookings, f.projects, cfg, f.cache, mocks.NewOtel())

	return f
}

func TestPlannerService_Data(t *testing.T) {
	t.Run("loads all three collections", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))

		day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

		f.equipment.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]equipmentModel.Equipment{{Name: "EKV-2000", MaxTests: 2, Sides: 2}}, nil)
		f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{{ID: 101, EquipmentName: "EKV-2000", SubResource: "Side A", StartDate: day, EndDate: day}}, nil)
		f.projects.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]projectModel.Project{{Name: "Orion", Color: "#112233"}}, nil)

		res, err := f.svc.Data(context.Background())
		require.NoError(t, err)

		require.Len(t, res.Equipment, 1)
		require.Len(t, res.Bookings, 1)
		require.Len(t, res.Projects, 1)
		assert.Equal(t, "EKV-2000 - Side A", res.Bookings[0].EquipmentID)
		assert.Equal(t, "Orion", res.Projects[0].Name)
	})

	t.Run("served from cache", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.Data(context.Background())
		require.NoError(t, err)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))

		f.equipment.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))
		f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
		f.projects.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

		_, err := f.svc.Data(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get equipment")
	})
}
