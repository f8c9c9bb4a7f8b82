package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"labplanner/config"
	kafkaMocks "labplanner/infras/kafka/mocks"
	"labplanner/infras/otel/mocks"
	equipmentMocks "labplanner/internal/domains/equipment/mocks"
	equipmentModel "labplanner/internal/domains/equipment/model"
	overrideMocks "labplanner/internal/domains/override/mocks"
	"labplanner/internal/domains/override/model"
	"labplanner/internal/domains/override/model/dto"
	"labplanner/internal/domains/override/service"
	cacheMocks "labplanner/shared/cache/mocks"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"
	"labplanner/shared/failure"
	"labplanner/shared/timezone"
)

var errCacheMiss = errors.New("cache miss")

type fixture struct {
	repo      *overrideMocks.MockOverride
	equipment *equipmentMocks.MockEquipment
	cfg       *config.Config
	svc       service.Override
}

func setup(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := overrideMocks.NewMockOverride(ctrl)
	mockEquipment := equipmentMocks.NewMockEquipment(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Topic.Override = "labplanner.capacity-override"

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockKafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return fixture{
		repo:      mockRepo,
		equipment: mockEquipment,
		cfg:       cfg,
		svc:       service.New(mockRepo, mockEquipment, cfg, mockCache, mockKafka, mocks.NewOtel()),
	}
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
}

func intPtr(v int) *int {
	return &v
}

func date(value string) time.Time {
	t, _ := time.Parse(time.DateOnly, value)

	return t
}

func TestOverrideService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateOverrideRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "success",
			req:  dto.CreateOverrideRequest{StartDate: "2025-03-10", EndDate: "2025-03-12", MaxTests: intPtr(0), Reason: " calibration "},
			setupMock: func(f fixture) {
				f.equipment.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().InsertReturningID(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, m model.CapacityOverride) (int64, error) {
						assert.Equal(t, "EKV-2000", m.EquipmentName)
						assert.Equal(t, 0, m.MaxTests)
						assert.Equal(t, "calibration", m.Reason)
						assert.Equal(t, "test-user-id", m.CreatedBy)

						return 7, nil
					})
			},
		},
		{
			name:      "end before start",
			req:       dto.CreateOverrideRequest{StartDate: "2025-03-12", EndDate: "2025-03-10", MaxTests: intPtr(1)},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "unknown equipment",
			req:  dto.CreateOverrideRequest{StartDate: "2025-03-10", EndDate: "2025-03-10", MaxTests: intPtr(1)},
			setupMock: func(f fixture) {
				f.equipment.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "insert fails",
			req:  dto.CreateOverrideRequest{StartDate: "2025-03-10", EndDate: "2025-03-10", MaxTests: intPtr(1)},
			setupMock: func(f fixture) {
				f.equipment.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().InsertReturningID(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			tt.setupMock(f)

			res, err := f.svc.Create(userContext(), "EKV-2000", tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(7), res.ID)
			assert.Equal(t, "2025-03-10", res.StartDate)
			assert.Equal(t, "2025-03-12", res.EndDate)
		})
	}
}

func TestOverrideService_GetAllSorted(t *testing.T) {
	f := setup(t)

	f.repo.EXPECT().GetAll(gomock.Any(), gDto.QueryParams{}, gomock.Any()).Return([]model.CapacityOverride{
		{ID: 3, EquipmentName: "B", StartDate: date("2025-01-01"), EndDate: date("2025-01-02")},
		{ID: 2, EquipmentName: "A", StartDate: date("2025-02-01"), EndDate: date("2025-02-01")},
		{ID: 1, EquipmentName: "A", StartDate: date("2025-02-01"), EndDate: date("2025-02-03")},
		{ID: 4, EquipmentName: "A", StartDate: date("2025-01-15"), EndDate: date("2025-01-20")},
	}, nil)

	res, err := f.svc.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Overrides, 4)

	var ids []int64
	for _, o := range res.Overrides {
		ids = append(ids, o.ID)
	}

	assert.Equal(t, []int64{4, 1, 2, 3}, ids)
	assert.Equal(t, 4, res.TotalData)
}

func TestOverrideService_GetByEquipment_NotFound(t *testing.T) {
	f := setup(t)

	f.equipment.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	_, err := f.svc.GetByEquipment(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestOverrideService_Delete(t *testing.T) {
	tests := []struct {
		name     string
		deleted  int64
		err      error
		wantCode int
	}{
		{name: "success", deleted: 1},
		{name: "not found", deleted: 0, wantCode: http.StatusNotFound},
		{name: "db error", err: errors.New("db down"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			f.repo.EXPECT().DeleteCount(gomock.Any(), gomock.Any()).Return(tt.deleted, tt.err)

			err := f.svc.Delete(userContext(), 42)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestOverrideService_Capacity(t *testing.T) {
	t.Run("override applies, highest id wins", func(t *testing.T) {
		f := setup(t)

		f.equipment.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(equipmentModel.Equipment{Name: "EKV-2000", MaxTests: 4}, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.CapacityOverride{
			{ID: 2, EquipmentName: "EKV-2000", StartDate: date("2025-03-01"), EndDate: date("2025-03-31"), MaxTests: 1},
			{ID: 5, EquipmentName: "EKV-2000", StartDate: date("2025-03-10"), EndDate: date("2025-03-10"), MaxTests: 0},
		}, nil)

		res, err := f.svc.Capacity(context.Background(), "EKV-2000", "2025-03-10")
		require.NoError(t, err)
		assert.Equal(t, 4, res.BaseCapacity)
		assert.Equal(t, 0, res.EffectiveCapacity)
		require.NotNil(t, res.OverrideID)
		assert.Equal(t, int64(5), *res.OverrideID)
	})

	t.Run("no override", func(t *testing.T) {
		f := setup(t)

		f.equipment.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(equipmentModel.Equipment{Name: "EKV-2000", MaxTests: 2}, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		res, err := f.svc.Capacity(context.Background(), "EKV-2000", "2025-03-10")
		require.NoError(t, err)
		assert.Equal(t, 2, res.EffectiveCapacity)
		assert.Nil(t, res.OverrideID)
	})

	t.Run("unknown equipment", func(t *testing.T) {
		f := setup(t)

		f.equipment.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(equipmentModel.Equipment{}, nil)

		_, err := f.svc.Capacity(context.Background(), "missing", "2025-03-10")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("invalid date", func(t *testing.T) {
		f := setup(t)

		_, err := f.svc.Capacity(context.Background(), "EKV-2000", "10.03.2025")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestOverrideService_PurgeExpired(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f := setup(t)

		res, err := f.svc.PurgeExpired(context.Background())
		require.NoError(t, err)
		assert.Zero(t, res.Deleted)
	})

	t.Run("deletes before cutoff", func(t *testing.T) {
		f := setup(t)
		f.cfg.Booking.OverrideRetentionDays = 30

		f.repo.EXPECT().DeleteCount(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (int64, error) {
				where, args := filter.GetWhereClause()
				assert.Contains(t, where, "end_date")
				assert.Len(t, args, 1)

				return 3, nil
			})

		res, err := f.svc.PurgeExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.Deleted)
		assert.Equal(t, timezone.Today().AddDays(-30).String(), res.Cutoff)
	})
}
