package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"labplanner/config"
	kafkaMocks "labplanner/infras/kafka/mocks"
	"labplanner/infras/otel"
	"labplanner/infras/otel/mocks"
	s3Mocks "labplanner/infras/s3/mocks"
	"labplanner/internal/domains/booking/collision"
	bookingMocks "labplanner/internal/domains/booking/mocks"
	"labplanner/internal/domains/booking/model"
	"labplanner/internal/domains/booking/model/dto"
	"labplanner/internal/domains/booking/service"
	equipmentMocks "labplanner/internal/domains/equipment/mocks"
	equipmentModel "labplanner/internal/domains/equipment/model"
	overrideMocks "labplanner/internal/domains/override/mocks"
	overrideModel "labplanner/internal/domains/override/model"
	cacheMocks "labplanner/shared/cache/mocks"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"
	"labplanner/shared/failure"
)

var errCacheMiss = errors.New("cache miss")

type fixture struct {
	repo      *bookingMocks.MockBooking
	equipment *equipmentMocks.MockEquipment
	overrides *overrideMocks.MockOverride
	storage   *s3Mocks.MockS3
	cfg       *config.Config
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.CollisionStrategy = string(collision.StrategyPerDay)
	cfg.Booking.ExportDirectory = "exports"
	cfg.External.S3.BucketName = "lab"

	return fixture{
		repo:      bookingMocks.NewMockBooking(ctrl),
		equipment: equipmentMocks.NewMockEquipment(ctrl),
		overrides: overrideMocks.NewMockOverride(ctrl),
		storage:   s3Mocks.NewMockS3(ctrl),
		cfg:       cfg,
	}
}

func (f fixture) service(t *testing.T) service.Booking {
	t.Helper()

	return f.serviceWith(t, mocks.NewOtel())
}

func (f fixture) serviceWith(t *testing.T, tracer otel.Otel) service.Booking {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockKafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(f.repo, f.equipment, f.overrides, f.cfg, mockCache, mockKafka, f.storage, tracer)
}

// lockRuns makes WithEquipmentLock run its callback with a placeholder transaction.
func (f fixture) lockRuns(t *testing.T, wantNames ...string) {
	f.repo.EXPECT().WithEquipmentLock(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, names []string, fn func(context.Context, *sqlx.Tx) error) error {
			assert.Equal(t, wantNames, names)

			return fn(ctx, &sqlx.Tx{})
		})
}

func (f fixture) snapshot(maxTests int, overrides []overrideModel.CapacityOverride, bookings []model.Booking) {
	f.equipment.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(equipmentModel.Equipment{Name: "EKV-2000", MaxTests: maxTests}, nil)
	f.overrides.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(overrides, nil)
	f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(bookings, nil)
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
}

func day(value string) time.Time {
	t, _ := time.Parse(time.DateOnly, value)

	return t
}

func booking(id int64, start, end string, blocker bool) model.Booking {
	return model.Booking{
		ID:            id,
		EquipmentName: "EKV-2000",
		StartDate:     day(start),
		EndDate:       day(end),
		Description:   "existing",
		IsBlocker:     blocker,
	}
}

func request(start, end string, blocker bool) dto.BookingRequest {
	return dto.BookingRequest{
		EquipmentID: "EKV-2000",
		StartDate:   start,
		EndDate:     end,
		Description: "Thermal cycling",
		IsBlocker:   blocker,
	}
}

func TestBookingService_Create(t *testing.T) {
	existing := []model.Booking{
		booking(101, "2024-01-01", "2024-01-05", false),
		booking(102, "2024-01-03", "2024-01-07", false),
	}

	tests := []struct {
		name      string
		req       dto.BookingRequest
		setupMock func(t *testing.T, f fixture)
		wantCode  int
	}{
		{
			name: "accepted below capacity",
			req:  request("2024-01-06", "2024-01-06", false),
			setupMock: func(t *testing.T, f fixture) {
				f.lockRuns(t, "EKV-2000")
				f.snapshot(2, nil, existing)
				f.repo.EXPECT().InsertReturningIDTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, m model.Booking) (int64, error) {
						assert.Equal(t, "EKV-2000", m.EquipmentName)
						assert.Equal(t, "test-user-id", m.CreatedBy)

						return 103, nil
					})
			},
		},
		{
			name: "rejected at capacity",
			req:  request("2024-01-04", "2024-01-04", false),
			setupMock: func(t *testing.T, f fixture) {
				f.lockRuns(t, "EKV-2000")
				f.snapshot(2, nil, existing)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "blocker bypasses capacity",
			req:  request("2024-01-04", "2024-01-04", true),
			setupMock: func(t *testing.T, f fixture) {
				f.lockRuns(t, "EKV-2000")
				f.snapshot(2, nil, existing)
				f.repo.EXPECT().InsertReturningIDTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(103), nil)
			},
		},
		{
			name: "override closes the equipment",
			req:  request("2024-02-01", "2024-02-03", false),
			setupMock: func(t *testing.T, f fixture) {
				f.lockRuns(t, "EKV-2000")
				f.snapshot(2, []overrideModel.CapacityOverride{
					{ID: 1, EquipmentName: "EKV-2000", StartDate: day("2024-02-02"), EndDate: day("2024-02-02"), MaxTests: 0},
				}, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "unknown equipment",
			req:  request("2024-01-01", "2024-01-01", false),
			setupMock: func(t *testing.T, f fixture) {
				f.lockRuns(t, "EKV-2000")
				f.equipment.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(equipmentModel.Equipment{}, nil)
				f.overrides.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:      "invalid request",
			req:       request("2024-01-05", "2024-01-01", false),
			setupMock: func(*testing.T, fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "store failure",
			req:  request("2024-01-01", "2024-01-01", false),
			setupMock: func(t *testing.T, f fixture) {
				f.lockRuns(t, "EKV-2000")
				f.equipment.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(equipmentModel.Equipment{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			res, err := f.service(t).Create(userContext(), tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(103), res.ID)
			assert.Equal(t, "EKV-2000", res.EquipmentID)
		})
	}
}

func TestBookingService_Update(t *testing.T) {
	t.Run("own booking is excluded", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(101, "2024-01-01", "2024-01-05", false), nil)
		f.lockRuns(t, "EKV-2000", "EKV-2000")
		f.snapshot(1, nil, []model.Booking{booking(101, "2024-01-01", "2024-01-05", false)})
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "test-user-id", fields[constant.FieldModifiedBy])
				assert.Equal(t, "Thermal cycling", fields[model.FieldDescription])

				return nil
			})
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(101, "2024-01-02", "2024-01-04", false), nil)

		res, err := f.service(t).Update(userContext(), request("2024-01-02", "2024-01-04", false), 101)
		require.NoError(t, err)
		assert.Equal(t, int64(101), res.ID)
	})

	t.Run("moving to other equipment locks both", func(t *testing.T) {
		f := newFixture(t)

		previous := booking(101, "2024-01-01", "2024-01-05", false)
		previous.EquipmentName = "TVAC-1"

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(previous, nil)
		f.lockRuns(t, "TVAC-1", "EKV-2000")
		f.snapshot(1, nil, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(101, "2024-01-02", "2024-01-04", false), nil)

		res, err := f.service(t).Update(userContext(), request("2024-01-02", "2024-01-04", false), 101)
		require.NoError(t, err)
		assert.Equal(t, "EKV-2000", res.EquipmentID)
	})

	t.Run("collides with another booking", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(101, "2024-01-01", "2024-01-05", false), nil)
		f.lockRuns(t, "EKV-2000", "EKV-2000")
		f.snapshot(1, nil, []model.Booking{
			booking(101, "2024-01-01", "2024-01-05", false),
			booking(102, "2024-01-03", "2024-01-03", false),
		})

		_, err := f.service(t).Update(userContext(), request("2024-01-02", "2024-01-04", false), 101)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.service(t).Update(userContext(), request("2024-01-02", "2024-01-04", false), 999)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_Check(t *testing.T) {
	f := newFixture(t)

	f.equipment.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(equipmentModel.Equipment{Name: "EKV-2000", MaxTests: 1}, nil)
	f.overrides.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]overrideModel.CapacityOverride{
		{ID: 4, EquipmentName: "EKV-2000", StartDate: day("2024-01-01"), EndDate: day("2024-01-02"), MaxTests: 3},
	}, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{
		booking(101, "2024-01-01", "2024-01-03", false),
	}, nil)

	res, err := f.service(t).Check(context.Background(), request("2024-01-01", "2024-01-03", false), 0)
	require.NoError(t, err)

	assert.Equal(t, "per_day", res.Strategy)
	assert.False(t, res.Accepted)
	assert.Equal(t, collision.ReasonCapacityExceeded, res.Reason)
	require.Len(t, res.Days, 3)
	assert.Equal(t, 3, res.Days[0].Capacity)
	assert.True(t, res.Days[1].Accepted)
	assert.Equal(t, 1, res.Days[2].Capacity)
	assert.False(t, res.Days[2].Accepted)
}

func TestBookingService_Get(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

	_, err := f.service(t).Get(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestBookingService_GetAll(t *testing.T) {
	f := newFixture(t)

	params := gDto.QueryParams{Page: 1, Limit: 1}

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Booking{booking(101, "2024-01-01", "2024-01-01", false)}, nil)

	res, err := f.service(t).GetAll(context.Background(), params, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	require.Len(t, res.Bookings, 1)
	assert.Equal(t, "2024-01-01", res.Bookings[0].StartDate)
}

func TestBookingService_Delete(t *testing.T) {
	tests := []struct {
		name     string
		deleted  int64
		err      error
		wantCode int
	}{
		{name: "success", deleted: 1},
		{name: "not found", wantCode: http.StatusNotFound},
		{name: "db error", err: errors.New("db down"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().DeleteCount(gomock.Any(), gomock.Any()).Return(tt.deleted, tt.err)

			err := f.service(t).Delete(userContext(), 101)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBookingService_TracesReturnedErrors(t *testing.T) {
	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().DeleteCount(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db down"))

		recorder := mocks.NewRecorder()
		err := f.serviceWith(t, recorder).Delete(userContext(), 101)
		require.Error(t, err)

		traced := recorder.Traced()
		require.Len(t, traced, 1)
		assert.EqualError(t, traced[0], "failed to delete booking: db down")
	})

	t.Run("client error", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().DeleteCount(gomock.Any(), gomock.Any()).Return(int64(0), nil)

		recorder := mocks.NewRecorder()
		err := f.serviceWith(t, recorder).Delete(userContext(), 101)
		require.Error(t, err)

		traced := recorder.Traced()
		require.Len(t, traced, 1)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(traced[0]))
	})

	t.Run("success traces nothing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().DeleteCount(gomock.Any(), gomock.Any()).Return(int64(1), nil)

		recorder := mocks.NewRecorder()
		require.NoError(t, f.serviceWith(t, recorder).Delete(userContext(), 101))
		assert.Empty(t, recorder.Traced())
	})
}

func TestBookingService_Export(t *testing.T) {
	t.Run("uploads workbook", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{
			booking(101, "2024-01-01", "2024-01-05", false),
		}, nil)
		f.storage.EXPECT().UploadFileBytes(gomock.Any(), "lab", "exports", gomock.Any(), constant.ContentTypeXLSX, gomock.Any()).DoAndReturn(
			func(_ context.Context, _, _, fileName, _ string, data []byte) (string, error) {
				assert.Contains(t, fileName, "bookings_2024-01-01_2024-01-31_")
				assert.NotEmpty(t, data)

				return "https://cdn.example.com/exports/" + fileName, nil
			})

		res, err := f.service(t).Export(context.Background(), dto.ExportRequest{From: "2024-01-01", To: "2024-01-31"})
		require.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Contains(t, res.URL, res.FileName)
	})

	t.Run("reversed range", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service(t).Export(context.Background(), dto.ExportRequest{From: "2024-02-01", To: "2024-01-01"})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestBookingService_UnknownStrategyFallsBack(t *testing.T) {
	f := newFixture(t)
	f.cfg.Booking.CollisionStrategy = "first_come"

	f.equipment.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(equipmentModel.Equipment{Name: "EKV-2000", MaxTests: 1}, nil)
	f.overrides.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	res, err := f.service(t).Check(context.Background(), request("2024-01-01", "2024-01-01", false), 0)
	require.NoError(t, err)
	assert.Equal(t, "per_day", res.Strategy)
	assert.True(t, res.Accepted)
}

func TestApplyColumnWidth(t *testing.T) {
	tests := []struct {
		name    string
		sheet   string
		width   float64
		wantErr bool
	}{
		{name: "valid width", sheet: "Sheet1", width: 30},
		{name: "width above limit", sheet: "Sheet1", width: excelize.MaxColumnWidth + 1, wantErr: true},
		{name: "missing sheet", sheet: "Missing", width: 30, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := excelize.NewFile()
			defer f.Close()

			err := service.ApplyColumnWidth(f, tt.sheet, "B", "C", tt.width)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to set width of columns B:C")

				return
			}

			require.NoError(t, err)

			width, err := f.GetColWidth(tt.sheet, "C")
			require.NoError(t, err)
			assert.InDelta(t, tt.width, width, 0.01)
		})
	}
}
