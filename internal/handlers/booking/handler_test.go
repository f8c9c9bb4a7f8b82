package booking_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "labplanner/infras/otel/mocks"
	"labplanner/internal/domains/booking/collision"
	bookingMocks "labplanner/internal/domains/booking/mocks"
	"labplanner/internal/domains/booking/model/dto"
	"labplanner/internal/handlers/booking"
	"labplanner/shared/failure"
)

const checkBody = `{"equipment_id":"EKV-2000","start_date":"2024-01-01","end_date":"2024-01-02","description":"Thermal cycling"}`

func newRouter(svc *bookingMocks.MockBookingService) *chi.Mux {
	handler := booking.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router
}

func TestHandler_CheckBooking(t *testing.T) {
	accepted := dto.CheckResponse{Strategy: "per_day", Decision: collision.Decision{Accepted: true, Capacity: 2}}

	tests := []struct {
		name      string
		target    string
		body      string
		setupMock func(svc *bookingMocks.MockBookingService)
		wantCode  int
		wantBody  string
	}{
		{
			name:   "new booking",
			target: "/bookings/check",
			body:   checkBody,
			setupMock: func(svc *bookingMocks.MockBookingService) {
				svc.EXPECT().Check(gomock.Any(), gomock.Any(), int64(0)).DoAndReturn(
					func(_ context.Context, req dto.BookingRequest, _ int64) (dto.CheckResponse, error) {
						assert.Equal(t, "EKV-2000", req.EquipmentID)

						return accepted, nil
					})
			},
			wantCode: http.StatusOK,
			wantBody: `"accepted":true`,
		},
		{
			name:   "excludes stored booking",
			target: "/bookings/check?id=101",
			body:   checkBody,
			setupMock: func(svc *bookingMocks.MockBookingService) {
				svc.EXPECT().Check(gomock.Any(), gomock.Any(), int64(101)).Return(accepted, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `"strategy":"per_day"`,
		},
		{
			name:     "invalid id",
			target:   "/bookings/check?id=abc",
			body:     checkBody,
			wantCode: http.StatusBadRequest,
			wantBody: "invalid booking id",
		},
		{
			name:     "unknown field",
			target:   "/bookings/check",
			body:     `{"equipment":"EKV-2000"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "client error from service",
			target: "/bookings/check",
			body:   checkBody,
			setupMock: func(svc *bookingMocks.MockBookingService) {
				svc.EXPECT().Check(gomock.Any(), gomock.Any(), int64(0)).
					Return(dto.CheckResponse{}, failure.BadRequestFromString("start_date is after end_date"))
			},
			wantCode: http.StatusBadRequest,
			wantBody: "start_date is after end_date",
		},
		{
			name:   "infrastructure error is hidden",
			target: "/bookings/check",
			body:   checkBody,
			setupMock: func(svc *bookingMocks.MockBookingService) {
				svc.EXPECT().Check(gomock.Any(), gomock.Any(), int64(0)).
					Return(dto.CheckResponse{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
			wantBody: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := bookingMocks.NewMockBookingService(gomock.NewController(t))
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			request := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body))
			recorder := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code)

			if tt.wantBody != "" {
				assert.Contains(t, recorder.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandler_DeleteBooking(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		setupMock func(svc *bookingMocks.MockBookingService)
		wantCode  int
	}{
		{
			name:   "deleted",
			target: "/bookings/101",
			setupMock: func(svc *bookingMocks.MockBookingService) {
				svc.EXPECT().Delete(gomock.Any(), int64(101)).Return(nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "not found",
			target: "/bookings/999",
			setupMock: func(svc *bookingMocks.MockBookingService) {
				svc.EXPECT().Delete(gomock.Any(), int64(999)).Return(failure.NotFound("booking"))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "invalid id",
			target:   "/bookings/abc",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := bookingMocks.NewMockBookingService(gomock.NewController(t))
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			recorder := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, tt.target, nil))

			assert.Equal(t, tt.wantCode, recorder.Code)
		})
	}
}
