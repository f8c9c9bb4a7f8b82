package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"labplanner/config"
	otelMocks "labplanner/infras/otel/mocks"
	"labplanner/shared/cache"
	cacheMocks "labplanner/shared/cache/mocks"
	"labplanner/shared/constant"
	"labplanner/transport/http/middleware"
)

func storedCount(count int) func(context.Context, string, any) error {
	return func(_ context.Context, _ string, value any) error {
		*(value.(*int)) = count

		return nil
	}
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(m *cacheMocks.MockRedisCache)
		wantCode      int
		wantRemaining string
	}{
		{
			name: "first request opens the window",
			setup: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
				m.EXPECT().Save(gomock.Any(), gomock.Any(), 1, 60).Return(nil)
			},
			wantCode:      http.StatusOK,
			wantRemaining: "2",
		},
		{
			name: "last allowed request",
			setup: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(storedCount(2))
				m.EXPECT().Save(gomock.Any(), gomock.Any(), 3, 60).Return(nil)
			},
			wantCode:      http.StatusOK,
			wantRemaining: "0",
		},
		{
			name: "limit exceeded",
			setup: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(storedCount(3))
				m.EXPECT().Save(gomock.Any(), gomock.Any(), 4, 60).Return(nil)
			},
			wantCode: http.StatusTooManyRequests,
		},
		{
			name: "cache outage lets the request through",
			setup: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			redisCache := cacheMocks.NewMockRedisCache(ctrl)
			tt.setup(redisCache)

			cfg := &config.Config{}
			cfg.App.RateLimiter.Enable = true
			cfg.App.RateLimiter.MaxRequests = 3
			cfg.App.RateLimiter.WindowSeconds = 60

			limiter := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, redisCache).RateLimit()
			handler := limiter(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			request := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
			request.Header.Set(constant.RequestHeaderForwardedFor, "10.0.0.7, 10.0.0.1")

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Equal(t, tt.wantRemaining, recorder.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}
}

func TestRateLimitDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)

	limiter := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, cacheMocks.NewMockRedisCache(ctrl)).RateLimit()

	recorder := httptest.NewRecorder()
	limiter(http.NotFoundHandler()).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
