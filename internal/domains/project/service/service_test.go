package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"labplanner/config"
	"labplanner/infras/otel/mocks"
	projectMocks "labplanner/internal/domains/project/mocks"
	"labplanner/internal/domains/project/model"
	"labplanner/internal/domains/project/model/dto"
	"labplanner/internal/domains/project/service"
	cacheMocks "labplanner/shared/cache/mocks"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"
	"labplanner/shared/failure"
)

func newService(t *testing.T) (*projectMocks.MockProject, *cacheMocks.MockRedisCache, service.Project) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockRepo := projectMocks.NewMockProject(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.DefaultTextColor = "#ffffff"

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return mockRepo, mockCache, service.New(mockRepo, cfg, mockCache, mocks.NewOtel())
}

func TestProjectService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateProjectRequest
		insertErr error
		wantCode  int
	}{
		{name: "created with default text color", req: dto.CreateProjectRequest{Name: "Orion", Color: "#112233"}},
		{name: "duplicate", req: dto.CreateProjectRequest{Name: "Orion", Color: "#112233"}, insertErr: &pq.Error{Code: "23505"}, wantCode: http.StatusConflict},
		{name: "database error", req: dto.CreateProjectRequest{Name: "Orion", Color: "#112233"}, insertErr: errors.New("database error"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, svc := newService(t)
			repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(tt.insertErr)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			res, err := svc.Create(ctx, tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "#ffffff", res.TextColor)
			assert.True(t, res.Active)
		})
	}
}

func TestProjectService_Get(t *testing.T) {
	repo, mockCache, svc := newService(t)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Project{Name: "Orion", Color: "#112233"}, nil)
	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Project{}, nil)

	res, err := svc.Get(context.Background(), "Orion")
	require.NoError(t, err)
	assert.Equal(t, "#112233", res.Color)

	_, err = svc.Get(context.Background(), "Ghost")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestProjectService_GetAll(t *testing.T) {
	repo, mockCache, svc := newService(t)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))

	_, err := svc.GetAll(context.Background(), gDto.QueryParams{}, gDto.FilterGroup{})

	assert.Error(t, err)
}

func TestProjectService_Update(t *testing.T) {
	repo, _, svc := newService(t)

	active := false

	gomock.InOrder(
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Project{Name: "Orion", Active: true}, nil),
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Project{Name: "Orion", Active: false}, nil),
	)

	res, err := svc.Update(context.Background(), dto.UpdateProjectRequest{Active: &active}, "Orion")

	require.NoError(t, err)
	assert.False(t, res.Active)
}

func TestProjectService_Delete(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		repo, _, svc := newService(t)
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Project{}, nil)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(svc.Delete(context.Background(), "Ghost")))
	})

	t.Run("deleted", func(t *testing.T) {
		repo, _, svc := newService(t)
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Project{Name: "Orion"}, nil)
		repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), "Orion"))
	})
}
