package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"labplanner/infras/otel"
	"labplanner/infras/postgres"
	"labplanner/internal/domains/override/model"
	gDto "labplanner/shared/dto"
	gRepo "labplanner/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

type Override interface {
	InsertReturningID(ctx context.Context, model model.CapacityOverride) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.CapacityOverride, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.CapacityOverride, error)
	GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.CapacityOverride, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteCount(ctx context.Context, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.CapacityOverride]
}

func New(db *postgres.Connection, otel otel.Otel) Override {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.CapacityOverride](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// FilterByEquipment matches overrides of the given equipment names.
func FilterByEquipment(names ...string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldEquipmentName, Value: names, Operator: gDto.FilterOperatorIn, Table: model.TableName},
		},
	}
}

// FilterCovering matches overrides of equipmentName whose window intersects [from, to].
func FilterCovering(equipmentName string, from, to time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldEquipmentName, Value: equipmentName, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStartDate, Value: to, Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldEndDate, Value: from, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
		},
	}
}

// FilterEndedBefore matches overrides whose last day is strictly before cutoff.
func FilterEndedBefore(cutoff time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldEndDate, Value: cutoff, Operator: gDto.FilterOperatorLess, Table: model.TableName},
		},
	}
}
