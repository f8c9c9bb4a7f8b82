package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"labplanner/infras/otel"
	"labplanner/infras/postgres"
	"labplanner/internal/domains/booking/model"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"
	gRepo "labplanner/shared/repository"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"
)

const queryEquipmentLock = "SELECT pg_advisory_xact_lock(hashtext($1))"

type Booking interface {
	WithEquipmentLock(ctx context.Context, equipmentNames []string, fn func(ctx context.Context, tx *sqlx.Tx) error) error
	InsertReturningIDTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteCount(ctx context.Context, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// WithEquipmentLock runs fn in a transaction holding an advisory lock per
// equipment name, so concurrent writers on the same equipment serialise
// between reading the snapshot and writing.
func (r *repositoryImpl) WithEquipmentLock(ctx context.Context, equipmentNames []string, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.WithEquipmentLock")
	defer scope.End()

	// Fixed ordering keeps two writers locking overlapping sets from deadlocking.
	names := slices.Compact(slices.Sorted(slices.Values(equipmentNames)))

	err := r.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, name := range names {
			if _, err := tx.ExecContext(ctx, queryEquipmentLock, name); err != nil {
				return fmt.Errorf("failed to lock equipment %q: %w", name, err)
			}
		}

		return fn(ctx, tx)
	})
	if err != nil {
		scope.TraceError(err)

		return err
	}

	return nil
}

func byEquipment(equipmentName string) gDto.Filter {
	return gDto.Filter{Field: model.FieldEquipmentName, Value: equipmentName, Operator: gDto.FilterOperatorEq, Table: model.TableName}
}

func startingBy(to time.Time) gDto.Filter {
	return gDto.Filter{Field: model.FieldStartDate, Value: to, Operator: gDto.FilterOperatorLessEq, Table: model.TableName}
}

func endingFrom(from time.Time) gDto.Filter {
	return gDto.Filter{Field: model.FieldEndDate, Value: from, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName}
}

// FilterOverlapping matches bookings on equipmentName whose range shares a day with [from, to].
func FilterOverlapping(equipmentName string, from, to time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{byEquipment(equipmentName), startingBy(to), endingFrom(from)},
	}
}

// FilterWithin matches bookings of any equipment that share a day with [from, to].
func FilterWithin(from, to time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{startingBy(to), endingFrom(from)},
	}
}
