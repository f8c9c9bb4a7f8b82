package service

import (
	"context"
	"fmt"
	"labplanner/internal/domains/booking/collision"
	equipmentModel "labplanner/internal/domains/equipment/model"
	equipmentRepo "labplanner/internal/domains/equipment/repository"
	"labplanner/internal/domains/override/model"
	"labplanner/internal/domains/override/repository"
	"labplanner/shared"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"
	"time"

	"cloud.google.com/go/civil"
)

// storeResolver answers capacity questions straight from the database.
type storeResolver struct {
	equipment equipmentRepo.Equipment
	overrides repository.Override
}

var _ collision.CapacityResolver = (*storeResolver)(nil)

func (r *storeResolver) BaseCapacity(ctx context.Context, equipmentName string) (int, error) {
	equipment, err := r.equipment.Get(ctx,
		shared.FilterByID(equipmentName, equipmentModel.FieldName, equipmentModel.TableName),
		equipmentModel.FieldName, equipmentModel.FieldMaxTests,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to get equipment capacity: %w", err)
	}

	if equipment.Name == constant.Empty {
		return 0, collision.ErrEquipmentNotFound
	}

	return equipment.MaxTests, nil
}

func (r *storeResolver) EffectiveCapacity(ctx context.Context, equipmentName string, day civil.Date) (int, error) {
	override, found, err := r.activeOverride(ctx, equipmentName, day)
	if err != nil {
		return 0, err
	}

	if found {
		return override.MaxTests, nil
	}

	return r.BaseCapacity(ctx, equipmentName)
}

func (r *storeResolver) activeOverride(ctx context.Context, equipmentName string, day civil.Date) (collision.Override, bool, error) {
	at := day.In(time.UTC)

	overrides, err := r.overrides.GetAll(ctx, gDto.QueryParams{}, repository.FilterCovering(equipmentName, at, at))
	if err != nil {
		return collision.Override{}, false, fmt.Errorf("failed to get capacity overrides: %w", err)
	}

	override, found := collision.ActiveOverride(model.ToCollision(overrides), equipmentName, day)

	return override, found, nil
}
