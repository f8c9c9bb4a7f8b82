package collision

import (
	"context"
	"errors"

	"cloud.google.com/go/civil"
)

// ErrEquipmentNotFound is returned by resolvers for names they do not know.
// Callers must treat it as a rejection, never as a capacity of zero.
var ErrEquipmentNotFound = errors.New("equipment not found")

type Equipment struct {
	Name     string
	MaxTests int
}

// Override temporarily replaces the capacity of one piece of equipment.
type Override struct {
	ID            int64
	EquipmentName string
	Start         civil.Date
	End           civil.Date
	MaxTests      int
}

type CapacityResolver interface {
	BaseCapacity(ctx context.Context, equipmentName string) (int, error)
	EffectiveCapacity(ctx context.Context, equipmentName string, day civil.Date) (int, error)
}

// ActiveOverride picks the override for equipmentName covering day. When
// several apply, the one with the highest id wins.
func ActiveOverride(overrides []Override, equipmentName string, day civil.Date) (Override, bool) {
	var (
		active Override
		found  bool
	)

	for _, override := range overrides {
		if override.EquipmentName != equipmentName || !Contains(override.Start, override.End, day) {
			continue
		}

		if !found || override.ID > active.ID {
			active = override
			found = true
		}
	}

	return active, found
}

// SnapshotResolver answers capacity questions from in-memory snapshots.
type SnapshotResolver struct {
	equipment map[string]int
	overrides []Override
}

func NewSnapshotResolver(equipment []Equipment, overrides []Override) *SnapshotResolver {
	capacities := make(map[string]int, len(equipment))
	for _, eq := range equipment {
		capacities[eq.Name] = eq.MaxTests
	}

	return &SnapshotResolver{
		equipment: capacities,
		overrides: overrides,
	}
}

func (r *SnapshotResolver) BaseCapacity(_ context.Context, equipmentName string) (int, error) {
	capacity, ok := r.equipment[equipmentName]
	if !ok {
		return 0, ErrEquipmentNotFound
	}

	return capacity, nil
}

func (r *SnapshotResolver) EffectiveCapacity(ctx context.Context, equipmentName string, day civil.Date) (int, error) {
	if override, ok := ActiveOverride(r.overrides, equipmentName, day); ok {
		return override.MaxTests, nil
	}

	return r.BaseCapacity(ctx, equipmentName)
}
