// Package collision decides whether a reservation fits on a piece of equipment
// given the reservations already on it, its capacity and any temporary
// capacity overrides.
package collision

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog/log"
)

type Strategy string

const (
	// StrategyPerDay checks every day of the candidate against the capacity
	// in force on that day, overrides included.
	StrategyPerDay Strategy = "per_day"
	// StrategyWholeRange counts reservations overlapping the candidate
	// anywhere in its span against the base capacity.
	StrategyWholeRange Strategy = "whole_range"
)

func ParseStrategy(value string) (Strategy, error) {
	switch Strategy(value) {
	case StrategyPerDay, "":
		return StrategyPerDay, nil
	case StrategyWholeRange:
		return StrategyWholeRange, nil
	default:
		return "", fmt.Errorf("unknown collision strategy %q", value)
	}
}

type Reason string

const (
	ReasonNone               Reason = ""
	ReasonInvalidReference   Reason = "equipment reference is missing"
	ReasonUnknownEquipment   Reason = "equipment is unknown"
	ReasonInvalidDates       Reason = "reservation dates are invalid"
	ReasonCapacityExceeded   Reason = "equipment capacity exceeded"
	ReasonCapacityUnresolved Reason = "equipment capacity could not be resolved"
)

// Reservation is an existing booking as seen by the evaluator. Dates are ISO
// calendar dates; entries whose dates do not parse are ignored.
type Reservation struct {
	ID        int64
	Equipment EquipmentRef
	Start     string
	End       string
	IsBlocker bool
}

// Candidate is the reservation being evaluated. ID is zero for new
// reservations and the stored id when an existing one is edited.
type Candidate struct {
	ID        int64
	Equipment EquipmentRef
	Start     string
	End       string
	IsBlocker bool
}

type DayEvaluation struct {
	Date     civil.Date `json:"date"`
	Occupied int        `json:"occupied"`
	Capacity int        `json:"capacity"`
	Accepted bool       `json:"accepted"`
}

// Decision is the outcome of an evaluation. Occupied and Capacity describe
// the check that decided it; Days is only filled by the per-day strategy and
// stops at the first rejected day.
type Decision struct {
	Accepted bool            `json:"accepted"`
	Reason   Reason          `json:"reason,omitempty"`
	Occupied int             `json:"occupied"`
	Capacity int             `json:"capacity"`
	Days     []DayEvaluation `json:"days,omitempty"`
	Err      error           `json:"-"`
}

type Evaluator struct {
	strategy Strategy
	resolver CapacityResolver
}

func New(strategy Strategy, resolver CapacityResolver) *Evaluator {
	if strategy == "" {
		strategy = StrategyPerDay
	}

	return &Evaluator{
		strategy: strategy,
		resolver: resolver,
	}
}

// CanAccept reports whether the candidate may be stored.
func (e *Evaluator) CanAccept(ctx context.Context, candidate Candidate, existing []Reservation) bool {
	return e.Evaluate(ctx, candidate, existing).Accepted
}

// Collides is the negation of CanAccept: true means the candidate is rejected.
func (e *Evaluator) Collides(ctx context.Context, candidate Candidate, existing []Reservation) bool {
	return !e.CanAccept(ctx, candidate, existing)
}

func (e *Evaluator) Evaluate(ctx context.Context, candidate Candidate, existing []Reservation) Decision {
	if candidate.Equipment.IsZero() {
		return reject(ReasonInvalidReference, nil)
	}

	baseCapacity, err := e.resolver.BaseCapacity(ctx, candidate.Equipment.Base)
	if err != nil {
		return rejectResolution(err)
	}

	start, end, err := ParseRange(candidate.Start, candidate.End)
	if err != nil {
		return reject(ReasonInvalidDates, err)
	}

	if e.strategy == StrategyWholeRange {
		return e.evaluateWholeRange(candidate, start, end, baseCapacity, existing)
	}

	return e.evaluatePerDay(ctx, candidate, start, end, existing)
}

func (e *Evaluator) evaluateWholeRange(candidate Candidate, start, end civil.Date, capacity int, existing []Reservation) Decision {
	occupied := 0

	for _, span := range relevantSpans(candidate, existing) {
		if candidate.IsBlocker && span.isBlocker {
			continue
		}

		if Overlaps(start, end, span.start, span.end) {
			occupied++
		}
	}

	decision := Decision{Occupied: occupied, Capacity: capacity, Accepted: true}

	if !candidate.IsBlocker && occupied >= capacity {
		decision.Accepted = false
		decision.Reason = ReasonCapacityExceeded
	}

	return decision
}

func (e *Evaluator) evaluatePerDay(ctx context.Context, candidate Candidate, start, end civil.Date, existing []Reservation) Decision {
	spans := relevantSpans(candidate, existing)
	decision := Decision{Accepted: true}

	for _, day := range DaysInRange(start, end) {
		capacity, err := e.resolver.EffectiveCapacity(ctx, candidate.Equipment.Base, day)
		if err != nil {
			resolution := rejectResolution(err)
			resolution.Days = decision.Days

			return resolution
		}

		occupied := 0

		for _, span := range spans {
			if !span.isBlocker && Contains(span.start, span.end, day) {
				occupied++
			}
		}

		accepted := candidate.IsBlocker || occupied < capacity
		decision.Days = append(decision.Days, DayEvaluation{
			Date:     day,
			Occupied: occupied,
			Capacity: capacity,
			Accepted: accepted,
		})

		if !accepted {
			decision.Accepted = false
			decision.Reason = ReasonCapacityExceeded
			decision.Occupied = occupied
			decision.Capacity = capacity

			return decision
		}

		decision.Occupied = max(decision.Occupied, occupied)
		decision.Capacity = capacity
	}

	return decision
}

type span struct {
	start     civil.Date
	end       civil.Date
	isBlocker bool
}

// relevantSpans keeps the reservations on the candidate's exact equipment
// reference, minus the candidate itself and entries with unusable dates.
func relevantSpans(candidate Candidate, existing []Reservation) []span {
	spans := make([]span, 0, len(existing))

	for _, reservation := range existing {
		if candidate.ID != 0 && reservation.ID == candidate.ID {
			continue
		}

		if reservation.Equipment != candidate.Equipment {
			continue
		}

		start, end, err := ParseRange(reservation.Start, reservation.End)
		if err != nil {
			log.Warn().Err(err).Int64("reservation_id", reservation.ID).Msg("skipping reservation with malformed dates")

			continue
		}

		spans = append(spans, span{start: start, end: end, isBlocker: reservation.IsBlocker})
	}

	return spans
}

func reject(reason Reason, err error) Decision {
	return Decision{Accepted: false, Reason: reason, Err: err}
}

func rejectResolution(err error) Decision {
	if errors.Is(err, ErrEquipmentNotFound) {
		return reject(ReasonUnknownEquipment, err)
	}

	return reject(ReasonCapacityUnresolved, err)
}

// CheckCollision evaluates a candidate against in-memory snapshots with the
// per-day strategy. It returns true when the candidate must be rejected.
func CheckCollision(ctx context.Context, candidate Candidate, reservations []Reservation, equipment []Equipment, overrides ...Override) bool {
	return New(StrategyPerDay, NewSnapshotResolver(equipment, overrides)).Collides(ctx, candidate, reservations)
}
