// Package rounds persists in-progress hole data and finalizes played rounds.
package rounds

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fairwaylog/caddieapi/models"
)

// DefaultCoursePar is used when a course has no recorded par. A deliberate
// policy, not an error.
const DefaultCoursePar = 72

// DefaultTotalHoles is the hole count assumed when the caller does not say.
const DefaultTotalHoles = 18

// Trigger dispatches insight generation as a fire-and-forget side effect.
// Implementations must not block; their failure is unobservable to the
// finalizing flow.
type Trigger interface {
	TriggerInsights(profileID, roundID string)
}

// Finalizer turns client-buffered hole data into persisted, completed rounds.
type Finalizer struct {
	store    Store
	insights Trigger
	log      *zap.Logger
}

// NewFinalizer creates a Finalizer. insights may be nil (no side effect).
func NewFinalizer(store Store, insights Trigger, log *zap.Logger) *Finalizer {
	return &Finalizer{store: store, insights: insights, log: log}
}

// Start creates a new incomplete round for the profile on the given course.
func (f *Finalizer) Start(ctx context.Context, profileID string, courseID int, teeID, teeName *string) (*models.Round, error) {
	round := &models.Round{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		CourseID:  courseID,
		TeeID:     teeID,
		TeeName:   teeName,
	}
	if err := f.store.CreateRound(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}
	return round, nil
}

// CompleteRound persists every hole with recorded shots, computes the gross
// total and score versus par, and marks the round complete in a single
// update. Insight generation is then triggered without blocking.
//
// Hole writes are upserts keyed on (round, hole number), so retrying after a
// partial failure is safe: already-written holes are overwritten with the
// same values and the completion update recomputes identical totals.
func (f *Finalizer) CompleteRound(ctx context.Context, roundID string, holesByNumber map[int]models.HoleData, totalHoles int) (*models.Round, error) {
	if totalHoles <= 0 {
		totalHoles = DefaultTotalHoles
	}

	round, err := f.store.Round(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch round information: %w", err)
	}

	par, err := f.store.CoursePar(ctx, round.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course information: %w", err)
	}
	coursePar := DefaultCoursePar
	if par != nil {
		coursePar = *par
	}

	// Sequential by choice: holes are independent rows, but writing them one
	// at a time keeps partial-failure reporting exact.
	grossShots := 0
	for hole := 1; hole <= totalHoles; hole++ {
		data, ok := holesByNumber[hole]
		if !ok || len(data.Shots) == 0 {
			continue
		}

		raw, err := marshalHoleData(data)
		if err != nil {
			return nil, fmt.Errorf("failed to save data for hole %d: %w", hole, err)
		}
		rec := &models.HoleRecord{
			RoundID:    roundID,
			HoleNumber: hole,
			HoleData:   raw,
			TotalShots: len(data.Shots),
		}
		if err := f.store.UpsertHole(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to save data for hole %d: %w", hole, err)
		}
		grossShots += len(data.Shots)
	}

	// Raw subtraction regardless of holes played: partial rounds simply
	// score worse.
	score := grossShots - coursePar

	updated, err := f.store.MarkComplete(ctx, roundID, grossShots, score)
	if err != nil {
		// Holes stay written; a retry by the caller reconciles the round row.
		return nil, fmt.Errorf("failed to complete round: %w", err)
	}

	if f.insights != nil {
		f.insights.TriggerInsights(round.ProfileID, roundID)
	}

	return updated, nil
}

// Abandon deletes an incomplete round. Completed rounds are never deleted.
func (f *Finalizer) Abandon(ctx context.Context, roundID string) error {
	deleted, err := f.store.DeleteIncomplete(ctx, roundID)
	if err != nil {
		return fmt.Errorf("failed to abandon round: %w", err)
	}
	if !deleted {
		round, err := f.store.Round(ctx, roundID)
		if err != nil {
			return fmt.Errorf("failed to abandon round: %w", err)
		}
		if round.Completed {
			return ErrRoundCompleted
		}
		return fmt.Errorf("failed to abandon round %s", roundID)
	}
	return nil
}

// History returns the profile's rounds, newest first.
func (f *Finalizer) History(ctx context.Context, profileID string, limit int) ([]models.Round, error) {
	out, err := f.store.RoundsForProfile(ctx, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rounds: %w", err)
	}
	return out, nil
}
