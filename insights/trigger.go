package insights

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Trigger dispatches insight generation without a result channel back to the
// initiator. The round finalizer fires it and moves on; a failed generation
// is logged here and is unobservable to the completing round.
type Trigger struct {
	gen     *Generator
	timeout time.Duration
	log     *zap.Logger
}

// NewTrigger creates a Trigger. timeout bounds each background generation;
// zero means 2 minutes.
func NewTrigger(gen *Generator, timeout time.Duration, log *zap.Logger) *Trigger {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Trigger{gen: gen, timeout: timeout, log: log}
}

// TriggerInsights starts generation for (profile, round) in the background
// and returns immediately.
func (t *Trigger) TriggerInsights(profileID, roundID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()

		if _, err := t.gen.Generate(ctx, profileID, roundID); err != nil {
			t.log.Warn("background insight generation failed",
				zap.String("profile_id", profileID),
				zap.String("round_id", roundID),
				zap.Error(err))
			return
		}
		t.log.Info("insights generated",
			zap.String("profile_id", profileID),
			zap.String("round_id", roundID))
	}()
}
