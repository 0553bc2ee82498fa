package rounds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fairwaylog/caddieapi/models"
)

type fakeStore struct {
	mu        sync.Mutex
	rounds    map[string]*models.Round
	pars      map[int]*int
	holes     map[string]map[int]*models.HoleRecord
	failHole  int
	failFinal bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rounds: map[string]*models.Round{},
		pars:   map[int]*int{},
		holes:  map[string]map[int]*models.HoleRecord{},
	}
}

func (f *fakeStore) Round(_ context.Context, id string) (*models.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rounds[id]
	if !ok {
		return nil, ErrRoundNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) CoursePar(_ context.Context, courseID int) (*int, error) {
	return f.pars[courseID], nil
}

func (f *fakeStore) UpsertHole(_ context.Context, rec *models.HoleRecord) error {
	if f.failHole != 0 && rec.HoleNumber == f.failHole {
		return errors.New("connection reset")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	byHole, ok := f.holes[rec.RoundID]
	if !ok {
		byHole = map[int]*models.HoleRecord{}
		f.holes[rec.RoundID] = byHole
	}
	cp := *rec
	byHole[rec.HoleNumber] = &cp
	return nil
}

func (f *fakeStore) MarkComplete(_ context.Context, id string, totalShots, score int) (*models.Round, error) {
	if f.failFinal {
		return nil, errors.New("write timeout")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rounds[id]
	if !ok {
		return nil, fmt.Errorf("no round %s", id)
	}
	r.Completed = true
	r.TotalShots = &totalShots
	r.Score = &score
	cp := *r
	return &cp, nil
}

func (f *fakeStore) CreateRound(_ context.Context, round *models.Round) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *round
	f.rounds[round.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteIncomplete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rounds[id]
	if !ok || r.Completed {
		return false, nil
	}
	delete(f.rounds, id)
	return true, nil
}

func (f *fakeStore) RoundsForProfile(_ context.Context, profileID string, _ int) ([]models.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Round
	for _, r := range f.rounds {
		if r.ProfileID == profileID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type recordingTrigger struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingTrigger) TriggerInsights(profileID, roundID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, profileID+"/"+roundID)
}

func shots(n int) []models.ShotEntry {
	out := make([]models.ShotEntry, n)
	for i := range out {
		out[i] = models.ShotEntry{Type: models.ShotApproach, Result: models.ResultOnTarget}
	}
	return out
}

func seedRound(store *fakeStore, par *int) *models.Round {
	round := &models.Round{ID: "round-1", ProfileID: "profile-1", CourseID: 7}
	store.rounds[round.ID] = round
	store.pars[round.CourseID] = par
	return round
}

func TestCompleteRound_WritesOnlyHolesWithShots(t *testing.T) {
	store := newFakeStore()
	seedRound(store, intPtr(70))
	f := NewFinalizer(store, nil, zap.NewNop())

	holes := map[int]models.HoleData{
		1: {Par: 4, Shots: shots(4)},
		2: {Par: 3, Shots: nil}, // no shots recorded, skipped
		3: {Par: 5, Shots: shots(6)},
	}

	round, err := f.CompleteRound(context.Background(), "round-1", holes, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	written := store.holes["round-1"]
	if len(written) != 2 {
		t.Fatalf("expected 2 hole records, got %d", len(written))
	}
	if written[1] == nil || written[3] == nil {
		t.Fatal("expected holes 1 and 3 written")
	}
	if written[1].TotalShots != 4 || written[3].TotalShots != 6 {
		t.Errorf("hole totals wrong: %d, %d", written[1].TotalShots, written[3].TotalShots)
	}
	if !round.Completed {
		t.Error("round not marked complete")
	}
	if *round.TotalShots != 10 {
		t.Errorf("gross shots = %d, want 10", *round.TotalShots)
	}
	if *round.Score != 10-70 {
		t.Errorf("score = %d, want %d", *round.Score, 10-70)
	}
}

func TestCompleteRound_ParDefaultsTo72(t *testing.T) {
	store := newFakeStore()
	seedRound(store, nil)
	f := NewFinalizer(store, nil, zap.NewNop())

	holes := map[int]models.HoleData{
		1: {Shots: shots(4)},
		2: {Shots: shots(5)},
	}
	round, err := f.CompleteRound(context.Background(), "round-1", holes, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *round.TotalShots != 9 {
		t.Errorf("gross = %d, want 9", *round.TotalShots)
	}
	// Raw subtraction against full par even for a two-hole round.
	if *round.Score != -63 {
		t.Errorf("score = %d, want -63", *round.Score)
	}
}

func TestCompleteRound_Idempotent(t *testing.T) {
	store := newFakeStore()
	seedRound(store, intPtr(72))
	f := NewFinalizer(store, nil, zap.NewNop())

	ts := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	holes := map[int]models.HoleData{
		1: {Par: 4, Shots: []models.ShotEntry{{Type: models.ShotTee, Result: models.ResultOnTarget, Timestamp: &ts}}},
	}

	first, err := f.CompleteRound(context.Background(), "round-1", holes, 18)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := f.CompleteRound(context.Background(), "round-1", holes, 18)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if *first.TotalShots != *second.TotalShots || *first.Score != *second.Score {
		t.Errorf("re-invocation changed the round: %+v vs %+v", first, second)
	}
	if len(store.holes["round-1"]) != 1 {
		t.Errorf("expected 1 hole record after retry, got %d", len(store.holes["round-1"]))
	}
	var data models.HoleData
	if err := json.Unmarshal(store.holes["round-1"][1].HoleData, &data); err != nil {
		t.Fatalf("stored hole data invalid: %v", err)
	}
	if len(data.Shots) != 1 || !data.Shots[0].Timestamp.Equal(ts) {
		t.Errorf("stored shot data mangled: %+v", data.Shots)
	}
}

func TestCompleteRound_RoundNotFound(t *testing.T) {
	store := newFakeStore()
	f := NewFinalizer(store, nil, zap.NewNop())

	_, err := f.CompleteRound(context.Background(), "missing", map[int]models.HoleData{1: {Shots: shots(3)}}, 18)
	if !errors.Is(err, ErrRoundNotFound) {
		t.Fatalf("expected ErrRoundNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed to fetch round information") {
		t.Errorf("error lacks stage context: %v", err)
	}
}

func TestCompleteRound_HoleFailureNamesHoleAndKeepsPriorWrites(t *testing.T) {
	store := newFakeStore()
	seedRound(store, intPtr(72))
	store.failHole = 3
	trig := &recordingTrigger{}
	f := NewFinalizer(store, trig, zap.NewNop())

	holes := map[int]models.HoleData{
		1: {Shots: shots(4)},
		3: {Shots: shots(5)},
	}
	_, err := f.CompleteRound(context.Background(), "round-1", holes, 18)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "failed to save data for hole 3") {
		t.Errorf("error does not identify failing hole: %v", err)
	}
	// No rollback: hole 1 stays written.
	if store.holes["round-1"][1] == nil {
		t.Error("hole 1 should remain written")
	}
	if store.rounds["round-1"].Completed {
		t.Error("round must not be completed after a hole failure")
	}
	if len(trig.calls) != 0 {
		t.Error("insights must not be triggered on failure")
	}
}

func TestCompleteRound_FinalUpdateFailureLeavesHoles(t *testing.T) {
	store := newFakeStore()
	seedRound(store, intPtr(72))
	store.failFinal = true
	f := NewFinalizer(store, nil, zap.NewNop())

	_, err := f.CompleteRound(context.Background(), "round-1", map[int]models.HoleData{1: {Shots: shots(4)}}, 18)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "failed to complete round") {
		t.Errorf("error lacks stage context: %v", err)
	}
	if store.holes["round-1"][1] == nil {
		t.Error("holes should remain persisted when the final update fails")
	}
}

func TestCompleteRound_TriggersInsightsAfterSuccess(t *testing.T) {
	store := newFakeStore()
	seedRound(store, intPtr(72))
	trig := &recordingTrigger{}
	f := NewFinalizer(store, trig, zap.NewNop())

	_, err := f.CompleteRound(context.Background(), "round-1", map[int]models.HoleData{1: {Shots: shots(4)}}, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trig.calls) != 1 || trig.calls[0] != "profile-1/round-1" {
		t.Errorf("trigger calls = %v", trig.calls)
	}
}

func TestAbandon_OnlyIncompleteRounds(t *testing.T) {
	store := newFakeStore()
	seedRound(store, intPtr(72))
	done := &models.Round{ID: "round-2", ProfileID: "profile-1", CourseID: 7, Completed: true}
	store.rounds[done.ID] = done
	f := NewFinalizer(store, nil, zap.NewNop())

	if err := f.Abandon(context.Background(), "round-1"); err != nil {
		t.Fatalf("abandon incomplete: %v", err)
	}
	if _, ok := store.rounds["round-1"]; ok {
		t.Error("incomplete round should be deleted")
	}

	err := f.Abandon(context.Background(), "round-2")
	if !errors.Is(err, ErrRoundCompleted) {
		t.Fatalf("expected ErrRoundCompleted, got %v", err)
	}
}

func intPtr(n int) *int { return &n }
