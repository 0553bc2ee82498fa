package rounds

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/fairwaylog/caddieapi/models"
)

// Store is the persistence surface the finalizer needs. The production
// implementation is bun-backed; tests substitute a fake.
type Store interface {
	Round(ctx context.Context, roundID string) (*models.Round, error)
	CoursePar(ctx context.Context, courseID int) (*int, error)
	UpsertHole(ctx context.Context, rec *models.HoleRecord) error
	MarkComplete(ctx context.Context, roundID string, totalShots, score int) (*models.Round, error)
	CreateRound(ctx context.Context, round *models.Round) error
	DeleteIncomplete(ctx context.Context, roundID string) (bool, error)
	RoundsForProfile(ctx context.Context, profileID string, limit int) ([]models.Round, error)
}

// ErrRoundNotFound is returned when the referenced round does not exist.
var ErrRoundNotFound = errors.New("round not found")

// ErrRoundCompleted is returned when an operation only valid for incomplete
// rounds targets a completed one.
var ErrRoundCompleted = errors.New("round already completed")

type storeDB struct {
	db *bun.DB
}

// NewStore wraps a bun connection in the finalizer's Store interface.
func NewStore(db *bun.DB) Store {
	return &storeDB{db: db}
}

func (s *storeDB) Round(ctx context.Context, roundID string) (*models.Round, error) {
	round := &models.Round{}
	err := s.db.NewSelect().Model(round).
		Where("rd.id = ?", roundID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoundNotFound
	}
	if err != nil {
		return nil, err
	}
	return round, nil
}

func (s *storeDB) CoursePar(ctx context.Context, courseID int) (*int, error) {
	course := &models.Course{}
	err := s.db.NewSelect().Model(course).
		Column("c.par").
		Where("c.course_id = ?", courseID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		// Unknown course: treat as unset par, the caller applies the default.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return course.Par, nil
}

func (s *storeDB) UpsertHole(ctx context.Context, rec *models.HoleRecord) error {
	_, err := s.db.NewInsert().Model(rec).
		On("CONFLICT (round_id, hole_number) DO UPDATE SET hole_data = EXCLUDED.hole_data, total_shots = EXCLUDED.total_shots").
		Exec(ctx)
	return err
}

func (s *storeDB) MarkComplete(ctx context.Context, roundID string, totalShots, score int) (*models.Round, error) {
	round := &models.Round{}
	err := s.db.NewUpdate().Model(round).
		Set("completed = TRUE").
		Set("total_shots = ?", totalShots).
		Set("score = ?", score).
		Where("id = ?", roundID).
		Returning("*").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return round, nil
}

func (s *storeDB) CreateRound(ctx context.Context, round *models.Round) error {
	_, err := s.db.NewInsert().Model(round).Exec(ctx)
	return err
}

func (s *storeDB) DeleteIncomplete(ctx context.Context, roundID string) (bool, error) {
	res, err := s.db.NewDelete().Model((*models.Round)(nil)).
		Where("id = ?", roundID).
		Where("NOT completed").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *storeDB) RoundsForProfile(ctx context.Context, profileID string, limit int) ([]models.Round, error) {
	var out []models.Round
	q := s.db.NewSelect().Model(&out).
		Where("rd.profile_id = ?", profileID).
		OrderExpr("rd.created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// marshalHoleData encodes the client's hole payload for jsonb storage.
func marshalHoleData(data models.HoleData) (json.RawMessage, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding hole data: %w", err)
	}
	return b, nil
}
