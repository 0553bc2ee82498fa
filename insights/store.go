package insights

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/fairwaylog/caddieapi/models"
)

// RoundWithCourse is one completed round joined with its course's
// descriptive attributes.
type RoundWithCourse struct {
	ID             string          `bun:"id"`
	ProfileID      string          `bun:"profile_id"`
	TeeName        *string         `bun:"tee_name"`
	TotalShots     *int            `bun:"total_shots"`
	Score          *int            `bun:"score"`
	CreatedAt      time.Time       `bun:"created_at"`
	CourseName     string          `bun:"name"`
	CoursePar      *int            `bun:"par"`
	CourseLocation *string         `bun:"location"`
	CourseHoles    int             `bun:"holes"`
	CourseLayout   json.RawMessage `bun:"layout"`
}

// Store is the persistence surface the generator needs.
type Store interface {
	Handicap(ctx context.Context, profileID string) (*float64, error)
	HasEntitlement(ctx context.Context, profileID, productID string) (bool, error)
	RecentCompletedRounds(ctx context.Context, profileID string, limit int) ([]RoundWithCourse, error)
	HoleRecords(ctx context.Context, roundIDs []string) ([]models.HoleRecord, error)
	SaveInsight(ctx context.Context, insight *models.Insight) error
	InsightHistory(ctx context.Context, profileID string, limit int) ([]models.Insight, error)
}

type storeDB struct {
	db *bun.DB
}

// NewStore wraps a bun connection in the generator's Store interface.
func NewStore(db *bun.DB) Store {
	return &storeDB{db: db}
}

func (s *storeDB) Handicap(ctx context.Context, profileID string) (*float64, error) {
	profile := &models.Profile{}
	err := s.db.NewSelect().Model(profile).
		Column("p.handicap").
		Where("p.id = ?", profileID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return profile.Handicap, nil
}

func (s *storeDB) HasEntitlement(ctx context.Context, profileID, productID string) (bool, error) {
	return s.db.NewSelect().Model((*models.Permission)(nil)).
		Where("profile_id = ?", profileID).
		Where("product_id = ?", productID).
		Where("active").
		Exists(ctx)
}

const recentRoundsJoinSQL = `
SELECT
	rd.id, rd.profile_id, rd.tee_name, rd.total_shots, rd.score, rd.created_at,
	c.name, c.par, c.location, c.holes, c.layout
FROM rounds rd
INNER JOIN courses c ON rd.course_id = c.course_id
WHERE rd.profile_id = ? AND rd.completed
ORDER BY rd.created_at DESC
LIMIT ?`

func (s *storeDB) RecentCompletedRounds(ctx context.Context, profileID string, limit int) ([]RoundWithCourse, error) {
	var rows []RoundWithCourse
	err := s.db.NewRaw(recentRoundsJoinSQL, profileID, limit).Scan(ctx, &rows)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return rows, nil
}

func (s *storeDB) HoleRecords(ctx context.Context, roundIDs []string) ([]models.HoleRecord, error) {
	var recs []models.HoleRecord
	err := s.db.NewSelect().Model(&recs).
		Where("s.round_id IN (?)", bun.In(roundIDs)).
		OrderExpr("s.round_id, s.hole_number").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return recs, nil
}

func (s *storeDB) SaveInsight(ctx context.Context, insight *models.Insight) error {
	_, err := s.db.NewInsert().Model(insight).Exec(ctx)
	return err
}

func (s *storeDB) InsightHistory(ctx context.Context, profileID string, limit int) ([]models.Insight, error) {
	var out []models.Insight
	q := s.db.NewSelect().Model(&out).
		Where("i.profile_id = ?", profileID).
		OrderExpr("i.created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return out, nil
}
