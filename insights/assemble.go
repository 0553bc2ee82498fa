package insights

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fairwaylog/caddieapi/models"
)

// courseContext is the descriptive course data sent along with each round.
type courseContext struct {
	Name     string          `json:"name"`
	Par      *int            `json:"par,omitempty"`
	Location string          `json:"location,omitempty"`
	Holes    int             `json:"holes,omitempty"`
	Layout   json.RawMessage `json:"layout,omitempty"`
}

// holeDetail is one hole's reconstructed record, with derived timing when
// shot timestamps are present.
type holeDetail struct {
	Number         int                `json:"number"`
	Par            int                `json:"par,omitempty"`
	Distance       int                `json:"distance,omitempty"`
	Index          int                `json:"index,omitempty"`
	Terrain        []string           `json:"terrain,omitempty"`
	Shots          []models.ShotEntry `json:"shots"`
	FirstShotAt    *time.Time         `json:"firstShotAt,omitempty"`
	LastShotAt     *time.Time         `json:"lastShotAt,omitempty"`
	ElapsedMinutes *int               `json:"elapsedMinutes,omitempty"`
}

// roundAnalysis is the per-round shape serialized into the prompt.
type roundAnalysis struct {
	RoundID    string                    `json:"roundId"`
	PlayedAt   time.Time                 `json:"playedAt"`
	TeeName    *string                   `json:"teeName,omitempty"`
	Course     courseContext             `json:"course"`
	TotalShots int                       `json:"totalShots"`
	Score      *int                      `json:"score,omitempty"`
	ShotTally  map[string]map[string]int `json:"shotTally"`
	Holes      []holeDetail              `json:"holes"`
}

// emptyTally builds the fixed shot-type x result matrix with every cell zero.
func emptyTally() map[string]map[string]int {
	tally := make(map[string]map[string]int, len(models.ShotTypes))
	for _, st := range models.ShotTypes {
		row := make(map[string]int, len(models.ShotResults))
		for _, res := range models.ShotResults {
			row[res] = 0
		}
		tally[st] = row
	}
	return tally
}

// buildRoundAnalysis reconstructs one round's analysis input from its hole
// records. Malformed hole payloads are skipped with a warning, never fatal.
func buildRoundAnalysis(round RoundWithCourse, holes []models.HoleRecord, log *zap.Logger) roundAnalysis {
	ra := roundAnalysis{
		RoundID:  round.ID,
		PlayedAt: round.CreatedAt,
		TeeName:  round.TeeName,
		Course: courseContext{
			Name:   round.CourseName,
			Par:    round.CoursePar,
			Holes:  round.CourseHoles,
			Layout: round.CourseLayout,
		},
		Score:     round.Score,
		ShotTally: emptyTally(),
	}
	if round.CourseLocation != nil {
		ra.Course.Location = *round.CourseLocation
	}

	for _, rec := range holes {
		var data models.HoleData
		if err := json.Unmarshal(rec.HoleData, &data); err != nil {
			log.Warn("skipping malformed hole payload",
				zap.String("round_id", round.ID),
				zap.Int("hole", rec.HoleNumber),
				zap.Error(err))
			continue
		}
		if data.Shots == nil {
			log.Warn("skipping hole with no shot sequence",
				zap.String("round_id", round.ID),
				zap.Int("hole", rec.HoleNumber))
			continue
		}

		detail := holeDetail{
			Number:   rec.HoleNumber,
			Par:      data.Par,
			Distance: data.Distance,
			Index:    data.Index,
			Terrain:  data.Terrain,
			Shots:    data.Shots,
		}

		for _, shot := range data.Shots {
			if row, ok := ra.ShotTally[shot.Type]; ok {
				if _, ok := row[shot.Result]; ok {
					row[shot.Result]++
				}
			}
			if shot.Timestamp == nil {
				continue
			}
			if detail.FirstShotAt == nil || shot.Timestamp.Before(*detail.FirstShotAt) {
				t := *shot.Timestamp
				detail.FirstShotAt = &t
			}
			if detail.LastShotAt == nil || shot.Timestamp.After(*detail.LastShotAt) {
				t := *shot.Timestamp
				detail.LastShotAt = &t
			}
		}
		if detail.FirstShotAt != nil && detail.LastShotAt != nil {
			mins := int(detail.LastShotAt.Sub(*detail.FirstShotAt).Minutes())
			detail.ElapsedMinutes = &mins
		}

		ra.TotalShots += len(data.Shots)
		ra.Holes = append(ra.Holes, detail)
	}

	return ra
}
