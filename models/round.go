package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Round is one play session on a course. It is created incomplete, mutated
// exactly once at completion time (totals and flag set in a single update),
// and never changed after that.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:rd"`

	ID         string    `bun:"id,pk,type:uuid" json:"id"`
	ProfileID  string    `bun:"profile_id,notnull,type:uuid" json:"profileID"`
	CourseID   int       `bun:"course_id,notnull" json:"courseID"`
	TeeID      *string   `bun:"tee_id" json:"teeID,omitempty"`
	TeeName    *string   `bun:"tee_name" json:"teeName,omitempty"`
	Completed  bool      `bun:"completed,notnull,default:false" json:"completed"`
	TotalShots *int      `bun:"total_shots" json:"totalShots,omitempty"`
	Score      *int      `bun:"score" json:"score,omitempty"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	Course *Course `bun:"rel:belongs-to,join:course_id=course_id" json:"-"`
}
