package models

import (
	"encoding/json"

	"github.com/uptrace/bun"
)

// Course represents a golf course. Par is nullable; scoring falls back to 72
// when it was never recorded.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	CourseID int             `bun:"course_id,pk,autoincrement" json:"courseID"`
	Name     string          `bun:"name,notnull,unique" json:"name"`
	Par      *int            `bun:"par" json:"par,omitempty"`
	Location *string         `bun:"location" json:"location,omitempty"`
	Holes    int             `bun:"holes,notnull,default:18" json:"holes"`
	Layout   json.RawMessage `bun:"layout,type:jsonb" json:"layout,omitempty"`
}
