package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Insight is one stored generation result for a profile, optionally tied to
// the round that triggered it. Rows are insert-only; history accumulates.
type Insight struct {
	bun.BaseModel `bun:"table:insights,alias:i"`

	ID        string          `bun:"id,pk,type:uuid" json:"id"`
	ProfileID string          `bun:"profile_id,notnull,type:uuid" json:"profileID"`
	RoundID   *string         `bun:"round_id,type:uuid" json:"roundID,omitempty"`
	Payload   json.RawMessage `bun:"payload,notnull,type:jsonb" json:"payload"`
	CreatedAt time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
