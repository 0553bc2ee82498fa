package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Profile is a player account with a bcrypt-hashed password.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:p"`

	ID        string    `bun:"id,pk,type:uuid" json:"id"`
	Username  string    `bun:"username,notnull,unique" json:"username"`
	Password  string    `bun:"password,notnull" json:"-"`
	Handicap  *float64  `bun:"handicap" json:"handicap,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
