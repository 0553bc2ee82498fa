package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Shot type taxonomy. Every recorded swing is one of these.
const (
	ShotTee      = "tee"
	ShotLong     = "long"
	ShotApproach = "approach"
	ShotChip     = "chip"
	ShotPutt     = "putt"
	ShotSand     = "sand"
	ShotPenalty  = "penalty"
)

// Qualitative shot results.
const (
	ResultOnTarget       = "on_target"
	ResultSlightlyOff    = "slightly_off"
	ResultRecoveryNeeded = "recovery_needed"
)

// ShotTypes lists the taxonomy in display order.
var ShotTypes = []string{ShotTee, ShotLong, ShotApproach, ShotChip, ShotPutt, ShotSand, ShotPenalty}

// ShotResults lists the qualitative results in display order.
var ShotResults = []string{ResultOnTarget, ResultSlightlyOff, ResultRecoveryNeeded}

// ShotEntry is one swing within a hole. It has no identity beyond its
// position in the hole's shot sequence.
type ShotEntry struct {
	Type      string     `json:"type"`
	Result    string     `json:"result"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// HoleData is the structured per-hole payload buffered by the client and
// stored as jsonb on the hole record.
type HoleData struct {
	Par      int             `json:"par,omitempty"`
	Distance int             `json:"distance,omitempty"`
	Index    int             `json:"index,omitempty"`
	Terrain  []string        `json:"terrain,omitempty"`
	Shots    []ShotEntry     `json:"shots"`
	POIs     json.RawMessage `json:"pois,omitempty"`
}

// HoleRecord is the persisted shot data for one hole of a round. Rows are
// upserted on (round_id, hole_number) during round completion and never
// touched afterwards.
type HoleRecord struct {
	bun.BaseModel `bun:"table:shots,alias:s"`

	ID         int             `bun:"id,pk,autoincrement" json:"id"`
	RoundID    string          `bun:"round_id,notnull,type:uuid,unique:shots_no_dupes" json:"roundID"`
	HoleNumber int             `bun:"hole_number,notnull,unique:shots_no_dupes" json:"holeNumber"`
	HoleData   json.RawMessage `bun:"hole_data,notnull,type:jsonb" json:"holeData"`
	TotalShots int             `bun:"total_shots,notnull" json:"totalShots"`
}
