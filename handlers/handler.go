package handlers

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/fairwaylog/caddieapi/insights"
	"github.com/fairwaylog/caddieapi/rounds"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db        *bun.DB
	JWTKey    []byte
	finalizer *rounds.Finalizer
	generator *insights.Generator
}

// New creates a Handler with the given dependencies.
func New(db *bun.DB, jwtKey []byte, finalizer *rounds.Finalizer, generator *insights.Generator) *Handler {
	return &Handler{db: db, JWTKey: jwtKey, finalizer: finalizer, generator: generator}
}

// errorEnvelope is the JSON error body the insight endpoints return.
type errorEnvelope struct {
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

func newErrorEnvelope(msg string) errorEnvelope {
	return errorEnvelope{Error: msg, Timestamp: time.Now().UTC()}
}
