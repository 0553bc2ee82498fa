// Package insights aggregates completed-round history, asks the generation
// API for coaching analysis, and normalizes the answer into UI-ready insight
// cards.
package insights

import (
	"errors"
	"time"
)

// Entitlement tiers recorded on every generated payload.
const (
	TierPremium = "premium"
	TierFree    = "free"
)

// ErrNoCompletedRounds is the terminal, user-visible condition when a profile
// has no completed rounds to analyse.
var ErrNoCompletedRounds = errors.New("No completed rounds found. Please complete a round first.")

// ErrNoProfile is returned when neither the session nor the request carries a
// profile id.
var ErrNoProfile = errors.New("no profile id could be resolved")

// Icon describes the display icon of a card.
type Icon struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Card is one normalized unit of coaching feedback.
type Card struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Type     string `json:"type"`
	Priority int    `json:"priority"`
	Icon     Icon   `json:"icon"`
	Variant  string `json:"variant"`

	// Conversion affordances, attached only to teaser cards on the free tier.
	UsePremiumButton bool   `json:"usePremiumButton,omitempty"`
	ProductID        string `json:"productId,omitempty"`
	CTAText          string `json:"ctaText,omitempty"`
}

// Payload is the stored and returned insight payload. The scalar fields
// mirror an older single-value contract and are derived from the card list.
type Payload struct {
	Summary string `json:"summary"`
	Cards   []Card `json:"cards"`

	PrimaryIssue  string `json:"primaryIssue,omitempty"`
	Reason        string `json:"reason,omitempty"`
	PracticeFocus string `json:"practiceFocus,omitempty"`
	ManagementTip string `json:"managementTip,omitempty"`

	GeneratedAt time.Time `json:"generatedAt"`
	Tier        string    `json:"tier"`

	// Set only when the model's answer could not be parsed; RawText then
	// carries the unparsed response so the result is still storable.
	Error   string `json:"error,omitempty"`
	RawText string `json:"rawText,omitempty"`
}

// Result is what the generation endpoint returns to its caller.
type Result struct {
	Insights       Payload  `json:"insights"`
	AnalyzedRounds []string `json:"analyzedRounds"`
	Tier           string   `json:"tier"`
}

// modelOutput is the JSON contract expected inside the model's answer text.
type modelOutput struct {
	Summary string      `json:"summary"`
	Cards   []modelCard `json:"cards"`
}

type modelCard struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Type     string `json:"type"`
	Priority int    `json:"priority"`
	Icon     Icon   `json:"icon"`
	Variant  string `json:"variant"`
}
