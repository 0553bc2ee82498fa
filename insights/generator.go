package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fairwaylog/caddieapi/models"
)

// recentRoundLimit is how many completed rounds a premium analysis covers.
const recentRoundLimit = 5

// TextGenerator is the outbound generation call. Satisfied by llm.Client.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Options carries the generation knobs taken from config.
type Options struct {
	PremiumProductID string
	MaxTokens        int
	MaxTokensLite    int
}

// Generator assembles round history, calls the generation API, and
// normalizes and persists the result. Stateless per invocation.
type Generator struct {
	store Store
	gen   TextGenerator
	opts  Options
	log   *zap.Logger

	// Overridable clock, fixed in tests.
	now func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(store Store, gen TextGenerator, opts Options, log *zap.Logger) *Generator {
	return &Generator{store: store, gen: gen, opts: opts, log: log, now: time.Now}
}

// Generate produces insights for the profile, optionally tied to the round
// that triggered it. roundID may be empty.
//
// Enrichment steps (handicap, entitlement, insight persistence) degrade to
// safe defaults on failure; prerequisite steps (round fetch, generation call)
// propagate with stage context.
func (g *Generator) Generate(ctx context.Context, profileID, roundID string) (*Result, error) {
	if profileID == "" {
		return nil, ErrNoProfile
	}

	handicap, err := g.store.Handicap(ctx, profileID)
	if err != nil {
		g.log.Warn("handicap lookup failed, omitting from prompt",
			zap.String("profile_id", profileID), zap.Error(err))
		handicap = nil
	}

	// Fail closed: any doubt about the entitlement means the free tier.
	entitled, err := g.store.HasEntitlement(ctx, profileID, g.opts.PremiumProductID)
	if err != nil {
		g.log.Warn("entitlement lookup failed, assuming not entitled",
			zap.String("profile_id", profileID), zap.Error(err))
		entitled = false
	}
	tier := TierFree
	if entitled {
		tier = TierPremium
	}

	// Free tier sees the single most recent round only.
	limit := recentRoundLimit
	if !entitled {
		limit = 1
	}
	recent, err := g.store.RecentCompletedRounds(ctx, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completed rounds: %w", err)
	}
	if len(recent) == 0 {
		return nil, ErrNoCompletedRounds
	}

	roundIDs := make([]string, len(recent))
	for i, r := range recent {
		roundIDs[i] = r.ID
	}

	holeRecs, err := g.store.HoleRecords(ctx, roundIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hole records: %w", err)
	}
	holesByRound := make(map[string][]models.HoleRecord, len(roundIDs))
	for _, rec := range holeRecs {
		holesByRound[rec.RoundID] = append(holesByRound[rec.RoundID], rec)
	}

	analyses := make([]roundAnalysis, len(recent))
	for i, r := range recent {
		analyses[i] = buildRoundAnalysis(r, holesByRound[r.ID], g.log)
	}

	prompt, err := buildPrompt(analyses, handicap, entitled)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble prompt: %w", err)
	}

	maxTokens := g.opts.MaxTokensLite
	if entitled {
		maxTokens = g.opts.MaxTokens
	}
	answer, err := g.gen.Generate(ctx, prompt, maxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to generate insights: %w", err)
	}

	now := g.now().UTC()
	var payload Payload
	if out, ok := extractJSON(answer); ok {
		payload = normalizePayload(out, tier, g.opts.PremiumProductID, now)
	} else {
		g.log.Warn("model answer was not parseable JSON, storing raw text",
			zap.String("profile_id", profileID))
		payload = fallbackPayload(answer, tier, now)
	}

	g.persist(ctx, profileID, roundID, payload)

	return &Result{
		Insights:       payload,
		AnalyzedRounds: roundIDs,
		Tier:           tier,
	}, nil
}

// persist writes the insight record. Failure is logged and swallowed: the
// generated payload is still returned even if it could not be saved.
func (g *Generator) persist(ctx context.Context, profileID, roundID string, payload Payload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		g.log.Error("encoding insight payload failed", zap.Error(err))
		return
	}
	insight := &models.Insight{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Payload:   raw,
		CreatedAt: payload.GeneratedAt,
	}
	if roundID != "" {
		insight.RoundID = &roundID
	}
	if err := g.store.SaveInsight(ctx, insight); err != nil {
		g.log.Error("saving insight record failed",
			zap.String("profile_id", profileID),
			zap.String("round_id", roundID),
			zap.Error(err))
	}
}

// History returns the profile's stored insight records, newest first.
func (g *Generator) History(ctx context.Context, profileID string, limit int) ([]models.Insight, error) {
	out, err := g.store.InsightHistory(ctx, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch insight history: %w", err)
	}
	return out, nil
}
