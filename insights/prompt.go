package insights

import (
	"encoding/json"
	"fmt"
	"strings"
)

const cardSchema = `Respond with ONLY a JSON object matching this schema:
{
  "summary": string (2-3 sentences on the player's overall game),
  "cards": [
    {
      "id": string (unique, kebab-case),
      "title": string,
      "content": string,
      "type": string (one of: weakness, analysis, practice, strategy, summary, teaser),
      "priority": number (1 = most important),
      "icon": {"name": string, "color": string (hex)},
      "variant": string (one of: standard, highlight, alert, success)
    }
  ]
}`

const premiumInstructions = `You are an expert golf coach analysing a player's last rounds.
Produce a multi-dimensional coaching analysis covering:
- Sequence effects: how the outcome of one shot influences the next (e.g. recovery shots after wayward tee shots).
- Spatial, course-aware reasoning: relate performance to hole distance, stroke index, and terrain.
- Temporal and fatigue patterns: use shot timestamps and elapsed time per hole to spot late-round decline.
- Skill progression: a concrete practice roadmap ordered by expected score impact.
- Causal inference: distinguish root causes from symptoms (a three-putt caused by a poor approach is an approach problem).
Include at least one card each of type weakness, analysis, practice, and strategy.`

const liteInstructions = `You are a golf coach writing a short free-tier preview from the player's single most recent round.
Produce exactly 5 cards:
- One genuine card of type "summary" describing how the round went, with one honest observation.
- Four cards of type "teaser" that each name a premium analysis dimension (shot-sequence analysis, course strategy, fatigue patterns, practice roadmap) and hint at what it would reveal for this player without delivering the analysis itself.
Teaser card content should preview value, not provide it.`

// buildPrompt assembles the full generation prompt: instructions, the card
// schema, optional handicap context, and the JSON-serialized round data.
func buildPrompt(rounds []roundAnalysis, handicap *float64, entitled bool) (string, error) {
	data, err := json.MarshalIndent(rounds, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding round data: %w", err)
	}

	var b strings.Builder
	if entitled {
		b.WriteString(premiumInstructions)
	} else {
		b.WriteString(liteInstructions)
	}
	b.WriteString("\n\n")
	b.WriteString(cardSchema)
	if handicap != nil {
		fmt.Fprintf(&b, "\n\nPlayer handicap: %.1f", *handicap)
	}
	b.WriteString("\n\nShot types: tee, long, approach, chip, putt, sand, penalty.")
	b.WriteString("\nShot results: on_target, slightly_off, recovery_needed.")
	b.WriteString("\n\n[ROUND DATA]\n")
	b.Write(data)
	return b.String(), nil
}
