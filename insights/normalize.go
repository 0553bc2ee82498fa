package insights

import (
	"time"
)

// Card types the legacy single-value fields are derived from.
const (
	cardTypeWeakness = "weakness"
	cardTypeAnalysis = "analysis"
	cardTypePractice = "practice"
	cardTypeStrategy = "strategy"
	cardTypeTeaser   = "teaser"
)

// ctaText is the call-to-action shown on free-tier teaser cards.
const ctaText = "Unlock full analysis with Premium"

// variantWhitelist maps free-form model variants onto the fixed set the UI
// understands. Anything unrecognized falls back to "standard".
var variantWhitelist = map[string]string{
	"filled":    "highlight",
	"outlined":  "standard",
	"alert":     "alert",
	"success":   "success",
	"highlight": "highlight",
	"standard":  "standard",
}

func normalizeVariant(variant string) string {
	if v, ok := variantWhitelist[variant]; ok {
		return v
	}
	return "standard"
}

// normalizePayload turns the parsed model output into the UI-stable payload:
// whitelisted variants, legacy scalar fields derived from the highest-priority
// card of each designated type, and, on the free tier, conversion affordances
// on teaser cards plus placeholder legacy fields advertising the premium tier.
func normalizePayload(out modelOutput, tier, productID string, now time.Time) Payload {
	cards := make([]Card, 0, len(out.Cards))
	for _, mc := range out.Cards {
		card := Card{
			ID:       mc.ID,
			Title:    mc.Title,
			Content:  mc.Content,
			Type:     mc.Type,
			Priority: mc.Priority,
			Icon:     mc.Icon,
			Variant:  normalizeVariant(mc.Variant),
		}
		if tier == TierFree && mc.Type == cardTypeTeaser {
			card.UsePremiumButton = true
			card.ProductID = productID
			card.CTAText = ctaText
		}
		cards = append(cards, card)
	}

	p := Payload{
		Summary:     out.Summary,
		Cards:       cards,
		GeneratedAt: now,
		Tier:        tier,
	}

	if tier == TierFree {
		p.PrimaryIssue = "Upgrade to Premium for a full breakdown of your game"
		p.Reason = "Free insights cover your latest round only"
		p.PracticeFocus = "Premium builds a practice roadmap from your last 5 rounds"
		p.ManagementTip = "Premium adds course-aware strategy for every hole"
		return p
	}

	p.PrimaryIssue = topCardContent(cards, cardTypeWeakness)
	p.Reason = topCardContent(cards, cardTypeAnalysis)
	p.PracticeFocus = topCardContent(cards, cardTypePractice)
	p.ManagementTip = topCardContent(cards, cardTypeStrategy)
	return p
}

// topCardContent returns the content of the lowest-priority-number (highest
// priority) card of the given type, or "" if none exists.
func topCardContent(cards []Card, cardType string) string {
	best := -1
	for i, c := range cards {
		if c.Type != cardType {
			continue
		}
		if best == -1 || c.Priority < cards[best].Priority {
			best = i
		}
	}
	if best == -1 {
		return ""
	}
	return cards[best].Content
}
