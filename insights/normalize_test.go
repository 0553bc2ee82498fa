package insights

import (
	"testing"
	"time"
)

func TestNormalizeVariant_Whitelist(t *testing.T) {
	cases := map[string]string{
		"filled":    "highlight",
		"outlined":  "standard",
		"alert":     "alert",
		"success":   "success",
		"highlight": "highlight",
		"standard":  "standard",
		"sparkly":   "standard",
		"":          "standard",
	}
	for in, want := range cases {
		if got := normalizeVariant(in); got != want {
			t.Errorf("normalizeVariant(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizePayload_LegacyFieldsPickLowestPriority(t *testing.T) {
	out := modelOutput{
		Summary: "summary",
		Cards: []modelCard{
			{ID: "w2", Content: "secondary weakness", Type: "weakness", Priority: 3},
			{ID: "w1", Content: "main weakness", Type: "weakness", Priority: 1},
			{ID: "a1", Content: "why it happens", Type: "analysis", Priority: 2},
			{ID: "p1", Content: "drill this", Type: "practice", Priority: 2},
			{ID: "s1", Content: "play safer", Type: "strategy", Priority: 4},
		},
	}

	p := normalizePayload(out, TierPremium, "premium_insights", time.Now())
	if p.PrimaryIssue != "main weakness" {
		t.Errorf("primaryIssue = %q, want lowest-priority weakness card", p.PrimaryIssue)
	}
	if p.Reason != "why it happens" {
		t.Errorf("reason = %q", p.Reason)
	}
	if p.PracticeFocus != "drill this" {
		t.Errorf("practiceFocus = %q", p.PracticeFocus)
	}
	if p.ManagementTip != "play safer" {
		t.Errorf("managementTip = %q", p.ManagementTip)
	}
}

func TestNormalizePayload_PremiumHasNoConversionAffordances(t *testing.T) {
	out := modelOutput{Cards: []modelCard{{ID: "w1", Type: "weakness", Priority: 1, Variant: "filled"}}}

	p := normalizePayload(out, TierPremium, "premium_insights", time.Now())
	if p.Cards[0].UsePremiumButton || p.Cards[0].ProductID != "" || p.Cards[0].CTAText != "" {
		t.Errorf("premium card carries conversion affordances: %+v", p.Cards[0])
	}
	if p.Cards[0].Variant != "highlight" {
		t.Errorf("variant not normalized: %q", p.Cards[0].Variant)
	}
}

func TestNormalizePayload_FreeTierTeaserAffordances(t *testing.T) {
	out := modelOutput{
		Summary: "one round summary",
		Cards: []modelCard{
			{ID: "sum", Type: "summary", Priority: 1},
			{ID: "t1", Type: "teaser", Priority: 2},
			{ID: "t2", Type: "teaser", Priority: 3},
		},
	}

	p := normalizePayload(out, TierFree, "premium_insights", time.Now())
	for _, c := range p.Cards {
		isTeaser := c.Type == "teaser"
		if c.UsePremiumButton != isTeaser {
			t.Errorf("card %s: usePremiumButton = %v on type %q", c.ID, c.UsePremiumButton, c.Type)
		}
		if isTeaser && (c.ProductID != "premium_insights" || c.CTAText == "") {
			t.Errorf("teaser card %s missing affordances: %+v", c.ID, c)
		}
		if !isTeaser && (c.ProductID != "" || c.CTAText != "") {
			t.Errorf("non-teaser card %s carries affordances: %+v", c.ID, c)
		}
	}
	// Free tier synthesizes placeholder legacy fields instead of deriving them.
	if p.PrimaryIssue == "" || p.PracticeFocus == "" || p.Reason == "" || p.ManagementTip == "" {
		t.Errorf("free tier should synthesize legacy placeholders: %+v", p)
	}
}
