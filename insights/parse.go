package insights

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// parseFailureMarker is stored on the fallback payload when the model's
// answer contained no parseable JSON.
const parseFailureMarker = "Failed to parse as JSON"

var (
	fencedWithLang = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	fencedNoLang   = regexp.MustCompile("(?s)```\\s*(.*?)```")
)

// extractJSON pulls a JSON object out of free-form model output. Models wrap
// their answer inconsistently, so extraction is an ordered fallback chain:
// fenced block with a json language tag, fenced block without one, then the
// raw text itself. Each step is tried only if the previous found nothing.
func extractJSON(text string) (modelOutput, bool) {
	candidates := make([]string, 0, 3)
	if m := fencedWithLang.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := fencedNoLang.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, text)

	for _, cand := range candidates {
		var out modelOutput
		if err := json.Unmarshal([]byte(strings.TrimSpace(cand)), &out); err == nil {
			return out, true
		}
	}
	return modelOutput{}, false
}

// fallbackPayload wraps an unparseable model answer so the caller still
// receives a storable result instead of a hard failure.
func fallbackPayload(raw, tier string, now time.Time) Payload {
	return Payload{
		Summary:     strings.TrimSpace(raw),
		Cards:       []Card{},
		GeneratedAt: now,
		Tier:        tier,
		Error:       parseFailureMarker,
		RawText:     raw,
	}
}
