package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fairwaylog/caddieapi/insights"
	"github.com/fairwaylog/caddieapi/models"
)

type stubStore struct {
	rounds []insights.RoundWithCourse
}

func (s *stubStore) Handicap(context.Context, string) (*float64, error) { return nil, nil }
func (s *stubStore) HasEntitlement(context.Context, string, string) (bool, error) {
	return false, nil
}
func (s *stubStore) RecentCompletedRounds(_ context.Context, _ string, limit int) ([]insights.RoundWithCourse, error) {
	if len(s.rounds) > limit {
		return s.rounds[:limit], nil
	}
	return s.rounds, nil
}
func (s *stubStore) HoleRecords(context.Context, []string) ([]models.HoleRecord, error) {
	return nil, nil
}
func (s *stubStore) SaveInsight(context.Context, *models.Insight) error { return nil }
func (s *stubStore) InsightHistory(context.Context, string, int) ([]models.Insight, error) {
	return nil, nil
}

type stubTextGen struct{ answer string }

func (s *stubTextGen) Generate(context.Context, string, int) (string, error) {
	return s.answer, nil
}

func newInsightsHandler(store insights.Store, answer string) *Handler {
	gen := insights.NewGenerator(store, &stubTextGen{answer: answer},
		insights.Options{PremiumProductID: "premium_insights", MaxTokens: 4096, MaxTokensLite: 1024},
		zap.NewNop())
	return New(nil, []byte("test"), nil, gen)
}

func doGenerate(t *testing.T, h *Handler, body string, profileID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/insights/generate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if profileID != "" {
		c.Set("profile_id", profileID)
	}
	if err := h.GenerateInsights(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestGenerateInsights_NoIdentityIsUnauthorizedEnvelope(t *testing.T) {
	h := newInsightsHandler(&stubStore{}, "{}")

	rec := doGenerate(t, h, `{}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var env errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("body is not an error envelope: %v", err)
	}
	if env.Error == "" || env.Timestamp.IsZero() {
		t.Errorf("envelope incomplete: %+v", env)
	}
}

func TestGenerateInsights_BodyProfileIDFallback(t *testing.T) {
	store := &stubStore{rounds: []insights.RoundWithCourse{{
		ID: "r1", ProfileID: "profile-9", CourseName: "Pinecrest",
		CreatedAt: time.Now(),
	}}}
	h := newInsightsHandler(store, `{"summary":"ok","cards":[]}`)

	// No session identity; the explicit profileId permits service invocation.
	rec := doGenerate(t, h, `{"profileId":"profile-9","roundId":"r1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var res insights.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Tier != insights.TierFree {
		t.Errorf("tier = %q", res.Tier)
	}
	if len(res.AnalyzedRounds) != 1 || res.AnalyzedRounds[0] != "r1" {
		t.Errorf("analyzedRounds = %v", res.AnalyzedRounds)
	}
}

func TestGenerateInsights_NoRoundsIsNotFoundEnvelope(t *testing.T) {
	h := newInsightsHandler(&stubStore{}, "{}")

	rec := doGenerate(t, h, `{}`, "profile-1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var env errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("body is not an error envelope: %v", err)
	}
	if !strings.Contains(env.Error, "No completed rounds found") {
		t.Errorf("error = %q", env.Error)
	}
}
