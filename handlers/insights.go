package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fairwaylog/caddieapi/insights"
	"github.com/fairwaylog/caddieapi/llm"
)

type generateInsightsRequest struct {
	ProfileID string `json:"profileId,omitempty"`
	RoundID   string `json:"roundId,omitempty"`
}

// GenerateInsights runs the insight pipeline for the caller. The session
// identity wins; the request body's profileId is a fallback that permits
// service invocation. Errors come back as {error, timestamp}.
func (h *Handler) GenerateInsights(c echo.Context) error {
	var req generateInsightsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorEnvelope(err.Error()))
	}

	profileID, _ := c.Get("profile_id").(string)
	if profileID == "" {
		profileID = req.ProfileID
	}
	if profileID == "" {
		return c.JSON(http.StatusUnauthorized, newErrorEnvelope(insights.ErrNoProfile.Error()))
	}

	result, err := h.generator.Generate(c.Request().Context(), profileID, req.RoundID)
	switch {
	case errors.Is(err, insights.ErrNoCompletedRounds):
		return c.JSON(http.StatusNotFound, newErrorEnvelope(err.Error()))
	case errors.Is(err, llm.ErrUpstream):
		return c.JSON(http.StatusBadGateway, newErrorEnvelope(err.Error()))
	case err != nil:
		return c.JSON(http.StatusInternalServerError, newErrorEnvelope(err.Error()))
	}

	return c.JSON(http.StatusOK, result)
}

// InsightHistory returns the profile's stored insight records.
func (h *Handler) InsightHistory(c echo.Context) error {
	profileID, _ := c.Get("profile_id").(string)
	if profileID == "" {
		return c.JSON(http.StatusUnauthorized, newErrorEnvelope(insights.ErrNoProfile.Error()))
	}

	out, err := h.generator.History(c.Request().Context(), profileID, 20)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, newErrorEnvelope(err.Error()))
	}
	return c.JSON(http.StatusOK, out)
}
