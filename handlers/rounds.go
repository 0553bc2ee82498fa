package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fairwaylog/caddieapi/models"
	"github.com/fairwaylog/caddieapi/rounds"
)

type startRoundRequest struct {
	CourseID int     `json:"courseID"`
	TeeID    *string `json:"teeID,omitempty"`
	TeeName  *string `json:"teeName,omitempty"`
}

type completeRoundRequest struct {
	Holes      map[int]models.HoleData `json:"holes"`
	TotalHoles int                     `json:"totalHoles,omitempty"`
}

// StartRound creates a new incomplete round for the signed-in profile.
func (h *Handler) StartRound(c echo.Context) error {
	profileID, _ := c.Get("profile_id").(string)
	if profileID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req startRoundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.CourseID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "courseID is required")
	}

	round, err := h.finalizer.Start(c.Request().Context(), profileID, req.CourseID, req.TeeID, req.TeeName)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, round)
}

// CompleteRound persists buffered hole data and finalizes the round.
func (h *Handler) CompleteRound(c echo.Context) error {
	roundID := c.Param("id")
	if roundID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing round id")
	}

	var req completeRoundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Holes) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "holes is required")
	}

	round, err := h.finalizer.CompleteRound(c.Request().Context(), roundID, req.Holes, req.TotalHoles)
	if err != nil {
		if errors.Is(err, rounds.ErrRoundNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, round)
}

// AbandonRound deletes an incomplete round.
func (h *Handler) AbandonRound(c echo.Context) error {
	roundID := c.Param("id")
	if roundID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing round id")
	}

	err := h.finalizer.Abandon(c.Request().Context(), roundID)
	switch {
	case errors.Is(err, rounds.ErrRoundNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, rounds.ErrRoundCompleted):
		return echo.NewHTTPError(http.StatusConflict, "completed rounds cannot be deleted")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// Rounds returns the signed-in profile's rounds, newest first.
func (h *Handler) Rounds(c echo.Context) error {
	profileID, _ := c.Get("profile_id").(string)
	if profileID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	out, err := h.finalizer.History(c.Request().Context(), profileID, 50)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}
