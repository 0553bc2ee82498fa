package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fairwaylog/caddieapi/models"
)

type handicapBody struct {
	Handicap *float64 `json:"handicap"`
}

// Handicap returns the signed-in profile's handicap.
func (h *Handler) Handicap(c echo.Context) error {
	profileID, _ := c.Get("profile_id").(string)
	if profileID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	profile := &models.Profile{}
	err := h.db.NewSelect().Model(profile).
		Column("p.handicap").
		Where("p.id = ?", profileID).
		Scan(c.Request().Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, handicapBody{Handicap: profile.Handicap})
}

// UpdateHandicap sets or clears the signed-in profile's handicap.
func (h *Handler) UpdateHandicap(c echo.Context) error {
	profileID, _ := c.Get("profile_id").(string)
	if profileID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var body handicapBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.Handicap != nil && (*body.Handicap < -10 || *body.Handicap > 54) {
		return echo.NewHTTPError(http.StatusBadRequest, "handicap must be between -10 and 54")
	}

	_, err := h.db.NewUpdate().Model((*models.Profile)(nil)).
		Set("handicap = ?", body.Handicap).
		Where("id = ?", profileID).
		Exec(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, body)
}
