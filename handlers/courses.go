package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fairwaylog/caddieapi/models"
)

type createCourseRequest struct {
	Name     string          `json:"name"`
	Par      *int            `json:"par,omitempty"`
	Location *string         `json:"location,omitempty"`
	Holes    int             `json:"holes,omitempty"`
	Layout   json.RawMessage `json:"layout,omitempty"`
}

// Courses returns all courses, optionally filtered by a name search.
func (h *Handler) Courses(c echo.Context) error {
	name := c.QueryParam("name")

	var courses []models.Course
	q := h.db.NewSelect().
		Model(&courses).
		OrderExpr("c.name ASC")

	if name != "" {
		q = q.Where("c.name ILIKE ?", "%"+name+"%")
	}

	if err := q.Scan(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, courses)
}

// CreateCourse inserts a new course.
func (h *Handler) CreateCourse(c echo.Context) error {
	var req createCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.Par != nil && (*req.Par < 27 || *req.Par > 90) {
		return echo.NewHTTPError(http.StatusBadRequest, "par must be between 27 and 90")
	}
	if req.Holes == 0 {
		req.Holes = 18
	}
	if req.Holes != 9 && req.Holes != 18 {
		return echo.NewHTTPError(http.StatusBadRequest, "holes must be 9 or 18")
	}

	course := &models.Course{
		Name:     req.Name,
		Par:      req.Par,
		Location: req.Location,
		Holes:    req.Holes,
		Layout:   req.Layout,
	}

	if _, err := h.db.NewInsert().Model(course).Exec(c.Request().Context()); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			return echo.NewHTTPError(http.StatusConflict, "course already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, course)
}
