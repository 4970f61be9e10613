package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"columbarium-backend/internal/models"
)

const dateLayout = "2006-01-02"

// listNiches handles GET /api/niches/list-all
func listNiches(c echo.Context) error {
	niches, err := nicheRepo.List()
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, niches)
}

// createNiche handles POST /api/niches/create-new
func createNiche(c echo.Context) error {
	var req models.CreateNicheRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if req.HolderID == 0 || req.Location == "" {
		return errorJSON(c, http.StatusBadRequest, "holder_id and location are required")
	}
	if req.MaxDeceased <= 0 {
		return errorJSON(c, http.StatusBadRequest, "max_deceased must be positive")
	}

	availment, err := time.Parse(dateLayout, req.DateOfAvailment)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid date_of_availment, expected YYYY-MM-DD")
	}

	niche, err := nicheService.CreateNiche(req.HolderID, req.Location, req.MaxDeceased, availment)
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusCreated, niche)
}

// editNiche handles PUT /api/niches/edit?niche_id=
func editNiche(c echo.Context) error {
	id, err := queryID(c, "niche_id")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid niche_id")
	}

	var req models.UpdateNicheRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if req.DateOfAvailment != nil {
		if _, err := time.Parse(dateLayout, *req.DateOfAvailment); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid date_of_availment, expected YYYY-MM-DD")
		}
	}
	if req.MaxDeceased != nil && *req.MaxDeceased <= 0 {
		return errorJSON(c, http.StatusBadRequest, "max_deceased must be positive")
	}

	niche, err := nicheService.UpdateNiche(id, req)
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, niche)
}

// deleteNiches handles DELETE /api/niches/delete
func deleteNiches(c echo.Context) error {
	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if len(req.ElementIDs) == 0 {
		return errorJSON(c, http.StatusBadRequest, "element_ids is required")
	}

	for _, id := range req.ElementIDs {
		if err := nicheService.DeleteNiche(id); err != nil {
			return recordsError(c, err)
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"ids": req.ElementIDs})
}
