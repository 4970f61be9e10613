package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"columbarium-backend/internal/models"
)

// listOccupants handles GET /api/occupants/list-all
func listOccupants(c echo.Context) error {
	occupants, err := deceasedRepo.List()
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, occupants)
}

// createOccupant handles POST /api/occupants/create-new
func createOccupant(c echo.Context) error {
	var req models.CreateDeceasedRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if req.NicheID == 0 || req.Name == "" || req.Slot == "" {
		return errorJSON(c, http.StatusBadRequest, "niche_id, name and slot are required")
	}

	d := &models.Deceased{
		NicheID:              req.NicheID,
		Name:                 req.Name,
		Slot:                 req.Slot,
		RelationshipToHolder: req.RelationshipToHolder,
	}
	if req.DateOfDeath != "" {
		t, err := time.Parse(dateLayout, req.DateOfDeath)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid date_of_death, expected YYYY-MM-DD")
		}
		d.DateOfDeath = t
	}
	if req.IntermentDate != "" {
		t, err := time.Parse(dateLayout, req.IntermentDate)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid interment_date, expected YYYY-MM-DD")
		}
		d.IntermentDate = t
	}

	if err := nicheService.CreateDeceased(d); err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

// editOccupant handles PUT /api/occupants/edit?occupant_id=
func editOccupant(c echo.Context) error {
	id, err := queryID(c, "occupant_id")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid occupant_id")
	}

	var req models.UpdateDeceasedRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if req.DateOfDeath != nil {
		if _, err := time.Parse(dateLayout, *req.DateOfDeath); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid date_of_death, expected YYYY-MM-DD")
		}
	}
	if req.IntermentDate != nil {
		if _, err := time.Parse(dateLayout, *req.IntermentDate); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid interment_date, expected YYYY-MM-DD")
		}
	}

	d, err := nicheService.UpdateDeceased(id, req)
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// deleteOccupants handles DELETE /api/occupants/delete
func deleteOccupants(c echo.Context) error {
	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if len(req.ElementIDs) == 0 {
		return errorJSON(c, http.StatusBadRequest, "element_ids is required")
	}

	for _, id := range req.ElementIDs {
		if err := nicheService.DeleteDeceased(id); err != nil {
			return recordsError(c, err)
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"ids": req.ElementIDs})
}
