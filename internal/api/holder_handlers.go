package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"columbarium-backend/internal/models"
)

// expiringSoonWindow is how far ahead the dashboard looks for leases
// approaching their end.
const expiringSoonWindow = 365 * 24 * time.Hour

// listHolders handles GET /api/holders/list-all
func listHolders(c echo.Context) error {
	holders, err := holderRepo.List()
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, holders)
}

// createHolder handles POST /api/holders/create-new
func createHolder(c echo.Context) error {
	var req models.CreateHolderRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return errorJSON(c, http.StatusBadRequest, "name is required")
	}

	holder := &models.Holder{
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Address:       req.Address,
	}
	if err := holderRepo.Create(holder); err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusCreated, holder)
}

// editHolder handles PUT /api/holders/edit?holder_id=
func editHolder(c echo.Context) error {
	id, err := queryID(c, "holder_id")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid holder_id")
	}

	var req models.UpdateHolderRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	holder, err := holderRepo.GetByID(id)
	if err != nil {
		return recordsError(c, err)
	}

	if req.Name != nil {
		holder.Name = *req.Name
	}
	if req.ContactNumber != nil {
		holder.ContactNumber = *req.ContactNumber
	}
	if req.Email != nil {
		holder.Email = *req.Email
	}
	if req.Address != nil {
		holder.Address = *req.Address
	}

	if err := holderRepo.Update(holder); err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, holder)
}

// deleteHolders handles DELETE /api/holders/delete
func deleteHolders(c echo.Context) error {
	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if len(req.ElementIDs) == 0 {
		return errorJSON(c, http.StatusBadRequest, "element_ids is required")
	}

	for _, id := range req.ElementIDs {
		if err := holderRepo.Delete(id); err != nil {
			return recordsError(c, err)
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"ids": req.ElementIDs})
}

// expiringSoonHolders handles GET /api/holders/expiring-soon
func expiringSoonHolders(c echo.Context) error {
	now := time.Now()
	niches, err := nicheRepo.ListExpiringBefore(now, now.Add(expiringSoonWindow))
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, niches)
}

// expiredHolders handles GET /api/holders/expired
func expiredHolders(c echo.Context) error {
	niches, err := nicheRepo.ListExpired(time.Now())
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, niches)
}

// expiredHoldersCount handles GET /api/holders/expired-count
func expiredHoldersCount(c echo.Context) error {
	count, err := nicheRepo.CountExpired(time.Now())
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

// recentlyAvailedHolders handles GET /api/holders/recently-availed
func recentlyAvailedHolders(c echo.Context) error {
	niches, err := nicheRepo.ListRecentlyAvailed(10)
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, niches)
}

// searchHoldersByDeceased handles GET /api/holders/search-by-deceased?q=
func searchHoldersByDeceased(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusOK, []*models.Holder{})
	}

	holders, err := holderRepo.SearchByDeceasedName(query)
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, holders)
}
