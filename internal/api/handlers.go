package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"columbarium-backend/internal/auth"
	"columbarium-backend/internal/database"
	"columbarium-backend/internal/records"
)

// Package-level services shared by the handlers, initialized by RegisterRoutes.
var (
	authService    *auth.Service
	nicheService   *records.NicheService
	paymentService *records.PaymentService

	userRepo     *database.UserRepo
	roleRepo     *database.RoleRepo
	holderRepo   *database.HolderRepo
	nicheRepo    *database.NicheRepo
	deceasedRepo *database.DeceasedRepo
	paymentRepo  *database.PaymentRepo
	auditRepo    *database.AuditRepo
)

func initServices(authSvc *auth.Service) {
	authService = authSvc
	nicheService = records.NewNicheService()
	paymentService = records.NewPaymentService()

	userRepo = database.NewUserRepo()
	roleRepo = database.NewRoleRepo()
	holderRepo = database.NewHolderRepo()
	nicheRepo = database.NewNicheRepo()
	deceasedRepo = database.NewDeceasedRepo()
	paymentRepo = database.NewPaymentRepo()
	auditRepo = database.NewAuditRepo()
}

// healthCheck handles GET /api/health
func healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// errorJSON writes the uniform error body used by every endpoint
func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// recordsError maps domain errors onto the HTTP status conventions: 404 for a
// missing target, 400 for invariant violations, 500 otherwise with a generic
// body that never leaks internals.
func recordsError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, "record not found")
	case errors.Is(err, records.ErrSlotTaken),
		errors.Is(err, records.ErrInvalidSlot),
		errors.Is(err, records.ErrCapacityExceeded),
		errors.Is(err, records.ErrHolderNicheLimit),
		errors.Is(err, records.ErrOverpayment),
		errors.Is(err, records.ErrInvalidAmount):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	default:
		c.Logger().Error(err)
		return errorJSON(c, http.StatusInternalServerError, "internal server error")
	}
}

// queryID parses an entity ID from the named query parameter
func queryID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.QueryParam(name), 10, 64)
}

// paramID parses an entity ID from the named path parameter
func paramID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// deleteRequest is the shared body shape for bulk delete endpoints
type deleteRequest struct {
	ElementIDs []int64 `json:"element_ids"`
}
