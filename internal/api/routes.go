package api

import (
	"github.com/labstack/echo/v4"

	"columbarium-backend/internal/audit"
	"columbarium-backend/internal/auth"
	"columbarium-backend/internal/models"
)

// RegisterRoutes wires every endpoint under the /api group. Each record
// surface is gated by its resource permission plus view_dashboard; users and
// audit require the management codes.
func RegisterRoutes(g *echo.Group, authSvc *auth.Service, hub *audit.Hub) {
	initServices(authSvc)
	auditHub = hub

	g.GET("/health", healthCheck)

	// Authentication
	g.POST("/users/login-api", login, auth.LoginRateLimiter.Middleware())
	g.POST("/users/logout-api", logout)
	g.POST("/sessions/verify-token", verifyToken)

	authed := auth.RequireAuth(authSvc)

	g.GET("/users/me", currentUser, authed)

	// User management
	users := g.Group("/users", authed, auth.RequirePermissions(models.PermManageUsers, models.PermViewDashboard))
	users.GET("/list-all", listUsers)
	users.GET("/roles", listRoles)
	users.POST("/create-new", createUser)
	users.PUT("/edit", editUser)
	users.DELETE("/delete", deleteUsers)

	// Holders
	holders := g.Group("/holders", authed)
	holders.GET("/list-all", listHolders, auth.RequirePermissions(models.PermViewRecords, models.PermViewDashboard))
	holders.GET("/expiring-soon", expiringSoonHolders, auth.RequirePermissions(models.PermViewRecords, models.PermViewDashboard))
	holders.GET("/expired", expiredHolders, auth.RequirePermissions(models.PermViewRecords, models.PermViewDashboard))
	holders.GET("/expired-count", expiredHoldersCount, auth.RequirePermissions(models.PermViewRecords, models.PermViewDashboard))
	holders.GET("/recently-availed", recentlyAvailedHolders, auth.RequirePermissions(models.PermViewRecords, models.PermViewDashboard))
	holders.GET("/search-by-deceased", searchHoldersByDeceased, auth.RequirePermissions(models.PermViewRecords, models.PermViewDashboard))
	holders.POST("/create-new", createHolder, auth.RequirePermissions(models.PermAddRecord, models.PermViewDashboard))
	holders.PUT("/edit", editHolder, auth.RequirePermissions(models.PermEditRecord, models.PermViewDashboard))
	holders.DELETE("/delete", deleteHolders, auth.RequirePermissions(models.PermDeleteRecord, models.PermViewDashboard))

	// Niches
	niches := g.Group("/niches", authed)
	niches.GET("/list-all", listNiches, auth.RequirePermissions(models.PermViewRecords, models.PermViewDashboard))
	niches.POST("/create-new", createNiche, auth.RequirePermissions(models.PermAddRecord, models.PermViewDashboard))
	niches.PUT("/edit", editNiche, auth.RequirePermissions(models.PermEditRecord, models.PermViewDashboard))
	niches.DELETE("/delete", deleteNiches, auth.RequirePermissions(models.PermDeleteRecord, models.PermViewDashboard))

	// Occupants
	occupants := g.Group("/occupants", authed)
	occupants.GET("/list-all", listOccupants, auth.RequirePermissions(models.PermViewRecords, models.PermViewDashboard))
	occupants.POST("/create-new", createOccupant, auth.RequirePermissions(models.PermAddRecord, models.PermViewDashboard))
	occupants.PUT("/edit", editOccupant, auth.RequirePermissions(models.PermEditRecord, models.PermViewDashboard))
	occupants.DELETE("/delete", deleteOccupants, auth.RequirePermissions(models.PermDeleteRecord, models.PermViewDashboard))

	// Payments
	payments := g.Group("/payments", authed)
	payments.GET("/list-all", listPayments, auth.RequirePermissions(models.PermViewRecords, models.PermViewDashboard))
	payments.GET("/:payment_id/details", listPaymentDetails, auth.RequirePermissions(models.PermViewRecords, models.PermViewDashboard))
	payments.POST("/create-new", createPayment, auth.RequirePermissions(models.PermAddRecord, models.PermViewDashboard))
	payments.POST("/:payment_id/add-payment", addPaymentDetail, auth.RequirePermissions(models.PermAddRecord, models.PermViewDashboard))
	payments.PUT("/edit", editPayment, auth.RequirePermissions(models.PermEditRecord, models.PermViewDashboard))
	payments.PUT("/detail/:detail_id/edit", editPaymentDetail, auth.RequirePermissions(models.PermEditRecord, models.PermViewDashboard))
	payments.DELETE("/delete", deletePayments, auth.RequirePermissions(models.PermDeleteRecord, models.PermViewDashboard))
	payments.DELETE("/detail/:detail_id/delete", deletePaymentDetail, auth.RequirePermissions(models.PermDeleteRecord, models.PermViewDashboard))

	// Audit
	auditGroup := g.Group("/audit", authed, auth.RequirePermissions(models.PermManageDashboard, models.PermViewDashboard))
	auditGroup.GET("/list-all", listAuditLogs)
	auditGroup.GET("/ws", auditStream)
}
