package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"columbarium-backend/internal/api"
	"columbarium-backend/internal/audit"
	"columbarium-backend/internal/auth"
	"columbarium-backend/internal/config"
	"columbarium-backend/internal/database"
	"columbarium-backend/internal/models"
)

func main() {
	cfg := config.Load()

	dbPath := cfg.DatabasePath
	if !filepath.IsAbs(dbPath) {
		cwd, _ := os.Getwd()
		dbPath = filepath.Join(cwd, dbPath)
	}

	log.Printf("Initializing database at %s", dbPath)
	if err := database.Open(database.Config{Path: dbPath}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// A permission code the handlers require but the migrations never granted
	// would silently lock out every role, so the mismatch fails the boot.
	if err := database.NewRoleRepo().ValidatePermissionCodes(); err != nil {
		log.Fatalf("Permission provisioning check failed: %v", err)
	}

	if err := createDefaultAdminIfNeeded(cfg); err != nil {
		log.Printf("Warning: failed to create default admin: %v", err)
	}

	authSvc := auth.NewService()
	hub := audit.NewHub()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(audit.NewInterceptor(authSvc, hub).Middleware())

	apiGroup := e.Group("/api")
	api.RegisterRoutes(apiGroup, authSvc, hub)

	log.Printf("Starting columbarium backend on %s", cfg.Addr)
	e.Logger.Fatal(e.Start(cfg.Addr))
}

// createDefaultAdminIfNeeded seeds the first account when the users table is
// empty, bound to the pre-provisioned Administrator role.
func createDefaultAdminIfNeeded(cfg config.Config) error {
	userRepo := database.NewUserRepo()

	count, err := userRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Printf("Creating default admin user (%s) - CHANGE THIS PASSWORD!", cfg.AdminUsername)

	passwordHash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	role, err := database.NewRoleRepo().GetByName("Administrator")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:     cfg.AdminUsername,
		DisplayName:  "Administrator",
		PasswordHash: passwordHash,
		RoleID:       &role.ID,
	}
	return userRepo.Create(admin)
}
