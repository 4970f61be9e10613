package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"columbarium-backend/internal/auth"
	"columbarium-backend/internal/database"
	"columbarium-backend/internal/models"
)

// login handles POST /api/users/login-api
func login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "username and password are required")
	}

	session, user, err := authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return errorJSON(c, http.StatusUnauthorized, "Invalid username or password")
		}
		c.Logger().Error(err)
		return errorJSON(c, http.StatusInternalServerError, "internal server error")
	}

	// A successful login resets the per-IP attempt counter
	auth.LoginRateLimiter.Reset(c.RealIP())

	return c.JSON(http.StatusOK, models.LoginResponse{
		Message:      "Login successful",
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
		User:         user,
	})
}

// logout handles POST /api/users/logout-api
func logout(c echo.Context) error {
	token := c.Request().Header.Get("Authorization")
	if token == "" {
		return errorJSON(c, http.StatusUnauthorized, "Authorization header missing")
	}

	if err := authService.Logout(token); err != nil {
		if errors.Is(err, database.ErrSessionNotFound) {
			return errorJSON(c, http.StatusUnauthorized, "Invalid or expired session")
		}
		c.Logger().Error(err)
		return errorJSON(c, http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Logout successful"})
}

// currentUser handles GET /api/users/me
func currentUser(c echo.Context) error {
	user := auth.GetUserFromContext(c)
	if user == nil {
		return errorJSON(c, http.StatusUnauthorized, "Invalid or expired session")
	}
	return c.JSON(http.StatusOK, user)
}

// verifyToken handles POST /api/sessions/verify-token. It reports validity
// without extending or invalidating the session.
func verifyToken(c echo.Context) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	user, session, err := authService.ValidateToken(req.Token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingCredential),
			errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrSessionExpired),
			errors.Is(err, auth.ErrUserNotFound):
			return c.JSON(http.StatusOK, map[string]any{"valid": false})
		default:
			c.Logger().Error(err)
			return errorJSON(c, http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"valid":      true,
		"expires_at": session.ExpiresAt,
		"user":       user,
	})
}
