package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"columbarium-backend/internal/models"
)

// Context keys for storing user data
const (
	ContextKeyUser    = "user"
	ContextKeySession = "session"
)

// RequireAuth middleware checks for a valid session token. It replaces the
// header-present / token-resolves / token-not-expired dance that every
// endpoint used to repeat inline.
func RequireAuth(authSvc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(echo.HeaderAuthorization)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Authorization header missing",
				})
			}

			user, session, err := authSvc.ValidateToken(raw)
			if err != nil {
				switch {
				case errors.Is(err, ErrInvalidToken),
					errors.Is(err, ErrSessionExpired),
					errors.Is(err, ErrMissingCredential):
					return c.JSON(http.StatusUnauthorized, map[string]string{
						"error": "Invalid or expired session",
					})
				case errors.Is(err, ErrUserNotFound):
					return c.JSON(http.StatusUnauthorized, map[string]string{
						"error": "Invalid or expired session: User not found",
					})
				default:
					c.Logger().Error("auth error: ", err)
					return c.JSON(http.StatusInternalServerError, map[string]string{
						"error": "authentication failed",
					})
				}
			}

			c.Set(ContextKeyUser, user)
			c.Set(ContextKeySession, session)

			return next(c)
		}
	}
}

// RequirePermissions middleware checks that the authenticated user's role
// grants every listed code. Must be used after RequireAuth. Failing any code
// yields the same undifferentiated 403.
func RequirePermissions(codes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetUserFromContext(c)
			if user == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "authentication required",
				})
			}

			for _, code := range codes {
				if !user.HasPermission(code) {
					return c.JSON(http.StatusForbidden, map[string]string{
						"error": "You do not have permission to perform this action.",
					})
				}
			}

			return next(c)
		}
	}
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetSessionFromContext retrieves the current session from the context
func GetSessionFromContext(c echo.Context) *models.Session {
	session, ok := c.Get(ContextKeySession).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
