package audit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"columbarium-backend/internal/auth"
	"columbarium-backend/internal/database"
	"columbarium-backend/internal/models"
)

const (
	apiPrefix   = "/api/"
	adminPrefix = "/admin"

	loginPath  = "/api/users/login-api"
	logoutPath = "/api/users/logout-api"

	unknownApp    = "Unknown App"
	unknownAction = "Unknown Action"
)

// actionMap translates URL action segments into audit verbs. Unlisted
// segments pass through as the literal path segment.
var actionMap = map[string]string{
	"create-new": "create",
	"edit":       "update",
	"delete":     "delete",
	"list-all":   "view",
}

// Interceptor observes every request/response cycle and persists an audit
// entry for each qualifying mutation. Authentication failure never blocks the
// pipeline here: the entry is recorded with a null actor, and the handler's
// own auth gate decides the request's fate. Entries are written irrespective
// of the handler's status code, so rejected attempts are audited too.
type Interceptor struct {
	authSvc *auth.Service
	repo    *database.AuditRepo
	hub     *Hub
}

// NewInterceptor creates an audit interceptor
func NewInterceptor(authSvc *auth.Service, hub *Hub) *Interceptor {
	return &Interceptor{
		authSvc: authSvc,
		repo:    database.NewAuditRepo(),
		hub:     hub,
	}
}

// Middleware returns the echo middleware wrapping every handler.
func (i *Interceptor) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			// Admin console paths bypass resolution and logging entirely.
			if strings.HasPrefix(path, adminPrefix) {
				return next(c)
			}

			if !qualifies(path, c.Request().Method) {
				return next(c)
			}

			// Snapshot the request body and hand the handler a fresh reader.
			var reqBody []byte
			if c.Request().Body != nil {
				reqBody, _ = io.ReadAll(c.Request().Body)
				c.Request().Body = io.NopCloser(bytes.NewReader(reqBody))
			}

			capture := &captureWriter{ResponseWriter: c.Response().Writer}
			c.Response().Writer = capture

			if err := next(c); err != nil {
				// Let the error handler write the response now so the
				// captured status and body are final.
				c.Error(err)
			}

			entry := &models.AuditLog{
				App:          deriveApp(path),
				Action:       deriveAction(path),
				Method:       c.Request().Method,
				Path:         path,
				RequestData:  asJSON(reqBody),
				ResponseData: asJSON(capture.buf.Bytes()),
				StatusCode:   c.Response().Status,
				IPAddress:    c.RealIP(),
			}

			if user := i.resolveActor(c); user != nil {
				entry.UserID = &user.ID
				entry.Username = user.Username
			}

			if err := i.repo.Create(entry); err != nil {
				// The response is already committed; surface the failure in
				// the server log rather than corrupting the reply.
				c.Logger().Error("audit: failed to persist entry: ", err)
				return nil
			}

			if i.hub != nil {
				i.hub.Broadcast(entry)
			}

			return nil
		}
	}
}

// qualifies applies the logging rule: API-prefixed POST/PUT/DELETE requests,
// excluding the login and logout endpoints. GETs are never logged.
func qualifies(path, method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return false
	}
	if !strings.HasPrefix(path, apiPrefix) {
		return false
	}
	trimmed := strings.TrimSuffix(path, "/")
	return trimmed != loginPath && trimmed != logoutPath
}

// resolveActor makes a best-effort attempt to identify the acting user from
// the Authorization header. Any failure leaves the actor anonymous.
func (i *Interceptor) resolveActor(c echo.Context) *models.User {
	raw := c.Request().Header.Get(echo.HeaderAuthorization)
	if raw == "" {
		return nil
	}
	user, _, err := i.authSvc.ValidateToken(raw)
	if err != nil {
		return nil
	}
	return user
}

// deriveApp extracts the capitalized resource segment: /api/niches/... -> "Niches".
func deriveApp(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[1] == "" {
		return unknownApp
	}
	seg := parts[1]
	return strings.ToUpper(seg[:1]) + seg[1:]
}

// deriveAction extracts the action segment mapped through actionMap.
func deriveAction(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 || parts[2] == "" {
		return unknownAction
	}
	if mapped, ok := actionMap[parts[2]]; ok {
		return mapped
	}
	return parts[2]
}

// asJSON returns the body as raw JSON, or nil when it is empty or does not
// parse. Parse failures are swallowed: a malformed body must never fail the
// audited request.
func asJSON(body []byte) json.RawMessage {
	if len(body) == 0 || !json.Valid(body) {
		return nil
	}
	return json.RawMessage(body)
}

// captureWriter tees the response body while it is written.
type captureWriter struct {
	http.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}
