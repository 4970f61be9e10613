package auth

import (
	"errors"
	"strings"
	"time"

	"columbarium-backend/internal/database"
	"columbarium-backend/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingCredential  = errors.New("authorization header missing")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrSessionExpired     = errors.New("session expired")
	ErrUserNotFound       = errors.New("user for session not found")
)

// DefaultSessionTTL applies when the settings table has no usable value.
const DefaultSessionTTL = 12 * time.Hour

// Service handles authentication and authorization logic
type Service struct {
	userRepo     *database.UserRepo
	sessionRepo  *database.SessionRepo
	settingsRepo *database.SettingsRepo
	now          func() time.Time
}

// NewService creates a new auth service
func NewService() *Service {
	return &Service{
		userRepo:     database.NewUserRepo(),
		sessionRepo:  database.NewSessionRepo(),
		settingsRepo: database.NewSettingsRepo(),
		now:          time.Now,
	}
}

// sessionTTL reads the configured session lifetime
func (s *Service) sessionTTL() time.Duration {
	hours, err := s.settingsRepo.GetInt(database.SettingSessionTTLHours)
	if err != nil || hours <= 0 {
		return DefaultSessionTTL
	}
	return time.Duration(hours) * time.Hour
}

// Login authenticates a user and creates a session, superseding any prior
// session the user held.
func (s *Service) Login(username, password string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.sessionRepo.Create(user.ID, s.sessionTTL())
	if err != nil {
		return nil, nil, err
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

// Logout invalidates a session. Returns database.ErrSessionNotFound when no
// session matched the token.
func (s *Service) Logout(token string) error {
	return s.sessionRepo.DeleteByToken(FormatToken(token))
}

// ValidateToken resolves a presented token to its user. An expired session is
// rejected but its row is left in place: storage presence never implies
// validity, and the stale row is only removed by logout or a superseding
// login.
func (s *Service) ValidateToken(raw string) (*models.User, *models.Session, error) {
	token := FormatToken(raw)
	if token == "" {
		return nil, nil, ErrMissingCredential
	}

	session, err := s.sessionRepo.GetByToken(token)
	if err != nil {
		if errors.Is(err, database.ErrSessionNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}

	if session.Expired(s.now()) {
		return nil, nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetByID(session.UserID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	return user, session, nil
}

// HasPermissions reports whether the user's role grants every given code
func (s *Service) HasPermissions(user *models.User, codes ...string) bool {
	for _, code := range codes {
		if !user.HasPermission(code) {
			return false
		}
	}
	return true
}

// FormatToken strips the "Session " or "Bearer " scheme prefix from an
// Authorization header value. The canonical scheme is "Session"; "Bearer" is
// accepted as an alias.
func FormatToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if after, ok := strings.CutPrefix(raw, "Session "); ok {
		return strings.TrimSpace(after)
	}
	if after, ok := strings.CutPrefix(raw, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return raw
}
