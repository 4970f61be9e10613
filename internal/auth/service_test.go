package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"columbarium-backend/internal/database"
	"columbarium-backend/internal/models"
)

func setupDB(t *testing.T) {
	t.Helper()
	if err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")}); err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
}

func seedUser(t *testing.T, username, password, roleName string) *models.User {
	t.Helper()

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     username,
		DisplayName:  username,
		PasswordHash: hash,
	}
	if roleName != "" {
		role, err := database.NewRoleRepo().GetByName(roleName)
		if err != nil {
			t.Fatalf("failed to load role %q: %v", roleName, err)
		}
		user.RoleID = &role.ID
	}

	repo := database.NewUserRepo()
	if err := repo.Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	loaded, err := repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	return loaded
}

func TestLoginInvalidCredentials(t *testing.T) {
	setupDB(t)
	seedUser(t, "alice", "correct-horse", "Staff")
	svc := NewService()

	if _, _, err := svc.Login("alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login("nobody", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: want ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginSupersedesPriorSession(t *testing.T) {
	setupDB(t)
	user := seedUser(t, "alice", "secret", "Staff")
	svc := NewService()

	first, _, err := svc.Login("alice", "secret")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	second, _, err := svc.Login("alice", "secret")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	count, err := database.NewSessionRepo().CountByUserID(user.ID)
	if err != nil {
		t.Fatalf("failed to count sessions: %v", err)
	}
	if count != 1 {
		t.Fatalf("want exactly 1 stored session, got %d", count)
	}

	if _, _, err := svc.ValidateToken(first.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("superseded token: want ErrInvalidToken, got %v", err)
	}
	if _, _, err := svc.ValidateToken(second.Token); err != nil {
		t.Fatalf("current token should resolve: %v", err)
	}
}

func TestValidateTokenExpiredRowSurvives(t *testing.T) {
	setupDB(t)
	seedUser(t, "alice", "secret", "Staff")
	svc := NewService()

	session, _, err := svc.Login("alice", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Jump past the 12 hour TTL without touching storage.
	svc.now = func() time.Time { return time.Now().Add(13 * time.Hour) }

	if _, _, err := svc.ValidateToken(session.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired, got %v", err)
	}

	// Rejection must not purge the row.
	if _, err := database.NewSessionRepo().GetByToken(session.Token); err != nil {
		t.Fatalf("expired session row should still be stored: %v", err)
	}
}

func TestValidateTokenSchemes(t *testing.T) {
	setupDB(t)
	seedUser(t, "alice", "secret", "Staff")
	svc := NewService()

	session, _, err := svc.Login("alice", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	for _, raw := range []string{
		session.Token,
		"Session " + session.Token,
		"Bearer " + session.Token,
	} {
		if _, _, err := svc.ValidateToken(raw); err != nil {
			t.Fatalf("token %q should resolve: %v", raw, err)
		}
	}

	if _, _, err := svc.ValidateToken(""); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("empty token: want ErrMissingCredential, got %v", err)
	}
	if _, _, err := svc.ValidateToken("Session bogus"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("unknown token: want ErrInvalidToken, got %v", err)
	}
}

func TestFormatToken(t *testing.T) {
	cases := map[string]string{
		"Session abc123":   "abc123",
		"Bearer abc123":    "abc123",
		"abc123":           "abc123",
		"  Session abc123": "abc123",
		"":                 "",
	}
	for raw, want := range cases {
		if got := FormatToken(raw); got != want {
			t.Errorf("FormatToken(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestLogout(t *testing.T) {
	setupDB(t)
	seedUser(t, "alice", "secret", "Staff")
	svc := NewService()

	session, _, err := svc.Login("alice", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout("Session " + session.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, _, err := svc.ValidateToken(session.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token should be invalid after logout, got %v", err)
	}

	if err := svc.Logout("Session no-such-token"); !errors.Is(err, database.ErrSessionNotFound) {
		t.Fatalf("unknown token logout: want ErrSessionNotFound, got %v", err)
	}
}

func TestHasPermissionsConjunction(t *testing.T) {
	setupDB(t)
	viewer := seedUser(t, "viewer", "secret", "Viewer")
	noRole := seedUser(t, "norole", "secret", "")
	svc := NewService()

	if !svc.HasPermissions(viewer, models.PermViewRecords, models.PermViewDashboard) {
		t.Fatal("viewer should hold view_records and view_dashboard")
	}
	// One missing code fails the whole check.
	if svc.HasPermissions(viewer, models.PermViewRecords, models.PermAddRecord) {
		t.Fatal("viewer should not pass a check including add_record")
	}
	if svc.HasPermissions(noRole, models.PermViewDashboard) {
		t.Fatal("user without a role should hold no permissions")
	}
}
