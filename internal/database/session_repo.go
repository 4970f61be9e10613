package database

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"math/big"
	"time"

	"columbarium-backend/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const tokenLength = 64

// SessionRepo handles session database operations
type SessionRepo struct{}

// NewSessionRepo creates a new session repository
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{}
}

// generateToken returns a 64-character random alphanumeric token.
func generateToken() (string, error) {
	buf := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// Create creates a session for the user, superseding any existing one.
// Delete and insert run in one transaction so at most one session per user
// is ever observable.
func (r *SessionRepo) Create(userID int64, ttl time.Duration) (*models.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:    userID,
		Token:     token,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	tx, err := DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions WHERE user_id = ?", userID); err != nil {
		return nil, err
	}

	result, err := tx.Exec(`
		INSERT INTO sessions (user_id, token, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, session.UserID, session.Token, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	session.ID = id

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return session, nil
}

// GetByToken retrieves a session row by token. Expiry is NOT checked here:
// stale rows stay in storage and callers must not treat presence as validity.
func (r *SessionRepo) GetByToken(token string) (*models.Session, error) {
	session := &models.Session{}

	err := DB.QueryRow(`
		SELECT id, user_id, token, created_at, expires_at
		FROM sessions WHERE token = ?
	`, token).Scan(
		&session.ID, &session.UserID, &session.Token,
		&session.CreatedAt, &session.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// GetByUserID retrieves the user's session, if any.
func (r *SessionRepo) GetByUserID(userID int64) (*models.Session, error) {
	session := &models.Session{}

	err := DB.QueryRow(`
		SELECT id, user_id, token, created_at, expires_at
		FROM sessions WHERE user_id = ?
	`, userID).Scan(
		&session.ID, &session.UserID, &session.Token,
		&session.CreatedAt, &session.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// DeleteByToken deletes a session by token
func (r *SessionRepo) DeleteByToken(token string) error {
	result, err := DB.Exec("DELETE FROM sessions WHERE token = ?", token)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// CountByUserID returns the number of stored sessions for a user, expired
// rows included.
func (r *SessionRepo) CountByUserID(userID int64) (int, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM sessions WHERE user_id = ?", userID).Scan(&count)
	return count, err
}
