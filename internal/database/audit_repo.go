package database

import (
	"database/sql"
	"errors"
	"time"

	"columbarium-backend/internal/models"
)

// ErrNotFound is returned when an entity is not found
var ErrNotFound = errors.New("not found")

// AuditRepo handles audit log database operations. Entries are append-only;
// there is no update or delete path.
type AuditRepo struct{}

// NewAuditRepo creates a new audit repository
func NewAuditRepo() *AuditRepo {
	return &AuditRepo{}
}

// Create creates a new audit log entry
func (r *AuditRepo) Create(log *models.AuditLog) error {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}

	var reqData, resData interface{}
	if log.RequestData != nil {
		reqData = string(log.RequestData)
	}
	if log.ResponseData != nil {
		resData = string(log.ResponseData)
	}

	result, err := DB.Exec(`
		INSERT INTO audit_logs (user_id, username, app, action, method, path, request_data, response_data, status_code, ip_address, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.UserID, log.Username, log.App, log.Action, log.Method, log.Path,
		reqData, resData, log.StatusCode, log.IPAddress, log.Timestamp)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	log.ID = id
	return nil
}

// List retrieves all audit log entries, newest first
func (r *AuditRepo) List() ([]*models.AuditLog, error) {
	rows, err := DB.Query(`
		SELECT id, user_id, username, app, action, method, path, request_data, response_data, status_code, ip_address, timestamp
		FROM audit_logs ORDER BY timestamp DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		log, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

// GetByID retrieves a single audit log entry
func (r *AuditRepo) GetByID(id int64) (*models.AuditLog, error) {
	row := DB.QueryRow(`
		SELECT id, user_id, username, app, action, method, path, request_data, response_data, status_code, ip_address, timestamp
		FROM audit_logs WHERE id = ?
	`, id)

	log := &models.AuditLog{}
	var userID sql.NullInt64
	var username, reqData, resData, ipAddress sql.NullString

	err := row.Scan(
		&log.ID, &userID, &username, &log.App, &log.Action, &log.Method, &log.Path,
		&reqData, &resData, &log.StatusCode, &ipAddress, &log.Timestamp,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	applyNullable(log, userID, username, reqData, resData, ipAddress)
	return log, nil
}

func scanAuditLog(rows *sql.Rows) (*models.AuditLog, error) {
	log := &models.AuditLog{}
	var userID sql.NullInt64
	var username, reqData, resData, ipAddress sql.NullString

	err := rows.Scan(
		&log.ID, &userID, &username, &log.App, &log.Action, &log.Method, &log.Path,
		&reqData, &resData, &log.StatusCode, &ipAddress, &log.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	applyNullable(log, userID, username, reqData, resData, ipAddress)
	return log, nil
}

func applyNullable(log *models.AuditLog, userID sql.NullInt64, username, reqData, resData, ipAddress sql.NullString) {
	if userID.Valid {
		log.UserID = &userID.Int64
	}
	if username.Valid {
		log.Username = username.String
	}
	if reqData.Valid {
		log.RequestData = []byte(reqData.String)
	}
	if resData.Valid {
		log.ResponseData = []byte(resData.String)
	}
	if ipAddress.Valid {
		log.IPAddress = ipAddress.String
	}
}
