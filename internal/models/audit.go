package models

import (
	"encoding/json"
	"time"
)

// AuditLog is an immutable record of a mutating API call. UserID is nil when
// the request carried no resolvable session; bodies are nil when they were
// empty or not valid JSON.
type AuditLog struct {
	ID           int64           `json:"id"`
	UserID       *int64          `json:"user_id"`
	Username     string          `json:"username,omitempty"`
	App          string          `json:"app"`
	Action       string          `json:"action"`
	Method       string          `json:"method"`
	Path         string          `json:"path"`
	RequestData  json.RawMessage `json:"request_data"`
	ResponseData json.RawMessage `json:"response_data"`
	StatusCode   int             `json:"status_code"`
	IPAddress    string          `json:"ip_address"`
	Timestamp    time.Time       `json:"timestamp"`
}
