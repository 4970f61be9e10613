package models

import "time"

// Permission codes form a closed vocabulary. They are validated against the
// provisioned roles at startup so a typo fails the boot, not a request.
const (
	PermViewDashboard   = "view_dashboard"
	PermViewRecords     = "view_records"
	PermAddRecord       = "add_record"
	PermEditRecord      = "edit_record"
	PermDeleteRecord    = "delete_record"
	PermManageUsers     = "manage_users"
	PermManageDashboard = "manage_dashboard"
)

// AllPermissionCodes lists every code the handlers may require.
var AllPermissionCodes = []string{
	PermViewDashboard,
	PermViewRecords,
	PermAddRecord,
	PermEditRecord,
	PermDeleteRecord,
	PermManageUsers,
	PermManageDashboard,
}

// Permission is an atomic capability that can be granted to a role.
type Permission struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Role groups permission codes. Roles are pre-provisioned by migrations.
type Role struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// HasPermission reports whether the role grants the given code.
func (r *Role) HasPermission(code string) bool {
	if r == nil {
		return false
	}
	for _, c := range r.Permissions {
		if c == code {
			return true
		}
	}
	return false
}

// User represents a staff account. A user has at most one role; a user
// without a role fails every permission check.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	RoleID       *int64    `json:"role_id,omitempty"`
	Role         *Role     `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastLogin    time.Time `json:"last_login,omitempty"`
}

// HasPermission reports whether the user's role grants the given code.
// False when the user has no role.
func (u *User) HasPermission(code string) bool {
	if u == nil {
		return false
	}
	return u.Role.HasPermission(code)
}

// CreateUserRequest is the body for POST /api/users/create-new.
type CreateUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	RoleID      *int64 `json:"role_id,omitempty"`
}

// UpdateUserRequest is the body for PUT /api/users/edit.
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Password    *string `json:"password,omitempty"`
	RoleID      *int64  `json:"role_id,omitempty"`
}
