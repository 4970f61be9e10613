package database

import (
	"database/sql"
	"errors"
	"fmt"

	"columbarium-backend/internal/models"
)

var ErrRoleNotFound = errors.New("role not found")

// RoleRepo handles role and permission database operations
type RoleRepo struct{}

// NewRoleRepo creates a new role repository
func NewRoleRepo() *RoleRepo {
	return &RoleRepo{}
}

// GetByID retrieves a role with its permission codes
func (r *RoleRepo) GetByID(id int64) (*models.Role, error) {
	role := &models.Role{}

	err := DB.QueryRow("SELECT id, name FROM roles WHERE id = ?", id).
		Scan(&role.ID, &role.Name)
	if err == sql.ErrNoRows {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}

	codes, err := r.permissionCodes(role.ID)
	if err != nil {
		return nil, err
	}
	role.Permissions = codes

	return role, nil
}

// GetByName retrieves a role with its permission codes
func (r *RoleRepo) GetByName(name string) (*models.Role, error) {
	role := &models.Role{}

	err := DB.QueryRow("SELECT id, name FROM roles WHERE name = ?", name).
		Scan(&role.ID, &role.Name)
	if err == sql.ErrNoRows {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}

	codes, err := r.permissionCodes(role.ID)
	if err != nil {
		return nil, err
	}
	role.Permissions = codes

	return role, nil
}

// List retrieves all roles with their permission codes
func (r *RoleRepo) List() ([]*models.Role, error) {
	rows, err := DB.Query("SELECT id, name FROM roles ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		role := &models.Role{}
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, role := range roles {
		codes, err := r.permissionCodes(role.ID)
		if err != nil {
			return nil, err
		}
		role.Permissions = codes
	}

	return roles, nil
}

func (r *RoleRepo) permissionCodes(roleID int64) ([]string, error) {
	rows, err := DB.Query(`
		SELECT p.code FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = ?
		ORDER BY p.code
	`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	return codes, rows.Err()
}

// ListPermissionCodes returns every provisioned permission code
func (r *RoleRepo) ListPermissionCodes() ([]string, error) {
	rows, err := DB.Query("SELECT code FROM permissions ORDER BY code")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	return codes, rows.Err()
}

// ValidatePermissionCodes checks the compiled-in permission vocabulary against
// the provisioned rows. Run at startup; a mismatch means a code would silently
// fail closed (missing row) or is dead (unknown row) at request time.
func (r *RoleRepo) ValidatePermissionCodes() error {
	provisioned, err := r.ListPermissionCodes()
	if err != nil {
		return err
	}

	set := make(map[string]bool, len(provisioned))
	for _, code := range provisioned {
		set[code] = true
	}

	for _, code := range models.AllPermissionCodes {
		if !set[code] {
			return fmt.Errorf("permission code %q is not provisioned", code)
		}
	}

	known := make(map[string]bool, len(models.AllPermissionCodes))
	for _, code := range models.AllPermissionCodes {
		known[code] = true
	}
	for _, code := range provisioned {
		if !known[code] {
			return fmt.Errorf("provisioned permission code %q is unknown to this build", code)
		}
	}

	return nil
}
