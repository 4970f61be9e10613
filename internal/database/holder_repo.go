package database

import (
	"database/sql"
	"time"

	"columbarium-backend/internal/models"
)

// HolderRepo handles holder database operations
type HolderRepo struct{}

// NewHolderRepo creates a new holder repository
func NewHolderRepo() *HolderRepo {
	return &HolderRepo{}
}

// Create creates a new holder
func (r *HolderRepo) Create(h *models.Holder) error {
	result, err := DB.Exec(`
		INSERT INTO holders (name, contact_number, email, address)
		VALUES (?, ?, ?, ?)
	`, h.Name, h.ContactNumber, h.Email, h.Address)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = id

	return nil
}

// GetByID retrieves a holder by ID
func (r *HolderRepo) GetByID(id int64) (*models.Holder, error) {
	h := &models.Holder{}

	err := DB.QueryRow(`
		SELECT id, name, contact_number, email, address, created_at, updated_at
		FROM holders WHERE id = ?
	`, id).Scan(
		&h.ID, &h.Name, &h.ContactNumber, &h.Email, &h.Address,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return h, nil
}

// List retrieves all holders with derived niche and occupant counts
func (r *HolderRepo) List() ([]*models.Holder, error) {
	rows, err := DB.Query(`
		SELECT h.id, h.name, h.contact_number, h.email, h.address, h.created_at, h.updated_at,
			(SELECT COUNT(*) FROM niches n WHERE n.holder_id = h.id),
			(SELECT COUNT(*) FROM deceased d JOIN niches n ON d.niche_id = n.id WHERE n.holder_id = h.id)
		FROM holders h ORDER BY h.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holders []*models.Holder
	for rows.Next() {
		h := &models.Holder{}
		err := rows.Scan(
			&h.ID, &h.Name, &h.ContactNumber, &h.Email, &h.Address,
			&h.CreatedAt, &h.UpdatedAt, &h.NicheCount, &h.TotalDeceasedCount,
		)
		if err != nil {
			return nil, err
		}
		holders = append(holders, h)
	}

	return holders, rows.Err()
}

// Update updates a holder
func (r *HolderRepo) Update(h *models.Holder) error {
	h.UpdatedAt = time.Now()

	result, err := DB.Exec(`
		UPDATE holders SET name = ?, contact_number = ?, email = ?, address = ?, updated_at = ?
		WHERE id = ?
	`, h.Name, h.ContactNumber, h.Email, h.Address, h.UpdatedAt, h.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete deletes a holder
func (r *HolderRepo) Delete(id int64) error {
	result, err := DB.Exec("DELETE FROM holders WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// CountNiches returns how many niches the holder owns
func (r *HolderRepo) CountNiches(holderID int64) (int, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM niches WHERE holder_id = ?", holderID).Scan(&count)
	return count, err
}

// SearchByDeceasedName returns holders whose niches hold a deceased record
// matching the given name fragment.
func (r *HolderRepo) SearchByDeceasedName(query string) ([]*models.Holder, error) {
	rows, err := DB.Query(`
		SELECT DISTINCT h.id, h.name, h.contact_number, h.email, h.address, h.created_at, h.updated_at
		FROM holders h
		JOIN niches n ON n.holder_id = h.id
		JOIN deceased d ON d.niche_id = n.id
		WHERE d.name LIKE ?
		ORDER BY h.name
	`, "%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holders []*models.Holder
	for rows.Next() {
		h := &models.Holder{}
		err := rows.Scan(
			&h.ID, &h.Name, &h.ContactNumber, &h.Email, &h.Address,
			&h.CreatedAt, &h.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		holders = append(holders, h)
	}

	return holders, rows.Err()
}
