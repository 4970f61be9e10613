package database

import (
	"database/sql"
	"time"

	"columbarium-backend/internal/models"
)

// DeceasedRepo handles deceased-record database operations
type DeceasedRepo struct{}

// NewDeceasedRepo creates a new deceased repository
func NewDeceasedRepo() *DeceasedRepo {
	return &DeceasedRepo{}
}

// Create creates a new deceased record
func (r *DeceasedRepo) Create(d *models.Deceased) error {
	result, err := DB.Exec(`
		INSERT INTO deceased (niche_id, name, slot, date_of_death, interment_date, relationship_to_holder)
		VALUES (?, ?, ?, ?, ?, ?)
	`, d.NicheID, d.Name, d.Slot, nullTime(d.DateOfDeath), nullTime(d.IntermentDate), d.RelationshipToHolder)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = id

	return nil
}

// GetByID retrieves a deceased record by ID
func (r *DeceasedRepo) GetByID(id int64) (*models.Deceased, error) {
	d := &models.Deceased{}
	var dateOfDeath, intermentDate sql.NullTime

	err := DB.QueryRow(`
		SELECT id, niche_id, name, slot, date_of_death, interment_date, relationship_to_holder, created_at, updated_at
		FROM deceased WHERE id = ?
	`, id).Scan(
		&d.ID, &d.NicheID, &d.Name, &d.Slot, &dateOfDeath, &intermentDate,
		&d.RelationshipToHolder, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if dateOfDeath.Valid {
		d.DateOfDeath = dateOfDeath.Time
	}
	if intermentDate.Valid {
		d.IntermentDate = intermentDate.Time
	}

	return d, nil
}

// List retrieves all deceased records
func (r *DeceasedRepo) List() ([]*models.Deceased, error) {
	rows, err := DB.Query(`
		SELECT id, niche_id, name, slot, date_of_death, interment_date, relationship_to_holder, created_at, updated_at
		FROM deceased ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.Deceased
	for rows.Next() {
		d := &models.Deceased{}
		var dateOfDeath, intermentDate sql.NullTime

		err := rows.Scan(
			&d.ID, &d.NicheID, &d.Name, &d.Slot, &dateOfDeath, &intermentDate,
			&d.RelationshipToHolder, &d.CreatedAt, &d.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if dateOfDeath.Valid {
			d.DateOfDeath = dateOfDeath.Time
		}
		if intermentDate.Valid {
			d.IntermentDate = intermentDate.Time
		}

		records = append(records, d)
	}

	return records, rows.Err()
}

// Update updates a deceased record
func (r *DeceasedRepo) Update(d *models.Deceased) error {
	d.UpdatedAt = time.Now()

	result, err := DB.Exec(`
		UPDATE deceased SET niche_id = ?, name = ?, slot = ?, date_of_death = ?,
			interment_date = ?, relationship_to_holder = ?, updated_at = ?
		WHERE id = ?
	`, d.NicheID, d.Name, d.Slot, nullTime(d.DateOfDeath), nullTime(d.IntermentDate),
		d.RelationshipToHolder, d.UpdatedAt, d.ID)
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

// Delete deletes a deceased record
func (r *DeceasedRepo) Delete(id int64) error {
	result, err := DB.Exec("DELETE FROM deceased WHERE id = ?", id)
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

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
