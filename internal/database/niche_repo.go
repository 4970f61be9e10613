package database

import (
	"database/sql"
	"time"

	"columbarium-backend/internal/models"
)

// NicheRepo handles niche database operations
type NicheRepo struct{}

// NewNicheRepo creates a new niche repository
func NewNicheRepo() *NicheRepo {
	return &NicheRepo{}
}

// Create creates a new niche
func (r *NicheRepo) Create(n *models.Niche) error {
	result, err := DB.Exec(`
		INSERT INTO niches (holder_id, location, max_deceased, status, date_of_availment, date_of_expiry)
		VALUES (?, ?, ?, ?, ?, ?)
	`, n.HolderID, n.Location, n.MaxDeceased, n.Status, n.DateOfAvailment, n.DateOfExpiry)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = id

	return nil
}

// GetByID retrieves a niche by ID
func (r *NicheRepo) GetByID(id int64) (*models.Niche, error) {
	n := &models.Niche{}

	err := DB.QueryRow(`
		SELECT id, holder_id, location, max_deceased, status, date_of_availment, date_of_expiry, created_at, updated_at
		FROM niches WHERE id = ?
	`, id).Scan(
		&n.ID, &n.HolderID, &n.Location, &n.MaxDeceased, &n.Status,
		&n.DateOfAvailment, &n.DateOfExpiry, &n.CreatedAt, &n.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return n, nil
}

// List retrieves all niches with their occupant counts
func (r *NicheRepo) List() ([]*models.Niche, error) {
	return r.list(`
		SELECT n.id, n.holder_id, n.location, n.max_deceased, n.status,
			n.date_of_availment, n.date_of_expiry, n.created_at, n.updated_at,
			(SELECT COUNT(*) FROM deceased d WHERE d.niche_id = n.id)
		FROM niches n ORDER BY n.location
	`)
}

// ListRecentlyAvailed retrieves the most recently availed niches
func (r *NicheRepo) ListRecentlyAvailed(limit int) ([]*models.Niche, error) {
	return r.list(`
		SELECT n.id, n.holder_id, n.location, n.max_deceased, n.status,
			n.date_of_availment, n.date_of_expiry, n.created_at, n.updated_at,
			(SELECT COUNT(*) FROM deceased d WHERE d.niche_id = n.id)
		FROM niches n ORDER BY n.date_of_availment DESC LIMIT ?
	`, limit)
}

// ListExpiringBefore retrieves niches whose lease expires on or before the
// cutoff but has not yet expired at the reference time.
func (r *NicheRepo) ListExpiringBefore(now, cutoff time.Time) ([]*models.Niche, error) {
	return r.list(`
		SELECT n.id, n.holder_id, n.location, n.max_deceased, n.status,
			n.date_of_availment, n.date_of_expiry, n.created_at, n.updated_at,
			(SELECT COUNT(*) FROM deceased d WHERE d.niche_id = n.id)
		FROM niches n
		WHERE n.date_of_expiry > ? AND n.date_of_expiry <= ?
		ORDER BY n.date_of_expiry
	`, now, cutoff)
}

// ListExpired retrieves niches whose lease has expired
func (r *NicheRepo) ListExpired(now time.Time) ([]*models.Niche, error) {
	return r.list(`
		SELECT n.id, n.holder_id, n.location, n.max_deceased, n.status,
			n.date_of_availment, n.date_of_expiry, n.created_at, n.updated_at,
			(SELECT COUNT(*) FROM deceased d WHERE d.niche_id = n.id)
		FROM niches n
		WHERE n.date_of_expiry <= ?
		ORDER BY n.date_of_expiry
	`, now)
}

// CountExpired returns how many niches have an expired lease
func (r *NicheRepo) CountExpired(now time.Time) (int, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM niches WHERE date_of_expiry <= ?", now).Scan(&count)
	return count, err
}

func (r *NicheRepo) list(query string, args ...interface{}) ([]*models.Niche, error) {
	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var niches []*models.Niche
	for rows.Next() {
		n := &models.Niche{}
		err := rows.Scan(
			&n.ID, &n.HolderID, &n.Location, &n.MaxDeceased, &n.Status,
			&n.DateOfAvailment, &n.DateOfExpiry, &n.CreatedAt, &n.UpdatedAt,
			&n.DeceasedCount,
		)
		if err != nil {
			return nil, err
		}
		niches = append(niches, n)
	}

	return niches, rows.Err()
}

// Update updates a niche's editable fields plus its derived expiry
func (r *NicheRepo) Update(n *models.Niche) error {
	n.UpdatedAt = time.Now()

	result, err := DB.Exec(`
		UPDATE niches SET holder_id = ?, location = ?, max_deceased = ?,
			date_of_availment = ?, date_of_expiry = ?, updated_at = ?
		WHERE id = ?
	`, n.HolderID, n.Location, n.MaxDeceased, n.DateOfAvailment, n.DateOfExpiry, n.UpdatedAt, n.ID)
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

// UpdateStatus writes only the derived status column
func (r *NicheRepo) UpdateStatus(id int64, status models.NicheStatus) error {
	result, err := DB.Exec("UPDATE niches SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now(), id)
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

// Delete deletes a niche
func (r *NicheRepo) Delete(id int64) error {
	result, err := DB.Exec("DELETE FROM niches WHERE id = ?", id)
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

// CountDeceased returns the occupant count for a niche
func (r *NicheRepo) CountDeceased(nicheID int64) (int, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM deceased WHERE niche_id = ?", nicheID).Scan(&count)
	return count, err
}

// CountDeceasedExcluding returns the occupant count for a niche, ignoring one
// record. Used when validating an update against capacity.
func (r *NicheRepo) CountDeceasedExcluding(nicheID, excludeID int64) (int, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM deceased WHERE niche_id = ? AND id != ?",
		nicheID, excludeID).Scan(&count)
	return count, err
}

// SlotOccupied reports whether another record in the niche holds the slot
func (r *NicheRepo) SlotOccupied(nicheID int64, slot string, excludeID int64) (bool, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM deceased WHERE niche_id = ? AND slot = ? AND id != ?",
		nicheID, slot, excludeID).Scan(&count)
	return count > 0, err
}
