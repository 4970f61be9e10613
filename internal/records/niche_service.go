package records

import (
	"time"

	"columbarium-backend/internal/database"
	"columbarium-backend/internal/models"
)

// NicheService carries the niche and deceased-record use-cases. Derived state
// (niche status, lease expiry) is recomputed here by explicit calls after
// each mutation rather than by persistence-layer hooks, so the dependency is
// visible and testable.
type NicheService struct {
	nicheRepo    *database.NicheRepo
	deceasedRepo *database.DeceasedRepo
	holderRepo   *database.HolderRepo
}

// NewNicheService creates a new niche service
func NewNicheService() *NicheService {
	return &NicheService{
		nicheRepo:    database.NewNicheRepo(),
		deceasedRepo: database.NewDeceasedRepo(),
		holderRepo:   database.NewHolderRepo(),
	}
}

// CreateNiche creates a niche for a holder. A holder may own at most
// MaxNichesPerHolder niches; a brand-new niche is always Available since it
// cannot yet have occupants. The lease expiry is derived from the availment
// date.
func (s *NicheService) CreateNiche(holderID int64, location string, maxDeceased int, availment time.Time) (*models.Niche, error) {
	if _, err := s.holderRepo.GetByID(holderID); err != nil {
		return nil, err
	}

	count, err := s.holderRepo.CountNiches(holderID)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxNichesPerHolder {
		return nil, ErrHolderNicheLimit
	}

	niche := &models.Niche{
		HolderID:        holderID,
		Location:        location,
		MaxDeceased:     maxDeceased,
		Status:          models.NicheAvailable,
		DateOfAvailment: availment,
		DateOfExpiry:    models.ExpiryFromAvailment(availment),
	}

	if err := s.nicheRepo.Create(niche); err != nil {
		return nil, err
	}

	return niche, nil
}

// UpdateNiche applies edits to a niche. Status is never taken from input;
// expiry is recalculated when the availment date changes, and status is
// recomputed since a capacity edit can change it.
func (s *NicheService) UpdateNiche(id int64, req models.UpdateNicheRequest) (*models.Niche, error) {
	niche, err := s.nicheRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.HolderID != nil && *req.HolderID != niche.HolderID {
		if _, err := s.holderRepo.GetByID(*req.HolderID); err != nil {
			return nil, err
		}
		count, err := s.holderRepo.CountNiches(*req.HolderID)
		if err != nil {
			return nil, err
		}
		if count >= models.MaxNichesPerHolder {
			return nil, ErrHolderNicheLimit
		}
		niche.HolderID = *req.HolderID
	}
	if req.Location != nil {
		niche.Location = *req.Location
	}
	if req.MaxDeceased != nil {
		niche.MaxDeceased = *req.MaxDeceased
	}
	if req.DateOfAvailment != nil {
		availment, err := time.Parse("2006-01-02", *req.DateOfAvailment)
		if err != nil {
			return nil, err
		}
		if !availment.Equal(niche.DateOfAvailment) {
			niche.DateOfAvailment = availment
			niche.DateOfExpiry = models.ExpiryFromAvailment(availment)
		}
	}

	if err := s.nicheRepo.Update(niche); err != nil {
		return nil, err
	}

	if err := s.RecomputeNicheStatus(niche); err != nil {
		return nil, err
	}

	return niche, nil
}

// DeleteNiche removes a niche and, via cascade, its deceased records
func (s *NicheService) DeleteNiche(id int64) error {
	return s.nicheRepo.Delete(id)
}

// RecomputeNicheStatus recalculates the derived status from the occupant
// count: 0 occupants is Available, at or above capacity is Full, anything in
// between is Occupied. A niche that has never been persisted is forced to
// Available regardless of count, guarding against evaluating relations on an
// unsaved aggregate. Idempotent: with no intervening change a second call
// yields the same status.
func (s *NicheService) RecomputeNicheStatus(niche *models.Niche) error {
	if niche.ID == 0 {
		niche.Status = models.NicheAvailable
		return nil
	}

	count, err := s.nicheRepo.CountDeceased(niche.ID)
	if err != nil {
		return err
	}

	var status models.NicheStatus
	switch {
	case count == 0:
		status = models.NicheAvailable
	case count >= niche.MaxDeceased:
		status = models.NicheFull
	default:
		status = models.NicheOccupied
	}

	niche.Status = status
	niche.DeceasedCount = count
	return s.nicheRepo.UpdateStatus(niche.ID, status)
}

// validateSlot checks the slot assignment invariants before any write: the
// label must name a real slot, no other record in the niche may hold it, and
// the niche must have room once the record being updated is excluded.
func (s *NicheService) validateSlot(niche *models.Niche, slot string, excludeID int64) error {
	if !models.ValidSlot(slot) {
		return ErrInvalidSlot
	}

	taken, err := s.nicheRepo.SlotOccupied(niche.ID, slot, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}

	count, err := s.nicheRepo.CountDeceasedExcluding(niche.ID, excludeID)
	if err != nil {
		return err
	}
	if count >= niche.MaxDeceased {
		return ErrCapacityExceeded
	}

	return nil
}

// CreateDeceased inters a new occupant in a niche slot, then recomputes the
// niche's status. Validation failures reject the write entirely.
func (s *NicheService) CreateDeceased(d *models.Deceased) error {
	niche, err := s.nicheRepo.GetByID(d.NicheID)
	if err != nil {
		return err
	}

	if err := s.validateSlot(niche, d.Slot, 0); err != nil {
		return err
	}

	if err := s.deceasedRepo.Create(d); err != nil {
		return err
	}

	return s.RecomputeNicheStatus(niche)
}

// UpdateDeceased edits an occupant record. Moving it to another niche or slot
// re-runs the slot validation against the target, and both the old and new
// niche statuses are recomputed.
func (s *NicheService) UpdateDeceased(id int64, req models.UpdateDeceasedRequest) (*models.Deceased, error) {
	d, err := s.deceasedRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	oldNicheID := d.NicheID

	if req.NicheID != nil {
		d.NicheID = *req.NicheID
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Slot != nil {
		d.Slot = *req.Slot
	}
	if req.DateOfDeath != nil {
		t, err := time.Parse("2006-01-02", *req.DateOfDeath)
		if err != nil {
			return nil, err
		}
		d.DateOfDeath = t
	}
	if req.IntermentDate != nil {
		t, err := time.Parse("2006-01-02", *req.IntermentDate)
		if err != nil {
			return nil, err
		}
		d.IntermentDate = t
	}
	if req.RelationshipToHolder != nil {
		d.RelationshipToHolder = *req.RelationshipToHolder
	}

	niche, err := s.nicheRepo.GetByID(d.NicheID)
	if err != nil {
		return nil, err
	}

	if err := s.validateSlot(niche, d.Slot, id); err != nil {
		return nil, err
	}

	if err := s.deceasedRepo.Update(d); err != nil {
		return nil, err
	}

	if err := s.RecomputeNicheStatus(niche); err != nil {
		return nil, err
	}
	if d.NicheID != oldNicheID {
		oldNiche, err := s.nicheRepo.GetByID(oldNicheID)
		if err != nil {
			return nil, err
		}
		if err := s.RecomputeNicheStatus(oldNiche); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// DeleteDeceased removes an occupant record and recomputes the parent niche
func (s *NicheService) DeleteDeceased(id int64) error {
	d, err := s.deceasedRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.deceasedRepo.Delete(id); err != nil {
		return err
	}

	niche, err := s.nicheRepo.GetByID(d.NicheID)
	if err != nil {
		return err
	}

	return s.RecomputeNicheStatus(niche)
}
