package models

import "time"

// NicheStatus is derived from the occupant count and never accepted from
// client input. Maintenance and Reserved are operator-provisioned values;
// recomputation only ever produces Available, Occupied or Full.
type NicheStatus string

const (
	NicheAvailable   NicheStatus = "Available"
	NicheOccupied    NicheStatus = "Occupied"
	NicheFull        NicheStatus = "Full"
	NicheMaintenance NicheStatus = "Maintenance"
	NicheReserved    NicheStatus = "Reserved"
)

// LeaseYears is the fixed lease term; date_of_expiry = date_of_availment + 50y.
const LeaseYears = 50

// Niche is a physical storage unit with a fixed number of occupant slots.
type Niche struct {
	ID              int64       `json:"id"`
	HolderID        int64       `json:"holder_id"`
	Location        string      `json:"location"`
	MaxDeceased     int         `json:"max_deceased"`
	Status          NicheStatus `json:"status"`
	DateOfAvailment time.Time   `json:"date_of_availment"`
	DateOfExpiry    time.Time   `json:"date_of_expiry"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	DeceasedCount int `json:"deceased_count"`
}

// ExpiryFromAvailment derives the lease expiry from the availment date.
func ExpiryFromAvailment(availment time.Time) time.Time {
	return availment.AddDate(LeaseYears, 0, 0)
}

// Slot labels are fixed; each is unique within its niche.
const (
	SlotUpperLeft  = "Upper Left"
	SlotUpperRight = "Upper Right"
	SlotLowerLeft  = "Lower Left"
	SlotLowerRight = "Lower Right"
)

// ValidSlot reports whether the label names one of the four fixed slots.
func ValidSlot(slot string) bool {
	switch slot {
	case SlotUpperLeft, SlotUpperRight, SlotLowerLeft, SlotLowerRight:
		return true
	}
	return false
}

// Deceased records an individual interred in a specific niche slot.
type Deceased struct {
	ID                   int64     `json:"id"`
	NicheID              int64     `json:"niche_id"`
	Name                 string    `json:"name"`
	Slot                 string    `json:"slot"`
	DateOfDeath          time.Time `json:"date_of_death"`
	IntermentDate        time.Time `json:"interment_date"`
	RelationshipToHolder string    `json:"relationship_to_holder,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// CreateNicheRequest is the body for POST /api/niches/create-new.
type CreateNicheRequest struct {
	HolderID        int64  `json:"holder_id"`
	Location        string `json:"location"`
	MaxDeceased     int    `json:"max_deceased"`
	DateOfAvailment string `json:"date_of_availment"` // YYYY-MM-DD
}

// UpdateNicheRequest is the body for PUT /api/niches/edit. Status and expiry
// are absent on purpose: both are derived.
type UpdateNicheRequest struct {
	HolderID        *int64  `json:"holder_id,omitempty"`
	Location        *string `json:"location,omitempty"`
	MaxDeceased     *int    `json:"max_deceased,omitempty"`
	DateOfAvailment *string `json:"date_of_availment,omitempty"`
}

// CreateDeceasedRequest is the body for POST /api/occupants/create-new.
type CreateDeceasedRequest struct {
	NicheID              int64  `json:"niche_id"`
	Name                 string `json:"name"`
	Slot                 string `json:"slot"`
	DateOfDeath          string `json:"date_of_death"`
	IntermentDate        string `json:"interment_date"`
	RelationshipToHolder string `json:"relationship_to_holder"`
}

// UpdateDeceasedRequest is the body for PUT /api/occupants/edit.
type UpdateDeceasedRequest struct {
	NicheID              *int64  `json:"niche_id,omitempty"`
	Name                 *string `json:"name,omitempty"`
	Slot                 *string `json:"slot,omitempty"`
	DateOfDeath          *string `json:"date_of_death,omitempty"`
	IntermentDate        *string `json:"interment_date,omitempty"`
	RelationshipToHolder *string `json:"relationship_to_holder,omitempty"`
}
