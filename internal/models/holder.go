package models

import "time"

// MaxNichesPerHolder caps how many niches a single holder may own.
const MaxNichesPerHolder = 4

// Holder is a customer who owns columbarium niches.
type Holder struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ContactNumber string    `json:"contact_number,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Derived for listings.
	NicheCount         int `json:"niche_count"`
	TotalDeceasedCount int `json:"total_deceased_count"`
}

// CreateHolderRequest is the body for POST /api/holders/create-new.
type CreateHolderRequest struct {
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

// UpdateHolderRequest is the body for PUT /api/holders/edit.
type UpdateHolderRequest struct {
	Name          *string `json:"name,omitempty"`
	ContactNumber *string `json:"contact_number,omitempty"`
	Email         *string `json:"email,omitempty"`
	Address       *string `json:"address,omitempty"`
}
