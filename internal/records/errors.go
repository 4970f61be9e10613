package records

import "errors"

var (
	// ErrSlotTaken means another deceased record in the niche already
	// occupies the requested slot.
	ErrSlotTaken = errors.New("slot is already occupied in this niche")

	// ErrInvalidSlot means the slot label is not one of the four fixed slots.
	ErrInvalidSlot = errors.New("invalid slot")

	// ErrCapacityExceeded means the niche already holds max_deceased occupants.
	ErrCapacityExceeded = errors.New("niche capacity exceeded")

	// ErrHolderNicheLimit means the holder already owns the maximum number
	// of niches.
	ErrHolderNicheLimit = errors.New("holder already owns the maximum number of niches")

	// ErrOverpayment means a detail amount exceeds the payment's remaining
	// balance.
	ErrOverpayment = errors.New("amount exceeds remaining balance")

	// ErrInvalidAmount means a monetary amount is zero or negative where a
	// positive value is required.
	ErrInvalidAmount = errors.New("amount must be positive")
)
