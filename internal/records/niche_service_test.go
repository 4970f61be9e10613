package records

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"columbarium-backend/internal/database"
	"columbarium-backend/internal/models"
)

func setupDB(t *testing.T) {
	t.Helper()
	if err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")}); err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
}

func seedHolder(t *testing.T, name string) *models.Holder {
	t.Helper()
	h := &models.Holder{Name: name}
	if err := database.NewHolderRepo().Create(h); err != nil {
		t.Fatalf("failed to create holder: %v", err)
	}
	return h
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func reloadNiche(t *testing.T, id int64) *models.Niche {
	t.Helper()
	n, err := database.NewNicheRepo().GetByID(id)
	if err != nil {
		t.Fatalf("failed to reload niche %d: %v", id, err)
	}
	return n
}

func addOccupant(t *testing.T, svc *NicheService, nicheID int64, name, slot string) *models.Deceased {
	t.Helper()
	d := &models.Deceased{NicheID: nicheID, Name: name, Slot: slot}
	if err := svc.CreateDeceased(d); err != nil {
		t.Fatalf("failed to add occupant %s: %v", name, err)
	}
	return d
}

func TestNicheStatusLadder(t *testing.T) {
	setupDB(t)
	holder := seedHolder(t, "Reyes")
	svc := NewNicheService()

	niche, err := svc.CreateNiche(holder.ID, "A-1", 2, mustDate(t, "2024-03-01"))
	if err != nil {
		t.Fatalf("failed to create niche: %v", err)
	}
	if niche.Status != models.NicheAvailable {
		t.Fatalf("new niche: want Available, got %s", niche.Status)
	}

	first := addOccupant(t, svc, niche.ID, "Lolo", models.SlotUpperLeft)
	if got := reloadNiche(t, niche.ID).Status; got != models.NicheOccupied {
		t.Fatalf("1 of 2 occupants: want Occupied, got %s", got)
	}

	addOccupant(t, svc, niche.ID, "Lola", models.SlotUpperRight)
	if got := reloadNiche(t, niche.ID).Status; got != models.NicheFull {
		t.Fatalf("2 of 2 occupants: want Full, got %s", got)
	}

	if err := svc.DeleteDeceased(first.ID); err != nil {
		t.Fatalf("failed to delete occupant: %v", err)
	}
	if got := reloadNiche(t, niche.ID).Status; got != models.NicheOccupied {
		t.Fatalf("back to 1 of 2: want Occupied, got %s", got)
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	setupDB(t)
	holder := seedHolder(t, "Santos")
	svc := NewNicheService()

	niche, err := svc.CreateNiche(holder.ID, "B-2", 4, mustDate(t, "2024-01-15"))
	if err != nil {
		t.Fatalf("failed to create niche: %v", err)
	}
	addOccupant(t, svc, niche.ID, "Tatay", models.SlotLowerLeft)

	for i := 0; i < 2; i++ {
		if err := svc.RecomputeNicheStatus(niche); err != nil {
			t.Fatalf("recompute %d failed: %v", i, err)
		}
		if niche.Status != models.NicheOccupied {
			t.Fatalf("recompute %d: want Occupied, got %s", i, niche.Status)
		}
	}
}

func TestRecomputeUnsavedNiche(t *testing.T) {
	setupDB(t)
	svc := NewNicheService()

	niche := &models.Niche{MaxDeceased: 4, Status: models.NicheOccupied}
	if err := svc.RecomputeNicheStatus(niche); err != nil {
		t.Fatalf("recompute on unsaved niche failed: %v", err)
	}
	if niche.Status != models.NicheAvailable {
		t.Fatalf("unsaved niche: want Available, got %s", niche.Status)
	}
}

func TestSlotAssignment(t *testing.T) {
	setupDB(t)
	holder := seedHolder(t, "Cruz")
	svc := NewNicheService()

	nicheA, err := svc.CreateNiche(holder.ID, "C-1", 4, mustDate(t, "2024-02-01"))
	if err != nil {
		t.Fatalf("failed to create niche A: %v", err)
	}
	nicheB, err := svc.CreateNiche(holder.ID, "C-2", 4, mustDate(t, "2024-02-01"))
	if err != nil {
		t.Fatalf("failed to create niche B: %v", err)
	}

	addOccupant(t, svc, nicheA.ID, "Lolo", models.SlotUpperLeft)

	// Same slot, same niche: rejected.
	dup := &models.Deceased{NicheID: nicheA.ID, Name: "Lola", Slot: models.SlotUpperLeft}
	if err := svc.CreateDeceased(dup); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("duplicate slot: want ErrSlotTaken, got %v", err)
	}

	// Same slot label, different niche: fine.
	addOccupant(t, svc, nicheB.ID, "Lola", models.SlotUpperLeft)

	bad := &models.Deceased{NicheID: nicheA.ID, Name: "X", Slot: "Middle"}
	if err := svc.CreateDeceased(bad); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("made-up slot: want ErrInvalidSlot, got %v", err)
	}
}

func TestCapacityExceeded(t *testing.T) {
	setupDB(t)
	holder := seedHolder(t, "Dela Cruz")
	svc := NewNicheService()

	niche, err := svc.CreateNiche(holder.ID, "D-1", 1, mustDate(t, "2024-04-01"))
	if err != nil {
		t.Fatalf("failed to create niche: %v", err)
	}
	addOccupant(t, svc, niche.ID, "Lolo", models.SlotUpperLeft)

	over := &models.Deceased{NicheID: niche.ID, Name: "Lola", Slot: models.SlotUpperRight}
	if err := svc.CreateDeceased(over); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("over capacity: want ErrCapacityExceeded, got %v", err)
	}
}

func TestHolderNicheLimit(t *testing.T) {
	setupDB(t)
	holder := seedHolder(t, "Garcia")
	svc := NewNicheService()

	for i := 0; i < models.MaxNichesPerHolder; i++ {
		if _, err := svc.CreateNiche(holder.ID, "E", 4, mustDate(t, "2024-05-01")); err != nil {
			t.Fatalf("niche %d should be allowed: %v", i+1, err)
		}
	}

	if _, err := svc.CreateNiche(holder.ID, "E", 4, mustDate(t, "2024-05-01")); !errors.Is(err, ErrHolderNicheLimit) {
		t.Fatalf("fifth niche: want ErrHolderNicheLimit, got %v", err)
	}
}

func TestExpiryDerivedFromAvailment(t *testing.T) {
	setupDB(t)
	holder := seedHolder(t, "Lim")
	svc := NewNicheService()

	niche, err := svc.CreateNiche(holder.ID, "F-1", 4, mustDate(t, "2024-03-01"))
	if err != nil {
		t.Fatalf("failed to create niche: %v", err)
	}
	if want := mustDate(t, "2074-03-01"); !niche.DateOfExpiry.Equal(want) {
		t.Fatalf("expiry: want %s, got %s", want, niche.DateOfExpiry)
	}

	// Changing the availment date shifts the expiry with it.
	newDate := "2025-01-01"
	updated, err := svc.UpdateNiche(niche.ID, models.UpdateNicheRequest{DateOfAvailment: &newDate})
	if err != nil {
		t.Fatalf("failed to update niche: %v", err)
	}
	if want := mustDate(t, "2075-01-01"); !updated.DateOfExpiry.Equal(want) {
		t.Fatalf("recalculated expiry: want %s, got %s", want, updated.DateOfExpiry)
	}
}

func TestMoveOccupantRecomputesBothNiches(t *testing.T) {
	setupDB(t)
	holder := seedHolder(t, "Tan")
	svc := NewNicheService()

	src, err := svc.CreateNiche(holder.ID, "G-1", 4, mustDate(t, "2024-06-01"))
	if err != nil {
		t.Fatalf("failed to create source niche: %v", err)
	}
	dst, err := svc.CreateNiche(holder.ID, "G-2", 4, mustDate(t, "2024-06-01"))
	if err != nil {
		t.Fatalf("failed to create target niche: %v", err)
	}

	d := addOccupant(t, svc, src.ID, "Lolo", models.SlotUpperLeft)
	if _, err := svc.UpdateDeceased(d.ID, models.UpdateDeceasedRequest{NicheID: &dst.ID}); err != nil {
		t.Fatalf("failed to move occupant: %v", err)
	}

	if got := reloadNiche(t, src.ID).Status; got != models.NicheAvailable {
		t.Fatalf("vacated niche: want Available, got %s", got)
	}
	if got := reloadNiche(t, dst.ID).Status; got != models.NicheOccupied {
		t.Fatalf("target niche: want Occupied, got %s", got)
	}
}
