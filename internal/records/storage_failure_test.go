package records

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"columbarium-backend/internal/database"
	"columbarium-backend/internal/models"
)

// Recomputation hits storage twice (count, then status write); a failure at
// either point must surface instead of leaving the caller with a silently
// stale status.
func TestRecomputeNicheStatusStorageFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	old := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = old
		db.Close()
	})

	boom := errors.New("disk I/O error")
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM deceased`).WillReturnError(boom)

	svc := NewNicheService()
	niche := &models.Niche{ID: 7, MaxDeceased: 4, Status: models.NicheAvailable}
	if err := svc.RecomputeNicheStatus(niche); !errors.Is(err, boom) {
		t.Fatalf("want underlying storage error, got %v", err)
	}
	if niche.Status != models.NicheAvailable {
		t.Fatalf("status must not change on a failed recompute, got %s", niche.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecomputePaymentStatusStorageFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	old := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = old
		db.Close()
	})

	boom := errors.New("disk I/O error")
	mock.ExpectQuery(`SELECT (.+) FROM payment_details`).WillReturnError(boom)

	svc := NewPaymentService()
	p := &models.Payment{ID: 3, AmountDue: dec("100"), Status: models.PaymentInactive}
	if _, err := svc.RecomputePaymentStatus(p); !errors.Is(err, boom) {
		t.Fatalf("want underlying storage error, got %v", err)
	}
	if p.Status != models.PaymentInactive {
		t.Fatalf("status must not change on a failed recompute, got %s", p.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
