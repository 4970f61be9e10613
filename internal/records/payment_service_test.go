package records

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"columbarium-backend/internal/database"
	"columbarium-backend/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func reloadPayment(t *testing.T, id int64) *models.Payment {
	t.Helper()
	p, err := database.NewPaymentRepo().GetByID(id)
	if err != nil {
		t.Fatalf("failed to reload payment %d: %v", id, err)
	}
	return p
}

func TestPaymentLifecycle(t *testing.T) {
	setupDB(t)
	svc := NewPaymentService()
	today := time.Now()

	p, err := svc.CreatePayment("Reyes", dec("1000"), dec("50"))
	if err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}
	if p.Status != models.PaymentInactive {
		t.Fatalf("new payment: want Inactive, got %s", p.Status)
	}
	if !p.RemainingBalance.Equal(dec("1000")) {
		t.Fatalf("new payment remaining: want 1000, got %s", p.RemainingBalance)
	}

	if _, err := svc.AddDetail(p.ID, dec("400"), today, "first installment"); err != nil {
		t.Fatalf("failed to add detail: %v", err)
	}
	got := reloadPayment(t, p.ID)
	if got.Status != models.PaymentPending {
		t.Fatalf("partial payment: want Pending, got %s", got.Status)
	}
	if !got.AmountPaid.Equal(dec("400")) || !got.RemainingBalance.Equal(dec("600")) {
		t.Fatalf("partial payment: paid %s remaining %s", got.AmountPaid, got.RemainingBalance)
	}

	if _, err := svc.AddDetail(p.ID, dec("600"), today, "final installment"); err != nil {
		t.Fatalf("failed to add final detail: %v", err)
	}
	got = reloadPayment(t, p.ID)
	if got.Status != models.PaymentCompleted {
		t.Fatalf("settled payment: want Completed, got %s", got.Status)
	}
	if got.RemainingBalance.Sign() != 0 {
		t.Fatalf("settled payment remaining: want 0, got %s", got.RemainingBalance)
	}

	// Nothing remains, so even one more centavo is rejected.
	if _, err := svc.AddDetail(p.ID, dec("0.01"), today, ""); !errors.Is(err, ErrOverpayment) {
		t.Fatalf("overpayment: want ErrOverpayment, got %v", err)
	}
}

func TestCreatePaymentInvalidAmounts(t *testing.T) {
	setupDB(t)
	svc := NewPaymentService()

	if _, err := svc.CreatePayment("X", dec("0"), dec("0")); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount_due: want ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.CreatePayment("X", dec("100"), dec("-1")); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative fee: want ErrInvalidAmount, got %v", err)
	}
}

func TestAddDetailRejectsNonPositiveAmount(t *testing.T) {
	setupDB(t)
	svc := NewPaymentService()

	p, err := svc.CreatePayment("Reyes", dec("100"), dec("0"))
	if err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}
	if _, err := svc.AddDetail(p.ID, dec("0"), time.Now(), ""); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero detail: want ErrInvalidAmount, got %v", err)
	}
}

func TestUpdateDetailChecksSiblings(t *testing.T) {
	setupDB(t)
	svc := NewPaymentService()
	today := time.Now()

	p, err := svc.CreatePayment("Santos", dec("100"), dec("0"))
	if err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}
	if _, err := svc.AddDetail(p.ID, dec("60"), today, ""); err != nil {
		t.Fatalf("failed to add first detail: %v", err)
	}
	second, err := svc.AddDetail(p.ID, dec("40"), today, "")
	if err != nil {
		t.Fatalf("failed to add second detail: %v", err)
	}
	if got := reloadPayment(t, p.ID); got.Status != models.PaymentCompleted {
		t.Fatalf("want Completed, got %s", got.Status)
	}

	// Raising the edited detail must account for its sibling's 60.
	over := dec("50")
	if _, err := svc.UpdateDetail(second.ID, models.UpdatePaymentDetailRequest{Amount: &over}); !errors.Is(err, ErrOverpayment) {
		t.Fatalf("sibling-aware overpayment: want ErrOverpayment, got %v", err)
	}

	lower := dec("30")
	if _, err := svc.UpdateDetail(second.ID, models.UpdatePaymentDetailRequest{Amount: &lower}); err != nil {
		t.Fatalf("failed to lower detail: %v", err)
	}
	got := reloadPayment(t, p.ID)
	if got.Status != models.PaymentPending || !got.RemainingBalance.Equal(dec("10")) {
		t.Fatalf("after lowering: status %s remaining %s", got.Status, got.RemainingBalance)
	}
}

func TestDeleteDetailRecomputes(t *testing.T) {
	setupDB(t)
	svc := NewPaymentService()

	p, err := svc.CreatePayment("Cruz", dec("200"), dec("0"))
	if err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}
	d, err := svc.AddDetail(p.ID, dec("200"), time.Now(), "")
	if err != nil {
		t.Fatalf("failed to add detail: %v", err)
	}
	if got := reloadPayment(t, p.ID); got.Status != models.PaymentCompleted {
		t.Fatalf("want Completed, got %s", got.Status)
	}

	if err := svc.DeleteDetail(d.ID); err != nil {
		t.Fatalf("failed to delete detail: %v", err)
	}
	got := reloadPayment(t, p.ID)
	if got.Status != models.PaymentInactive {
		t.Fatalf("no details left: want Inactive, got %s", got.Status)
	}
	if !got.RemainingBalance.Equal(dec("200")) {
		t.Fatalf("no details left: remaining %s", got.RemainingBalance)
	}
}

func TestUpdatePaymentAmountDueRecomputes(t *testing.T) {
	setupDB(t)
	svc := NewPaymentService()

	p, err := svc.CreatePayment("Lim", dec("100"), dec("0"))
	if err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}
	if _, err := svc.AddDetail(p.ID, dec("100"), time.Now(), ""); err != nil {
		t.Fatalf("failed to add detail: %v", err)
	}
	if got := reloadPayment(t, p.ID); got.Status != models.PaymentCompleted {
		t.Fatalf("want Completed, got %s", got.Status)
	}

	newDue := dec("200")
	if _, err := svc.UpdatePayment(p.ID, models.UpdatePaymentRequest{AmountDue: &newDue}); err != nil {
		t.Fatalf("failed to raise amount_due: %v", err)
	}
	got := reloadPayment(t, p.ID)
	if got.Status != models.PaymentPending || !got.RemainingBalance.Equal(dec("100")) {
		t.Fatalf("after raising due: status %s remaining %s", got.Status, got.RemainingBalance)
	}
}
