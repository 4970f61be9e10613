package records

import (
	"time"

	"github.com/shopspring/decimal"

	"columbarium-backend/internal/database"
	"columbarium-backend/internal/models"
)

// PaymentService carries the payment use-cases. amount_paid,
// remaining_balance and status are derived from the detail rows and
// recomputed after every mutation that can change them.
type PaymentService struct {
	paymentRepo *database.PaymentRepo
}

// NewPaymentService creates a new payment service
func NewPaymentService() *PaymentService {
	return &PaymentService{paymentRepo: database.NewPaymentRepo()}
}

// CreatePayment opens a payment record. With no details yet the derived
// state is amount_paid 0, full remaining balance, status Inactive.
func (s *PaymentService) CreatePayment(payer string, amountDue, maintenanceFee decimal.Decimal) (*models.Payment, error) {
	if amountDue.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if maintenanceFee.Sign() < 0 {
		return nil, ErrInvalidAmount
	}

	p := &models.Payment{
		Payer:            payer,
		AmountDue:        amountDue,
		MaintenanceFee:   maintenanceFee,
		AmountPaid:       decimal.Zero,
		RemainingBalance: amountDue,
		Status:           models.PaymentInactive,
	}

	if err := s.paymentRepo.Create(p); err != nil {
		return nil, err
	}

	return p, nil
}

// UpdatePayment applies edits to a payment's own fields. Derived fields are
// read-only to clients; a changed amount_due shifts the remaining balance, so
// the status is recomputed afterwards.
func (s *PaymentService) UpdatePayment(id int64, req models.UpdatePaymentRequest) (*models.Payment, error) {
	p, err := s.paymentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Payer != nil {
		p.Payer = *req.Payer
	}
	if req.AmountDue != nil {
		if req.AmountDue.Sign() <= 0 {
			return nil, ErrInvalidAmount
		}
		p.AmountDue = *req.AmountDue
	}
	if req.MaintenanceFee != nil {
		if req.MaintenanceFee.Sign() < 0 {
			return nil, ErrInvalidAmount
		}
		p.MaintenanceFee = *req.MaintenanceFee
	}

	if err := s.paymentRepo.Update(p); err != nil {
		return nil, err
	}

	return s.RecomputePaymentStatus(p)
}

// DeletePayment removes a payment and, via cascade, its details
func (s *PaymentService) DeletePayment(id int64) error {
	return s.paymentRepo.Delete(id)
}

// AddDetail records a transaction against a payment and recomputes the
// derived state. A transaction exceeding the remaining balance is rejected
// before any write.
func (s *PaymentService) AddDetail(paymentID int64, amount decimal.Decimal, paymentDate time.Time, note string) (*models.PaymentDetail, error) {
	p, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}

	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	paid, err := s.paymentRepo.SumDetails(paymentID)
	if err != nil {
		return nil, err
	}
	if paid.Add(amount).GreaterThan(p.AmountDue) {
		return nil, ErrOverpayment
	}

	d := &models.PaymentDetail{
		PaymentID:   paymentID,
		Amount:      amount,
		PaymentDate: paymentDate,
		Note:        note,
	}

	if err := s.paymentRepo.CreateDetail(d); err != nil {
		return nil, err
	}

	if _, err := s.RecomputePaymentStatus(p); err != nil {
		return nil, err
	}

	return d, nil
}

// UpdateDetail edits a transaction and recomputes the parent payment. The
// edited amount must still fit within amount_due alongside its siblings.
func (s *PaymentService) UpdateDetail(detailID int64, req models.UpdatePaymentDetailRequest) (*models.PaymentDetail, error) {
	d, err := s.paymentRepo.GetDetailByID(detailID)
	if err != nil {
		return nil, err
	}

	p, err := s.paymentRepo.GetByID(d.PaymentID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if req.Amount.Sign() <= 0 {
			return nil, ErrInvalidAmount
		}
		paid, err := s.paymentRepo.SumDetails(d.PaymentID)
		if err != nil {
			return nil, err
		}
		if paid.Sub(d.Amount).Add(*req.Amount).GreaterThan(p.AmountDue) {
			return nil, ErrOverpayment
		}
		d.Amount = *req.Amount
	}
	if req.PaymentDate != nil {
		t, err := time.Parse("2006-01-02", *req.PaymentDate)
		if err != nil {
			return nil, err
		}
		d.PaymentDate = t
	}
	if req.Note != nil {
		d.Note = *req.Note
	}

	if err := s.paymentRepo.UpdateDetail(d); err != nil {
		return nil, err
	}

	if _, err := s.RecomputePaymentStatus(p); err != nil {
		return nil, err
	}

	return d, nil
}

// DeleteDetail removes a transaction and recomputes the parent payment
func (s *PaymentService) DeleteDetail(detailID int64) error {
	d, err := s.paymentRepo.GetDetailByID(detailID)
	if err != nil {
		return err
	}

	p, err := s.paymentRepo.GetByID(d.PaymentID)
	if err != nil {
		return err
	}

	if err := s.paymentRepo.DeleteDetail(detailID); err != nil {
		return err
	}

	_, err = s.RecomputePaymentStatus(p)
	return err
}

// RecomputePaymentStatus recalculates the derived fields from the detail sum:
// amount_paid is the sum of detail amounts, remaining_balance floors at zero,
// and status is Completed when nothing remains, Pending once anything was
// paid, Inactive otherwise. A storage failure here surfaces to the caller
// rather than silently losing the recomputation.
func (s *PaymentService) RecomputePaymentStatus(p *models.Payment) (*models.Payment, error) {
	paid, err := s.paymentRepo.SumDetails(p.ID)
	if err != nil {
		return nil, err
	}

	remaining := p.AmountDue.Sub(paid)
	if remaining.Sign() < 0 {
		remaining = decimal.Zero
	}

	var status models.PaymentStatus
	switch {
	case remaining.Sign() <= 0:
		status = models.PaymentCompleted
	case paid.Sign() > 0:
		status = models.PaymentPending
	default:
		status = models.PaymentInactive
	}

	p.AmountPaid = paid
	p.RemainingBalance = remaining
	p.Status = status

	if err := s.paymentRepo.UpdateDerived(p.ID, paid, remaining, status); err != nil {
		return nil, err
	}

	return p, nil
}
