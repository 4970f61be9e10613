package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"columbarium-backend/internal/models"
)

// PaymentRepo handles payment and payment-detail database operations.
// Money columns are stored as decimal strings; all arithmetic happens on
// decimal.Decimal values, never floats.
type PaymentRepo struct{}

// NewPaymentRepo creates a new payment repository
func NewPaymentRepo() *PaymentRepo {
	return &PaymentRepo{}
}

// Create creates a new payment
func (r *PaymentRepo) Create(p *models.Payment) error {
	result, err := DB.Exec(`
		INSERT INTO payments (payer, amount_due, maintenance_fee, amount_paid, remaining_balance, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.Payer, p.AmountDue.String(), p.MaintenanceFee.String(),
		p.AmountPaid.String(), p.RemainingBalance.String(), p.Status)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id

	return nil
}

// GetByID retrieves a payment by ID
func (r *PaymentRepo) GetByID(id int64) (*models.Payment, error) {
	p := &models.Payment{}
	var due, fee, paid, remaining string

	err := DB.QueryRow(`
		SELECT id, payer, amount_due, maintenance_fee, amount_paid, remaining_balance, status, created_at, updated_at
		FROM payments WHERE id = ?
	`, id).Scan(
		&p.ID, &p.Payer, &due, &fee, &paid, &remaining, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := assignAmounts(p, due, fee, paid, remaining); err != nil {
		return nil, err
	}

	return p, nil
}

// List retrieves all payments, most recent first
func (r *PaymentRepo) List() ([]*models.Payment, error) {
	rows, err := DB.Query(`
		SELECT id, payer, amount_due, maintenance_fee, amount_paid, remaining_balance, status, created_at, updated_at
		FROM payments ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		var due, fee, paid, remaining string

		err := rows.Scan(
			&p.ID, &p.Payer, &due, &fee, &paid, &remaining, &p.Status,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := assignAmounts(p, due, fee, paid, remaining); err != nil {
			return nil, err
		}

		payments = append(payments, p)
	}

	return payments, rows.Err()
}

// Update updates a payment's editable fields
func (r *PaymentRepo) Update(p *models.Payment) error {
	p.UpdatedAt = time.Now()

	result, err := DB.Exec(`
		UPDATE payments SET payer = ?, amount_due = ?, maintenance_fee = ?, updated_at = ?
		WHERE id = ?
	`, p.Payer, p.AmountDue.String(), p.MaintenanceFee.String(), p.UpdatedAt, p.ID)
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

// UpdateDerived writes only the derived columns
func (r *PaymentRepo) UpdateDerived(id int64, paid, remaining decimal.Decimal, status models.PaymentStatus) error {
	result, err := DB.Exec(`
		UPDATE payments SET amount_paid = ?, remaining_balance = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, paid.String(), remaining.String(), status, time.Now(), id)
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

// Delete deletes a payment
func (r *PaymentRepo) Delete(id int64) error {
	result, err := DB.Exec("DELETE FROM payments WHERE id = ?", id)
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

// CreateDetail records a transaction against a payment
func (r *PaymentRepo) CreateDetail(d *models.PaymentDetail) error {
	if d.ReceiptNo == "" {
		d.ReceiptNo = uuid.New().String()
	}
	if d.PaymentDate.IsZero() {
		d.PaymentDate = time.Now()
	}

	result, err := DB.Exec(`
		INSERT INTO payment_details (payment_id, receipt_no, amount, payment_date, note)
		VALUES (?, ?, ?, ?, ?)
	`, d.PaymentID, d.ReceiptNo, d.Amount.String(), d.PaymentDate, d.Note)
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

// GetDetailByID retrieves a payment detail by ID
func (r *PaymentRepo) GetDetailByID(id int64) (*models.PaymentDetail, error) {
	d := &models.PaymentDetail{}
	var amount string

	err := DB.QueryRow(`
		SELECT id, payment_id, receipt_no, amount, payment_date, note, created_at
		FROM payment_details WHERE id = ?
	`, id).Scan(
		&d.ID, &d.PaymentID, &d.ReceiptNo, &amount, &d.PaymentDate, &d.Note, &d.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	d.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}

	return d, nil
}

// ListDetails retrieves a payment's transactions in order
func (r *PaymentRepo) ListDetails(paymentID int64) ([]*models.PaymentDetail, error) {
	rows, err := DB.Query(`
		SELECT id, payment_id, receipt_no, amount, payment_date, note, created_at
		FROM payment_details WHERE payment_id = ? ORDER BY payment_date, id
	`, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []*models.PaymentDetail
	for rows.Next() {
		d := &models.PaymentDetail{}
		var amount string

		err := rows.Scan(
			&d.ID, &d.PaymentID, &d.ReceiptNo, &amount, &d.PaymentDate, &d.Note, &d.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		d.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}

		details = append(details, d)
	}

	return details, rows.Err()
}

// UpdateDetail updates a payment detail
func (r *PaymentRepo) UpdateDetail(d *models.PaymentDetail) error {
	result, err := DB.Exec(`
		UPDATE payment_details SET amount = ?, payment_date = ?, note = ?
		WHERE id = ?
	`, d.Amount.String(), d.PaymentDate, d.Note, d.ID)
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

// DeleteDetail deletes a payment detail
func (r *PaymentRepo) DeleteDetail(id int64) error {
	result, err := DB.Exec("DELETE FROM payment_details WHERE id = ?", id)
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

// SumDetails returns the total of a payment's detail amounts. The sum is
// computed over decimal values in Go; sqlite's NUMERIC affinity would go
// through floating point.
func (r *PaymentRepo) SumDetails(paymentID int64) (decimal.Decimal, error) {
	details, err := r.ListDetails(paymentID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.Amount)
	}
	return total, nil
}

func assignAmounts(p *models.Payment, due, fee, paid, remaining string) error {
	var err error
	if p.AmountDue, err = decimal.NewFromString(due); err != nil {
		return err
	}
	if p.MaintenanceFee, err = decimal.NewFromString(fee); err != nil {
		return err
	}
	if p.AmountPaid, err = decimal.NewFromString(paid); err != nil {
		return err
	}
	p.RemainingBalance, err = decimal.NewFromString(remaining)
	return err
}
