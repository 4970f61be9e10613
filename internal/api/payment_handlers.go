package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"columbarium-backend/internal/models"
)

// listPayments handles GET /api/payments/list-all
func listPayments(c echo.Context) error {
	payments, err := paymentRepo.List()
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, payments)
}

// createPayment handles POST /api/payments/create-new
func createPayment(c echo.Context) error {
	var req models.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Payer == "" {
		return errorJSON(c, http.StatusBadRequest, "payer is required")
	}

	payment, err := paymentService.CreatePayment(req.Payer, req.AmountDue, req.MaintenanceFee)
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusCreated, payment)
}

// editPayment handles PUT /api/payments/edit?payment_id=
func editPayment(c echo.Context) error {
	id, err := queryID(c, "payment_id")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payment_id")
	}

	var req models.UpdatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	payment, err := paymentService.UpdatePayment(id, req)
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}

// deletePayments handles DELETE /api/payments/delete
func deletePayments(c echo.Context) error {
	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if len(req.ElementIDs) == 0 {
		return errorJSON(c, http.StatusBadRequest, "element_ids is required")
	}

	for _, id := range req.ElementIDs {
		if err := paymentService.DeletePayment(id); err != nil {
			return recordsError(c, err)
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"ids": req.ElementIDs})
}

// listPaymentDetails handles GET /api/payments/:payment_id/details
func listPaymentDetails(c echo.Context) error {
	id, err := paramID(c, "payment_id")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payment_id")
	}

	// 404 when the payment itself is missing, not an empty list
	if _, err := paymentRepo.GetByID(id); err != nil {
		return recordsError(c, err)
	}

	details, err := paymentRepo.ListDetails(id)
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

// addPaymentDetail handles POST /api/payments/:payment_id/add-payment
func addPaymentDetail(c echo.Context) error {
	id, err := paramID(c, "payment_id")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payment_id")
	}

	var req models.AddPaymentDetailRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	paymentDate := time.Now()
	if req.PaymentDate != "" {
		paymentDate, err = time.Parse(dateLayout, req.PaymentDate)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid payment_date, expected YYYY-MM-DD")
		}
	}

	detail, err := paymentService.AddDetail(id, req.Amount, paymentDate, req.Note)
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusCreated, detail)
}

// editPaymentDetail handles PUT /api/payments/detail/:detail_id/edit
func editPaymentDetail(c echo.Context) error {
	id, err := paramID(c, "detail_id")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid detail_id")
	}

	var req models.UpdatePaymentDetailRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if req.PaymentDate != nil {
		if _, err := time.Parse(dateLayout, *req.PaymentDate); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid payment_date, expected YYYY-MM-DD")
		}
	}

	detail, err := paymentService.UpdateDetail(id, req)
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// deletePaymentDetail handles DELETE /api/payments/detail/:detail_id/delete
func deletePaymentDetail(c echo.Context) error {
	id, err := paramID(c, "detail_id")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid detail_id")
	}

	if err := paymentService.DeleteDetail(id); err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"ids": []int64{id}})
}
