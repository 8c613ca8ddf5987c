package api

import (
	"alcyxob/trainer-desk/internal/calendar"
	"alcyxob/trainer-desk/internal/service"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	log            *logrus.Logger
}

func NewPaymentHandler(paymentService service.PaymentService, log *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, log: log}
}

type RecordPaymentRequest struct {
	Amount json.RawMessage `json:"amount" binding:"required"` // number or decimal string
	PaidOn string          `json:"paidOn" binding:"required"` // YYYY-MM-DD
}

type PaymentReceiptResponse struct {
	Payment       PaymentResponse `json:"payment"`
	PaymentStatus StatusResponse  `json:"paymentStatus"`
}

// RecordPayment godoc
// @Summary Record a payment
// @Description Stores a payment and attributes it to the billing cycle containing paidOn.
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Param payment body RecordPaymentRequest true "Payment"
// @Success 201 {object} PaymentReceiptResponse
// @Failure 400 {object} gin.H "Invalid amount or date"
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{clientId}/payments [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to record payment.")
		return
	}
	paidOn, err := calendar.ParseDate(req.PaidOn)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to record payment.")
		return
	}

	receipt, err := h.paymentService.RecordPayment(c.Request.Context(), userID, clientID, amount, paidOn)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to record payment.")
		return
	}
	c.JSON(http.StatusCreated, PaymentReceiptResponse{
		Payment:       MapPaymentToResponse(&receipt.Payment),
		PaymentStatus: MapStatusToResponse(&receipt.Status),
	})
}

// ListPayments godoc
// @Summary List a client's payments, newest first
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {array} PaymentResponse
// @Router /clients/{clientId}/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}
	payments, err := h.paymentService.ListPayments(c.Request.Context(), userID, clientID)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to retrieve payments.")
		return
	}
	c.JSON(http.StatusOK, MapPaymentsToResponse(payments))
}

// DeletePayment godoc
// @Summary Delete a payment
// @Tags Payments
// @Security BearerAuth
// @Param paymentId path string true "Payment ID"
// @Success 204 "No Content"
// @Router /payments/{paymentId} [delete]
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	paymentID, ok := pathID(c, "paymentId")
	if !ok {
		return
	}
	if err := h.paymentService.DeletePayment(c.Request.Context(), userID, paymentID); err != nil {
		respondWithError(c, h.log, err, "Failed to delete payment.")
		return
	}
	c.Status(http.StatusNoContent)
}
