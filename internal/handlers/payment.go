package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"pieats/internal/auth"
	"pieats/internal/services"
)

// PaymentHandler handles payment lifecycle endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// InitiatePayment creates a pending payment record for the wallet SDK flow
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	uid, exists := auth.GetUID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req struct {
		RestaurantID string          `json:"restaurant_id" binding:"required"`
		Amount       decimal.Decimal `json:"amount" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	record, err := h.paymentService.InitiatePayment(uid, req.RestaurantID, req.Amount)
	if errors.Is(err, services.ErrPaymentCooldown) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "You can only make one payment every 24 hours",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment": record,
	})
}

// ApprovePayment handles the onReadyForServerApproval callback
func (h *PaymentHandler) ApprovePayment(c *gin.Context) {
	var req struct {
		PaymentID string `json:"payment_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if err := h.paymentService.ApprovePayment(c.Param("id"), req.PaymentID); err != nil {
		h.writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment approved",
	})
}

// CompletePayment handles the onReadyForServerCompletion callback
func (h *PaymentHandler) CompletePayment(c *gin.Context) {
	var req struct {
		PaymentID string `json:"payment_id" binding:"required"`
		TxID      string `json:"txid" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if err := h.paymentService.CompletePayment(c.Param("id"), req.PaymentID, req.TxID); err != nil {
		h.writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment completed",
	})
}

// CancelPayment handles the onCancel and onError callbacks
func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	if err := h.paymentService.FailPayment(c.Param("id")); err != nil {
		h.writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment cancelled",
	})
}

// GetUserPayments returns the current user's payment history
func (h *PaymentHandler) GetUserPayments(c *gin.Context) {
	uid, exists := auth.GetUID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	payments, err := h.paymentService.GetUserPayments(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve payments",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
	})
}

func (h *PaymentHandler) writeLifecycleError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrPaymentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Payment record not found",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": err.Error(),
	})
}
