package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pieats/internal/models"
	"pieats/internal/pinetwork"
)

var (
	// ErrPaymentCooldown signals the 24-hour scoring eligibility window.
	ErrPaymentCooldown = errors.New("only one payment is allowed every 24 hours")
	// ErrPaymentNotFound signals a lifecycle callback for a vanished record.
	ErrPaymentNotFound = errors.New("payment record not found")
)

var (
	restaurantShare = decimal.NewFromFloat(0.95)
	paymentCooldown = 24 * time.Hour
)

// PaymentService splits incoming payments 95/5 between the restaurant's
// balance and the shared reward pool, and drives the record through the
// externally-triggered lifecycle: pending -> completed | failed.
type PaymentService struct {
	db       *gorm.DB
	actions  *ActionService
	scores   *ScoreService
	platform *pinetwork.Client
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(db *gorm.DB, actions *ActionService, scores *ScoreService, platform *pinetwork.Client) *PaymentService {
	return &PaymentService{
		db:       db,
		actions:  actions,
		scores:   scores,
		platform: platform,
	}
}

// InitiatePayment checks the cooldown gate, fixes the split amounts and
// persists a pending record before the wallet SDK lifecycle starts.
func (s *PaymentService) InitiatePayment(uid, restaurantID string, amount decimal.Decimal) (*models.PaymentRecord, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, fmt.Errorf("invalid uid: must be a non-empty string")
	}
	if strings.TrimSpace(restaurantID) == "" {
		return nil, fmt.Errorf("invalid restaurant id: must be a non-empty string")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive, got %s", amount)
	}

	if s.actions.HasPaidWithinWindow(uid, paymentCooldown) {
		return nil, ErrPaymentCooldown
	}

	// The remainder goes to the pool so the two shares always sum to the
	// gross amount exactly.
	restaurantAmount := amount.Mul(restaurantShare)
	poolAmount := amount.Sub(restaurantAmount)

	record := models.PaymentRecord{
		ID:               uuid.NewString(),
		UserID:           uid,
		RestaurantID:     restaurantID,
		Amount:           amount,
		RestaurantAmount: restaurantAmount,
		PoolAmount:       poolAmount,
		Status:           models.PaymentPending,
		CreatedAt:        time.Now(),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}

	log.Printf("Payment initiated: record=%s user=%s restaurant=%s amount=%s (restaurant=%s, pool=%s)",
		record.ID, uid, restaurantID, amount, restaurantAmount, poolAmount)

	return &record, nil
}

// ApprovePayment handles onReadyForServerApproval: stamp the external payment
// identifier and approve it with the platform.
func (s *PaymentService) ApprovePayment(recordID, paymentID string) error {
	record, err := s.getRecord(recordID)
	if err != nil {
		return err
	}
	if record.Status != models.PaymentPending {
		return fmt.Errorf("payment %s is %s, cannot approve", recordID, record.Status)
	}

	if err := s.db.Model(&models.PaymentRecord{}).
		Where("id = ?", recordID).
		Update("payment_id", paymentID).Error; err != nil {
		return fmt.Errorf("failed to attach payment id: %w", err)
	}

	if err := s.platform.ApprovePayment(paymentID); err != nil && !errors.Is(err, pinetwork.ErrNotConfigured) {
		return fmt.Errorf("platform approval failed: %w", err)
	}

	return nil
}

// CompletePayment handles onReadyForServerCompletion: mark the record
// completed and credit both shares, then score the payment action.
// Retrying a completed record is a no-op, so a caller may safely re-drive
// the lifecycle after a partial failure.
func (s *PaymentService) CompletePayment(recordID, paymentID, txid string) error {
	record, err := s.getRecord(recordID)
	if err != nil {
		return err
	}

	switch record.Status {
	case models.PaymentCompleted:
		return nil
	case models.PaymentFailed:
		return fmt.Errorf("payment %s already failed, cannot complete", recordID)
	}

	if err := s.platform.CompletePayment(paymentID, txid); err != nil && !errors.Is(err, pinetwork.ErrNotConfigured) {
		return fmt.Errorf("platform completion failed: %w", err)
	}

	now := time.Now()
	won := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PaymentRecord{}).
			Where("id = ? AND status = ?", recordID, models.PaymentPending).
			Updates(map[string]interface{}{
				"payment_id":   paymentID,
				"tx_id":        txid,
				"status":       models.PaymentCompleted,
				"completed_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to mark payment completed: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// A concurrent completion got there first; its call carries
			// the credits and the scoring.
			return nil
		}
		won = true

		credit := tx.Model(&models.Restaurant{}).
			Where("id = ?", record.RestaurantID).
			Updates(map[string]interface{}{
				"balance":    gorm.Expr("balance + ?", record.RestaurantAmount),
				"updated_at": now,
			})
		if credit.Error != nil {
			return fmt.Errorf("failed to credit restaurant balance: %w", credit.Error)
		}

		return s.scores.creditPool(tx, record.PoolAmount)
	})
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	if _, err := s.actions.RecordAndScore(record.UserID, record.RestaurantID, models.ActionPayment, models.ActionPayment.Points()); err != nil {
		return fmt.Errorf("payment completed but scoring failed: %w", err)
	}
	log.Printf("Payment completed: record=%s payment=%s txid=%s", recordID, paymentID, txid)

	return nil
}

// FailPayment handles onCancel and onError: terminal failure with no
// financial mutation. Failing an already-failed record is a no-op; a
// completed record never transitions out.
func (s *PaymentService) FailPayment(recordID string) error {
	record, err := s.getRecord(recordID)
	if err != nil {
		return err
	}

	switch record.Status {
	case models.PaymentFailed:
		return nil
	case models.PaymentCompleted:
		return fmt.Errorf("payment %s already completed, cannot fail", recordID)
	}

	res := s.db.Model(&models.PaymentRecord{}).
		Where("id = ? AND status = ?", recordID, models.PaymentPending).
		Update("status", models.PaymentFailed)
	if res.Error != nil {
		return fmt.Errorf("failed to mark payment failed: %w", res.Error)
	}

	// Best effort: tell the platform to cancel once the local record is
	// terminal. The local state wins either way.
	if record.PaymentID != "" {
		if err := s.platform.CancelPayment(record.PaymentID); err != nil && !errors.Is(err, pinetwork.ErrNotConfigured) {
			log.Printf("Platform cancel failed for payment %s: %v", record.PaymentID, err)
		}
	}

	log.Printf("Payment failed: record=%s", recordID)
	return nil
}

// ResolveIncompletePayment finishes a payment the wallet SDK reported as
// unresolved at login: completed on-chain means finish the accounting,
// anything else means fail the record.
func (s *PaymentService) ResolveIncompletePayment(paymentID string) error {
	var record models.PaymentRecord
	err := s.db.Where("payment_id = ?", paymentID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPaymentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load payment record: %w", err)
	}
	if record.Status != models.PaymentPending {
		return nil
	}

	payment, err := s.platform.GetPayment(paymentID)
	if err != nil {
		return fmt.Errorf("failed to look up payment %s: %w", paymentID, err)
	}

	if payment.Transaction != nil && payment.Transaction.Verified {
		return s.CompletePayment(record.ID, paymentID, payment.Transaction.TxID)
	}
	return s.FailPayment(record.ID)
}

// GetUserPayments returns a user's payment history, newest first.
func (s *PaymentService) GetUserPayments(uid string) ([]models.PaymentRecord, error) {
	var payments []models.PaymentRecord
	if err := s.db.Where("user_id = ?", uid).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	return payments, nil
}

func (s *PaymentService) getRecord(recordID string) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := s.db.Where("id = ?", recordID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment record: %w", err)
	}
	return &record, nil
}
