package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pieats/internal/models"
	"pieats/internal/storage"
)

// UserService manages user records keyed by Pi wallet UID.
type UserService struct {
	db    *gorm.DB
	blobs storage.Store
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB, blobs storage.Store) *UserService {
	return &UserService{db: db, blobs: blobs}
}

// SaveOrUpdateUser creates the user on first login, otherwise refreshes the
// username (it may have changed on the wallet side) and last-login time.
func (s *UserService) SaveOrUpdateUser(uid, username string) (*models.User, error) {
	cleanUID := strings.TrimSpace(uid)
	cleanUsername := strings.TrimSpace(username)

	if cleanUID == "" {
		return nil, fmt.Errorf("invalid uid: must be a non-empty string")
	}
	if cleanUsername == "" {
		return nil, fmt.Errorf("invalid username: must be a non-empty string")
	}

	now := time.Now()

	var user models.User
	err := s.db.Where("uid = ?", cleanUID).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			UID:         cleanUID,
			Username:    cleanUsername,
			PiBalance:   decimal.Zero,
			LastLoginAt: now,
			CreatedAt:   now,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		log.Printf("New user created: uid=%s username=%s", cleanUID, cleanUsername)
		return &user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&models.User{}).
		Where("uid = ?", cleanUID).
		Updates(map[string]interface{}{
			"username":      cleanUsername,
			"last_login_at": now,
		}).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	user.Username = cleanUsername
	user.LastLoginAt = now
	return &user, nil
}

// GetUser returns nil (no error) for an unknown uid.
func (s *UserService) GetUser(uid string) (*models.User, error) {
	var user models.User
	err := s.db.Where("uid = ?", uid).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// UploadAvatar stores the avatar blob and records its URL on the user.
func (s *UserService) UploadAvatar(uid, filename string, r io.Reader) (string, error) {
	if strings.TrimSpace(uid) == "" {
		return "", fmt.Errorf("invalid uid: must be a non-empty string")
	}

	key := fmt.Sprintf("avatars/%s/%d_%s", uid, time.Now().UnixMilli(), path.Base(filename))
	url, err := s.blobs.Save(key, r)
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	res := s.db.Model(&models.User{}).Where("uid = ?", uid).Update("avatar_url", url)
	if res.Error != nil {
		return "", fmt.Errorf("failed to update avatar: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", fmt.Errorf("user %s not found", uid)
	}

	return url, nil
}

// CreditPiBalance adds tip income to the user's Pi balance. Shared counter,
// so atomic increment only.
func (s *UserService) CreditPiBalance(uid string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("credit amount must be positive, got %s", amount)
	}

	res := s.db.Model(&models.User{}).
		Where("uid = ?", uid).
		Update("pi_balance", gorm.Expr("pi_balance + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to credit pi balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s not found", uid)
	}
	return nil
}
