package services

import (
	"fmt"
	"log"

	"pieats/internal/auth"
	"pieats/internal/models"
	"pieats/internal/pinetwork"
)

// AuthService verifies wallet access tokens with the Pi platform and turns
// them into local sessions.
type AuthService struct {
	users    *UserService
	payments *PaymentService
	platform *pinetwork.Client
}

// NewAuthService creates a new AuthService
func NewAuthService(users *UserService, payments *PaymentService, platform *pinetwork.Client) *AuthService {
	return &AuthService{
		users:    users,
		payments: payments,
		platform: platform,
	}
}

// LoginResult is a verified user plus their session token.
type LoginResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Login verifies the wallet access token, upserts the user and issues a JWT.
// incompletePaymentID, when the wallet SDK reported one at authentication
// time, is resolved best-effort; a resolution failure does not block login.
func (s *AuthService) Login(accessToken, incompletePaymentID string) (*LoginResult, error) {
	identity, err := s.platform.Me(accessToken)
	if err != nil {
		return nil, fmt.Errorf("wallet verification failed: %w", err)
	}

	user, err := s.users.SaveOrUpdateUser(identity.UID, identity.Username)
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(user.UID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	if incompletePaymentID != "" {
		if err := s.payments.ResolveIncompletePayment(incompletePaymentID); err != nil {
			log.Printf("Warning: failed to resolve incomplete payment %s for %s: %v",
				incompletePaymentID, user.UID, err)
		}
	}

	log.Printf("User logged in: uid=%s username=%s", user.UID, user.Username)
	return &LoginResult{User: user, Token: token}, nil
}
