package services

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"pieats/internal/storage"
)

func TestSaveOrUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db, nil)

	user, err := users.SaveOrUpdateUser("uid-1", "alice")
	if err != nil {
		t.Fatalf("SaveOrUpdateUser failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username: expected alice, got %s", user.Username)
	}
	if !user.PiBalance.IsZero() {
		t.Errorf("new user balance: expected 0, got %s", user.PiBalance)
	}
	firstLogin := user.LastLoginAt

	// Second login refreshes the wallet-side username and the login time.
	user, err = users.SaveOrUpdateUser("uid-1", "alice_renamed")
	if err != nil {
		t.Fatalf("SaveOrUpdateUser failed: %v", err)
	}
	if user.Username != "alice_renamed" {
		t.Errorf("username: expected alice_renamed, got %s", user.Username)
	}
	if user.LastLoginAt.Before(firstLogin) {
		t.Error("last login time must not move backwards")
	}

	if _, err := users.SaveOrUpdateUser("", "alice"); err == nil {
		t.Error("empty uid must be rejected")
	}
	if _, err := users.SaveOrUpdateUser("uid-1", "  "); err == nil {
		t.Error("blank username must be rejected")
	}
}

func TestGetUserUnknown(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db, nil)

	user, err := users.GetUser("nobody")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil for unknown uid, got %+v", user)
	}
}

func TestCreditPiBalance(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db, nil)

	if _, err := users.SaveOrUpdateUser("uid-1", "alice"); err != nil {
		t.Fatalf("SaveOrUpdateUser failed: %v", err)
	}

	if err := users.CreditPiBalance("uid-1", decimal.NewFromFloat(2.5)); err != nil {
		t.Fatalf("CreditPiBalance failed: %v", err)
	}
	if err := users.CreditPiBalance("uid-1", decimal.NewFromFloat(1.5)); err != nil {
		t.Fatalf("CreditPiBalance failed: %v", err)
	}

	user, err := users.GetUser("uid-1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if !user.PiBalance.Equal(decimal.NewFromInt(4)) {
		t.Errorf("balance: expected 4, got %s", user.PiBalance)
	}

	if err := users.CreditPiBalance("uid-1", decimal.Zero); err == nil {
		t.Error("zero credit must be rejected")
	}
	if err := users.CreditPiBalance("uid-1", decimal.NewFromInt(-1)); err == nil {
		t.Error("negative credit must be rejected")
	}
	if err := users.CreditPiBalance("nobody", decimal.NewFromInt(1)); err == nil {
		t.Error("crediting an unknown user must error")
	}
}

func TestUploadAvatar(t *testing.T) {
	db := setupTestDB(t)
	blobs, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	users := NewUserService(db, blobs)

	if _, err := users.SaveOrUpdateUser("uid-1", "alice"); err != nil {
		t.Fatalf("SaveOrUpdateUser failed: %v", err)
	}

	url, err := users.UploadAvatar("uid-1", "face.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("UploadAvatar failed: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/avatars/uid-1/") {
		t.Errorf("unexpected avatar url: %s", url)
	}

	user, err := users.GetUser("uid-1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.AvatarURL != url {
		t.Errorf("avatar url not recorded: expected %s, got %s", url, user.AvatarURL)
	}

	if _, err := users.UploadAvatar("nobody", "face.png", strings.NewReader("x")); err == nil {
		t.Error("uploading for an unknown user must error")
	}
}
