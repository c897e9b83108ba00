package db

import (
	"errors"
	"testing"
	"time"

	"github.com/colinswan/sentinel/internal/models"
)

func TestGeneratePairingCode(t *testing.T) {
	setupTestDB(t)
	_, device := newAccountAndPrimary(t)

	code, expiry, err := GeneratePairingCode(device.ID)
	if err != nil {
		t.Fatalf("generating code: %v", err)
	}
	if len(code) != 6 {
		t.Errorf("expected 6-digit code, got %q", code)
	}
	if code < "100000" || code > "999999" {
		t.Errorf("code %q outside numeric space", code)
	}
	if until := time.Until(expiry); until < 4*time.Minute || until > 5*time.Minute+time.Second {
		t.Errorf("expected ~5 minute TTL, got %s", until)
	}

	// Regeneration overwrites the single slot.
	second, _, err := GeneratePairingCode(device.ID)
	if err != nil {
		t.Fatalf("regenerating code: %v", err)
	}
	got, _, err := GetPairingCode(device.ID)
	if err != nil {
		t.Fatalf("reading code: %v", err)
	}
	if got != second {
		t.Errorf("expected stored code %q, got %q", second, got)
	}
}

func TestGeneratePairingCodeRejectsSecondary(t *testing.T) {
	setupTestDB(t)
	account, _ := newAccountAndPrimary(t)
	secondary, err := CreateDevice(account.ID, "Phone", models.DeviceKindSecondary)
	if err != nil {
		t.Fatalf("creating secondary: %v", err)
	}

	if _, _, err := GeneratePairingCode(secondary.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestGetPairingCodeTreatsExpiredAsAbsent(t *testing.T) {
	setupTestDB(t)
	_, device := newAccountAndPrimary(t)

	code, _, err := GeneratePairingCode(device.ID)
	if err != nil {
		t.Fatalf("generating code: %v", err)
	}

	// Push the expiry into the past; lazy expiry means the row keeps the
	// code but reads must report it absent.
	past := time.Now().Add(-time.Second)
	err = DB.Model(&models.Device{}).Where("id = ?", device.ID).
		Update("pairing_code_expiry", past).Error
	if err != nil {
		t.Fatalf("backdating expiry: %v", err)
	}

	if _, _, err := GetPairingCode(device.ID); !errors.Is(err, ErrCodeExpired) {
		t.Errorf("expected ErrCodeExpired, got %v", err)
	}

	valid, err := ValidatePairingCode(code)
	if err != nil {
		t.Fatalf("validating: %v", err)
	}
	if valid {
		t.Error("expired code validated as valid")
	}

	if _, err := ClaimPairingCode(code, "Phone"); !errors.Is(err, ErrCodeExpired) {
		t.Errorf("expected ErrCodeExpired on claim, got %v", err)
	}
}

func TestValidatePairingCodeDoesNotConsume(t *testing.T) {
	setupTestDB(t)
	_, device := newAccountAndPrimary(t)

	code, _, err := GeneratePairingCode(device.ID)
	if err != nil {
		t.Fatalf("generating code: %v", err)
	}

	for i := 0; i < 3; i++ {
		valid, err := ValidatePairingCode(code)
		if err != nil {
			t.Fatalf("validating: %v", err)
		}
		if !valid {
			t.Fatalf("live code reported invalid on read %d", i)
		}
	}

	if valid, _ := ValidatePairingCode("000000"); valid {
		t.Error("unknown code validated as valid")
	}
}

func TestClaimPairingCode(t *testing.T) {
	setupTestDB(t)
	account, device := newAccountAndPrimary(t)

	code, _, err := GeneratePairingCode(device.ID)
	if err != nil {
		t.Fatalf("generating code: %v", err)
	}

	result, err := ClaimPairingCode(code, "My Phone")
	if err != nil {
		t.Fatalf("claiming: %v", err)
	}
	if result.AccountID != account.ID {
		t.Errorf("claim bound to account %q, want %q", result.AccountID, account.ID)
	}
	if result.PrimaryDeviceID != device.ID {
		t.Errorf("claim reports primary %q, want %q", result.PrimaryDeviceID, device.ID)
	}

	secondary, err := GetDevice(result.SecondaryDeviceID)
	if err != nil {
		t.Fatalf("loading secondary: %v", err)
	}
	if secondary.Kind != models.DeviceKindSecondary {
		t.Errorf("secondary kind = %q", secondary.Kind)
	}
	if secondary.AccountID != account.ID {
		t.Errorf("secondary bound to account %q", secondary.AccountID)
	}
	if secondary.Status != models.StatusUnlocked {
		t.Errorf("fresh device status = %q, want unlocked", secondary.Status)
	}

	// Single use: the slot is cleared and a second claim fails.
	if _, _, err := GetPairingCode(device.ID); !errors.Is(err, ErrCodeExpired) {
		t.Errorf("expected no active code after claim, got %v", err)
	}
	if _, err := ClaimPairingCode(code, "Another Phone"); !errors.Is(err, ErrCodeExpired) {
		t.Errorf("expected second claim to fail, got %v", err)
	}
}

func TestSetupStatusAfterPairing(t *testing.T) {
	setupTestDB(t)
	account, device := newAccountAndPrimary(t)

	status, err := GetSetupStatus(account.ID)
	if err != nil {
		t.Fatalf("setup status: %v", err)
	}
	if !status.HasPrimary || status.HasSecondary || status.FullySetUp {
		t.Errorf("pre-pairing status = %+v", status)
	}

	code, _, err := GeneratePairingCode(device.ID)
	if err != nil {
		t.Fatalf("generating code: %v", err)
	}
	if _, err := ClaimPairingCode(code, "Phone"); err != nil {
		t.Fatalf("claiming: %v", err)
	}

	status, err = GetSetupStatus(account.ID)
	if err != nil {
		t.Fatalf("setup status: %v", err)
	}
	if !status.FullySetUp {
		t.Errorf("post-pairing status = %+v, want fully set up", status)
	}
}
