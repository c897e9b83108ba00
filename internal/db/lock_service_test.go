package db

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/colinswan/sentinel/internal/models"
)

func TestLockAndNormalUnlock(t *testing.T) {
	setupTestDB(t)
	account, device := newAccountAndPrimary(t)

	if device.Status != models.StatusUnlocked {
		t.Fatalf("fresh device status = %q, want unlocked", device.Status)
	}

	session, err := StartSession(account.ID, device.ID, "write report", nil, nil)
	if err != nil {
		t.Fatalf("starting session: %v", err)
	}

	result, err := Lock(device.ID, "", false)
	if err != nil {
		t.Fatalf("locking: %v", err)
	}
	if !result.Locked {
		t.Fatalf("lock refused: %+v", result)
	}
	if result.Message != FallbackLockMessage {
		t.Errorf("empty library should fall back, got %q", result.Message)
	}

	locked, err := GetDevice(device.ID)
	if err != nil {
		t.Fatalf("loading device: %v", err)
	}
	if locked.Status != models.StatusLocked {
		t.Errorf("status = %q, want locked", locked.Status)
	}
	if locked.CurrentSessionID == nil || *locked.CurrentSessionID != session.ID {
		t.Error("lock must not touch the open session reference")
	}

	note := "Finished the draft and stretched my legs."
	unlocked, err := Unlock(device.ID, note, "Good work today.")
	if err != nil {
		t.Fatalf("unlocking: %v", err)
	}
	if unlocked.Status != models.StatusUnlocked {
		t.Errorf("status = %q, want unlocked", unlocked.Status)
	}
	if unlocked.CurrentSessionID != nil {
		t.Error("session reference not cleared on unlock")
	}
	if unlocked.LockMessage != nil {
		t.Error("lock message not cleared on unlock")
	}

	closed, err := GetSession(session.ID)
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	if closed.EndedAt == nil {
		t.Fatal("session not ended by unlock")
	}
	if !closed.DidUnlockProperly {
		t.Error("normal unlock must mark the session properly ended")
	}
	if closed.UserNotes != note {
		t.Errorf("user notes = %q, want %q", closed.UserNotes, note)
	}
	if closed.AIFeedback != "Good work today." {
		t.Errorf("ai feedback = %q", closed.AIFeedback)
	}
}

func TestLockRefusedDuringMeetingMode(t *testing.T) {
	setupTestDB(t)
	account, device := newAccountAndPrimary(t)

	if _, err := SetMeetingMode(account.ID, time.Hour); err != nil {
		t.Fatalf("setting meeting mode: %v", err)
	}

	result, err := Lock(device.ID, "", false)
	if err != nil {
		t.Fatalf("locking: %v", err)
	}
	if result.Locked {
		t.Fatal("lock went through during meeting mode")
	}
	if result.Refusal != RefusalMeetingMode {
		t.Errorf("refusal = %q, want %q", result.Refusal, RefusalMeetingMode)
	}
	if result.MeetingModeUntil == nil {
		t.Error("refusal must carry the expiry so the caller can resume")
	}

	unchanged, _ := GetDevice(device.ID)
	if unchanged.Status != models.StatusUnlocked {
		t.Errorf("refused lock changed status to %q", unchanged.Status)
	}

	// Force overrides the guard.
	forced, err := Lock(device.ID, "", true)
	if err != nil {
		t.Fatalf("force locking: %v", err)
	}
	if !forced.Locked {
		t.Error("force lock refused")
	}
}

func TestLockAfterMeetingModeLapses(t *testing.T) {
	setupTestDB(t)
	account, device := newAccountAndPrimary(t)

	// A lapsed window is checked lazily at lock time; no sweeper clears it.
	past := time.Now().Add(-time.Minute)
	err := DB.Model(&models.Account{}).Where("id = ?", account.ID).
		Update("meeting_mode_until", past).Error
	if err != nil {
		t.Fatalf("backdating meeting mode: %v", err)
	}

	result, err := Lock(device.ID, "", false)
	if err != nil {
		t.Fatalf("locking: %v", err)
	}
	if !result.Locked {
		t.Errorf("lock refused after meeting mode lapsed: %+v", result)
	}
}

func TestLockMessageSelection(t *testing.T) {
	setupTestDB(t)
	account, device := newAccountAndPrimary(t)

	// Caller-supplied message wins.
	result, err := Lock(device.ID, "Go touch grass", false)
	if err != nil {
		t.Fatalf("locking: %v", err)
	}
	if result.Message != "Go touch grass" {
		t.Errorf("message = %q, want caller's", result.Message)
	}
	if _, err := Unlock(device.ID, "", ""); err != nil {
		t.Fatalf("unlocking: %v", err)
	}

	// Otherwise a random active library entry.
	if _, err := AddLockMessage(account.ID, "Library message"); err != nil {
		t.Fatalf("adding message: %v", err)
	}
	inactive, err := AddLockMessage(account.ID, "Inactive message")
	if err != nil {
		t.Fatalf("adding message: %v", err)
	}
	if err := SetLockMessageActive(inactive.ID, false); err != nil {
		t.Fatalf("deactivating: %v", err)
	}

	for i := 0; i < 5; i++ {
		result, err = Lock(device.ID, "", false)
		if err != nil {
			t.Fatalf("locking: %v", err)
		}
		if result.Message != "Library message" {
			t.Errorf("message = %q, want the one active library entry", result.Message)
		}
		if _, err := Unlock(device.ID, "", ""); err != nil {
			t.Fatalf("unlocking: %v", err)
		}
	}
}

func TestEmergencyUnlock(t *testing.T) {
	setupTestDB(t)
	account, device := newAccountAndPrimary(t)

	session, err := StartSession(account.ID, device.ID, "deep work", nil, nil)
	if err != nil {
		t.Fatalf("starting session: %v", err)
	}
	if _, err := Lock(device.ID, "", false); err != nil {
		t.Fatalf("locking: %v", err)
	}

	unlocked, err := EmergencyUnlock(device.ID, "phone battery died")
	if err != nil {
		t.Fatalf("emergency unlocking: %v", err)
	}
	if unlocked.Status != models.StatusUnlocked {
		t.Errorf("status = %q, want unlocked", unlocked.Status)
	}
	if unlocked.CurrentSessionID != nil {
		t.Error("session reference not cleared")
	}

	closed, err := GetSession(session.ID)
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	if closed.EndedAt == nil {
		t.Fatal("session not closed")
	}
	if closed.DidUnlockProperly {
		t.Error("emergency unlock must mark the session improperly ended")
	}
	if !strings.Contains(closed.UserNotes, "phone battery died") {
		t.Errorf("bypass reason not recorded in note: %q", closed.UserNotes)
	}

	records, err := ListEmergencyUnlocks(account.ID)
	if err != nil {
		t.Fatalf("listing audit log: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("audit log has %d records, want exactly 1", len(records))
	}
	if records[0].Reason != "phone battery died" {
		t.Errorf("audit reason = %q", records[0].Reason)
	}
	if records[0].DeviceID != device.ID || records[0].AccountID != account.ID {
		t.Error("audit record ids wrong")
	}
}

func TestEmergencyUnlockWithoutSessionStillAudits(t *testing.T) {
	setupTestDB(t)
	account, device := newAccountAndPrimary(t)

	if _, err := EmergencyUnlock(device.ID, "testing escape hatch"); err != nil {
		t.Fatalf("emergency unlocking: %v", err)
	}

	records, err := ListEmergencyUnlocks(account.ID)
	if err != nil {
		t.Fatalf("listing audit log: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("audit log has %d records, want 1", len(records))
	}
}

func TestUnlockUnknownDevice(t *testing.T) {
	setupTestDB(t)

	if _, err := Unlock("no-such-device", "", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := EmergencyUnlock("no-such-device", "reason"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := Lock("no-such-device", "", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUnlockIsIdempotentOnUnlockedDevice(t *testing.T) {
	setupTestDB(t)
	_, device := newAccountAndPrimary(t)

	unlocked, err := Unlock(device.ID, "", "")
	if err != nil {
		t.Fatalf("unlocking an unlocked device: %v", err)
	}
	if unlocked.Status != models.StatusUnlocked {
		t.Errorf("status = %q", unlocked.Status)
	}
}
