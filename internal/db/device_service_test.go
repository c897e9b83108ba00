package db

import (
	"errors"
	"testing"
	"time"

	"github.com/colinswan/sentinel/internal/events"
	"github.com/colinswan/sentinel/internal/models"
)

func TestHeartbeat(t *testing.T) {
	setupTestDB(t)
	_, device := newAccountAndPrimary(t)

	// Backdate, heartbeat, and confirm only the timestamp moved.
	stale := time.Now().Add(-time.Hour)
	if err := DB.Model(&models.Device{}).Where("id = ?", device.ID).
		Update("last_heartbeat", stale).Error; err != nil {
		t.Fatalf("backdating: %v", err)
	}

	if err := Heartbeat(device.ID); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}

	fresh, _ := GetDevice(device.ID)
	if time.Since(fresh.LastHeartbeat) > time.Minute {
		t.Errorf("heartbeat not updated: %s", fresh.LastHeartbeat)
	}
	if fresh.Status != models.StatusUnlocked {
		t.Errorf("heartbeat changed status to %q", fresh.Status)
	}

	if err := Heartbeat("no-such-device"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// The heartbeat event must name its account so the stream filter can keep
// it from other accounts' subscribers.
func TestHeartbeatEventCarriesAccount(t *testing.T) {
	setupTestDB(t)
	account, device := newAccountAndPrimary(t)

	ch, cancel := events.Default.Subscribe()
	defer cancel()

	if err := Heartbeat(device.ID); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}

	select {
	case event := <-ch:
		if event.Type != events.TypeDeviceHeartbeat {
			t.Fatalf("event type = %q", event.Type)
		}
		if event.AccountID != account.ID {
			t.Errorf("event account = %q, want %q", event.AccountID, account.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("no heartbeat event published")
	}
}

func TestGetLockInfoJoins(t *testing.T) {
	setupTestDB(t)
	account, device := newAccountAndPrimary(t)

	if _, err := StartSession(account.ID, device.ID, "review PRs", nil, nil); err != nil {
		t.Fatalf("starting session: %v", err)
	}
	if _, err := Lock(device.ID, "Move it", true); err != nil {
		t.Fatalf("locking: %v", err)
	}
	if _, err := SetMeetingMode(account.ID, 10*time.Minute); err != nil {
		t.Fatalf("meeting mode: %v", err)
	}

	info, err := GetLockInfo(device.ID)
	if err != nil {
		t.Fatalf("lock info: %v", err)
	}
	if info.Status != models.StatusLocked {
		t.Errorf("status = %q", info.Status)
	}
	if info.LockMessage == nil || *info.LockMessage != "Move it" {
		t.Errorf("lock message = %v", info.LockMessage)
	}
	if info.SessionTask != "review PRs" {
		t.Errorf("session task = %q", info.SessionTask)
	}
	if info.MeetingModeRemaining <= 0 || info.MeetingModeRemaining > 600 {
		t.Errorf("meeting remaining = %d", info.MeetingModeRemaining)
	}
}

func TestListDevicesByAccount(t *testing.T) {
	setupTestDB(t)
	account, primary := newAccountAndPrimary(t)
	if _, err := CreateDevice(account.ID, "Phone", models.DeviceKindSecondary); err != nil {
		t.Fatalf("creating secondary: %v", err)
	}

	devices, err := ListDevicesByAccount(account.ID)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(devices))
	}
	if devices[0].ID != primary.ID {
		t.Error("primary should sort first")
	}
}

func TestCreateDeviceRejectsUnknownKind(t *testing.T) {
	setupTestDB(t)
	account, _ := newAccountAndPrimary(t)

	if _, err := CreateDevice(account.ID, "Toaster", "appliance"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if _, err := CreateDevice("ghost-account", "Desktop", models.DeviceKindPrimary); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
