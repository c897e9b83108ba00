package db

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/colinswan/sentinel/internal/events"
	"github.com/colinswan/sentinel/internal/models"
)

// FallbackLockMessage is shown when the account's message library has no
// active entries and the caller supplied none.
const FallbackLockMessage = "Time to move. Scan a checkpoint to unlock."

// RefusalMeetingMode identifies the guarded-transition result.
const RefusalMeetingMode = "meeting_mode_active"

// LockResult reports the outcome of a lock attempt. A refused lock is not
// an error: the caller resumes its local timer and tries again later.
type LockResult struct {
	Locked           bool       `json:"locked"`
	Refusal          string     `json:"refusal,omitempty"`
	MeetingModeUntil *time.Time `json:"meeting_mode_until,omitempty"`
	Message          string     `json:"message,omitempty"`
}

// Lock transitions a device to locked. Unless force is set, an active
// meeting-mode window refuses the transition. The open session, if any, is
// left untouched; it closes at unlock time.
func Lock(deviceID, message string, force bool) (*LockResult, error) {
	device, err := GetDevice(deviceID)
	if err != nil {
		return nil, err
	}
	account, err := GetAccount(device.AccountID)
	if err != nil {
		return nil, err
	}

	if !force && account.MeetingModeActive(time.Now()) {
		return &LockResult{
			Refusal:          RefusalMeetingMode,
			MeetingModeUntil: account.MeetingModeUntil,
		}, nil
	}

	if message == "" {
		message = pickLockMessage(account.ID)
	}

	err = DB.Model(device).Updates(map[string]interface{}{
		"status":         models.StatusLocked,
		"lock_message":   message,
		"last_heartbeat": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}

	events.Default.Publish(events.Event{
		Type:      events.TypeDeviceLocked,
		AccountID: device.AccountID,
		DeviceID:  device.ID,
		Status:    models.StatusLocked,
	})

	return &LockResult{Locked: true, Message: message}, nil
}

// pickLockMessage draws a uniform-random active entry from the account's
// message library, falling back to the hardcoded default.
func pickLockMessage(accountID string) string {
	var msgs []models.LockMessage
	err := DB.Where("account_id = ? AND active = ?", accountID, true).Find(&msgs).Error
	if err != nil || len(msgs) == 0 {
		return FallbackLockMessage
	}
	return msgs[rand.Intn(len(msgs))].Text
}

// Unlock is the normal path, reached after the accountability flow on the
// secondary device. It closes the open session as properly ended and
// clears the lock.
func Unlock(deviceID, note, aiFeedback string) (*models.Device, error) {
	device, err := GetDevice(deviceID)
	if err != nil {
		return nil, err
	}

	if device.CurrentSessionID != nil {
		if err := closeSession(*device.CurrentSessionID, true, note, aiFeedback); err != nil {
			return nil, err
		}
	}

	return clearLock(device)
}

// EmergencyUnlock bypasses the accountability flow. The open session, if
// any, closes as improperly ended, and an audit record is always appended.
// There is intentionally no guard: this is the fallback when the normal
// path is unavailable.
func EmergencyUnlock(deviceID, reason string) (*models.Device, error) {
	device, err := GetDevice(deviceID)
	if err != nil {
		return nil, err
	}

	if device.CurrentSessionID != nil {
		note := fmt.Sprintf("Emergency unlock: %s", reason)
		if err := closeSession(*device.CurrentSessionID, false, note, ""); err != nil {
			return nil, err
		}
	}

	audit := models.EmergencyUnlock{
		AccountID: device.AccountID,
		DeviceID:  device.ID,
		Reason:    reason,
	}
	if err := DB.Create(&audit).Error; err != nil {
		return nil, err
	}

	return clearLock(device)
}

// clearLock sets status=unlocked and drops the session reference and lock
// message, regardless of prior state.
func clearLock(device *models.Device) (*models.Device, error) {
	err := DB.Model(device).Updates(map[string]interface{}{
		"status":             models.StatusUnlocked,
		"current_session_id": nil,
		"lock_message":       nil,
	}).Error
	if err != nil {
		return nil, err
	}

	events.Default.Publish(events.Event{
		Type:      events.TypeDeviceUnlocked,
		AccountID: device.AccountID,
		DeviceID:  device.ID,
		Status:    models.StatusUnlocked,
	})

	return GetDevice(device.ID)
}

// ListEmergencyUnlocks returns the audit log for an account, newest first.
func ListEmergencyUnlocks(accountID string) ([]models.EmergencyUnlock, error) {
	var records []models.EmergencyUnlock
	err := DB.Where("account_id = ?", accountID).Order("id DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
