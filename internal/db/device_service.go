package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/colinswan/sentinel/internal/events"
	"github.com/colinswan/sentinel/internal/models"
)

// CreateDevice registers a new device for an account. Fresh devices are
// always unlocked.
func CreateDevice(accountID, name, kind string) (*models.Device, error) {
	if _, err := GetAccount(accountID); err != nil {
		return nil, err
	}
	return CreateDeviceTx(DB, accountID, name, kind)
}

// CreateDeviceTx inserts a device using the given handle, so callers
// already inside a transaction (pairing claim) can join it.
func CreateDeviceTx(tx *gorm.DB, accountID, name, kind string) (*models.Device, error) {
	if kind != models.DeviceKindPrimary && kind != models.DeviceKindSecondary {
		return nil, fmt.Errorf("device kind %q: %w", kind, ErrInvalidState)
	}

	device := models.Device{
		ID:            uuid.NewString(),
		AccountID:     accountID,
		Name:          name,
		Kind:          kind,
		Status:        models.StatusUnlocked,
		LastHeartbeat: time.Now(),
	}

	if err := tx.Create(&device).Error; err != nil {
		return nil, err
	}

	return &device, nil
}

// GetDevice retrieves a device by id.
func GetDevice(deviceID string) (*models.Device, error) {
	var device models.Device
	if err := DB.First(&device, "id = ?", deviceID).Error; err != nil {
		return nil, fmt.Errorf("device %s: %w", deviceID, ErrNotFound)
	}
	return &device, nil
}

// Heartbeat updates the device's last-heartbeat timestamp. The primary app
// calls this every ~30s while running. Nothing infers liveness from its
// absence; there is deliberately no timeout-based auto-unlock.
func Heartbeat(deviceID string) error {
	device, err := GetDevice(deviceID)
	if err != nil {
		return err
	}
	if err := DB.Model(device).Update("last_heartbeat", time.Now()).Error; err != nil {
		return err
	}

	events.Default.Publish(events.Event{
		Type:      events.TypeDeviceHeartbeat,
		AccountID: device.AccountID,
		DeviceID:  deviceID,
	})
	return nil
}

// DeviceStatus is the read-only projection served to clients.
type DeviceStatus struct {
	DeviceID         string     `json:"device_id"`
	Name             string     `json:"name"`
	Kind             string     `json:"kind"`
	Status           string     `json:"status"`
	LastHeartbeat    time.Time  `json:"last_heartbeat"`
	CurrentSessionID *uint      `json:"current_session_id"`
	LockMessage      *string    `json:"lock_message"`
	MeetingModeUntil *time.Time `json:"meeting_mode_until"`
}

// GetDeviceStatus returns the device projection plus the account's
// meeting-mode expiry.
func GetDeviceStatus(deviceID string) (*DeviceStatus, error) {
	device, err := GetDevice(deviceID)
	if err != nil {
		return nil, err
	}
	account, err := GetAccount(device.AccountID)
	if err != nil {
		return nil, err
	}

	return &DeviceStatus{
		DeviceID:         device.ID,
		Name:             device.Name,
		Kind:             device.Kind,
		Status:           device.Status,
		LastHeartbeat:    device.LastHeartbeat,
		CurrentSessionID: device.CurrentSessionID,
		LockMessage:      device.LockMessage,
		MeetingModeUntil: account.MeetingModeUntil,
	}, nil
}

// LockInfo is the lock-screen projection: what to display while locked.
type LockInfo struct {
	DeviceID             string  `json:"device_id"`
	Status               string  `json:"status"`
	LockMessage          *string `json:"lock_message"`
	SessionTask          string  `json:"session_task"`
	MeetingModeRemaining int     `json:"meeting_mode_remaining_seconds"`
}

// GetLockInfo joins the open session's task label and the live
// meeting-mode countdown onto the device state.
func GetLockInfo(deviceID string) (*LockInfo, error) {
	device, err := GetDevice(deviceID)
	if err != nil {
		return nil, err
	}
	account, err := GetAccount(device.AccountID)
	if err != nil {
		return nil, err
	}

	info := &LockInfo{
		DeviceID:    device.ID,
		Status:      device.Status,
		LockMessage: device.LockMessage,
	}

	if device.CurrentSessionID != nil {
		var session models.Session
		if err := DB.First(&session, *device.CurrentSessionID).Error; err == nil {
			info.SessionTask = session.TaskDescription
		}
	}

	now := time.Now()
	if account.MeetingModeActive(now) {
		info.MeetingModeRemaining = int(account.MeetingModeUntil.Sub(now).Seconds())
	}

	return info, nil
}

// ListDevicesByAccount returns all devices for an account, primaries first.
func ListDevicesByAccount(accountID string) ([]models.Device, error) {
	var devices []models.Device
	err := DB.Where("account_id = ?", accountID).
		Order("kind ASC, created_at ASC").
		Find(&devices).Error
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// SetupStatus summarizes how far pairing has progressed.
type SetupStatus struct {
	HasPrimary   bool `json:"has_primary"`
	HasSecondary bool `json:"has_secondary"`
	FullySetUp   bool `json:"fully_set_up"`
}

// GetSetupStatus reports whether the account has both device kinds.
func GetSetupStatus(accountID string) (*SetupStatus, error) {
	devices, err := ListDevicesByAccount(accountID)
	if err != nil {
		return nil, err
	}

	var status SetupStatus
	for _, d := range devices {
		switch d.Kind {
		case models.DeviceKindPrimary:
			status.HasPrimary = true
		case models.DeviceKindSecondary:
			status.HasSecondary = true
		}
	}
	status.FullySetUp = status.HasPrimary && status.HasSecondary
	return &status, nil
}
