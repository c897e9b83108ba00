package models

import (
	"strings"
	"time"
)

// Device kinds and lock statuses.
const (
	DeviceKindPrimary   = "primary"
	DeviceKindSecondary = "secondary"

	StatusUnlocked = "unlocked"
	StatusLocked   = "locked"
)

// Device is a named endpoint belonging to an account. The primary device
// is the one whose screen gets locked; secondaries hold the key.
type Device struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AccountID string `gorm:"index;not null" json:"account_id"`
	Name      string `gorm:"not null" json:"name"`
	Kind      string `gorm:"not null" json:"kind"` // primary, secondary

	Status        string    `gorm:"default:unlocked" json:"status"` // unlocked, locked
	LastHeartbeat time.Time `json:"last_heartbeat"`

	// Open session on this device, if any. At most one.
	CurrentSessionID *uint `json:"current_session_id"`

	// Single pairing-code slot. Expired codes stay in place until the
	// next generation overwrites them.
	PairingCode       *string    `gorm:"index" json:"-"`
	PairingCodeExpiry *time.Time `json:"-"`

	// Message shown on the lock screen while locked.
	LockMessage *string `json:"lock_message"`
}

// IsPrimary reports whether this is the enforcing endpoint.
func (d *Device) IsPrimary() bool {
	return d.Kind == DeviceKindPrimary
}

// HasActivePairingCode reports whether the stored code is still live.
func (d *Device) HasActivePairingCode(now time.Time) bool {
	return d.PairingCode != nil && d.PairingCodeExpiry != nil && d.PairingCodeExpiry.After(now)
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
