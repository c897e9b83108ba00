package models

import (
	"time"
)

// Account represents a person using Sentinel.
type Account struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"not null" json:"name"`

	// Focus preferences
	FocusMinutes int `gorm:"default:50" json:"focus_minutes"`
	BreakMinutes int `gorm:"default:10" json:"break_minutes"`

	// Enforcement preferences
	PreLockCountdownSeconds int  `gorm:"default:30" json:"pre_lock_countdown_seconds"`
	MovementReps            int  `gorm:"default:10" json:"movement_reps"`
	AutoStartNextSession    bool `gorm:"default:false" json:"auto_start_next_session"`

	// Meeting mode suppresses lock enforcement until this passes.
	// Checked lazily at lock time, never swept.
	MeetingModeUntil *time.Time `json:"meeting_mode_until"`

	// Relationships
	Devices []Device `gorm:"foreignKey:AccountID" json:"devices,omitempty"`
}

// MeetingModeActive reports whether meeting mode is live at the given instant.
func (a *Account) MeetingModeActive(now time.Time) bool {
	return a.MeetingModeUntil != nil && a.MeetingModeUntil.After(now)
}

// UserProfile holds coaching personalization for an account.
type UserProfile struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AccountID string `gorm:"uniqueIndex;not null" json:"account_id"`

	ChallengeTags   string `json:"challenge_tags"` // comma-separated
	WorkStyle       string `json:"work_style"`
	MotivationStyle string `json:"motivation_style"`
	Goals           string `json:"goals"`
}

// Challenges splits the comma-separated challenge tags.
func (p *UserProfile) Challenges() []string {
	if p.ChallengeTags == "" {
		return nil
	}
	var out []string
	for _, tag := range splitCSV(p.ChallengeTags) {
		out = append(out, tag)
	}
	return out
}

// LockMessage is one entry in an account's lock-screen message library.
type LockMessage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	AccountID string `gorm:"index;not null" json:"account_id"`
	Text      string `gorm:"not null" json:"text"`
	Active    bool   `gorm:"default:true" json:"active"`
}

// EmergencyUnlock is one append-only audit record of a bypassed unlock.
type EmergencyUnlock struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	AccountID string `gorm:"index;not null" json:"account_id"`
	DeviceID  string `gorm:"index;not null" json:"device_id"`
	Reason    string `json:"reason"`
}
