package models

import (
	"time"

	"gorm.io/gorm"
)

// SkippedNote is the sentinel stored when the user skips the reflection step.
const SkippedNote = "[skipped]"

// Session represents one focus interval on a primary device.
type Session struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	AccountID string `gorm:"index;not null" json:"account_id"`
	DeviceID  string `gorm:"index;not null" json:"device_id"`

	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`

	// True only when the session ended through the verified unlock flow.
	DidUnlockProperly bool `gorm:"default:false" json:"did_unlock_properly"`

	UserNotes  string `json:"user_notes"`
	AIFeedback string `json:"ai_feedback"`

	// What this interval was about.
	TaskDescription string `json:"task_description"`
	ProjectID       *uint  `json:"project_id"`
	TaskID          *uint  `json:"task_id"`
}

// Open reports whether the session is still running.
func (s *Session) Open() bool {
	return s.EndedAt == nil
}

// Minutes returns the session length in whole minutes, 0 while open.
func (s *Session) Minutes() int {
	if s.EndedAt == nil {
		return 0
	}
	return int(s.EndedAt.Sub(s.StartedAt).Minutes())
}
