package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colinswan/sentinel/internal/models"
)

// CreateAccount creates an account with default preferences.
func CreateAccount(name string) (*models.Account, error) {
	account := models.Account{
		ID:                      uuid.NewString(),
		Name:                    name,
		FocusMinutes:            50,
		BreakMinutes:            10,
		PreLockCountdownSeconds: 30,
		MovementReps:            10,
	}

	if err := DB.Create(&account).Error; err != nil {
		return nil, err
	}

	return &account, nil
}

// GetAccount retrieves an account by id.
func GetAccount(accountID string) (*models.Account, error) {
	var account models.Account
	if err := DB.First(&account, "id = ?", accountID).Error; err != nil {
		return nil, fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	return &account, nil
}

// AccountSettings holds the mutable preference fields. Nil pointers leave
// the stored value unchanged.
type AccountSettings struct {
	Name                    *string `json:"name"`
	FocusMinutes            *int    `json:"focus_minutes"`
	BreakMinutes            *int    `json:"break_minutes"`
	PreLockCountdownSeconds *int    `json:"pre_lock_countdown_seconds"`
	MovementReps            *int    `json:"movement_reps"`
	AutoStartNextSession    *bool   `json:"auto_start_next_session"`
}

// UpdateAccountSettings applies the non-nil fields.
func UpdateAccountSettings(accountID string, settings AccountSettings) (*models.Account, error) {
	account, err := GetAccount(accountID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if settings.Name != nil {
		updates["name"] = *settings.Name
	}
	if settings.FocusMinutes != nil {
		updates["focus_minutes"] = *settings.FocusMinutes
	}
	if settings.BreakMinutes != nil {
		updates["break_minutes"] = *settings.BreakMinutes
	}
	if settings.PreLockCountdownSeconds != nil {
		updates["pre_lock_countdown_seconds"] = *settings.PreLockCountdownSeconds
	}
	if settings.MovementReps != nil {
		updates["movement_reps"] = *settings.MovementReps
	}
	if settings.AutoStartNextSession != nil {
		updates["auto_start_next_session"] = *settings.AutoStartNextSession
	}

	if len(updates) > 0 {
		if err := DB.Model(account).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return GetAccount(accountID)
}

// SetMeetingMode stores a meeting-mode expiry this long from now. The
// expiry is checked lazily at lock time; nothing sweeps it.
func SetMeetingMode(accountID string, duration time.Duration) (*models.Account, error) {
	account, err := GetAccount(accountID)
	if err != nil {
		return nil, err
	}

	until := time.Now().Add(duration)
	if err := DB.Model(account).Update("meeting_mode_until", &until).Error; err != nil {
		return nil, err
	}

	account.MeetingModeUntil = &until
	return account, nil
}

// ClearMeetingMode removes the stored expiry so enforcement resumes
// immediately.
func ClearMeetingMode(accountID string) error {
	account, err := GetAccount(accountID)
	if err != nil {
		return err
	}
	return DB.Model(account).Update("meeting_mode_until", nil).Error
}

// AddLockMessage appends a message to the account's lock-screen library.
func AddLockMessage(accountID, text string) (*models.LockMessage, error) {
	if _, err := GetAccount(accountID); err != nil {
		return nil, err
	}

	msg := models.LockMessage{
		AccountID: accountID,
		Text:      text,
		Active:    true,
	}
	if err := DB.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// SetLockMessageActive toggles a library entry in or out of the random
// rotation.
func SetLockMessageActive(messageID uint, active bool) error {
	result := DB.Model(&models.LockMessage{}).Where("id = ?", messageID).Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("lock message #%d: %w", messageID, ErrNotFound)
	}
	return nil
}

// ListLockMessages returns the account's full message library.
func ListLockMessages(accountID string) ([]models.LockMessage, error) {
	var msgs []models.LockMessage
	if err := DB.Where("account_id = ?", accountID).Order("id ASC").Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
