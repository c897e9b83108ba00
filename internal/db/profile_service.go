package db

import (
	"fmt"
	"strings"

	"github.com/colinswan/sentinel/internal/models"
)

// GetProfile returns the account's coaching profile, creating an empty one
// on first read.
func GetProfile(accountID string) (*models.UserProfile, error) {
	if _, err := GetAccount(accountID); err != nil {
		return nil, err
	}

	var profile models.UserProfile
	err := DB.Where("account_id = ?", accountID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}

	profile = models.UserProfile{AccountID: accountID}
	if err := DB.Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ProfileUpdate holds the mutable profile fields. Nil pointers leave the
// stored value unchanged.
type ProfileUpdate struct {
	ChallengeTags   []string `json:"challenge_tags"`
	WorkStyle       *string  `json:"work_style"`
	MotivationStyle *string  `json:"motivation_style"`
	Goals           *string  `json:"goals"`
}

// UpdateProfile applies the given fields.
func UpdateProfile(accountID string, update ProfileUpdate) (*models.UserProfile, error) {
	profile, err := GetProfile(accountID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.ChallengeTags != nil {
		updates["challenge_tags"] = strings.Join(update.ChallengeTags, ",")
	}
	if update.WorkStyle != nil {
		updates["work_style"] = *update.WorkStyle
	}
	if update.MotivationStyle != nil {
		updates["motivation_style"] = *update.MotivationStyle
	}
	if update.Goals != nil {
		updates["goals"] = *update.Goals
	}

	if len(updates) > 0 {
		if err := DB.Model(profile).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	var fresh models.UserProfile
	if err := DB.Where("account_id = ?", accountID).First(&fresh).Error; err != nil {
		return nil, fmt.Errorf("profile for account %s: %w", accountID, ErrNotFound)
	}
	return &fresh, nil
}
