package db

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/colinswan/sentinel/internal/models"
)

// Pairing codes live for five minutes. Expiry is lazy: an expired code
// stays on the device record until the next generation overwrites it.
const pairingCodeTTL = 5 * time.Minute

// GeneratePairingCode issues a fresh 6-digit code for a primary device,
// overwriting any earlier code. Codes are a usability feature for typing on
// a phone, not a security boundary.
func GeneratePairingCode(deviceID string) (code string, expiry time.Time, err error) {
	device, err := GetDevice(deviceID)
	if err != nil {
		return "", time.Time{}, err
	}
	if !device.IsPrimary() {
		return "", time.Time{}, fmt.Errorf("device %s is not a primary device: %w", deviceID, ErrInvalidState)
	}

	code = randomPairingCode()
	expiry = time.Now().Add(pairingCodeTTL)

	err = DB.Model(device).Updates(map[string]interface{}{
		"pairing_code":        code,
		"pairing_code_expiry": expiry,
	}).Error
	if err != nil {
		return "", time.Time{}, err
	}

	return code, expiry, nil
}

// randomPairingCode draws a uniform 6-digit decimal code (100000-999999).
func randomPairingCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// GetPairingCode returns the device's stored code while it is still live.
// An expired code is reported as absent, not cleared.
func GetPairingCode(deviceID string) (code string, expiry time.Time, err error) {
	device, err := GetDevice(deviceID)
	if err != nil {
		return "", time.Time{}, err
	}
	if !device.HasActivePairingCode(time.Now()) {
		return "", time.Time{}, fmt.Errorf("device %s has no active code: %w", deviceID, ErrCodeExpired)
	}
	return *device.PairingCode, *device.PairingCodeExpiry, nil
}

// ValidatePairingCode reports whether any device holds this code unexpired,
// without consuming it. Used for live feedback while the user types.
func ValidatePairingCode(code string) (bool, error) {
	var count int64
	err := DB.Model(&models.Device{}).
		Where("pairing_code = ? AND pairing_code_expiry > ?", code, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClaimResult reports a successful pairing.
type ClaimResult struct {
	AccountID         string `json:"account_id"`
	PrimaryDeviceID   string `json:"primary_device_id"`
	SecondaryDeviceID string `json:"secondary_device_id"`
}

// ClaimPairingCode consumes a live code: it creates a secondary device on
// the same account and clears the code slot. The clear is a conditional
// update checked by rows-affected, so of two racing claimants exactly one
// wins; the loser sees ErrCodeExpired.
func ClaimPairingCode(code, secondaryName string) (*ClaimResult, error) {
	var result ClaimResult

	err := DB.Transaction(func(tx *gorm.DB) error {
		var primary models.Device
		err := tx.Where("pairing_code = ? AND pairing_code_expiry > ?", code, time.Now()).
			First(&primary).Error
		if err != nil {
			return fmt.Errorf("pairing code %s: %w", code, ErrCodeExpired)
		}

		// Single-use: clear the slot only if the code is still in place.
		clear := tx.Model(&models.Device{}).
			Where("id = ? AND pairing_code = ?", primary.ID, code).
			Updates(map[string]interface{}{
				"pairing_code":        nil,
				"pairing_code_expiry": nil,
			})
		if clear.Error != nil {
			return clear.Error
		}
		if clear.RowsAffected == 0 {
			return fmt.Errorf("pairing code %s already claimed: %w", code, ErrCodeExpired)
		}

		secondary, err := CreateDeviceTx(tx, primary.AccountID, secondaryName, models.DeviceKindSecondary)
		if err != nil {
			return err
		}

		result = ClaimResult{
			AccountID:         primary.AccountID,
			PrimaryDeviceID:   primary.ID,
			SecondaryDeviceID: secondary.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
