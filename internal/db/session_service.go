package db

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/colinswan/sentinel/internal/events"
	"github.com/colinswan/sentinel/internal/models"
)

// StartSession opens a focus interval on a device and stores it as the
// device's current session. A device holds at most one open session;
// starting a second one is rejected.
func StartSession(accountID, deviceID, taskDescription string, projectID, taskID *uint) (*models.Session, error) {
	if _, err := GetAccount(accountID); err != nil {
		return nil, err
	}
	device, err := GetDevice(deviceID)
	if err != nil {
		return nil, err
	}
	if device.CurrentSessionID != nil {
		var open models.Session
		if err := DB.First(&open, *device.CurrentSessionID).Error; err == nil && open.Open() {
			return nil, fmt.Errorf("device %s already has open session #%d: %w", deviceID, open.ID, ErrInvalidState)
		}
	}

	session := models.Session{
		AccountID:       accountID,
		DeviceID:        deviceID,
		StartedAt:       time.Now(),
		TaskDescription: taskDescription,
		ProjectID:       projectID,
		TaskID:          taskID,
	}

	if err := DB.Create(&session).Error; err != nil {
		return nil, err
	}

	if err := DB.Model(device).Update("current_session_id", session.ID).Error; err != nil {
		return nil, err
	}

	events.Default.Publish(events.Event{
		Type:      events.TypeSessionStarted,
		AccountID: accountID,
		DeviceID:  deviceID,
		SessionID: session.ID,
	})

	return &session, nil
}

// EndSession closes a session outside the unlock path, e.g. when the user
// stops the timer before the lock ever fires. The device's session
// reference is cleared.
func EndSession(sessionID uint, didUnlockProperly bool, note string) (*models.Session, error) {
	if err := closeSession(sessionID, didUnlockProperly, note, ""); err != nil {
		return nil, err
	}

	var session models.Session
	if err := DB.First(&session, sessionID).Error; err != nil {
		return nil, fmt.Errorf("session #%d: %w", sessionID, ErrNotFound)
	}

	err := DB.Model(&models.Device{}).
		Where("id = ? AND current_session_id = ?", session.DeviceID, sessionID).
		Update("current_session_id", nil).Error
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// closeSession stamps the end of a session. Start and end times are write-
// once: a session that already ended is left alone.
func closeSession(sessionID uint, didUnlockProperly bool, note, aiFeedback string) error {
	var session models.Session
	if err := DB.First(&session, sessionID).Error; err != nil {
		return fmt.Errorf("session #%d: %w", sessionID, ErrNotFound)
	}
	if !session.Open() {
		return nil
	}

	now := time.Now()
	updates := map[string]interface{}{
		"ended_at":            now,
		"did_unlock_properly": didUnlockProperly,
	}
	if note != "" {
		updates["user_notes"] = note
	}
	if aiFeedback != "" {
		updates["ai_feedback"] = aiFeedback
	}

	if err := DB.Model(&session).Updates(updates).Error; err != nil {
		return err
	}

	events.Default.Publish(events.Event{
		Type:      events.TypeSessionEnded,
		AccountID: session.AccountID,
		DeviceID:  session.DeviceID,
		SessionID: session.ID,
	})

	return nil
}

// GetSession retrieves a session by id.
func GetSession(sessionID uint) (*models.Session, error) {
	var session models.Session
	if err := DB.First(&session, sessionID).Error; err != nil {
		return nil, fmt.Errorf("session #%d: %w", sessionID, ErrNotFound)
	}
	return &session, nil
}

// SessionStats aggregates an account's history.
type SessionStats struct {
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	ComplianceRate    float64 `json:"compliance_rate"`
	TotalFocusMinutes int     `json:"total_focus_minutes"`
}

// GetSessionStats computes the compliance rate (completed sessions ended
// via proper unlock) and total focused minutes across all history.
func GetSessionStats(accountID string) (*SessionStats, error) {
	var sessions []models.Session
	err := DB.Where("account_id = ? AND ended_at IS NOT NULL", accountID).Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	stats := SessionStats{CompletedSessions: len(sessions)}

	var total int64
	if err := DB.Model(&models.Session{}).Where("account_id = ?", accountID).Count(&total).Error; err != nil {
		return nil, err
	}
	stats.TotalSessions = int(total)

	proper := 0
	for _, s := range sessions {
		if s.DidUnlockProperly {
			proper++
		}
		stats.TotalFocusMinutes += s.Minutes()
	}
	if len(sessions) > 0 {
		stats.ComplianceRate = float64(proper) / float64(len(sessions))
	}

	return &stats, nil
}

// DVTRisk is the 0-100 heuristic wellness indicator. It is a product
// heuristic, not a physiological model.
type DVTRisk struct {
	Score           int     `json:"score"`
	Level           string  `json:"level"` // low, medium, high
	SittingMinutes  int     `json:"sitting_minutes"`
	ComplianceToday float64 `json:"compliance_today"`
	TotalToday      int     `json:"total_minutes_today"`
}

// ComputeDVTRisk scores three independently-capped contributions:
// current uninterrupted sitting (0-40 via bands at 30/60/90 min), today's
// proper-unlock compliance inverted (0-30 linear), and total sitting today
// (0-30 via bands at 2/4/6 h). The sum is clamped to [0,100].
func ComputeDVTRisk(sittingMinutes int, complianceToday float64, totalMinutesToday int) DVTRisk {
	score := 0

	switch {
	case sittingMinutes >= 90:
		score += 40
	case sittingMinutes >= 60:
		score += 25
	case sittingMinutes >= 30:
		score += 15
	}

	score += int(math.Round((1 - complianceToday) * 30))

	switch {
	case totalMinutesToday >= 360:
		score += 30
	case totalMinutesToday >= 240:
		score += 20
	case totalMinutesToday >= 120:
		score += 10
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	level := "low"
	switch {
	case score >= 60:
		level = "high"
	case score >= 30:
		level = "medium"
	}

	return DVTRisk{
		Score:           score,
		Level:           level,
		SittingMinutes:  sittingMinutes,
		ComplianceToday: complianceToday,
		TotalToday:      totalMinutesToday,
	}
}

// GetDVTRisk gathers the three inputs for an account and scores them.
// Current sitting is the elapsed time of the open session, if any.
func GetDVTRisk(accountID string) (*DVTRisk, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sitting := 0
	var open models.Session
	err := DB.Where("account_id = ? AND ended_at IS NULL", accountID).
		Order("started_at DESC").First(&open).Error
	if err == nil {
		sitting = int(now.Sub(open.StartedAt).Minutes())
	}

	var today []models.Session
	err = DB.Where("account_id = ? AND ended_at IS NOT NULL AND started_at >= ?", accountID, dayStart).
		Find(&today).Error
	if err != nil {
		return nil, err
	}

	compliance := 1.0
	totalToday := 0
	if len(today) > 0 {
		proper := 0
		for _, s := range today {
			if s.DidUnlockProperly {
				proper++
			}
			totalToday += s.Minutes()
		}
		compliance = float64(proper) / float64(len(today))
	}
	totalToday += sitting

	risk := ComputeDVTRisk(sitting, compliance, totalToday)
	return &risk, nil
}

// RandomPastWin samples one completed session from the last 50 whose note
// is substantive: longer than 10 characters and not the skipped-reflection
// sentinel. Selection is uniform at query time, so repeated calls vary.
func RandomPastWin(accountID string) (*models.Session, error) {
	var recent []models.Session
	err := DB.Where("account_id = ? AND ended_at IS NOT NULL", accountID).
		Order("ended_at DESC").Limit(50).Find(&recent).Error
	if err != nil {
		return nil, err
	}

	var wins []models.Session
	for _, s := range recent {
		if len(s.UserNotes) > 10 && s.UserNotes != models.SkippedNote {
			wins = append(wins, s)
		}
	}
	if len(wins) == 0 {
		return nil, fmt.Errorf("no qualifying past session: %w", ErrNotFound)
	}

	win := wins[rand.Intn(len(wins))]
	return &win, nil
}
