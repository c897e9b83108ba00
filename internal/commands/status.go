package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/colinswan/sentinel/internal/db"
	"github.com/colinswan/sentinel/internal/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show device, session, and wellness status",
	Run: withDB(func(cmd *cobra.Command, args []string) {
		accountID, deviceID, ok := requireIdentity()
		if !ok {
			return
		}

		status, err := db.GetDeviceStatus(deviceID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if status.Status == models.StatusLocked {
			fmt.Printf("🔒 %s is locked\n", status.Name)
		} else {
			fmt.Printf("🔓 %s is unlocked\n", status.Name)
		}

		if status.CurrentSessionID != nil {
			if session, err := db.GetSession(*status.CurrentSessionID); err == nil {
				elapsed := time.Since(session.StartedAt).Round(time.Second)
				label := session.TaskDescription
				if label == "" {
					label = "(no task)"
				}
				fmt.Printf("Open session: %s, %s elapsed\n", label, elapsed)
			}
		}

		if status.MeetingModeUntil != nil && status.MeetingModeUntil.After(time.Now()) {
			fmt.Printf("Meeting mode until %s\n", status.MeetingModeUntil.Format("15:04"))
		}

		setup, err := db.GetSetupStatus(accountID)
		if err == nil && !setup.FullySetUp {
			fmt.Println("No phone paired yet. Run 'sentinel pair'.")
		}

		stats, err := db.GetSessionStats(accountID)
		if err == nil && stats.CompletedSessions > 0 {
			fmt.Printf("Compliance: %.0f%% proper unlocks over %d sessions, %d focused minutes total\n",
				stats.ComplianceRate*100, stats.CompletedSessions, stats.TotalFocusMinutes)
		}

		risk, err := db.GetDVTRisk(accountID)
		if err == nil {
			fmt.Printf("DVT risk: %d/100 (%s)\n", risk.Score, risk.Level)
		}
	}),
}
