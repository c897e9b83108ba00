package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/colinswan/sentinel/internal/db"
)

var meetingCmd = &cobra.Command{
	Use:   "meeting [on|off] [minutes]",
	Short: "Suspend or resume lock enforcement",
	Long: `Meeting mode suppresses the lock until its window passes, no matter
what the timer says.

Examples:
  sentinel meeting on 45   # no locking for 45 minutes
  sentinel meeting on      # no locking for 30 minutes
  sentinel meeting off     # resume enforcement now`,
	Args: cobra.RangeArgs(1, 2),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		accountID, _, ok := requireIdentity()
		if !ok {
			return
		}

		switch args[0] {
		case "on":
			minutes := 30
			if len(args) > 1 {
				parsed, err := strconv.Atoi(args[1])
				if err != nil || parsed <= 0 {
					fmt.Printf("Error: invalid minutes '%s'\n", args[1])
					return
				}
				minutes = parsed
			}
			account, err := db.SetMeetingMode(accountID, time.Duration(minutes)*time.Minute)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("Meeting mode on until %s\n", account.MeetingModeUntil.Format("15:04"))

		case "off":
			if err := db.ClearMeetingMode(accountID); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Println("Meeting mode off. Enforcement resumed.")

		default:
			fmt.Println("Usage: sentinel meeting [on|off] [minutes]")
		}
	}),
}
