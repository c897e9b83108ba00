package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colinswan/sentinel/internal/db"
	"github.com/colinswan/sentinel/internal/tui"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Start the focus timer",
	Long: `Run the interactive focus timer. When the interval ends the screen
locks until your paired phone scans a checkpoint and completes the
reflection step.`,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		accountID, deviceID, ok := requireIdentity()
		if !ok {
			return
		}

		account, err := db.GetAccount(accountID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		device, err := db.GetDevice(deviceID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if err := tui.RunFocusTUI(account, device, serverURL(cfg.ListenAddr)); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}),
}

// serverURL turns a listen address like ":8787" into the base URL the
// timer follows unlock events on.
func serverURL(addr string) string {
	if addr == "" {
		return ""
	}
	if strings.HasPrefix(addr, ":") {
		return "http://127.0.0.1" + addr
	}
	return "http://" + addr
}
