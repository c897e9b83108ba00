package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/colinswan/sentinel/internal/db"
)

var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Show or generate the pairing code for your phone",
	Long: `Show the current pairing code, generating a fresh one if none is
live. Enter the code in the mobile app within five minutes.`,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		_, deviceID, ok := requireIdentity()
		if !ok {
			return
		}

		code, expiry, err := db.GetPairingCode(deviceID)
		if errors.Is(err, db.ErrCodeExpired) {
			code, expiry, err = db.GeneratePairingCode(deviceID)
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("Pairing code: %s\n", code)
		fmt.Printf("Valid for %s (until %s)\n",
			time.Until(expiry).Round(time.Second), expiry.Format("15:04:05"))
	}),
}
