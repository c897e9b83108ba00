package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/colinswan/sentinel/internal/config"
	"github.com/colinswan/sentinel/internal/db"
	"github.com/colinswan/sentinel/internal/models"
)

var setupCmd = &cobra.Command{
	Use:   "setup [name]",
	Short: "Create an account and register this machine as the primary device",
	Args:  cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		if cfg.AccountID != "" {
			fmt.Println("This machine is already set up.")
			return
		}

		name := "Me"
		if len(args) > 0 {
			name = args[0]
		}

		account, err := db.CreateAccount(name)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		hostname, _ := os.Hostname()
		if hostname == "" {
			hostname = "Desktop"
		}
		device, err := db.CreateDevice(account.ID, hostname, models.DeviceKindPrimary)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		cfg.AccountID = account.ID
		cfg.DeviceID = device.ID
		path, err := config.Path()
		if err == nil {
			err = config.Write(path, cfg)
		}
		if err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}

		fmt.Printf("Account created for %s.\n", account.Name)
		fmt.Printf("This machine is registered as primary device %q.\n", device.Name)
		fmt.Println("Next: run 'sentinel pair' and enter the code on your phone.")
	}),
}
