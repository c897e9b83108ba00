package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colinswan/sentinel/internal/config"
	"github.com/colinswan/sentinel/internal/db"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cfg is loaded once before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "A screen-locking focus timer with a phone-held key",
	Long: `sentinel locks your screen when a focus interval ends and only a
checkpoint scan from your paired phone unlocks it. Run the backend with
'sentinel serve' and the desktop timer with 'sentinel focus'.`,
}

// initDB loads the config and opens the database, panicking on failure.
func initDB() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(err)
	}
	if err := db.Initialize(cfg.DatabasePath); err != nil {
		panic(err)
	}
}

// withDB wraps a command function to initialize config and database first
func withDB(fn func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		initDB()
		fn(cmd, args)
	}
}

// requireIdentity returns the configured account and device ids, or
// explains how to get them.
func requireIdentity() (accountID, deviceID string, ok bool) {
	if cfg.AccountID == "" || cfg.DeviceID == "" {
		fmt.Println("This machine is not set up yet. Run 'sentinel setup' first.")
		return "", "", false
	}
	return cfg.AccountID, cfg.DeviceID, true
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sentinel %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(pairCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(meetingCmd)
	rootCmd.AddCommand(emergencyUnlockCmd)
	rootCmd.AddCommand(checkpointCmd)
	rootCmd.AddCommand(versionCmd)
}
