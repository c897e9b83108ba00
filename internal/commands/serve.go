package commands

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/colinswan/sentinel/internal/api"
	"github.com/colinswan/sentinel/internal/coach"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the backend API server",
	Long: `Run the HTTP/JSON backend the mobile companion talks to: pairing,
lock/unlock, sessions, projects, and the live event stream.`,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.ListenAddr
		}

		generator := coach.NewGenerator(cfg.Coach.APIKey, cfg.Coach.BaseURL, cfg.Coach.Model)
		router := api.NewRouter(api.NewServer(generator))

		fmt.Printf("sentinel backend listening on %s\n", addr)
		if err := http.ListenAndServe(addr, router); err != nil {
			log.Fatal(err)
		}
	}),
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}
