package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colinswan/sentinel/internal/checkpoint"
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint [location name]",
	Short: "Print the payload string for a printable checkpoint QR code",
	Long: `Print the string to encode into a checkpoint QR artifact for a
physical location, e.g.:

  sentinel checkpoint "Kitchen Counter"   ->  sentinel-kitchen-counter

Feed the output to any QR generator and stick the print where you want
to walk to.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := ""
		for i, arg := range args {
			if i > 0 {
				name += " "
			}
			name += arg
		}

		slug := checkpoint.Slugify(name)
		if slug == "" {
			fmt.Println("Error: location name has no usable characters")
			return
		}
		fmt.Println(checkpoint.Format(slug))
	},
}
