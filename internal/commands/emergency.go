package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colinswan/sentinel/internal/db"
)

// confirmationPhrase must be typed in full before the bypass runs.
const confirmationPhrase = "unlock without accountability"

var emergencyUnlockCmd = &cobra.Command{
	Use:   "emergency-unlock [reason]",
	Short: "Break-glass unlock without the accountability flow",
	Long: `Unlock this machine without scanning a checkpoint or writing a
reflection. The open session is recorded as improperly ended and the
bypass is written to the audit log. Use it when the phone is lost or the
normal path is broken.`,
	Args: cobra.MinimumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		_, deviceID, ok := requireIdentity()
		if !ok {
			return
		}
		reason := strings.Join(args, " ")

		fmt.Printf("Type %q to confirm: ", confirmationPhrase)
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		if strings.TrimSpace(line) != confirmationPhrase {
			fmt.Println("Confirmation did not match. Nothing unlocked.")
			return
		}

		device, err := db.EmergencyUnlock(deviceID, reason)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Device %q unlocked. The bypass was logged.\n", device.Name)
	}),
}
