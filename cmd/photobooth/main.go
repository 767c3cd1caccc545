package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "photobooth",
		Short: "CUSEC photobooth capture-to-strip service",
		Long: `Photobooth runs the capture-to-strip pipeline for a walk-up kiosk:
camera capture, strip composition, and background upload of session
artifacts, exposed over a local HTTP API.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newComposeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
