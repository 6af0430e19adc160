package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobwatch/internal/adapter"
)

var installCmd = &cobra.Command{
	Use:   "install-browser",
	Short: "Download the Chromium build used by the playwright engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(debug)
		if err := adapter.InstallPlaywrightBrowser(); err != nil {
			logger.Error("browser install failed", "error", err)
			os.Exit(1)
		}
		logger.Info("chromium installed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
