package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobwatch/internal/store"
	"github.com/amishk599/jobwatch/internal/tui"
)

var notifiedCmd = &cobra.Command{
	Use:   "notified",
	Short: "List job ids that were already emailed",
	RunE:  runNotified,
}

func init() {
	rootCmd.AddCommand(notifiedCmd)
}

func runNotified(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	s := store.NewJSONStore(cfg.Store.Path, logger)
	fmt.Fprint(cmd.OutOrStdout(), tui.RenderIDs(s.Path(), s.Load().IDs()))
	return nil
}
