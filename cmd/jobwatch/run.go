package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobwatch/internal/model"
	"github.com/amishk599/jobwatch/internal/notifier"
	"github.com/amishk599/jobwatch/internal/poller"
	"github.com/amishk599/jobwatch/internal/store"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Check the page once and email new postings",
	Long:  "One run: fetch today's postings, skip the ones already notified, email the rest, record their ids.",
	RunE:  runRun,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().BoolVar(&dryRun, "dry-run", false, "log new postings instead of emailing them and do not update the store")
	}
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = logger.With("run_id", uuid.NewString(), "site", cfg.Site.Name)
	logger.Info("starting run",
		"url", cfg.Site.URL,
		"engine", cfg.Fetcher.Engine,
		"store", cfg.Store.Path,
		"dry_run", dryRun,
	)

	fetcher, err := setupFetcher(cfg, logger)
	if err != nil {
		logger.Error("failed to set up fetcher", "error", err)
		os.Exit(1)
	}

	jsonStore := store.NewJSONStore(cfg.Store.Path, logger)

	// In dry-run mode nothing is sent and nothing is persisted.
	var jobStore model.NotifiedStore = jsonStore
	var n model.Notifier
	if dryRun {
		logger.Info("dry-run mode enabled, postings will be logged and not marked as notified")
		jobStore = store.NewReadOnlyStore(jsonStore)
		n = notifier.NewLogNotifier(logger)
	} else {
		n = setupNotifier(cfg, logger)
	}

	p, err := buildPoller(cfg, fetcher, jobStore, n, logger)
	if err != nil {
		logger.Error("failed to build poller", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	sum, err := p.Poll(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("run complete", "elapsed", time.Since(start).Round(time.Millisecond))
	printSummary(cmd.OutOrStdout(), sum, dryRun)
	return nil
}

func printSummary(w io.Writer, sum poller.Summary, dry bool) {
	switch {
	case sum.Fetched == 0:
		fmt.Fprintln(w, "No postings from today found. Nothing to send.")
	case sum.Matched == 0:
		fmt.Fprintf(w, "%d posting(s) from today, none matched the title filters. Nothing to send.\n", sum.Fetched)
	case len(sum.New) == 0:
		fmt.Fprintf(w, "%d posting(s) from today, all already notified. Nothing to send.\n", sum.Matched)
	case dry:
		fmt.Fprintf(w, "Dry run: %d new posting(s) would be emailed: %v\n", len(sum.New), sum.NewIDs)
	default:
		fmt.Fprintf(w, "Emailed %d new posting(s) and recorded their ids: %v\n", len(sum.New), sum.NewIDs)
	}
}
