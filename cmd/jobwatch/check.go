package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobwatch/internal/model"
	"github.com/amishk599/jobwatch/internal/notifier"
	"github.com/amishk599/jobwatch/internal/store"
	"github.com/amishk599/jobwatch/internal/tui"
)

var plain bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch once, print today's postings, exit",
	Long:  "One-shot fetch: prints today's postings with their job ids and whether they were already notified. Sends nothing and does not write to the store.",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&plain, "plain", false, "no spinner while the page renders")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	fetcher, err := setupFetcher(cfg, logger)
	if err != nil {
		logger.Error("failed to set up fetcher", "error", err)
		os.Exit(1)
	}

	jsonStore := store.NewJSONStore(cfg.Store.Path, logger)
	p, err := buildPoller(cfg, fetcher, store.NewReadOnlyStore(jsonStore), notifier.NewLogNotifier(logger), logger)
	if err != nil {
		logger.Error("failed to build poller", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	useSpinner := !plain && !debug && isatty.IsTerminal(os.Stdout.Fd())

	var postings []model.Posting
	if useSpinner {
		postings, err = tui.RunLoader(ctx, cfg.Site.Name, fetcher.FetchPostings)
	} else {
		postings, err = fetcher.FetchPostings(ctx)
	}
	if errors.Is(err, tui.ErrCancelled) {
		return nil
	}
	if err != nil {
		logger.Error("fetch failed", "site", cfg.Site.Name, "error", err)
		os.Exit(1)
	}

	ids, seen := p.Classify(postings)
	fmt.Fprint(cmd.OutOrStdout(), tui.RenderPostings(cfg.Site.Name, postings, ids, seen))
	return nil
}
