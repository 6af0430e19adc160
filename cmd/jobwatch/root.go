package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobwatch/internal/adapter"
	"github.com/amishk599/jobwatch/internal/config"
	"github.com/amishk599/jobwatch/internal/filter"
	"github.com/amishk599/jobwatch/internal/jobid"
	"github.com/amishk599/jobwatch/internal/model"
	"github.com/amishk599/jobwatch/internal/notifier"
	"github.com/amishk599/jobwatch/internal/poller"
	"github.com/amishk599/jobwatch/internal/ratelimit"
	"github.com/amishk599/jobwatch/internal/secrets"
)

const defaultConfigFile = "config.yaml"

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobwatch",
	Short: "Email a digest of job postings made today",
	Long: "jobwatch renders a career page, picks out today's postings, and emails the ones\n" +
		"it has not reported before. Run it from cron or a systemd timer.",
	// Default to `run` so that `jobwatch` with no args does one check.
	RunE:          runRun,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBWATCH_CONFIG env var or ./config.yaml, else built-in defaults)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBWATCH_CONFIG env var > "./config.yaml" > defaults + env.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("JOBWATCH_CONFIG")
	}
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return config.Load(defaultConfigFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", defaultConfigFile, err)
	}
	return config.FromEnv()
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupFetcher(cfg *config.Config, logger *slog.Logger) (model.ListingFetcher, error) {
	opts := adapter.RenderOptions{
		Timeout:      cfg.Fetcher.Timeout,
		ScrollPixels: cfg.Fetcher.ScrollPixels,
		Headless:     cfg.Fetcher.Headless,
	}

	switch cfg.Fetcher.Engine {
	case config.EngineChromedp:
		return adapter.NewPageAdapter(cfg.Site.URL, adapter.NewChromedpRenderer(opts, logger), opts.Budget(), logger), nil
	case config.EngineAPI:
		ep, err := adapter.WorkdayEndpointFromPageURL(cfg.Site.URL)
		if err != nil {
			return nil, err
		}
		httpClient := &http.Client{Timeout: cfg.Fetcher.Timeout}
		pacer := ratelimit.NewPacer(cfg.Fetcher.PageDelay)
		return adapter.NewWorkdayAPIAdapter(ep, httpClient, pacer, logger), nil
	default:
		return adapter.NewPageAdapter(cfg.Site.URL, adapter.NewPlaywrightRenderer(opts, logger), opts.Budget(), logger), nil
	}
}

// setupNotifier builds the email notifier. The password comes from config or
// MAIL_PASS, falling back to the OS keyring. Missing credentials only fail the
// run once a digest has to be sent.
func setupNotifier(cfg *config.Config, logger *slog.Logger) *notifier.EmailNotifier {
	password, err := secrets.ResolveMailPassword(cfg.Mail.User, cfg.Mail.Password)
	if err != nil {
		logger.Warn("keyring lookup failed", "account", cfg.Mail.User, "error", err)
	}
	return notifier.NewEmailNotifier(notifier.EmailConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		User:     cfg.Mail.User,
		Password: password,
		To:       cfg.Mail.To,
		SiteName: cfg.Site.Name,
	}, logger)
}

func buildPoller(cfg *config.Config, fetcher model.ListingFetcher, jobStore model.NotifiedStore, n model.Notifier, logger *slog.Logger) (*poller.Poller, error) {
	extractor, err := jobid.NewExtractor(cfg.JobIDPattern)
	if err != nil {
		return nil, err
	}

	var titleFilter model.PostingFilter
	if f := filter.NewTitleFilter(cfg.Filters.TitleKeywords, cfg.Filters.TitleExcludeKeywords); !f.Empty() {
		titleFilter = f
	}

	return poller.NewPoller(cfg.Site.Name, fetcher, titleFilter, extractor, jobStore, n, logger), nil
}
