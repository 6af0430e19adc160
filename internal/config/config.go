package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults target the NVIDIA external career site filtered to one location.
const (
	DefaultSiteName  = "NVIDIA"
	DefaultSiteURL   = "https://nvidia.wd5.myworkdayjobs.com/NVIDIAExternalCareerSite?locationHierarchy1=2fcb99c455831013ea52bbe14cf9326c"
	DefaultStorePath = "notified.json"
	DefaultPattern   = `JR\d+`
)

// Fetcher engines.
const (
	EnginePlaywright = "playwright"
	EngineChromedp   = "chromedp"
	EngineAPI        = "api"
)

// Environment variables that override the file.
const (
	EnvMailUser = "MAIL_USER"
	EnvMailPass = "MAIL_PASS"
	EnvMailTo   = "TO_EMAIL"
)

// Config is the root configuration for a watcher run.
type Config struct {
	Site         SiteConfig
	JobIDPattern string
	Fetcher      FetcherConfig
	Store        StoreConfig
	Mail         MailConfig
	Filters      FilterConfig
}

// SiteConfig names the single watched listing page.
type SiteConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// FetcherConfig controls how the listing page is read.
type FetcherConfig struct {
	Engine       string        // "playwright", "chromedp" or "api"
	Timeout      time.Duration // bound on each wait for page elements
	ScrollPixels int           // wheel distance that triggers lazy rendering
	Headless     bool
	PageDelay    time.Duration // minimum gap between listing API pages ("api" engine)
}

// StoreConfig locates the notified-ids file.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// MailConfig holds the SMTP relay and account. User and Password are only
// required when a digest is actually sent.
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	To       string `yaml:"to"` // optional recipient override
}

// FilterConfig holds optional title keyword filters.
type FilterConfig struct {
	TitleKeywords        []string `yaml:"title_keywords"`
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Site         SiteConfig       `yaml:"site"`
	JobIDPattern string           `yaml:"job_id_pattern"`
	Fetcher      rawFetcherConfig `yaml:"fetcher"`
	Store        StoreConfig      `yaml:"store"`
	Mail         MailConfig       `yaml:"mail"`
	Filters      FilterConfig     `yaml:"filters"`
}

type rawFetcherConfig struct {
	Engine       string `yaml:"engine"`
	Timeout      string `yaml:"timeout"`
	ScrollPixels *int   `yaml:"scroll_px"`
	Headless     *bool  `yaml:"headless"`
	PageDelay    string `yaml:"page_delay"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			Name: DefaultSiteName,
			URL:  DefaultSiteURL,
		},
		JobIDPattern: DefaultPattern,
		Fetcher: FetcherConfig{
			Engine:       EnginePlaywright,
			Timeout:      30 * time.Second,
			ScrollPixels: 2000,
			Headless:     true,
			PageDelay:    time.Second,
		},
		Store: StoreConfig{Path: DefaultStorePath},
		Mail: MailConfig{
			Host: "smtp.gmail.com",
			Port: 465,
		},
	}
}

// Load reads and parses the YAML config file at path, applies environment
// overrides, validates it, and returns Config. Fields absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	if err := merge(cfg, raw); err != nil {
		return nil, err
	}
	return finish(cfg, os.Getenv)
}

// FromEnv returns the defaults with environment overrides applied.
func FromEnv() (*Config, error) {
	return finish(Default(), os.Getenv)
}

func finish(cfg *Config, getenv func(string) string) (*Config, error) {
	applyEnv(cfg, getenv)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func merge(cfg *Config, raw rawConfig) error {
	if raw.Site.Name != "" {
		cfg.Site.Name = raw.Site.Name
	}
	if raw.Site.URL != "" {
		cfg.Site.URL = raw.Site.URL
	}
	if raw.JobIDPattern != "" {
		cfg.JobIDPattern = raw.JobIDPattern
	}

	if raw.Fetcher.Engine != "" {
		cfg.Fetcher.Engine = raw.Fetcher.Engine
	}
	if raw.Fetcher.Timeout != "" {
		d, err := time.ParseDuration(raw.Fetcher.Timeout)
		if err != nil {
			return fmt.Errorf("parse fetcher.timeout %q: %w", raw.Fetcher.Timeout, err)
		}
		cfg.Fetcher.Timeout = d
	}
	if raw.Fetcher.ScrollPixels != nil {
		cfg.Fetcher.ScrollPixels = *raw.Fetcher.ScrollPixels
	}
	if raw.Fetcher.Headless != nil {
		cfg.Fetcher.Headless = *raw.Fetcher.Headless
	}
	if raw.Fetcher.PageDelay != "" {
		d, err := time.ParseDuration(raw.Fetcher.PageDelay)
		if err != nil {
			return fmt.Errorf("parse fetcher.page_delay %q: %w", raw.Fetcher.PageDelay, err)
		}
		cfg.Fetcher.PageDelay = d
	}

	if raw.Store.Path != "" {
		cfg.Store.Path = raw.Store.Path
	}

	if raw.Mail.Host != "" {
		cfg.Mail.Host = raw.Mail.Host
	}
	if raw.Mail.Port != 0 {
		cfg.Mail.Port = raw.Mail.Port
	}
	cfg.Mail.User = raw.Mail.User
	cfg.Mail.Password = raw.Mail.Password
	cfg.Mail.To = raw.Mail.To

	cfg.Filters = raw.Filters
	return nil
}

// applyEnv lets MAIL_USER, MAIL_PASS and TO_EMAIL override the file when set.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvMailUser); v != "" {
		cfg.Mail.User = v
	}
	if v := getenv(EnvMailPass); v != "" {
		cfg.Mail.Password = v
	}
	if v := getenv(EnvMailTo); v != "" {
		cfg.Mail.To = v
	}
}

func validate(cfg *Config) error {
	if cfg.Site.Name == "" {
		return fmt.Errorf("site.name must not be empty")
	}
	u, err := url.Parse(cfg.Site.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("site.url must be an absolute URL, got %q", cfg.Site.URL)
	}

	if _, err := regexp.Compile(cfg.JobIDPattern); err != nil {
		return fmt.Errorf("job_id_pattern %q: %w", cfg.JobIDPattern, err)
	}

	switch cfg.Fetcher.Engine {
	case EnginePlaywright, EngineChromedp, EngineAPI:
	default:
		return fmt.Errorf("fetcher.engine must be one of %q, %q, %q, got %q",
			EnginePlaywright, EngineChromedp, EngineAPI, cfg.Fetcher.Engine)
	}
	if cfg.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher.timeout must be positive, got %v", cfg.Fetcher.Timeout)
	}
	if cfg.Fetcher.ScrollPixels < 0 {
		return fmt.Errorf("fetcher.scroll_px must not be negative, got %d", cfg.Fetcher.ScrollPixels)
	}
	if cfg.Fetcher.PageDelay < 0 {
		return fmt.Errorf("fetcher.page_delay must not be negative, got %v", cfg.Fetcher.PageDelay)
	}

	if cfg.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}

	if cfg.Mail.Host == "" {
		return fmt.Errorf("mail.host must not be empty")
	}
	if cfg.Mail.Port <= 0 || cfg.Mail.Port > 65535 {
		return fmt.Errorf("mail.port must be between 1 and 65535, got %d", cfg.Mail.Port)
	}

	return nil
}
