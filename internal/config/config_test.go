package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearMailEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvMailUser, "")
	t.Setenv(EnvMailPass, "")
	t.Setenv(EnvMailTo, "")
}

func TestLoad_ValidConfig(t *testing.T) {
	clearMailEnv(t)
	path := writeConfig(t, `
site:
  name: Acme
  url: https://acme.wd1.myworkdayjobs.com/AcmeCareers
job_id_pattern: 'R\d+'
fetcher:
  engine: chromedp
  timeout: 45s
  scroll_px: 0
  headless: false
  page_delay: 250ms
store:
  path: /var/lib/jobwatch/notified.json
mail:
  host: smtp.example.com
  port: 2465
  user: bot@example.com
  password: hunter2
  to: me@example.com
filters:
  title_keywords:
    - engineer
  title_exclude_keywords:
    - intern
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Name != "Acme" || cfg.Site.URL != "https://acme.wd1.myworkdayjobs.com/AcmeCareers" {
		t.Errorf("Site = %+v", cfg.Site)
	}
	if cfg.JobIDPattern != `R\d+` {
		t.Errorf("JobIDPattern = %q", cfg.JobIDPattern)
	}
	if cfg.Fetcher.Engine != EngineChromedp || cfg.Fetcher.Timeout != 45*time.Second {
		t.Errorf("Fetcher = %+v", cfg.Fetcher)
	}
	if cfg.Fetcher.PageDelay != 250*time.Millisecond {
		t.Errorf("PageDelay = %v", cfg.Fetcher.PageDelay)
	}
	if cfg.Fetcher.ScrollPixels != 0 || cfg.Fetcher.Headless {
		t.Errorf("explicit zero values should override defaults: %+v", cfg.Fetcher)
	}
	if cfg.Store.Path != "/var/lib/jobwatch/notified.json" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.Mail != (MailConfig{Host: "smtp.example.com", Port: 2465, User: "bot@example.com", Password: "hunter2", To: "me@example.com"}) {
		t.Errorf("Mail = %+v", cfg.Mail)
	}
	if len(cfg.Filters.TitleKeywords) != 1 || cfg.Filters.TitleExcludeKeywords[0] != "intern" {
		t.Errorf("Filters = %+v", cfg.Filters)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	clearMailEnv(t)
	cfg, err := Load(writeConfig(t, "\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Site != def.Site || cfg.Fetcher != def.Fetcher || cfg.Store != def.Store || cfg.Mail != def.Mail {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvMailUser, "env@example.com")
	t.Setenv(EnvMailPass, "from-env")
	t.Setenv(EnvMailTo, "")
	path := writeConfig(t, `
mail:
  user: file@example.com
  password: from-file
  to: boss@example.com
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mail.User != "env@example.com" || cfg.Mail.Password != "from-env" {
		t.Errorf("Mail = %+v, want env credentials", cfg.Mail)
	}
	if cfg.Mail.To != "boss@example.com" {
		t.Errorf("Mail.To = %q, empty env must not clear it", cfg.Mail.To)
	}
}

func TestLoad_ExpandsEnvReferences(t *testing.T) {
	clearMailEnv(t)
	t.Setenv("JOBWATCH_TEST_STORE", "/tmp/ids.json")
	cfg, err := Load(writeConfig(t, "store:\n  path: ${JOBWATCH_TEST_STORE}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Path != "/tmp/ids.json" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvMailUser, "a@example.com")
	t.Setenv(EnvMailPass, "secret")
	t.Setenv(EnvMailTo, "b@example.com")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Site.URL != DefaultSiteURL || cfg.Store.Path != DefaultStorePath {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Mail.User != "a@example.com" || cfg.Mail.Password != "secret" || cfg.Mail.To != "b@example.com" {
		t.Errorf("Mail = %+v", cfg.Mail)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "site: [broken")); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	clearMailEnv(t)
	tests := map[string]string{
		"relative url":      "site:\n  url: /NVIDIAExternalCareerSite\n",
		"bad pattern":       "job_id_pattern: 'JR(\\d+'\n",
		"unknown engine":    "fetcher:\n  engine: selenium\n",
		"bad timeout":       "fetcher:\n  timeout: soon\n",
		"zero timeout":      "fetcher:\n  timeout: 0s\n",
		"negative scroll":   "fetcher:\n  scroll_px: -1\n",
		"bad page delay":    "fetcher:\n  page_delay: often\n",
		"negative delay":    "fetcher:\n  page_delay: -1s\n",
		"port out of range": "mail:\n  port: 70000\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, content)); err == nil {
				t.Fatal("Load: expected error")
			}
		})
	}
}
