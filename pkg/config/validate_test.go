package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validConfig returns a valid config rooted in a temp dir
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Identity.ComputerName = "test-mac"
	cfg.Discovery.ReportPath = filepath.Join(t.TempDir(), "discover.last.json")
	return cfg
}

func TestValidateDefaults(t *testing.T) {
	cfg := validConfig(t)
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateFields(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
	}{
		{"empty service type", func(c *Config) { c.Discovery.ServiceType = "" }, "discovery.service_type"},
		{"service type without underscore", func(c *Config) { c.Discovery.ServiceType = "airdrop._tcp" }, "discovery.service_type"},
		{"empty domain", func(c *Config) { c.Discovery.Domain = "" }, "discovery.domain"},
		{"empty report path", func(c *Config) { c.Discovery.ReportPath = "" }, "discovery.report_path"},
		{"zero stale threshold", func(c *Config) { c.Discovery.StaleAfter = 0 }, "discovery.stale_after"},
		{"drain without timeout", func(c *Config) {
			c.Discovery.DrainOnStop = true
			c.Discovery.DrainTimeout = 0
		}, "discovery.drain_timeout"},
		{"negative concurrency", func(c *Config) { c.Discovery.MaxConcurrentProbes = -1 }, "discovery.max_concurrent_probes"},
		{"port zero", func(c *Config) { c.Client.Port = 0 }, "client.port"},
		{"port too large", func(c *Config) { c.Client.Port = 70000 }, "client.port"},
		{"bad scheme", func(c *Config) { c.Client.Scheme = "ftp" }, "client.scheme"},
		{"zero timeout", func(c *Config) { c.Client.Timeout = 0 }, "client.timeout"},
		{"missing ca cert", func(c *Config) { c.Client.CACertPath = "/nonexistent/ca.pem" }, "client.ca_cert_path"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"empty computer name", func(c *Config) { c.Identity.ComputerName = "" }, "identity.computer_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatalf("expected a validation error for %s", tt.wantPath)
			}

			found := false
			for _, err := range errs {
				var ve ValidationError
				if errors.As(err, &ve) && ve.Path == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error at %s, got %v", tt.wantPath, errs)
			}
		})
	}
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Client.Port = 0
	cfg.Client.Timeout = -time.Second
	cfg.Discovery.StaleAfter = 0

	if errs := cfg.Validate(); len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Path: "client.scheme", Message: `invalid value "ftp"`, Hint: "allowed values: http, https"}
	if !strings.HasPrefix(err.Error(), "client.scheme: invalid value") || !strings.HasSuffix(err.Error(), "; allowed values: http, https") {
		t.Fatalf("unexpected format %q", err.Error())
	}
}

func TestValidateAcceptsReadOnlyReportDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can write to read-only directories")
	}

	dir := filepath.Join(t.TempDir(), "ro")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(dir, 0555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	cfg := validConfig(t)
	cfg.Discovery.ReportPath = filepath.Join(dir, "discover.last.json")

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("reading a report must not need a writable directory, got %v", errs)
	}
	if err := cfg.PrepareReportDir(); err == nil {
		t.Fatal("expected PrepareReportDir to reject a read-only directory")
	}
}

func TestPrepareReportDirCreatesConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := validConfig(t)
	cfg.Discovery.ReportPath = filepath.Join(home, ".opendrop", "discover.last.json")

	if err := cfg.PrepareReportDir(); err != nil {
		t.Fatalf("PrepareReportDir: %v", err)
	}
	info, err := os.Stat(filepath.Join(home, ".opendrop"))
	if err != nil || !info.IsDir() {
		t.Fatalf("config dir not created: %v", err)
	}
}

func TestPrepareReportDirRejectsFileParent(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(parent, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := validConfig(t)
	cfg.Discovery.ReportPath = filepath.Join(parent, "discover.last.json")

	err := cfg.PrepareReportDir()
	var ve ValidationError
	if !errors.As(err, &ve) || ve.Path != "discovery.report_path" {
		t.Fatalf("expected discovery.report_path error, got %v", err)
	}
}
