package config

import (
	"os"
	"time"
)

// Config represents the main configuration for the opendrop client
type Config struct {
	Identity  IdentityConfig  `yaml:"identity"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Client    ClientConfig    `yaml:"client"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// IdentityConfig describes how this device presents itself to receivers
type IdentityConfig struct {
	ComputerName  string   `yaml:"computer_name"`  // Displayed in the receiver's sharing pane
	ComputerModel string   `yaml:"computer_model"` // Displayed in the receiver's sharing pane
	Email         []string `yaml:"email"`          // Currently unused by the transport
	Phone         []string `yaml:"phone"`          // Currently unused by the transport
}

// LoggingConfig selects log verbosity and destination
type LoggingConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	Format     string `yaml:"format"`      // console or json
	OutputFile string `yaml:"output_file"` // appended to; empty logs to stdout
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	name, err := os.Hostname()
	if err != nil || name == "" {
		name = "opendrop"
	}

	return &Config{
		Identity: IdentityConfig{
			ComputerName:  name,
			ComputerModel: "OpenDrop",
		},
		Discovery: DiscoveryConfig{
			ServiceType:                 "_airdrop._tcp",
			Domain:                      "local.",
			Interface:                   "awdl0",
			ReportPath:                  "~/.opendrop/discover.last.json",
			StaleAfter:                  60 * time.Second,
			AssumeDiscoverWhenUnflagged: true,
			DrainOnStop:                 false,
			DrainTimeout:                5 * time.Second,
			MaxConcurrentProbes:         0,
		},
		Client: ClientConfig{
			Port:               8770,
			Scheme:             "https",
			Timeout:            10 * time.Second,
			InsecureSkipVerify: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
