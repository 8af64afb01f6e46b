package config

import "time"

// DiscoveryConfig contains peer discovery configuration
type DiscoveryConfig struct {
	ServiceType string        `yaml:"service_type"` // DNS-SD service type to browse
	Domain      string        `yaml:"domain"`       // DNS-SD browse domain
	Interface   string        `yaml:"interface"`    // Interface to browse on; empty for all
	ReportPath  string        `yaml:"report_path"`  // Where the discovery report is written
	StaleAfter  time.Duration `yaml:"stale_after"`  // Age after which a report is reported as old

	// Peers that do not advertise a flags property are probed anyway when true.
	AssumeDiscoverWhenUnflagged bool `yaml:"assume_discover_when_unflagged"`

	// When true, stop waits up to DrainTimeout for in-flight probes before flushing.
	DrainOnStop  bool          `yaml:"drain_on_stop"`
	DrainTimeout time.Duration `yaml:"drain_timeout"`

	MaxConcurrentProbes int `yaml:"max_concurrent_probes"` // 0 means unbounded
}
