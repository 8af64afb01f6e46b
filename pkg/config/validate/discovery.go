package validate

import (
	"fmt"
	"strings"
	"time"
)

// DiscoveryConfig represents the discovery configuration for validation purposes.
type DiscoveryConfig struct {
	ServiceType         string
	Domain              string
	ReportPath          string
	StaleAfter          time.Duration
	DrainOnStop         bool
	DrainTimeout        time.Duration
	MaxConcurrentProbes int
}

// ValidateDiscovery performs validation of the discovery configuration.
func ValidateDiscovery(disc DiscoveryConfig) []error {
	var errs []error

	if disc.ServiceType == "" {
		errs = append(errs, ValidationError{
			Path:    "discovery.service_type",
			Message: "must not be empty",
			Hint:    `expected a DNS-SD type such as "_airdrop._tcp"`,
		})
	} else if !strings.HasPrefix(disc.ServiceType, "_") {
		errs = append(errs, ValidationError{
			Path:    "discovery.service_type",
			Message: fmt.Sprintf("invalid value %q", disc.ServiceType),
			Hint:    "service types start with an underscore, e.g. _airdrop._tcp",
		})
	}

	if disc.Domain == "" {
		errs = append(errs, ValidationError{
			Path:    "discovery.domain",
			Message: "must not be empty",
		})
	}

	if disc.ReportPath == "" {
		errs = append(errs, ValidationError{
			Path:    "discovery.report_path",
			Message: "must not be empty",
		})
	} else if err := ValidateParentDir(disc.ReportPath); err != nil {
		errs = append(errs, ValidationError{
			Path:    "discovery.report_path",
			Message: err.Error(),
		})
	}

	if disc.StaleAfter <= 0 {
		errs = append(errs, ValidationError{
			Path:    "discovery.stale_after",
			Message: fmt.Sprintf("must be > 0; got %v", disc.StaleAfter),
		})
	}

	if disc.DrainOnStop && disc.DrainTimeout <= 0 {
		errs = append(errs, ValidationError{
			Path:    "discovery.drain_timeout",
			Message: fmt.Sprintf("must be > 0 when drain_on_stop is set; got %v", disc.DrainTimeout),
		})
	}

	if disc.MaxConcurrentProbes < 0 {
		errs = append(errs, ValidationError{
			Path:    "discovery.max_concurrent_probes",
			Message: fmt.Sprintf("must be >= 0; got %d", disc.MaxConcurrentProbes),
			Hint:    "use 0 for no limit",
		})
	}

	return errs
}
