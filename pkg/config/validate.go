package config

import (
	"path/filepath"

	"github.com/DeBrosOfficial/opendrop/pkg/config/validate"
)

// ValidationError is re-exported so callers can type-switch without importing validate.
type ValidationError = validate.ValidationError

// Validate performs comprehensive validation of the entire config.
// It aggregates all errors and returns them, allowing the caller to print all issues at once.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, validate.ValidateDiscovery(validate.DiscoveryConfig{
		ServiceType:         c.Discovery.ServiceType,
		Domain:              c.Discovery.Domain,
		ReportPath:          c.Discovery.ReportPath,
		StaleAfter:          c.Discovery.StaleAfter,
		DrainOnStop:         c.Discovery.DrainOnStop,
		DrainTimeout:        c.Discovery.DrainTimeout,
		MaxConcurrentProbes: c.Discovery.MaxConcurrentProbes,
	})...)

	errs = append(errs, validate.ValidateClient(validate.ClientConfig{
		Port:    c.Client.Port,
		Scheme:  c.Client.Scheme,
		Timeout: c.Client.Timeout,
		CACert:  c.Client.CACertPath,
	})...)

	errs = append(errs, validate.ValidateLogging(validate.LoggingConfig{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		OutputFile: c.Logging.OutputFile,
	})...)

	errs = append(errs, c.validateIdentity()...)

	return errs
}

// PrepareReportDir readies the report location for a discovery run. The
// config directory is created when the report lives in it, and an existing
// report directory must be writable. Commands that only read the report
// skip this.
func (c *Config) PrepareReportDir() error {
	path := c.Discovery.ReportPath
	if dir, err := ConfigDir(); err == nil && filepath.Dir(path) == dir {
		if _, err := EnsureConfigDir(); err != nil {
			return ValidationError{Path: "discovery.report_path", Message: err.Error()}
		}
	}
	if err := validate.ValidateParentWritable(path); err != nil {
		return ValidationError{Path: "discovery.report_path", Message: err.Error()}
	}
	return nil
}

func (c *Config) validateIdentity() []error {
	var errs []error

	if c.Identity.ComputerName == "" {
		errs = append(errs, ValidationError{
			Path:    "identity.computer_name",
			Message: "must not be empty",
			Hint:    "set it in the config file or pass -n/--name",
		})
	}

	return errs
}
