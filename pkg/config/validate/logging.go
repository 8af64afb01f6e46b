package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoggingConfig represents the logging configuration for validation purposes.
type LoggingConfig struct {
	Level      string
	Format     string
	OutputFile string
}

// ValidateLogging performs validation of the logging configuration.
func ValidateLogging(log LoggingConfig) []error {
	var errs []error

	if err := oneOf("logging.level", strings.ToLower(log.Level), "debug", "info", "warn", "error"); err != nil {
		errs = append(errs, err)
	}
	if err := oneOf("logging.format", log.Format, "console", "json"); err != nil {
		errs = append(errs, err)
	}

	// The log file itself is created on first use; its directory must exist.
	if log.OutputFile != "" {
		dir := filepath.Dir(log.OutputFile)
		if _, err := os.Stat(dir); err != nil {
			errs = append(errs, ValidationError{
				Path:    "logging.output_file",
				Message: fmt.Sprintf("directory %s does not exist", dir),
			})
		} else if err := ValidateDirWritable(dir); err != nil {
			errs = append(errs, ValidationError{
				Path:    "logging.output_file",
				Message: err.Error(),
			})
		}
	}

	return errs
}

// oneOf returns a ValidationError unless value is one of allowed.
func oneOf(path, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return ValidationError{
		Path:    path,
		Message: fmt.Sprintf("invalid value %q", value),
		Hint:    "allowed values: " + strings.Join(allowed, ", "),
	}
}
