package validate

import (
	"fmt"
	"os"
	"time"
)

// ClientConfig represents the protocol client configuration for validation purposes.
type ClientConfig struct {
	Port    int
	Scheme  string
	Timeout time.Duration
	CACert  string
}

// ValidateClient performs validation of the protocol client configuration.
func ValidateClient(c ClientConfig) []error {
	var errs []error

	if err := ValidatePort(c.Port); err != nil {
		errs = append(errs, ValidationError{
			Path:    "client.port",
			Message: err.Error(),
		})
	}

	if err := oneOf("client.scheme", c.Scheme, "https", "http"); err != nil {
		errs = append(errs, err)
	}

	if c.Timeout <= 0 {
		errs = append(errs, ValidationError{
			Path:    "client.timeout",
			Message: fmt.Sprintf("must be > 0; got %v", c.Timeout),
		})
	}

	if c.CACert != "" {
		if info, err := os.Stat(c.CACert); err != nil || info.IsDir() {
			errs = append(errs, ValidationError{
				Path:    "client.ca_cert_path",
				Message: fmt.Sprintf("not a readable file: %s", c.CACert),
				Hint:    "remove the setting to accept self-signed receivers",
			})
		}
	}

	return errs
}
