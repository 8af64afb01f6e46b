package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DecodeStrict decodes YAML from a reader and rejects any unknown fields.
// This ensures the YAML only contains recognized configuration keys.
func DecodeStrict(r io.Reader, out interface{}) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads the config file at path on top of DefaultConfig.
// An empty path means ~/.opendrop/config.yaml; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := DefaultPath("config.yaml")
		if err != nil {
			return nil, err
		}
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to open config %s: %w", path, err)
		}
	} else {
		defer f.Close()
		if err := DecodeStrict(f, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	reportPath, err := ExpandPath(cfg.Discovery.ReportPath)
	if err != nil {
		return nil, err
	}
	cfg.Discovery.ReportPath = reportPath

	return cfg, nil
}
