package config

import "time"

// ClientConfig contains settings for the transfer protocol client
type ClientConfig struct {
	Port               int           `yaml:"port"`                 // Default receiver port for raw commands
	Scheme             string        `yaml:"scheme"`               // http or https
	Timeout            time.Duration `yaml:"timeout"`              // Per-request timeout
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"` // Receivers present self-signed certificates
	CACertPath         string        `yaml:"ca_cert_path"`         // Optional PEM bundle to verify receivers against
}
