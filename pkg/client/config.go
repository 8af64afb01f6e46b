package client

import "time"

// Config holds the settings for exchanges with a receiver.
type Config struct {
	Scheme             string        // http or https
	Timeout            time.Duration // per request
	InsecureSkipVerify bool          // receivers present self-signed certificates
	CACertPath         string        // verify receivers against this PEM bundle instead
	Interface          string        // zone for link-local IPv6 endpoints

	ComputerName  string // SenderComputerName
	ComputerModel string // SenderModelName
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Scheme:             "https",
		Timeout:            10 * time.Second,
		InsecureSkipVerify: true,
		ComputerName:       "opendrop",
		ComputerModel:      "OpenDrop",
	}
}
