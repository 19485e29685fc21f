package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ListenerConfig defines the UDP ingest socket
type ListenerConfig struct {
	Host                      string `toml:"Host"`
	Port                      int    `toml:"Port"`
	BufferSize                int    `toml:"BufferSize"`
	PollTimeoutInMilliseconds uint32 `toml:"PollTimeoutInMilliseconds"`
}

// BoundedGaugeConfig defines the inclusive range of one gauge
type BoundedGaugeConfig struct {
	Name string  `toml:"Name"`
	Min  float64 `toml:"Min"`
	Max  float64 `toml:"Max"`
}

// HarnessConfig defines the validation rounds and the rules applied on each round
type HarnessConfig struct {
	NumRounds                   int                  `toml:"NumRounds"`
	AwaitIntervalInMilliseconds uint32               `toml:"AwaitIntervalInMilliseconds"`
	AwaitTimeoutInMilliseconds  uint32               `toml:"AwaitTimeoutInMilliseconds"`
	PrimaryCounter              string               `toml:"PrimaryCounter"`
	ExactIncrementCounters      []string             `toml:"ExactIncrementCounters"`
	MonotonicCounters           []string             `toml:"MonotonicCounters"`
	BoundedGauges               []BoundedGaugeConfig `toml:"BoundedGauges"`
}

// ProbeConfig defines the trigger probe of the system under test
type ProbeConfig struct {
	URL                   string `toml:"URL"`
	ExpectedMarker        string `toml:"ExpectedMarker"`
	JSONPath              string `toml:"JSONPath"`
	TimeoutInMilliseconds uint32 `toml:"TimeoutInMilliseconds"`
}

// APIConfig defines the diagnostics web server. An empty listen address disables it.
type APIConfig struct {
	ListenAddress string `toml:"ListenAddress"`
}

// ReportConfig defines where the final report is published. An empty endpoint disables the publishing.
type ReportConfig struct {
	Endpoint              string `toml:"Endpoint"`
	CheckerID             string `toml:"CheckerID"`
	TimeoutInMilliseconds uint32 `toml:"TimeoutInMilliseconds"`
	APIKey                string `toml:"-"`
}

// Config maps to the config.toml file for the checker
type Config struct {
	StatusLogIntervalInSeconds uint32         `toml:"StatusLogIntervalInSeconds"`
	MaxRunDurationInSeconds    uint32         `toml:"MaxRunDurationInSeconds"`
	Listener                   ListenerConfig `toml:"Listener"`
	Harness                    HarnessConfig  `toml:"Harness"`
	Probe                      ProbeConfig    `toml:"Probe"`
	API                        APIConfig      `toml:"API"`
	Report                     ReportConfig   `toml:"Report"`
}

// DefaultConfig returns the configuration used for the fields missing from the config file
func DefaultConfig() Config {
	return Config{
		Listener: ListenerConfig{
			Host:                      "localhost",
			Port:                      8125,
			BufferSize:                8192,
			PollTimeoutInMilliseconds: 5000,
		},
		Harness: HarnessConfig{
			NumRounds:                   4,
			AwaitIntervalInMilliseconds: 1000,
			AwaitTimeoutInMilliseconds:  30000,
			PrimaryCounter:              "myapp.worker.requests",
		},
		Probe: ProbeConfig{
			URL:                   "http://localhost:9090/",
			ExpectedMarker:        "Hello World",
			TimeoutInMilliseconds: 10000,
		},
		Report: ReportConfig{
			CheckerID:             "dogstatsd-checker",
			TimeoutInMilliseconds: 10000,
		},
	}
}

// LoadConfig parses a TOML file on top of the default configuration
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	cfg := DefaultConfig()
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}
