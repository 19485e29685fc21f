package config

import (
	"fmt"
	"strconv"
)

// Environment keys able to override the config file values
const (
	EnvProbeURL   = "CHECKER_PROBE_URL"
	EnvListenHost = "CHECKER_LISTEN_HOST"
	EnvListenPort = "CHECKER_LISTEN_PORT"
	EnvReportKey  = "CHECKER_REPORT_API_KEY"
)

// EnvKeys returns all the environment keys recognized by ApplyEnvOverrides
func EnvKeys() []string {
	return []string{EnvProbeURL, EnvListenHost, EnvListenPort, EnvReportKey}
}

// ApplyEnvOverrides sets the non-empty values from the provided map on top of the loaded configuration
func ApplyEnvOverrides(cfg *Config, values map[string]string) error {
	if cfg == nil {
		return errNilConfig
	}

	if value := values[EnvProbeURL]; len(value) > 0 {
		cfg.Probe.URL = value
	}
	if value := values[EnvListenHost]; len(value) > 0 {
		cfg.Listener.Host = value
	}
	if value := values[EnvReportKey]; len(value) > 0 {
		cfg.Report.APIKey = value
	}
	if value := values[EnvListenPort]; len(value) > 0 {
		port, err := strconv.Atoi(value)
		if err != nil || port < 0 || port > 65535 {
			return fmt.Errorf("%w %s: %q", errInvalidEnvValue, EnvListenPort, value)
		}
		cfg.Listener.Port = port
	}

	return nil
}
