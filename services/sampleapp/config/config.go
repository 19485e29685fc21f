package config

// StatsDConfig defines where and how the metrics are pushed
type StatsDConfig struct {
	Address   string   `toml:"Address"`
	Prefix    string   `toml:"Prefix"`
	ExtraTags string   `toml:"ExtraTags"`
	AllGauges bool     `toml:"AllGauges"`
	NoWorkers bool     `toml:"NoWorkers"`
	Whitelist []string `toml:"Whitelist"`
}

// Config maps to the config.toml file for the sample application
type Config struct {
	ListenAddress              string       `toml:"ListenAddress"`
	WorkerID                   int          `toml:"WorkerID"`
	PushIntervalInMilliseconds uint32       `toml:"PushIntervalInMilliseconds"`
	StatsD                     StatsDConfig `toml:"StatsD"`
}
