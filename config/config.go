package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the oracle daemon's bootstrap configuration. It only covers
// process wiring (where things live, how loudly to log); event, entry and
// weather-data parameters are runtime/API concerns handled elsewhere.
type Config struct {
	ListenAddress  string `toml:"ListenAddress"`
	PublicBaseURL  string `toml:"PublicBaseURL"`
	DataDir        string `toml:"DataDir"`
	EventDBDir     string `toml:"EventDBDir"`
	UIDir          string `toml:"UIDir"`
	PrivateKeyPath string `toml:"PrivateKeyPath"`
	LogLevel       string `toml:"LogLevel"`
	SchedulePath   string `toml:"SchedulePath"`
}

// Load reads the configuration at path, writing a default configuration on
// first run the same way the reference node bootstraps its validator key.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		ListenAddress:  ":8080",
		PublicBaseURL:  "http://localhost:8080",
		DataDir:        "./oracle-data",
		EventDBDir:     "./oracle-data/events",
		UIDir:          "./oracle-data/ui",
		PrivateKeyPath: "./oracle-data/oracle.pem",
		LogLevel:       "info",
		SchedulePath:   "./oracle-data/schedule.yaml",
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8080"
	}
	if cfg.SchedulePath == "" {
		cfg.SchedulePath = "./oracle-data/schedule.yaml"
	}
}
