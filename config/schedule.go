package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration to support YAML unmarshalling of human
// readable strings like "5m" or "30s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses human readable duration strings.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return nil
	}
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be string")
	}
	raw := value.Value
	if raw == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

// ScheduleConfig controls how often the lifecycle controller runs its
// refresh/rescore/sign cycle. A zero Interval means no scheduled cycle.
type ScheduleConfig struct {
	Interval Duration `yaml:"interval"`
}

// LoadSchedule reads an ETL schedule file. A missing file is not an error;
// it yields a zero-value schedule with no interval configured.
func LoadSchedule(path string) (*ScheduleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ScheduleConfig{}, nil
		}
		return nil, err
	}
	cfg := &ScheduleConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse schedule file %s: %w", path, err)
	}
	return cfg, nil
}
