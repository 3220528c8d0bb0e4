// Package config provides the YAML configuration model with first-run
// default creation and atomic saves.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CalendarWindow is the visible hour range of the weekly grid.
type CalendarWindow struct {
	StartHour int `yaml:"start_hour" json:"start_hour"`
	EndHour   int `yaml:"end_hour" json:"end_hour"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone used for semester dates and calendar
	// export. The exported calendar always carries a fixed UTC+7 block, so
	// this should stay "Asia/Ho_Chi_Minh".
	Timezone string `yaml:"timezone" json:"timezone"`

	// DatasetPath is the courses JSON file produced by the scrape pipeline.
	DatasetPath string `yaml:"dataset" json:"dataset"`

	// StateDir holds the persisted working set and filter state.
	StateDir string `yaml:"state_dir" json:"state_dir"`

	// RefreshCron is a cron-style schedule for reloading the dataset file.
	// Empty disables periodic reload.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// Calendar is the display window of the weekly grid.
	Calendar CalendarWindow `yaml:"calendar" json:"calendar"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		Timezone:    "Asia/Ho_Chi_Minh",
		DatasetPath: "./data/courses.json",
		StateDir:    "./state",
		RefreshCron: "@hourly",
		Calendar:    CalendarWindow{StartHour: 7, EndHour: 22},
	}
}

// Normalize fills in missing/zero values so partially-filled configs from
// older versions still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Ho_Chi_Minh"
	}
	if c.DatasetPath == "" {
		c.DatasetPath = "./data/courses.json"
	}
	if c.StateDir == "" {
		c.StateDir = "./state"
	}
	if c.Calendar.StartHour <= 0 {
		c.Calendar.StartHour = 7
	}
	if c.Calendar.EndHour <= c.Calendar.StartHour {
		c.Calendar.EndHour = 22
	}
}

// Load loads configuration from the given YAML path. If the file does not
// exist, a default config is written there (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename, 0600).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".courseplanner-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
