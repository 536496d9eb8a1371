// Package config loads the overlay settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mj1618/agentation/internal/capture"
	"github.com/mj1618/agentation/internal/model"
	"github.com/mj1618/agentation/internal/output"
	"gopkg.in/yaml.v3"
)

// DefaultRefreshRate is the highlight tracking rate in Hz.
const DefaultRefreshRate = 60

// Config holds the user-tunable settings. Zero values mean "default".
type Config struct {
	OutputFormat          string `yaml:"output_format,omitempty" json:"outputFormat,omitempty"`
	DataSource            string `yaml:"data_source,omitempty" json:"dataSource,omitempty"`
	IncludeHiddenElements bool   `yaml:"include_hidden_elements,omitempty" json:"includeHiddenElements,omitempty"`
	IncludeSystemViews    bool   `yaml:"include_system_views,omitempty" json:"includeSystemViews,omitempty"`
	// TrackFrames is a pointer so an explicit false survives defaulting.
	TrackFrames   *bool  `yaml:"track_frames,omitempty" json:"trackFrames,omitempty"`
	Carryover     string `yaml:"carryover,omitempty" json:"carryover,omitempty"`
	GroupByScreen bool   `yaml:"group_by_screen,omitempty" json:"groupByScreen,omitempty"`
	RefreshRate   int    `yaml:"refresh_rate,omitempty" json:"refreshRate,omitempty"`
	StatePath     string `yaml:"state_path,omitempty" json:"statePath,omitempty"`
	LogLevel      string `yaml:"log_level,omitempty" json:"logLevel,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	track := true
	return Config{
		OutputFormat: string(output.ExportMarkdown),
		DataSource:   string(model.SourceViewHierarchy),
		TrackFrames:  &track,
		Carryover:    "none",
		RefreshRate:  DefaultRefreshRate,
		LogLevel:     "info",
	}
}

// Tracking reports whether live frame tracking is enabled.
func (c Config) Tracking() bool {
	return c.TrackFrames == nil || *c.TrackFrames
}

// withDefaults fills unset fields from Default.
func (c Config) withDefaults() Config {
	d := Default()
	if c.OutputFormat == "" {
		c.OutputFormat = d.OutputFormat
	}
	if c.DataSource == "" {
		c.DataSource = d.DataSource
	}
	if c.TrackFrames == nil {
		c.TrackFrames = d.TrackFrames
	}
	if c.Carryover == "" {
		c.Carryover = d.Carryover
	}
	if c.RefreshRate == 0 {
		c.RefreshRate = d.RefreshRate
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	return c
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	if _, err := output.ParseExportFormat(c.OutputFormat); err != nil {
		return err
	}
	if _, err := model.ParseSourceType(c.DataSource); err != nil {
		return err
	}
	if _, err := capture.ParseCarryoverPolicy(c.Carryover); err != nil {
		return err
	}
	if c.RefreshRate < 0 || c.RefreshRate > 240 {
		return fmt.Errorf("refresh_rate %d out of range 1-240", c.RefreshRate)
	}
	return nil
}

// Load reads the config at path. A missing file yields Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data and applies defaults.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	c = c.withDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Save writes c to path as YAML, creating parent directories.
func Save(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultPath returns the per-user config location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "agentation.yaml"
	}
	return filepath.Join(dir, "agentation", "config.yaml")
}
