// Package config holds the application configuration, loaded through viper
// from a YAML file, environment variables, and flags.
package config

import (
	"fmt"
	"time"
)

// Config is the root of the application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Driver  DriverConfig  `mapstructure:"driver" yaml:"driver"`
	Scenes  []SceneConfig `mapstructure:"scenes" yaml:"scenes"`
}

// LoggerConfig controls the global zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`

	// File rotation, active when LogFile is set.
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig controls the headless browser session.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	StartupTimeout    time.Duration `mapstructure:"startup_timeout" yaml:"startup_timeout"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// DriverConfig controls the scroll driver loop.
type DriverConfig struct {
	FrameInterval  time.Duration `mapstructure:"frame_interval" yaml:"frame_interval"`
	ResizeDebounce time.Duration `mapstructure:"resize_debounce" yaml:"resize_debounce"`
}

// ScenePropConfig declares one animated property of a scene.
type ScenePropConfig struct {
	Name   string `mapstructure:"name" yaml:"name"`
	From   string `mapstructure:"from" yaml:"from"`
	To     string `mapstructure:"to" yaml:"to"`
	Easing string `mapstructure:"easing" yaml:"easing"`
}

// SceneConfig is a declarative instance created at startup.
type SceneConfig struct {
	Element string `mapstructure:"element" yaml:"element"`
	From    string `mapstructure:"from" yaml:"from"`
	To      string `mapstructure:"to" yaml:"to"`
	// Direct is a bool or a selector string, mirroring the instance config.
	Direct  any               `mapstructure:"direct" yaml:"direct"`
	Tracked *bool             `mapstructure:"tracked" yaml:"tracked"`
	Props   []ScenePropConfig `mapstructure:"props" yaml:"props"`
}

// NewDefaultConfig returns the configuration used when nothing overrides it.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "scrollflux",
			MaxSize:     50,
			MaxBackups:  3,
			MaxAge:      14,
		},
		Browser: BrowserConfig{
			Headless:          true,
			StartupTimeout:    30 * time.Second,
			NavigationTimeout: 30 * time.Second,
		},
		Driver: DriverConfig{
			FrameInterval:  16 * time.Millisecond,
			ResizeDebounce: 200 * time.Millisecond,
		},
	}
}

// Validate rejects configurations the runtime cannot work with. Scene
// contents are validated later, by instance.Validate, against the live
// page; only structural problems are caught here.
func (c *Config) Validate() error {
	if c.Driver.FrameInterval <= 0 {
		return fmt.Errorf("driver.frame_interval must be positive")
	}
	if c.Driver.ResizeDebounce <= 0 {
		return fmt.Errorf("driver.resize_debounce must be positive")
	}
	for i, sc := range c.Scenes {
		if sc.From == "" || sc.To == "" {
			return fmt.Errorf("scenes[%d]: from and to are required", i)
		}
		for j, p := range sc.Props {
			if p.Name == "" {
				return fmt.Errorf("scenes[%d].props[%d]: name is required", i, j)
			}
		}
	}
	return nil
}
