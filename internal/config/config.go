// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/tidelist/internal/core/observable"
	"github.com/bethropolis/tidelist/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config             `toml:"logger"`  // [logger] table
	History HistoryConfig             `toml:"history"` // [history] table
	View    ViewConfig                `toml:"view"`    // [view] table
	Plugins map[string]map[string]any `toml:"plugins"` // [plugins.<name>] tables

	// RestorePath is set from the command line only.
	RestorePath string `toml:"-"`
}

// HistoryConfig holds undo history settings.
type HistoryConfig struct {
	MaxDepth       int    `toml:"max_depth"`       // 0 means unbounded
	ListenerPolicy string `toml:"listener_policy"` // "isolate" or "propagate"
}

// ViewConfig holds list view settings.
type ViewConfig struct {
	ScrollOff       int    `toml:"scroll_off"`
	SystemClipboard bool   `toml:"system_clipboard"`
	Theme           string `toml:"theme"`
	Inspector       bool   `toml:"inspector"`
	StatusBarHeight int    `toml:"status_bar_height"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			LogLevel:    "info",
			LogFilePath: defaultLogPath(),
		},
		History: HistoryConfig{
			MaxDepth:       DefaultMaxHistory,
			ListenerPolicy: DefaultListenerPolicy,
		},
		View: ViewConfig{
			ScrollOff:       DefaultScrollOff,
			SystemClipboard: SystemClipboard,
			Theme:           DefaultTheme,
			StatusBarHeight: StatusBarHeight,
		},
		Plugins: map[string]map[string]any{},
	}
}

func defaultLogPath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, AppName, DefaultLogFileName)
	}
	return DefaultLogFileName
}

// DefaultConfigPath returns ~/.config/tidelist/config.toml, or "" if the
// user config directory is unknown.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// ThemesDir returns the directory user themes are loaded from.
func ThemesDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, ThemesDirName)
}

// loadFromFile decodes filePath over cfg. A missing file is not an error.
// Keys absent from the file keep cfg's values.
func loadFromFile(filePath string, cfg *Config) error {
	if _, err := os.Stat(filePath); errors.Is(err, fs.ErrNotExist) {
		logger.DebugTagf("config", "Config file not found: %s", filePath)
		return nil
	} else if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		// Plugin tables are free-form, only report keys outside them.
		var unknown []string
		for _, key := range undecoded {
			if len(key) > 0 && key[0] != "plugins" {
				unknown = append(unknown, key.String())
			}
		}
		if len(unknown) > 0 {
			logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, unknown)
		}
	}
	logger.Infof("Loaded configuration from: %s", filePath)
	return nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.View.ScrollOff < 0 { // Allow 0
		c.View.ScrollOff = defaults.View.ScrollOff
	}
	if c.View.StatusBarHeight <= 0 {
		c.View.StatusBarHeight = defaults.View.StatusBarHeight
	}
	if strings.TrimSpace(c.View.Theme) == "" {
		c.View.Theme = defaults.View.Theme
	}

	if c.History.MaxDepth < 0 {
		c.History.MaxDepth = defaults.History.MaxDepth
	}
	if _, err := observable.ParseListenerPolicy(c.History.ListenerPolicy); err != nil {
		logger.Warnf("Config: %v, using %q", err, defaults.History.ListenerPolicy)
		c.History.ListenerPolicy = defaults.History.ListenerPolicy
	}

	if _, ok := logger.ParseLevel(c.Logger.LogLevel); !ok {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if c.Plugins == nil {
		c.Plugins = map[string]map[string]any{}
	}
}

// Load builds a config from defaults, the file at configFilePath (or the
// default location when empty) and flag overrides, then validates it.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		effectivePath = DefaultConfigPath()
	}

	var err error
	if effectivePath != "" {
		err = loadFromFile(effectivePath, cfg)
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()
	return cfg, err
}

// LoadConfig calls Load once and stores the result for Get.
// It should be called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = Load(configFilePath, flags)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}

// ListenerPolicy returns the parsed history listener policy.
func (c *Config) ListenerPolicy() observable.ListenerPolicy {
	p, _ := observable.ParseListenerPolicy(c.History.ListenerPolicy)
	return p
}

// --- Plugin settings ---

// PluginEnabled reports whether [plugins.<name>] leaves the plugin enabled.
// Plugins are enabled unless enabled = false.
func (c *Config) PluginEnabled(name string) bool {
	if v, ok := c.Plugins[name]["enabled"].(bool); ok {
		return v
	}
	return true
}

// PluginString returns a string option of a plugin, or def.
func (c *Config) PluginString(name, key, def string) string {
	if v, ok := c.Plugins[name][key].(string); ok {
		return v
	}
	return def
}

// PluginDuration returns a duration option written as "2s" or as an integer
// number of milliseconds, or def.
func (c *Config) PluginDuration(name, key string, def time.Duration) time.Duration {
	switch v := c.Plugins[name][key].(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		logger.Warnf("Config: plugins.%s.%s: invalid duration %q", name, key, v)
	case int64:
		return time.Duration(v) * time.Millisecond
	}
	return def
}

// SetPluginOption sets a plugin option, creating the table if needed.
func (c *Config) SetPluginOption(name, key string, value any) {
	if c.Plugins == nil {
		c.Plugins = map[string]map[string]any{}
	}
	if c.Plugins[name] == nil {
		c.Plugins[name] = map[string]any{}
	}
	c.Plugins[name][key] = value
}
