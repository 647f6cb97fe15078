// ABOUTME: Habits configuration management with backend selection.
// ABOUTME: Handles settings, profile targets, env overrides, and the storage backend factory.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/habits/internal/charm"
	"github.com/harperreed/habits/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. HABITS_BACKEND.
const EnvPrefix = "HABITS"

// Backends.
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Profile holds the user's daily targets shown on the dashboard.
type Profile struct {
	Name           string  `json:"name" mapstructure:"name"`
	TargetCalories float64 `json:"target_calories" mapstructure:"target_calories"`
	TargetWater    float64 `json:"target_water" mapstructure:"target_water"`
	TargetSteps    float64 `json:"target_steps" mapstructure:"target_steps"`
}

// Config stores habits tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty" mapstructure:"backend"`

	// DataDir is the root directory for data storage and logs.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/habits.
	DataDir string `json:"data_dir,omitempty" mapstructure:"data_dir"`

	// Theme is the dashboard color scheme, "light" or "dark".
	Theme string `json:"theme,omitempty" mapstructure:"theme"`

	// Addr is the listen address for `habits serve`.
	Addr string `json:"addr,omitempty" mapstructure:"addr"`

	Debug bool `json:"debug,omitempty" mapstructure:"debug"`

	// PreserveReadState keeps a notification's read flag when the rules
	// regenerate a notification with the same id.
	PreserveReadState bool `json:"preserve_read_state" mapstructure:"preserve_read_state"`

	Profile Profile `json:"profile" mapstructure:"profile"`
}

// Default returns a config with every default applied.
func Default() *Config {
	return &Config{
		Backend:           BackendSQLite,
		Theme:             ThemeLight,
		Addr:              "127.0.0.1:8080",
		PreserveReadState: true,
		Profile: Profile{
			Name:           "Jenny Wilson",
			TargetCalories: 2100,
			TargetWater:    2300,
			TargetSteps:    10000,
		},
	}
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// IsDark reports whether the dark theme is selected.
func (c *Config) IsDark() bool {
	return c.Theme == ThemeDark
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.GetBackend() {
	case BackendSQLite, BackendCharm:
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	switch c.Theme {
	case "", ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("unknown theme: %q (use light or dark)", c.Theme)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return c.OpenBackend(c.GetBackend())
}

// OpenBackend opens the named backend using this config's data directory.
func (c *Config) OpenBackend(backend string) (storage.Repository, error) {
	switch backend {
	case BackendSQLite:
		return storage.Open(filepath.Join(c.GetDataDir(), storage.DBFileName))
	case BackendCharm:
		return charm.InitClient()
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "habits", "config.json")
}

// Load reads config from disk, then applies .env and HABITS_* overrides.
func Load() (*Config, error) {
	return LoadFile(GetConfigPath())
}

// LoadFile reads config from path. A missing file yields defaults.
func LoadFile(path string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	d := Default()
	v.SetDefault("backend", d.Backend)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("theme", d.Theme)
	v.SetDefault("addr", d.Addr)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("preserve_read_state", d.PreserveReadState)
	v.SetDefault("profile.name", d.Profile.Name)
	v.SetDefault("profile.target_calories", d.Profile.TargetCalories)
	v.SetDefault("profile.target_water", d.Profile.TargetWater)
	v.SetDefault("profile.target_steps", d.Profile.TargetSteps)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetTheme writes theme into the config file at path. Only the file's own
// keys are kept; defaults, .env and HABITS_* overrides are not written.
func SetTheme(path, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme: %q (use light or dark)", theme)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetConfigPermissions(0600)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	v.Set("theme", theme)

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	return c.SaveFile(GetConfigPath())
}

// SaveFile writes config to path as indented JSON.
func (c *Config) SaveFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
