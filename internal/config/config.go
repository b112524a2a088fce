// Package config loads the detox settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xvierd/detox-cli/internal/domain"
)

// Config holds all configuration for the detox application.
type Config struct {
	WorkTime      int                `mapstructure:"work_time"`
	BlockedSites  []string           `mapstructure:"blocked_sites"`
	ExpectedStart string             `mapstructure:"expected_start"`
	WeekendDays   []string           `mapstructure:"weekend_days"`
	HostsFile     string             `mapstructure:"hosts_file"`
	BackupFile    string             `mapstructure:"backup_file"`
	DataDir       string             `mapstructure:"data_dir"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// ThemeConfig holds the view colors.
type ThemeConfig struct {
	ColorWork         string `mapstructure:"color_work"`
	ColorBreak        string `mapstructure:"color_break"`
	ColorDone         string `mapstructure:"color_done"`
	ColorTitle        string `mapstructure:"color_title"`
	ColorHelp         string `mapstructure:"color_help"`
	ColorError        string `mapstructure:"color_error"`
	WorkGradientStart string `mapstructure:"work_gradient_start"`
	WorkGradientEnd   string `mapstructure:"work_gradient_end"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorWork:         "#7C6FE0",
		ColorBreak:        "#4ECDC4",
		ColorDone:         "#2ECC71",
		ColorTitle:        "#6B7280",
		ColorHelp:         "#95A5A6",
		ColorError:        "#E74C3C",
		WorkGradientStart: "#7C6FE0",
		WorkGradientEnd:   "#A78BFA",
	}
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

const (
	defaultDataDir       = "~/.detox"
	defaultHostsFile     = "/etc/hosts"
	defaultExpectedStart = "09:00"
	settingsFileName     = "settings.toml"
	saveFileName         = "save.toml"
	dbFileName           = "detox.db"
	logFileName          = "detox.log"
	backupFileName       = "hosts.backup"
	lockFileName         = "hosts.lock"
)

// DefaultConfig returns the configuration written by `detox init`.
func DefaultConfig() *Config {
	return &Config{
		WorkTime:      4 * 60 * 60,
		BlockedSites:  []string{"www.youtube.com", "youtube.com", "www.reddit.com", "reddit.com"},
		ExpectedStart: defaultExpectedStart,
		WeekendDays:   []string{"saturday", "sunday"},
		HostsFile:     defaultHostsFile,
		DataDir:       defaultDataDir,
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load reads the settings file at path, or the default path when empty.
// A missing file, unparsable content or invalid values are all
// domain.ErrConfig.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: settings file %s not found (run `detox init`)", domain.ErrConfig, path)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrConfig, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: failed to read settings: %v", domain.ErrConfig, err)
	}
	if !v.IsSet("work_time") {
		return nil, fmt.Errorf("%w: work_time is required", domain.ErrConfig)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal settings: %v", domain.ErrConfig, err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if _, err := cfg.Settings(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteDefault writes DefaultConfig to path unless a file already exists.
// It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := DefaultConfig()
	v := viper.New()
	v.SetConfigType("toml")
	v.Set("work_time", cfg.WorkTime)
	v.Set("blocked_sites", cfg.BlockedSites)
	v.Set("expected_start", cfg.ExpectedStart)
	v.Set("weekend_days", cfg.WeekendDays)
	v.Set("hosts_file", cfg.HostsFile)
	v.Set("data_dir", cfg.DataDir)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)

	if err := v.SafeWriteConfigAs(path); err != nil {
		return false, fmt.Errorf("failed to write settings: %w", err)
	}
	return true, nil
}

// Settings converts the file values into validated domain settings.
func (c *Config) Settings() (domain.Settings, error) {
	settings := domain.Settings{
		WorkDuration:   time.Duration(c.WorkTime) * time.Second,
		BlockedDomains: append([]string(nil), c.BlockedSites...),
		WeekendDays:    []time.Weekday{},
	}

	for _, name := range c.WeekendDays {
		day, err := domain.ParseWeekday(name)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("%w: %v", domain.ErrConfig, err)
		}
		settings.WeekendDays = append(settings.WeekendDays, day)
	}

	if c.ExpectedStart != "" {
		offset, err := domain.ParseClock(c.ExpectedStart)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("%w: %v", domain.ErrConfig, err)
		}
		settings.ExpectedStart = &offset
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("%w: %v", domain.ErrConfig, err)
	}
	return settings, nil
}

// GetConfigPath returns the path to the default settings file.
func GetConfigPath() (string, error) {
	dir, err := expandHome(defaultDataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFileName), nil
}

// GetStatePath returns the path to the save record.
func GetStatePath(cfg *Config) string {
	return filepath.Join(cfg.DataDir, saveFileName)
}

// GetDBPath returns the path to the history database.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.DataDir, dbFileName)
}

// GetLogPath returns the path to the log file.
func GetLogPath(cfg *Config) string {
	return filepath.Join(cfg.DataDir, logFileName)
}

// GetLockPath returns the path to the host file lock.
func GetLockPath(cfg *Config) string {
	return filepath.Join(cfg.DataDir, lockFileName)
}

func (c *Config) expandPaths() error {
	var err error
	if c.DataDir, err = expandHome(c.DataDir); err != nil {
		return err
	}
	if c.HostsFile, err = expandHome(c.HostsFile); err != nil {
		return err
	}
	if c.BackupFile == "" {
		c.BackupFile = filepath.Join(c.DataDir, backupFileName)
	} else if c.BackupFile, err = expandHome(c.BackupFile); err != nil {
		return err
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: failed to get home directory: %v", domain.ErrConfig, err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("blocked_sites", []string{})
	v.SetDefault("expected_start", defaultExpectedStart)
	v.SetDefault("weekend_days", []string{"saturday", "sunday"})
	v.SetDefault("hosts_file", defaultHostsFile)
	v.SetDefault("backup_file", "")
	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.sound", true)

	defaults := DefaultThemeConfig()
	v.SetDefault("theme.color_work", defaults.ColorWork)
	v.SetDefault("theme.color_break", defaults.ColorBreak)
	v.SetDefault("theme.color_done", defaults.ColorDone)
	v.SetDefault("theme.color_title", defaults.ColorTitle)
	v.SetDefault("theme.color_help", defaults.ColorHelp)
	v.SetDefault("theme.color_error", defaults.ColorError)
	v.SetDefault("theme.work_gradient_start", defaults.WorkGradientStart)
	v.SetDefault("theme.work_gradient_end", defaults.WorkGradientEnd)
}
