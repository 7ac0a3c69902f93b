package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/teemow/multical/internal/calendar"
	"github.com/teemow/multical/internal/logging"
)

const (
	// EnvPrefix prefixes every environment override, e.g. MCAL_TIMEZONE.
	EnvPrefix = "MCAL"
	// DirEnv overrides the config directory.
	DirEnv = "MCAL_CONFIG_DIR"
	// DefaultDir holds config.json, client_secret.json and the accounts.
	DefaultDir = "~/.config/multical"
	// FileName is the settings file inside the config directory.
	FileName = "config.json"
)

// Setting keys
const (
	KeyDefaultAccount  = "default_account"
	KeyTimeZone        = "timezone"
	KeyWindowDays      = "window_days"
	KeyWeekStartMonday = "display.week_start_monday"
	KeyMilitaryTime    = "display.military_time"
	KeyAccessRoles     = "access_roles"
	KeyConcurrency     = "concurrency"
	KeyLogLevel        = "log_level"
)

const (
	DefaultWindowDays  = 5
	DefaultConcurrency = 5
)

// Settings is the resolved configuration of one invocation.
type Settings struct {
	Dir             string
	DefaultAccount  string
	TimeZone        string
	WindowDays      int
	WeekStartMonday bool
	MilitaryTime    bool
	AccessRoles     []calendar.AccessRole
	Concurrency     int
	LogLevel        string
}

// Dir returns the config directory with ~ expanded.
func Dir() (string, error) {
	dir := os.Getenv(DirEnv)
	if dir == "" {
		dir = DefaultDir
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("failed to expand config dir %q: %w", dir, err)
	}
	return expanded, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDefaultAccount, "")
	v.SetDefault(KeyTimeZone, calendar.DefaultTimeZone)
	v.SetDefault(KeyWindowDays, DefaultWindowDays)
	v.SetDefault(KeyWeekStartMonday, true)
	v.SetDefault(KeyMilitaryTime, true)
	v.SetDefault(KeyAccessRoles, []string{
		string(calendar.AccessOwner), string(calendar.AccessWriter), string(calendar.AccessReader),
	})
	v.SetDefault(KeyConcurrency, DefaultConcurrency)
	v.SetDefault(KeyLogLevel, logging.DefaultLevel)
}

// Load reads config.json from dir, applies MCAL_* environment overrides and
// validates the result. A missing file yields the defaults.
func Load(dir string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(filepath.Join(dir, FileName))
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	s := &Settings{
		Dir:             dir,
		DefaultAccount:  v.GetString(KeyDefaultAccount),
		TimeZone:        v.GetString(KeyTimeZone),
		WindowDays:      v.GetInt(KeyWindowDays),
		WeekStartMonday: v.GetBool(KeyWeekStartMonday),
		MilitaryTime:    v.GetBool(KeyMilitaryTime),
		Concurrency:     v.GetInt(KeyConcurrency),
		LogLevel:        v.GetString(KeyLogLevel),
	}
	for _, r := range v.GetStringSlice(KeyAccessRoles) {
		s.AccessRoles = append(s.AccessRoles, calendar.AccessRole(r))
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings for values the core cannot work with.
func (s *Settings) Validate() error {
	if s.WindowDays < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyWindowDays, s.WindowDays)
	}
	if s.Concurrency < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyConcurrency, s.Concurrency)
	}
	if len(s.AccessRoles) == 0 {
		return fmt.Errorf("%s must not be empty", KeyAccessRoles)
	}
	for _, r := range s.AccessRoles {
		if !r.Valid() {
			return fmt.Errorf("unknown access role %q in %s", r, KeyAccessRoles)
		}
	}
	if _, err := s.Location(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}

// Location loads the target time zone.
func (s *Settings) Location() (*time.Location, error) {
	return calendar.LoadZone(s.TimeZone)
}

// Window returns the default agenda length.
func (s *Settings) Window() time.Duration {
	return time.Duration(s.WindowDays) * 24 * time.Hour
}

// SetDefaultAccount stores name as the default account in dir's config.json,
// keeping every other key already in the file. An empty name clears it.
func SetDefaultAccount(dir, name string) error {
	path := filepath.Join(dir, FileName)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	v.Set(KeyDefaultAccount, name)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Chmod(path, 0600)
}
