package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/stackbank/internal/common"
)

// Session storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var (
	validBackends   = []string{BackendFile, BackendSQLite}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"console", "json"}
)

// Config is the resolved client configuration.
type Config struct {
	APIBaseURL     string
	SessionBackend string
	StateFile      string
	DBPath         string
	ExportDir      string
	LogLevel       string
	LogFormat      string
	LogFile        string
	Theme          string
	APITimeout     time.Duration
	IdleTimeout    time.Duration
	NotifyDuration time.Duration
	Mouse          bool
}

// SetDefaults registers the default for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:3001/api")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("session.backend", BackendFile)
	v.SetDefault("session.state_file", filepath.Join(DataDir(), "session.json"))
	v.SetDefault("session.db_path", filepath.Join(DataDir(), "stackbank.db"))
	v.SetDefault("session.idle_timeout", 15*time.Minute)
	v.SetDefault("notify.duration", 3500*time.Millisecond)
	v.SetDefault("export.dir", ".")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", filepath.Join(StateDir(), "stackbank.log"))
	v.SetDefault("ui.mouse", true)
	v.SetDefault("ui.theme", "default")
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		APIBaseURL:     strings.TrimSpace(v.GetString("api.base_url")),
		APITimeout:     v.GetDuration("api.timeout"),
		SessionBackend: strings.ToLower(v.GetString("session.backend")),
		StateFile:      ExpandPath(v.GetString("session.state_file")),
		DBPath:         ExpandPath(v.GetString("session.db_path")),
		IdleTimeout:    v.GetDuration("session.idle_timeout"),
		NotifyDuration: v.GetDuration("notify.duration"),
		ExportDir:      ExpandPath(v.GetString("export.dir")),
		LogLevel:       strings.ToLower(v.GetString("logging.level")),
		LogFormat:      strings.ToLower(v.GetString("logging.format")),
		LogFile:        ExpandPath(v.GetString("logging.file")),
		Mouse:          v.GetBool("ui.mouse"),
		Theme:          v.GetString("ui.theme"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Host == "" {
		problems = append(problems, fmt.Sprintf("invalid api.base_url '%s'", c.APIBaseURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid api.base_url scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	if c.APITimeout <= 0 {
		problems = append(problems, "api.timeout must be positive")
	}
	if c.IdleTimeout <= 0 {
		problems = append(problems, "session.idle_timeout must be positive")
	}
	if c.NotifyDuration <= 0 {
		problems = append(problems, "notify.duration must be positive")
	}

	if !slices.Contains(validBackends, c.SessionBackend) {
		problems = append(problems, fmt.Sprintf("invalid session.backend '%s': must be one of %v", c.SessionBackend, validBackends))
	}
	if c.SessionBackend == BackendFile && c.StateFile == "" {
		problems = append(problems, "session.state_file cannot be empty when using file backend")
	}
	if c.SessionBackend == BackendSQLite && c.DBPath == "" {
		problems = append(problems, "session.db_path cannot be empty when using sqlite backend")
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		problems = append(problems, fmt.Sprintf("invalid logging.level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		problems = append(problems, fmt.Sprintf("invalid logging.format '%s': must be one of %v", c.LogFormat, validLogFormats))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
