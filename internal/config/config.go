package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrMissingPassword is returned by Validate when no VLC HTTP password is set
var ErrMissingPassword = errors.New("vlc http password is required (set --vlc-http-password, HUSH_VLC_PASSWORD or vlc.password)")

const (
	DefaultCheckInterval = 1000 * time.Millisecond
	DefaultBaseURL       = "http://localhost:8080"
	DefaultIdentity      = "vlc"
	DefaultHTTPTimeout   = 3000 * time.Millisecond
	DefaultOutputFormat  = "{{.State}}{{if .Title}}: {{.Title}}{{end}}"
)

// Config holds application configuration
type Config struct {
	// Time between reconciliation ticks
	CheckInterval time.Duration

	// VLC HTTP interface settings
	VLC VLCConfig

	// Bound on every status probe, command and session query
	HTTPTimeout time.Duration

	// Directory holding the decision journal
	// Default: ~/.local/share/hush
	DataDir string

	// Whether the daemon records decisions to the journal
	Journal bool

	// Output format template for the status command
	OutputFormat string
}

// VLCConfig holds VLC specific configuration
type VLCConfig struct {
	BaseURL  string
	Password string

	// Substring identifying the controlled player among media sessions
	Identity string
}

// flagKeys maps command line flag names onto configuration keys
var flagKeys = map[string]string{
	"check-interval":    "check_interval",
	"vlc-base-url":      "vlc.base_url",
	"vlc-http-password": "vlc.password",
	"player-identity":   "vlc.identity",
	"http-timeout":      "http_timeout",
	"data-dir":          "data_dir",
	"journal":           "journal",
	"format":            "output_format",
}

// Load reads configuration from flags, environment and the config file.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	return LoadFrom(getConfigDir(), flags)
}

// LoadFrom is Load with an explicit config directory
func LoadFrom(configDir string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetDefault("check_interval", DefaultCheckInterval.Milliseconds())
	v.SetDefault("vlc.base_url", DefaultBaseURL)
	v.SetDefault("vlc.password", "")
	v.SetDefault("vlc.identity", DefaultIdentity)
	v.SetDefault("http_timeout", DefaultHTTPTimeout.Milliseconds())
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("journal", true)
	v.SetDefault("output_format", DefaultOutputFormat)

	// Config file is optional, but a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// HUSH_VLC_PASSWORD, HUSH_CHECK_INTERVAL, ...
	v.SetEnvPrefix("HUSH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		CheckInterval: time.Duration(v.GetInt64("check_interval")) * time.Millisecond,
		VLC: VLCConfig{
			BaseURL:  v.GetString("vlc.base_url"),
			Password: v.GetString("vlc.password"),
			Identity: v.GetString("vlc.identity"),
		},
		HTTPTimeout:  time.Duration(v.GetInt64("http_timeout")) * time.Millisecond,
		DataDir:      expandHome(v.GetString("data_dir")),
		Journal:      v.GetBool("journal"),
		OutputFormat: v.GetString("output_format"),
	}

	return cfg, nil
}

// Validate checks the settings the daemon cannot run without
func (c *Config) Validate() error {
	if c.VLC.Password == "" {
		return ErrMissingPassword
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("check_interval must be positive, got %v", c.CheckInterval)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %v", c.HTTPTimeout)
	}
	return nil
}

// JournalPath returns the journal database path, or "" when journaling is off
func (c *Config) JournalPath() string {
	if !c.Journal {
		return ""
	}
	return filepath.Join(c.DataDir, "journal.db")
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "hush")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".local", "share", "hush")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}

// Save writes configuration to file
func (c *Config) Save() error {
	return c.SaveTo(getConfigDir())
}

// SaveTo writes configuration to config.yaml in configDir
func (c *Config) SaveTo(configDir string) error {
	v := viper.New()

	configFile := filepath.Join(configDir, "config.yaml")

	v.Set("check_interval", c.CheckInterval.Milliseconds())
	v.Set("vlc.base_url", c.VLC.BaseURL)
	v.Set("vlc.password", c.VLC.Password)
	v.Set("vlc.identity", c.VLC.Identity)
	v.Set("http_timeout", c.HTTPTimeout.Milliseconds())
	v.Set("data_dir", c.DataDir)
	v.Set("journal", c.Journal)
	v.Set("output_format", c.OutputFormat)

	// The file holds the VLC password
	v.SetConfigPermissions(0600)
	if err := v.WriteConfigAs(configFile); err != nil {
		return err
	}

	// Permissions only apply on create; tighten files written before
	return os.Chmod(configFile, 0600)
}
