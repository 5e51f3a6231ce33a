package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete contractlens configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Export  ExportConfig  `mapstructure:"export"`
	Insight InsightConfig `mapstructure:"insight"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Paths   PathsConfig   `mapstructure:"paths"`
}

// APIConfig controls how the analysis service is reached
type APIConfig struct {
	// BaseURL is the API root; endpoints such as /upload/ are appended to it
	// (default: "http://localhost:5000/api")
	BaseURL string `mapstructure:"base_url"`
	// TimeoutSeconds bounds every request; a timeout counts as a transport failure (default: 120)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// RequestsPerSecond paces outgoing requests (default: 5, 0 = unlimited)
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	// Burst is the number of requests allowed back to back (default: 5)
	Burst int `mapstructure:"burst"`
	// ValidateResponses checks upload and analyze bodies against a JSON schema (default: true)
	ValidateResponses bool `mapstructure:"validate_responses"`
}

// ExportConfig controls where exported reports are delivered
type ExportConfig struct {
	// Dir is the download directory for contract_analysis_{id}.{ext} files (default: ".")
	Dir string `mapstructure:"dir"`
	// Archive optionally mirrors exports into an S3-compatible bucket
	Archive ArchiveConfig `mapstructure:"archive"`
}

// ArchiveConfig describes an S3-compatible bucket for exported reports
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// InsightConfig controls the per-clause insight cache
type InsightConfig struct {
	// CacheSize is the number of clause insights kept in memory (default: 128)
	CacheSize int `mapstructure:"cache_size"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// Theme is a built-in theme name or a custom theme in the themes directory (default: "default")
	Theme string `mapstructure:"theme"`
	// ErrorDisplayMs is how long the error stage is shown before returning
	// to the file-selected stage (default: 1500)
	ErrorDisplayMs int `mapstructure:"error_display_ms"`
	// WatchSelectedFile re-validates the selected file when it changes on disk (default: true)
	WatchSelectedFile bool `mapstructure:"watch_selected_file"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// PathsConfig controls where contractlens stores data
type PathsConfig struct {
	// StateDir holds logs. Supports ~ expansion.
	// If empty, defaults to $XDG_STATE_HOME/contractlens or ~/.local/state/contractlens.
	StateDir string `mapstructure:"state_dir"`
}

// ResolveStateDir returns the resolved state directory.
func (p *PathsConfig) ResolveStateDir() string {
	if p.StateDir != "" {
		return expandHome(p.StateDir)
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "contractlens")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".contractlens"
	}
	return filepath.Join(home, ".local", "state", "contractlens")
}

// ResolveDir returns the export directory with ~ expanded.
func (e *ExportConfig) ResolveDir() string {
	if e.Dir == "" {
		return "."
	}
	return expandHome(e.Dir)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Timeout returns the request timeout as a time.Duration (0 means no timeout)
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ErrorDisplay returns how long the error stage stays visible.
func (c *TUIConfig) ErrorDisplay() time.Duration {
	return time.Duration(c.ErrorDisplayMs) * time.Millisecond
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:5000/api",
			TimeoutSeconds:    120, // analysis runs an LLM; allow it time
			RequestsPerSecond: 5,
			Burst:             5,
			ValidateResponses: true,
		},
		Export: ExportConfig{
			Dir: ".",
			Archive: ArchiveConfig{
				Enabled: false,
				Region:  "us-east-1",
				Bucket:  "contractlens-exports",
				UseSSL:  true,
			},
		},
		Insight: InsightConfig{
			CacheSize: 128,
		},
		TUI: TUIConfig{
			Theme:             "default",
			ErrorDisplayMs:    1500,
			WatchSelectedFile: true,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Paths: PathsConfig{
			StateDir: "", // Empty means use the XDG state directory
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// API defaults
	viper.SetDefault("api.base_url", defaults.API.BaseURL)
	viper.SetDefault("api.timeout_seconds", defaults.API.TimeoutSeconds)
	viper.SetDefault("api.requests_per_second", defaults.API.RequestsPerSecond)
	viper.SetDefault("api.burst", defaults.API.Burst)
	viper.SetDefault("api.validate_responses", defaults.API.ValidateResponses)

	// Export defaults
	viper.SetDefault("export.dir", defaults.Export.Dir)
	viper.SetDefault("export.archive.enabled", defaults.Export.Archive.Enabled)
	viper.SetDefault("export.archive.endpoint", defaults.Export.Archive.Endpoint)
	viper.SetDefault("export.archive.region", defaults.Export.Archive.Region)
	viper.SetDefault("export.archive.bucket", defaults.Export.Archive.Bucket)
	viper.SetDefault("export.archive.access_key", defaults.Export.Archive.AccessKey)
	viper.SetDefault("export.archive.secret_key", defaults.Export.Archive.SecretKey)
	viper.SetDefault("export.archive.use_ssl", defaults.Export.Archive.UseSSL)

	// Insight defaults
	viper.SetDefault("insight.cache_size", defaults.Insight.CacheSize)

	// TUI defaults
	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.error_display_ms", defaults.TUI.ErrorDisplayMs)
	viper.SetDefault("tui.watch_selected_file", defaults.TUI.WatchSelectedFile)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	// Paths defaults
	viper.SetDefault("paths.state_dir", defaults.Paths.StateDir)
}

// LoadDotEnv loads KEY=value pairs from .env files into the process
// environment so viper's AutomaticEnv can see them. Missing files are ignored
// and variables already set in the environment win.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "contractlens")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".contractlens"
	}
	return filepath.Join(home, ".config", "contractlens")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ThemesDir returns the directory searched for custom theme files
func ThemesDir() string {
	return filepath.Join(ConfigDir(), "themes")
}
