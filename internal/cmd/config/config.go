// Package config provides CLI commands for managing contractlens configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	appconfig "github.com/Iron-Ham/contractlens/internal/config"
	"github.com/Iron-Ham/contractlens/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify contractlens configuration",
	Long: `View or modify contractlens configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  contractlens config set api.base_url https://contracts.example.com/api
  contractlens config set tui.theme light
  contractlens config set export.dir ~/Downloads

Valid keys:
  api.base_url              - Analysis API root
  api.timeout_seconds       - Request timeout (0 disables)
  api.requests_per_second   - Request pacing (0 disables)
  api.burst                 - Requests allowed back to back
  api.validate_responses    - Check response bodies against a schema (true/false)
  export.dir                - Where exported reports are written
  insight.cache_size        - Clause insights kept in memory
  tui.theme                 - Color theme (see 'config theme list')
  tui.error_display_ms      - How long errors stay on screen
  tui.watch_selected_file   - Re-validate the selected file on change (true/false)
  logging.enabled           - Write the debug log (true/false)
  logging.level             - Options: debug, info, warn, error
  logging.max_size_mb       - Rotate the log beyond this size
  logging.max_backups       - Rotated logs to keep`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/contractlens/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset configuration to defaults",
	Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.

Examples:
  contractlens config reset               # Reset all to defaults
  contractlens config reset tui.theme     # Reset only tui.theme to default`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configResetCmd)
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

// validKeys maps settable keys to their value type
var validKeys = map[string]string{
	"api.base_url":            "string",
	"api.timeout_seconds":     "int",
	"api.requests_per_second": "float",
	"api.burst":               "int",
	"api.validate_responses":  "bool",
	"export.dir":              "string",
	"insight.cache_size":      "int",
	"tui.theme":               "string",
	"tui.error_display_ms":    "int",
	"tui.watch_selected_file": "bool",
	"logging.enabled":         "bool",
	"logging.level":           "string",
	"logging.max_size_mb":     "int",
	"logging.max_backups":     "int",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := appconfig.Get()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "api:")
	fmt.Fprintf(out, "  base_url: %s\n", cfg.API.BaseURL)
	fmt.Fprintf(out, "  timeout_seconds: %d\n", cfg.API.TimeoutSeconds)
	fmt.Fprintf(out, "  requests_per_second: %g\n", cfg.API.RequestsPerSecond)
	fmt.Fprintf(out, "  burst: %d\n", cfg.API.Burst)
	fmt.Fprintf(out, "  validate_responses: %v\n", cfg.API.ValidateResponses)

	fmt.Fprintln(out, "export:")
	fmt.Fprintf(out, "  dir: %s\n", cfg.Export.Dir)
	fmt.Fprintln(out, "  archive:")
	fmt.Fprintf(out, "    enabled: %v\n", cfg.Export.Archive.Enabled)
	if cfg.Export.Archive.Enabled {
		fmt.Fprintf(out, "    endpoint: %s\n", cfg.Export.Archive.Endpoint)
		fmt.Fprintf(out, "    bucket: %s\n", cfg.Export.Archive.Bucket)
		fmt.Fprintf(out, "    region: %s\n", cfg.Export.Archive.Region)
		fmt.Fprintf(out, "    access_key: %s\n", mask(cfg.Export.Archive.AccessKey))
		fmt.Fprintf(out, "    secret_key: %s\n", mask(cfg.Export.Archive.SecretKey))
	}

	fmt.Fprintln(out, "insight:")
	fmt.Fprintf(out, "  cache_size: %d\n", cfg.Insight.CacheSize)

	fmt.Fprintln(out, "tui:")
	fmt.Fprintf(out, "  theme: %s\n", cfg.TUI.Theme)
	fmt.Fprintf(out, "  error_display_ms: %d\n", cfg.TUI.ErrorDisplayMs)
	fmt.Fprintf(out, "  watch_selected_file: %v\n", cfg.TUI.WatchSelectedFile)

	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  max_size_mb: %d\n", cfg.Logging.MaxSizeMB)
	fmt.Fprintf(out, "  max_backups: %d\n", cfg.Logging.MaxBackups)

	fmt.Fprintln(out, "paths:")
	fmt.Fprintf(out, "  state_dir: %s\n", cfg.Paths.ResolveStateDir())

	return nil
}

// mask hides credentials in config output
func mask(s string) string {
	if s == "" {
		return "(unset)"
	}
	return "********"
}

// parseValue validates value for key and converts it to the key's type
func parseValue(key, value string) (any, error) {
	keyType, ok := validKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'contractlens config set --help' to see valid keys", key)
	}

	switch keyType {
	case "string":
		switch key {
		case "logging.level":
			if !slices.Contains(appconfig.ValidLogLevels(), strings.ToLower(value)) {
				return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
					key, value, strings.Join(appconfig.ValidLogLevels(), ", "))
			}
			return strings.ToLower(value), nil
		case "tui.theme":
			_, _ = styles.DiscoverCustomThemes(appconfig.ThemesDir())
			if !styles.IsValidTheme(value) {
				return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
					key, value, strings.Join(styles.ValidThemes(), ", "))
			}
		}
		return value, nil
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return intVal, nil
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected number", key)
		}
		if f < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return f, nil
	}
	return nil, fmt.Errorf("unsupported type %q for %s", keyType, key)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	typedValue, err := parseValue(key, value)
	if err != nil {
		return err
	}

	configDir := appconfig.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set(key, typedValue)

	// The full config must still validate, e.g. a base_url that is not a URL
	if _, err := appconfig.Load(); err != nil {
		return err
	}

	configFile := appconfig.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

const configTemplate = `# contractlens configuration

# Analysis service
api:
  # API root; /upload/, /analyze/ and friends are appended to it
  base_url: http://localhost:5000/api
  # Per-request timeout in seconds (0 disables). Analysis can be slow.
  timeout_seconds: 120
  # Client-side request pacing (0 disables)
  requests_per_second: 5
  burst: 5
  # Check upload and analysis responses against the expected shape
  validate_responses: true

# Report exports
export:
  # Where contract_analysis_{id}.{pdf|json} files are written
  dir: .
  # Optionally copy every export to an S3-compatible bucket
  archive:
    enabled: false
    endpoint: ""
    region: us-east-1
    bucket: contractlens-exports
    access_key: ""
    secret_key: ""
    use_ssl: true

# Per-clause insights
insight:
  # Number of clause insights kept in memory
  cache_size: 128

# TUI (terminal user interface) settings
tui:
  # Color theme: default, light, or a custom theme from the themes directory
  theme: default
  # How long an error stays on screen before returning to the selected file
  error_display_ms: 1500
  # Re-validate the selected file when it changes on disk
  watch_selected_file: true

# Debug logging
logging:
  enabled: true
  # Options: debug, info, warn, error
  level: info
  max_size_mb: 10
  max_backups: 3

paths:
  # Log directory; empty means $XDG_STATE_HOME/contractlens
  state_dir: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := appconfig.ConfigDir()
	configFile := appconfig.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'contractlens config set' to modify values", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize contractlens.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(appconfig.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: CONTRACTLENS_* (e.g., CONTRACTLENS_API_BASE_URL)")
	fmt.Fprintln(out, "A .env file in the current directory is loaded first.")
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		if err := os.Remove(configFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove config file: %w", err)
		}
		fmt.Fprintf(out, "Configuration reset to defaults (removed %s)\n", configFile)
		return nil
	}

	key := args[0]
	if _, ok := validKeys[key]; !ok {
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	def := defaultValue(key)
	viper.Set(key, def)
	if err := os.MkdirAll(appconfig.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	fmt.Fprintf(out, "Reset %s = %v\n", key, def)
	return nil
}

// defaultValue looks key up in the default configuration
func defaultValue(key string) any {
	d := appconfig.Default()
	switch key {
	case "api.base_url":
		return d.API.BaseURL
	case "api.timeout_seconds":
		return d.API.TimeoutSeconds
	case "api.requests_per_second":
		return d.API.RequestsPerSecond
	case "api.burst":
		return d.API.Burst
	case "api.validate_responses":
		return d.API.ValidateResponses
	case "export.dir":
		return d.Export.Dir
	case "insight.cache_size":
		return d.Insight.CacheSize
	case "tui.theme":
		return d.TUI.Theme
	case "tui.error_display_ms":
		return d.TUI.ErrorDisplayMs
	case "tui.watch_selected_file":
		return d.TUI.WatchSelectedFile
	case "logging.enabled":
		return d.Logging.Enabled
	case "logging.level":
		return d.Logging.Level
	case "logging.max_size_mb":
		return d.Logging.MaxSizeMB
	case "logging.max_backups":
		return d.Logging.MaxBackups
	}
	return nil
}
