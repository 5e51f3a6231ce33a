package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "api.base_url")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateAPI()...)
	errors = append(errors, c.validateExport()...)
	errors = append(errors, c.validateInsight()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateAPI validates the APIConfig
func (c *Config) validateAPI() []ValidationError {
	var errors []ValidationError

	u, err := url.Parse(c.API.BaseURL)
	if c.API.BaseURL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Value:   c.API.BaseURL,
			Message: "must be an absolute http or https URL",
		})
	}

	const maxTimeoutSeconds = 3600
	if c.API.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "api.timeout_seconds",
			Value:   c.API.TimeoutSeconds,
			Message: "must be non-negative (0 disables timeout)",
		})
	}
	if c.API.TimeoutSeconds > maxTimeoutSeconds {
		errors = append(errors, ValidationError{
			Field:   "api.timeout_seconds",
			Value:   c.API.TimeoutSeconds,
			Message: fmt.Sprintf("exceeds maximum of %d seconds", maxTimeoutSeconds),
		})
	}

	if c.API.RequestsPerSecond < 0 {
		errors = append(errors, ValidationError{
			Field:   "api.requests_per_second",
			Value:   c.API.RequestsPerSecond,
			Message: "must be non-negative (0 disables pacing)",
		})
	}
	if c.API.RequestsPerSecond > 0 && c.API.Burst < 1 {
		errors = append(errors, ValidationError{
			Field:   "api.burst",
			Value:   c.API.Burst,
			Message: "must be at least 1 when requests_per_second is set",
		})
	}

	return errors
}

// validateExport validates the ExportConfig
func (c *Config) validateExport() []ValidationError {
	var errors []ValidationError

	archive := c.Export.Archive
	if !archive.Enabled {
		return nil
	}

	required := []struct {
		field string
		value string
	}{
		{"export.archive.endpoint", archive.Endpoint},
		{"export.archive.bucket", archive.Bucket},
		{"export.archive.access_key", archive.AccessKey},
		{"export.archive.secret_key", archive.SecretKey},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errors = append(errors, ValidationError{
				Field:   r.field,
				Value:   r.value,
				Message: "is required when export.archive.enabled is true",
			})
		}
	}

	if strings.Contains(archive.Endpoint, "://") {
		errors = append(errors, ValidationError{
			Field:   "export.archive.endpoint",
			Value:   archive.Endpoint,
			Message: "must be host[:port] without a scheme (use use_ssl instead)",
		})
	}

	return errors
}

// validateInsight validates the InsightConfig
func (c *Config) validateInsight() []ValidationError {
	const maxCacheSize = 10000
	if c.Insight.CacheSize < 1 || c.Insight.CacheSize > maxCacheSize {
		return []ValidationError{{
			Field:   "insight.cache_size",
			Value:   c.Insight.CacheSize,
			Message: fmt.Sprintf("must be between 1 and %d", maxCacheSize),
		}}
	}
	return nil
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.Theme == "" {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: "cannot be empty",
		})
	}

	const maxErrorDisplayMs = 60000
	if c.TUI.ErrorDisplayMs < 0 || c.TUI.ErrorDisplayMs > maxErrorDisplayMs {
		errors = append(errors, ValidationError{
			Field:   "tui.error_display_ms",
			Value:   c.TUI.ErrorDisplayMs,
			Message: fmt.Sprintf("must be between 0 and %d", maxErrorDisplayMs),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative (0 disables rotation)",
		})
	}
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
