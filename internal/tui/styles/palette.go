package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault ThemeName = "default" // Dark surface, violet accents
	ThemeLight   ThemeName = "light"   // For light terminal backgrounds
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeLight),
	}
}

// IsBuiltinTheme checks if a theme name is a built-in theme.
func IsBuiltinTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ValidThemes returns all valid theme names (built-in + custom).
func ValidThemes() []string {
	themes := BuiltinThemes()
	themes = append(themes, CustomThemeNames()...)
	return themes
}

// IsValidTheme checks if a theme name is valid (built-in or custom).
func IsValidTheme(name string) bool {
	if IsBuiltinTheme(name) {
		return true
	}
	return IsCustomTheme(name)
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	// Primary accent color (titles, focused elements)
	Primary lipgloss.Color
	// Secondary accent color (key hints, success notices)
	Secondary lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	// Muted color (de-emphasized text, placeholders)
	Muted   lipgloss.Color
	Surface lipgloss.Color
	Text    lipgloss.Color
	Border  lipgloss.Color

	// Risk badge colors, one per risk level
	RiskLow     lipgloss.Color
	RiskMedium  lipgloss.Color
	RiskHigh    lipgloss.Color
	RiskUnknown lipgloss.Color
}

// DefaultPalette returns the dark theme palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500

		RiskLow:     lipgloss.Color("#22C55E"),
		RiskMedium:  lipgloss.Color("#FBBF24"),
		RiskHigh:    lipgloss.Color("#F87171"),
		RiskUnknown: lipgloss.Color("#9CA3AF"),
	}
}

// LightPalette returns a palette for light terminal backgrounds.
func LightPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#6D28D9"), // Violet-700
		Secondary: lipgloss.Color("#047857"), // Emerald-700
		Warning:   lipgloss.Color("#B45309"), // Amber-700
		Error:     lipgloss.Color("#B91C1C"), // Red-700
		Muted:     lipgloss.Color("#4B5563"), // Gray-600
		Surface:   lipgloss.Color("#F3F4F6"),
		Text:      lipgloss.Color("#111827"),
		Border:    lipgloss.Color("#9CA3AF"),

		RiskLow:     lipgloss.Color("#15803D"),
		RiskMedium:  lipgloss.Color("#A16207"),
		RiskHigh:    lipgloss.Color("#B91C1C"),
		RiskUnknown: lipgloss.Color("#4B5563"),
	}
}

// GetPalette returns the palette for the given theme name.
// Custom themes are checked after built-ins; unknown names fall back to
// the default palette.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeDefault:
		return DefaultPalette()
	case ThemeLight:
		return LightPalette()
	}
	if custom := GetCustomTheme(name); custom != nil {
		return custom.ToPalette()
	}
	return DefaultPalette()
}
