// Package styles holds the lipgloss styles of the contractlens TUI and the
// theme palettes they are built from.
package styles

import (
	"fmt"

	"github.com/Iron-Ham/contractlens/internal/contract"
	"github.com/Iron-Ham/contractlens/internal/workflow"
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the lipgloss styles built from a color palette.
type Styles struct {
	Palette *ColorPalette

	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style
	Bold      lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Header   lipgloss.Style
	Section  lipgloss.Style

	ContentBox lipgloss.Style
	Selected   lipgloss.Style
	StatusBar  lipgloss.Style
	HelpBar    lipgloss.Style
	HelpKey    lipgloss.Style

	// Badge is the base of every risk badge; Risk adds the level color.
	Badge lipgloss.Style
}

// New builds the styles for palette p.
func New(p *ColorPalette) *Styles {
	if p == nil {
		p = DefaultPalette()
	}
	s := &Styles{Palette: p}

	s.Primary = lipgloss.NewStyle().Foreground(p.Primary)
	s.Secondary = lipgloss.NewStyle().Foreground(p.Secondary)
	s.Warning = lipgloss.NewStyle().Foreground(p.Warning)
	s.Error = lipgloss.NewStyle().Foreground(p.Error)
	s.Muted = lipgloss.NewStyle().Foreground(p.Muted)
	s.Text = lipgloss.NewStyle().Foreground(p.Text)
	s.Bold = lipgloss.NewStyle().Bold(true).Foreground(p.Text)

	s.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	s.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(p.Border).
		MarginBottom(1)

	s.Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		MarginTop(1)

	s.ContentBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)

	s.Selected = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	s.StatusBar = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.Surface).
		Padding(0, 1)

	s.HelpBar = lipgloss.NewStyle().
		Foreground(p.Muted).
		MarginTop(1)

	s.HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Secondary)

	s.Badge = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	return s
}

// Resolve returns the styles for a built-in or registered custom theme.
func Resolve(name string) (*Styles, error) {
	if name == "" {
		name = string(ThemeDefault)
	}
	if !IsValidTheme(name) {
		return nil, fmt.Errorf("unknown theme %q (available: %v)", name, ValidThemes())
	}
	return New(GetPalette(ThemeName(name))), nil
}

// RiskColor returns the palette color of a risk level.
func (s *Styles) RiskColor(level contract.RiskLevel) lipgloss.Color {
	switch level {
	case contract.RiskLow:
		return s.Palette.RiskLow
	case contract.RiskMedium:
		return s.Palette.RiskMedium
	case contract.RiskHigh:
		return s.Palette.RiskHigh
	default:
		return s.Palette.RiskUnknown
	}
}

// Risk returns the badge style of a risk level.
func (s *Styles) Risk(level contract.RiskLevel) lipgloss.Style {
	return s.Badge.Foreground(s.RiskColor(level))
}

// Notice returns the style of a notice line.
func (s *Styles) Notice(level workflow.NoticeLevel) lipgloss.Style {
	switch level {
	case workflow.NoticeError:
		return s.Error
	case workflow.NoticeWarning:
		return s.Warning
	default:
		return s.Secondary
	}
}
