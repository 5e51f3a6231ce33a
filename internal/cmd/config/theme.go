package config

import (
	"fmt"
	"os"
	"strings"

	appconfig "github.com/Iron-Ham/contractlens/internal/config"
	"github.com/Iron-Ham/contractlens/internal/tui/styles"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage color themes",
	Long: `Manage color themes for the contractlens TUI.

Besides the built-in themes, custom themes are loaded from
~/.config/contractlens/themes/ as YAML files. A custom theme may set its own
risk badge colors under colors.risk.

Use 'theme list' to see all available themes.
Use 'theme export' to create a starting point for a custom theme.`,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available themes",
	RunE:  runThemeList,
}

var themeExportCmd = &cobra.Command{
	Use:   "export <theme-name> [output-file]",
	Short: "Export a theme to YAML",
	Long: `Export a theme to YAML format for customization or sharing.

If no output file is specified, the YAML is printed to stdout.

Examples:
  contractlens config theme export default
  contractlens config theme export light ~/.config/contractlens/themes/paper.yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runThemeExport,
}

var themeInfoCmd = &cobra.Command{
	Use:   "info <theme-name>",
	Short: "Show information about a theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeInfo,
}

var themePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the custom themes directory path",
	RunE:  runThemePath,
}

func init() {
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeExportCmd)
	themeCmd.AddCommand(themeInfoCmd)
	themeCmd.AddCommand(themePathCmd)
	configCmd.AddCommand(themeCmd)
}

// themesDir is swapped out in tests
var themesDir = appconfig.ThemesDir

// discoverThemes loads custom themes and reports load errors on stderr
func discoverThemes(cmd *cobra.Command) []error {
	_, errs := styles.DiscoverCustomThemes(themesDir())
	if len(errs) > 0 {
		stderr := cmd.ErrOrStderr()
		fmt.Fprintln(stderr, "Warning: Some themes failed to load:")
		for _, err := range errs {
			fmt.Fprintf(stderr, "  - %v\n", err)
		}
		fmt.Fprintln(stderr)
	}
	return errs
}

// unknownTheme explains why name is not available
func unknownTheme(name string, loadErrs []error) error {
	for _, err := range loadErrs {
		msg := err.Error()
		if strings.HasPrefix(msg, name+".yaml:") || strings.HasPrefix(msg, name+".yml:") {
			return fmt.Errorf("theme '%s' exists but failed to load: %v\n\nFix the errors in your theme file and try again", name, err)
		}
	}
	return fmt.Errorf("unknown theme: %s\n\nRun 'contractlens config theme list' to see available themes.\nCustom themes should be placed in: %s", name, themesDir())
}

func runThemeList(cmd *cobra.Command, args []string) error {
	discoverThemes(cmd)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Built-in themes:")
	for _, name := range styles.BuiltinThemes() {
		fmt.Fprintf(out, "  - %s\n", name)
	}

	if custom := styles.CustomThemeNames(); len(custom) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Custom themes:")
		for _, name := range custom {
			theme := styles.GetCustomTheme(styles.ThemeName(name))
			if theme != nil && theme.Author != "" {
				fmt.Fprintf(out, "  - %s (by %s)\n", name, theme.Author)
			} else {
				fmt.Fprintf(out, "  - %s\n", name)
			}
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Custom themes directory: %s\n", themesDir())
	return nil
}

func runThemeExport(cmd *cobra.Command, args []string) error {
	name := args[0]
	if errs := discoverThemes(cmd); !styles.IsValidTheme(name) {
		return unknownTheme(name, errs)
	}

	data, err := styles.ExportTheme(name)
	if err != nil {
		return fmt.Errorf("exporting theme: %w", err)
	}

	if len(args) > 1 {
		if err := os.WriteFile(args[1], data, 0o644); err != nil {
			return fmt.Errorf("writing to %s: %w", args[1], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme exported to: %s\n", args[1])
		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runThemeInfo(cmd *cobra.Command, args []string) error {
	name := args[0]
	if errs := discoverThemes(cmd); !styles.IsValidTheme(name) {
		return unknownTheme(name, errs)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Theme: %s\n\n", name)

	if styles.IsBuiltinTheme(name) {
		fmt.Fprintln(out, "Type: Built-in")
	} else {
		fmt.Fprintln(out, "Type: Custom")
		if theme := styles.GetCustomTheme(styles.ThemeName(name)); theme != nil && theme.Author != "" {
			fmt.Fprintf(out, "Author: %s\n", theme.Author)
		}
	}

	p := styles.GetPalette(styles.ThemeName(name))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Base Colors:")
	fmt.Fprintf(out, "  Primary:   %s\n", p.Primary)
	fmt.Fprintf(out, "  Secondary: %s\n", p.Secondary)
	fmt.Fprintf(out, "  Warning:   %s\n", p.Warning)
	fmt.Fprintf(out, "  Error:     %s\n", p.Error)
	fmt.Fprintf(out, "  Muted:     %s\n", p.Muted)
	fmt.Fprintf(out, "  Surface:   %s\n", p.Surface)
	fmt.Fprintf(out, "  Text:      %s\n", p.Text)
	fmt.Fprintf(out, "  Border:    %s\n", p.Border)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Risk Colors:")
	fmt.Fprintf(out, "  Low:       %s\n", p.RiskLow)
	fmt.Fprintf(out, "  Medium:    %s\n", p.RiskMedium)
	fmt.Fprintf(out, "  High:      %s\n", p.RiskHigh)
	fmt.Fprintf(out, "  Unknown:   %s\n", p.RiskUnknown)
	return nil
}

func runThemePath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	dir := themesDir()
	fmt.Fprintln(out, dir)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Note: This directory does not exist yet.")
		fmt.Fprintln(out, "Create it and add a theme, e.g. with 'contractlens config theme export default <dir>/mine.yaml'.")
	}
	return nil
}
