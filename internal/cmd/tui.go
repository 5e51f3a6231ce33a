package cmd

import (
	"fmt"

	"github.com/Iron-Ham/contractlens/internal/config"
	"github.com/Iron-Ham/contractlens/internal/tui"
	"github.com/Iron-Ham/contractlens/internal/tui/styles"
)

func runTUI(initialPath string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	// Custom themes must be registered before the configured theme is resolved.
	loaded, errs := styles.DiscoverCustomThemes(config.ThemesDir())
	for _, e := range errs {
		s.logger.Warn("skipping custom theme", "error", e)
	}
	if len(loaded) > 0 {
		s.logger.Debug("loaded custom themes", "themes", loaded)
	}

	st, err := styles.Resolve(s.cfg.TUI.Theme)
	if err != nil {
		return fmt.Errorf("tui.theme: %w", err)
	}

	app := tui.New(tui.Deps{
		Orchestrator: s.orch,
		Service:      s.client,
		Clauses:      s.client,
		Exporter:     s.exports,
		Styles:       st,
		Logger:       s.logger,
		BaseURL:      s.client.BaseURL(),
		ErrorDisplay: s.cfg.TUI.ErrorDisplay(),
		WatchFile:    s.cfg.TUI.WatchSelectedFile,
		InitialPath:  initialPath,
	})
	return app.Run()
}
