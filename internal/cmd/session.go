package cmd

import (
	"fmt"

	"github.com/Iron-Ham/contractlens/internal/api"
	"github.com/Iron-Ham/contractlens/internal/config"
	"github.com/Iron-Ham/contractlens/internal/errors"
	"github.com/Iron-Ham/contractlens/internal/export"
	"github.com/Iron-Ham/contractlens/internal/insight"
	"github.com/Iron-Ham/contractlens/internal/logging"
	"github.com/Iron-Ham/contractlens/internal/workflow"
)

// session bundles everything one invocation needs: configuration, logger,
// API client, orchestrator and export trigger.
type session struct {
	cfg     *config.Config
	logger  *logging.Logger
	client  *api.Client
	orch    *workflow.Orchestrator
	exports *export.Trigger
}

func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	client, err := api.NewFromConfig(cfg.API, logger)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("api client: %w", err)
	}

	cache, err := insight.NewCache(cfg.Insight.CacheSize)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("insight cache: %w", err)
	}

	orch := workflow.New(
		workflow.WithLogger(logger),
		workflow.WithInsightCache(cache),
	)
	orch.OnTransition(logStageChanges(logger))

	var archive export.Sink
	if cfg.Export.Archive.Enabled {
		sink, err := export.NewArchiveSink(cfg.Export.Archive)
		if err != nil {
			_ = logger.Close()
			return nil, fmt.Errorf("export archive: %w", err)
		}
		archive = sink
	}
	trigger := export.NewTrigger(orch, client, export.DirSink{Dir: cfg.Export.ResolveDir()}, archive, logger)

	logger.Debug("session ready",
		"api", client.BaseURL(),
		"export_dir", cfg.Export.ResolveDir(),
		"archive", cfg.Export.Archive.Enabled,
	)

	return &session{cfg: cfg, logger: logger, client: client, orch: orch, exports: trigger}, nil
}

// newLogger opens the rotating log file in the state directory, or returns
// a no-op logger when logging is disabled.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	logger, err := logging.NewLoggerWithRotation(cfg.Paths.ResolveStateDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return logger, nil
}

// logStageChanges returns a transition observer that records each stage the
// session enters. It runs under the orchestrator lock, so it only logs.
func logStageChanges(l *logging.Logger) func(workflow.Transition) {
	l = l.WithComponent("session")
	return func(tr workflow.Transition) {
		l.WithStage(tr.To.String()).Info("entered stage",
			"from", tr.From.String(),
			"event", string(tr.Event),
		)
	}
}

func (s *session) Close() {
	_ = s.logger.Close()
}

// userError presents err by its user-facing message while keeping the cause
// reachable through errors.Is and errors.As.
type userError struct {
	err error
}

func (e userError) Error() string { return errors.UserMessage(e.err) }
func (e userError) Unwrap() error { return e.err }

func asUserError(err error) error {
	if err == nil || !errors.IsUserFacing(err) {
		return err
	}
	return userError{err: err}
}
