// Package logging provides structured logging for contractlens.
//
// The terminal UI owns stdout and stderr while it runs, so logs are written as
// JSON lines to a file in the state directory and rotated by size. Child
// loggers carry the contract id and workflow stage so a single analysis run
// can be followed through upload, analyze and export:
//
//	logger, err := logging.NewLoggerWithRotation(stateDir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	runLog := logger.WithContract("abc123").WithStage("analyzing")
//	runLog.Info("analyze request sent", "text_length", 4210)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"analyze request sent","contract_id":"abc123","stage":"analyzing","text_length":4210}
//
// Use [NopLogger] in tests or when logging.enabled is false.
//
// All types in this package are safe for concurrent use.
package logging
