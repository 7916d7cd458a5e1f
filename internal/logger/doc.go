// Package logger provides logging facilities for gitwip.
//
// Two audiences are served by one interface. Internal diagnostics (Info,
// Warning, Error) are written as slog text records to a debug log file when
// debug logging is enabled. User-facing messages (InfoToUser, WarningToUser,
// Success, StatusMessage) are always printed, with a colored glyph marking
// their level. Errors are printed to stderr even when debug logging is off.
//
// # Usage
//
//	log := logger.New(cfg.Debug, cfg.LogFile, cfg.Verbose)
//	defer log.Close()
//
//	log.Info("watching %s", root)
//	log.Success("Auto-saved changes with message: %s", msg)
//
// DefaultLogger is safe for concurrent use; the snapshot worker and the
// watcher goroutine log through the same instance.
package logger
