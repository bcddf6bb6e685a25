// Package log provides structured event logging for virtual devices.
//
// This package defines the Logger interface and Event types for capturing
// device activity: probe and removal, session open and close, every read,
// write and seek, and every control command. It is separate from operational
// logging (slog) - the event log is a complete machine-readable trace for
// debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For analysis: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/vdevs/devices.vlog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Categories
//
//   - Lifecycle: probe, remove, open, close
//   - IO: read, write, seek
//   - Control: control commands
//   - Error: any of the above that failed
//
// # File Format
//
// Log files use CBOR encoding with the .vlog extension. The vdev-log CLI
// tool provides viewing, statistics and export.
package log
