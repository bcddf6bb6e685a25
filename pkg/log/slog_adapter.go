package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes device events to an slog.Logger.
// Useful for development when you want to see device events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.Int("device_id", event.DeviceID),
		slog.String("category", event.Category.String()),
		slog.String("op", event.Op.String()),
		slog.String("status", event.Status.String()),
	}

	if event.Node != "" {
		attrs = append(attrs, slog.String("node", event.Node))
	}
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", event.SessionID))
	}

	switch {
	case event.IO != nil:
		attrs = append(attrs,
			slog.Int64("offset", event.IO.Offset),
			slog.Int64("requested", event.IO.Requested),
			slog.Int("transferred", event.IO.Transferred),
			slog.Int64("new_offset", event.IO.NewOffset),
		)
	case event.Control != nil:
		attrs = append(attrs,
			slog.String("cmd", event.Control.Cmd.String()),
			slog.Int64("new_offset", event.Control.NewOffset),
		)
	case event.Lifecycle != nil:
		if event.Lifecycle.Capacity != 0 {
			attrs = append(attrs, slog.Int("capacity", event.Lifecycle.Capacity))
		}
		if event.Lifecycle.SerialNumber != "" {
			attrs = append(attrs, slog.String("serial", event.Lifecycle.SerialNumber))
		}
		attrs = append(attrs, slog.Int("open_sessions", event.Lifecycle.OpenSessions))
	}

	if event.Error != nil {
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.Int("errno", event.Error.Errno),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "device", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
