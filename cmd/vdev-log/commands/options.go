// Package commands implements the vdev-log CLI commands.
package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/vdevs/vdevs-go/pkg/inspect"
	"github.com/vdevs/vdevs-go/pkg/log"
)

// FilterOptions specifies filtering criteria shared by the commands.
type FilterOptions struct {
	SessionID string
	Device    string
	Category  string
	Op        string
	TimeStart string
	TimeEnd   string
}

// BuildFilter converts command-line options into a log filter.
func BuildFilter(opts FilterOptions) (log.Filter, error) {
	filter := log.Filter{SessionID: opts.SessionID}

	if opts.Device != "" {
		id, err := inspect.ParseDeviceID(opts.Device)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid device: %w", err)
		}
		filter.DeviceID = &id
	}

	if opts.Category != "" {
		c, err := ParseCategoryFlag(opts.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}

	if opts.Op != "" {
		o, err := ParseOpFlag(opts.Op)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Op = &o
	}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "lifecycle":
		return log.CategoryLifecycle, nil
	case "io":
		return log.CategoryIO, nil
	case "control":
		return log.CategoryControl, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be lifecycle, io, control, or error)", s)
	}
}

// ParseOpFlag parses an operation string from command-line flag (case-insensitive).
func ParseOpFlag(s string) (log.Op, error) {
	for _, op := range []log.Op{log.OpProbe, log.OpRemove, log.OpOpen, log.OpClose, log.OpRead, log.OpWrite, log.OpSeek, log.OpIoctl} {
		if strings.EqualFold(op.String(), s) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("invalid op: %s (must be probe, remove, open, close, read, write, seek, or ioctl)", s)
}
