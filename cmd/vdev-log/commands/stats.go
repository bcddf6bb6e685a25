package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/vdevs/vdevs-go/pkg/log"
	"github.com/vdevs/vdevs-go/pkg/wire"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	EventsByOp       map[log.Op]int
	EventsByStatus   map[wire.Status]int
	Devices          map[string]*DeviceStats
	Sessions         map[string]struct{}
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// DeviceStats holds statistics for a single device node.
type DeviceStats struct {
	FirstSeen    time.Time
	LastSeen     time.Time
	Events       int
	BytesRead    int64
	BytesWritten int64
	Errors       int
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		EventsByOp:       make(map[log.Op]int),
		EventsByStatus:   make(map[wire.Status]int),
		Devices:          make(map[string]*DeviceStats),
		Sessions:         make(map[string]struct{}),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++
	s.EventsByOp[event.Op]++
	s.EventsByStatus[event.Status]++
	if event.SessionID != "" {
		s.Sessions[event.SessionID] = struct{}{}
	}

	// Track time range
	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if event.Node == "" {
		return
	}
	dev, ok := s.Devices[event.Node]
	if !ok {
		dev = &DeviceStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Devices[event.Node] = dev
	}
	dev.Events++
	if event.Timestamp.After(dev.LastSeen) {
		dev.LastSeen = event.Timestamp
	}
	if event.Error != nil {
		dev.Errors++
	}
	if event.IO != nil && event.Status.IsSuccess() {
		switch event.Op {
		case log.OpRead:
			dev.BytesRead += int64(event.IO.Transferred)
		case log.OpWrite:
			dev.BytesWritten += int64(event.IO.Transferred)
		}
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Virtual Device Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Sessions:     %d\n", len(stats.Sessions))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryLifecycle, log.CategoryIO, log.CategoryControl, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Operation:")
	for _, op := range []log.Op{log.OpProbe, log.OpRemove, log.OpOpen, log.OpClose, log.OpRead, log.OpWrite, log.OpSeek, log.OpIoctl} {
		if count := stats.EventsByOp[op]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", op.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	failures := make([]wire.Status, 0, len(stats.EventsByStatus))
	for status := range stats.EventsByStatus {
		if status.IsError() {
			failures = append(failures, status)
		}
	}
	if len(failures) > 0 {
		sort.Slice(failures, func(i, j int) bool { return failures[i] < failures[j] })
		fmt.Fprintln(w, "Failures by Status:")
		for _, status := range failures {
			fmt.Fprintf(w, "  %-20s %d\n", status.String()+":", stats.EventsByStatus[status])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Devices: %d\n", len(stats.Devices))
	if len(stats.Devices) == 0 {
		return
	}
	nodes := make([]string, 0, len(stats.Devices))
	for node := range stats.Devices {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	fmt.Fprintln(w)
	for _, node := range nodes {
		d := stats.Devices[node]
		fmt.Fprintf(w, "  [%s] %d events, read %d bytes, wrote %d bytes\n", node, d.Events, d.BytesRead, d.BytesWritten)
		if d.Errors > 0 {
			fmt.Fprintf(w, "           Errors: %d\n", d.Errors)
		}
	}
}
