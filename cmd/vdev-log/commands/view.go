package commands

import (
	"fmt"
	"io"

	"github.com/vdevs/vdevs-go/pkg/inspect"
	"github.com/vdevs/vdevs-go/pkg/log"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session] NODE CATEGORY OP STATUS
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := shortenSessionID(event.SessionID)
	if session == "" {
		session = "-"
	}
	node := event.Node
	if node == "" {
		node = "-"
	}

	fmt.Fprintf(w, "%s [sess:%s] %-8s %-9s %-6s %s\n",
		ts, session, node, event.Category, event.Op, event.Status)

	switch {
	case event.IO != nil:
		formatIODetails(w, event.Op, event.IO)
	case event.Control != nil:
		formatControlDetails(w, event.Control)
	case event.Lifecycle != nil:
		formatLifecycleDetails(w, event.Lifecycle)
	}
	if event.Error != nil {
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatIODetails(w io.Writer, op log.Op, e *log.IOEvent) {
	if op == log.OpSeek {
		fmt.Fprintf(w, "  Seek: %d whence=%s\n", e.Requested, whenceName(e.Whence))
		fmt.Fprintf(w, "  Position: %d -> %d\n", e.Offset, e.NewOffset)
		return
	}
	fmt.Fprintf(w, "  Offset: %d  Requested: %d  Transferred: %d\n", e.Offset, e.Requested, e.Transferred)
	fmt.Fprintf(w, "  Position: %d\n", e.NewOffset)
}

func formatControlDetails(w io.Writer, e *log.ControlEvent) {
	fmt.Fprintf(w, "  Command: %s (0x%08x)\n", inspect.CommandName(e.Cmd), uint32(e.Cmd))
	if e.Arg != 0 {
		fmt.Fprintf(w, "  Arg: %d\n", e.Arg)
	}
	fmt.Fprintf(w, "  Position: %d\n", e.NewOffset)
}

func formatLifecycleDetails(w io.Writer, e *log.LifecycleEvent) {
	if e.Capacity > 0 {
		fmt.Fprintf(w, "  Size: %d bytes  Permission: %s\n", e.Capacity, inspect.FormatPermission(e.Permission))
	}
	if e.SerialNumber != "" {
		fmt.Fprintf(w, "  Serial: %s\n", e.SerialNumber)
	}
	if e.AccessMode != 0 {
		fmt.Fprintf(w, "  Mode: %s\n", accessModeName(e.AccessMode))
	}
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Error: %s\n", e.Message)
	if e.Errno != 0 {
		fmt.Fprintf(w, "  Errno: %d\n", e.Errno)
	}
}

func whenceName(whence int) string {
	switch whence {
	case io.SeekStart:
		return "set"
	case io.SeekCurrent:
		return "cur"
	case io.SeekEnd:
		return "end"
	default:
		return fmt.Sprintf("%d", whence)
	}
}

func accessModeName(mode uint8) string {
	switch mode {
	case 1:
		return "r"
	case 2:
		return "w"
	case 3:
		return "rw"
	default:
		return fmt.Sprintf("%d", mode)
	}
}

// RunView executes the view command.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
