// Command vdev-log is a tool for viewing and analyzing virtual device
// event logs.
//
// Log files are created by running vdevctl with the -event-log flag.
//
// Usage:
//
//	vdev-log <command> [flags] <file.vlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	vdev-log view session.vlog
//
//	# View only failed operations on vDev-1
//	vdev-log view -device vDev-1 -category error session.vlog
//
//	# Export to JSONL
//	vdev-log export -format jsonl session.vlog
//
//	# Keep one session and save to new file
//	vdev-log filter -session 3f2a9c1e-... -o one.vlog session.vlog
//
//	# Show statistics
//	vdev-log stats session.vlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vdevs/vdevs-go/cmd/vdev-log/commands"
	"github.com/vdevs/vdevs-go/pkg/log"
	"github.com/vdevs/vdevs-go/pkg/version"
)

const usage = `vdev-log - Virtual Device Event Log Analyzer

Usage:
  vdev-log <command> [flags] <file.vlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file
  version  Print the version

Use "vdev-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "version", "-version", "--version":
		fmt.Println(version.Banner("vdev-log"))
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// filterFlags registers the shared filter flags on fs.
func filterFlags(fs *flag.FlagSet) *commands.FilterOptions {
	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Device, "device", "", "Filter by device (node name or id)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (lifecycle, io, control, error)")
	fs.StringVar(&opts.Op, "op", "", "Filter by operation (open, read, write, seek, ioctl, ...)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	return opts
}

// parseArgs parses fs, requires the log path and builds the filter.
func parseArgs(fs *flag.FlagSet, opts *commands.FilterOptions, args []string) (string, log.Filter) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := commands.BuildFilter(*opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return fs.Arg(0), filter
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `vdev-log view - View log file in human-readable format

Usage:
  vdev-log view [flags] <file.vlog>

Flags:
`)
		fs.PrintDefaults()
	}
	opts := filterFlags(fs)
	path, filter := parseArgs(fs, opts, args)

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `vdev-log export - Export log file to JSONL or CSV format

Usage:
  vdev-log export [flags] <file.vlog>

Flags:
`)
		fs.PrintDefaults()
	}
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	opts := filterFlags(fs)
	path, filter := parseArgs(fs, opts, args)

	if err := commands.RunExport(path, *format, *output, filter); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `vdev-log filter - Filter log file and write to new file

Usage:
  vdev-log filter [flags] -o <out.vlog> <file.vlog>

Flags:
`)
		fs.PrintDefaults()
	}
	output := fs.String("o", "", "Output file (required)")
	opts := filterFlags(fs)
	path, filter := parseArgs(fs, opts, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	count, err := commands.RunFilter(path, *output, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Filtered %d events to %s\n", count, *output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `vdev-log stats - Show statistics about the log file

Usage:
  vdev-log stats [flags] <file.vlog>

Flags:
`)
		fs.PrintDefaults()
	}
	opts := filterFlags(fs)
	path, filter := parseArgs(fs, opts, args)

	if err := commands.RunStats(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
