// Command vdevctl probes virtual devices from a device table and drives
// them from an interactive shell.
//
// Usage:
//
//	vdevctl [flags]
//
// Flags:
//
//	-config string      Device table path (default: the four platform devices)
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-event-log string   File path for device event logging (CBOR format)
//	-version            Print the version and exit
//
// Examples:
//
//	# Start with the built-in devices
//	vdevctl
//
//	# Start with a custom table and record every operation
//	vdevctl -config devices.yaml -event-log session.vlog
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vdevs/vdevs-go/cmd/vdevctl/interactive"
	"github.com/vdevs/vdevs-go/pkg/config"
	"github.com/vdevs/vdevs-go/pkg/inspect"
	vlog "github.com/vdevs/vdevs-go/pkg/log"
	"github.com/vdevs/vdevs-go/pkg/metrics"
	"github.com/vdevs/vdevs-go/pkg/registry"
	"github.com/vdevs/vdevs-go/pkg/version"
)

// Config holds the command-line configuration.
type Config struct {
	ConfigFile  string
	LogLevel    string
	EventLog    string
	ShowVersion bool
}

var cfg Config

func init() {
	flag.StringVar(&cfg.ConfigFile, "config", "", "Device table path (default: the four platform devices)")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&cfg.EventLog, "event-log", "", "File path for device event logging (CBOR format)")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Print the version and exit")
}

func main() {
	flag.Parse()

	if cfg.ShowVersion {
		fmt.Println(version.Banner("vdevctl"))
		if available, err := version.AvailableManifests(); err == nil {
			fmt.Printf("Embedded interfaces: %s\n", strings.Join(available, ", "))
		}
		return
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	table := config.Default()
	if cfg.ConfigFile != "" {
		table, err = config.Load(cfg.ConfigFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	warnings, err := inspect.CheckInterface()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: driver does not implement its interface: %v\n", err)
		os.Exit(1)
	}

	promReg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(promReg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Only add loggers that exist to avoid typed-nil interfaces.
	loggers := []vlog.Logger{collector}
	var fileLogger *vlog.FileLogger
	if cfg.EventLog != "" {
		fileLogger, err = vlog.NewFileLogger(cfg.EventLog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create event logger: %v\n", err)
			os.Exit(1)
		}
		defer fileLogger.Close()
		loggers = append(loggers, fileLogger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shell, err := interactive.New(interactive.Options{
		Gatherer: promReg,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Route operational logs through readline so they do not break the prompt.
	logger := slog.New(slog.NewTextHandler(shell.Stderr(), &slog.HandlerOptions{Level: level}))
	if level == slog.LevelDebug {
		loggers = append(loggers, vlog.NewSlogAdapter(logger))
	}

	reg := registry.New(registry.Config{
		Logger:      logger,
		EventLogger: vlog.NewMultiLogger(loggers...),
	})
	shell.Attach(reg)

	logger.Info("vdevctl starting", "version", version.Current, "devices", len(table.Devices))
	for _, w := range warnings {
		logger.Warn("Interface check", "warning", w)
	}
	if fileLogger != nil {
		logger.Info("Event logging", "path", cfg.EventLog)
	}
	for _, d := range table.Devices {
		if _, err := reg.Register(d.VDevConfig()); err != nil {
			logger.Error("Probe failed", "name", d.Name, "error", err)
		}
	}

	go shell.Run(ctx, cancel)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Received signal", "signal", sig.String())
	case <-ctx.Done():
	}

	cancel()
	if err := reg.Shutdown(); err != nil {
		logger.Error("Shutdown", "error", err)
	}
	if fileLogger != nil {
		if err := fileLogger.Err(); err != nil {
			logger.Warn("Event log incomplete", "path", fileLogger.Path(), "error", err)
		}
		logger.Info("Event log written", "path", fileLogger.Path(), "events", fileLogger.Written())
	}
	logger.Info("Goodbye")
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (use: debug, info, warn, error)", s)
	}
}
