package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/vdevs/vdevs-go/pkg/log"
)

// RunFilter appends the events matching filter to the log file at output
// and returns how many were written.
func RunFilter(path, output string, filter log.Filter) (int, error) {
	if filepath.Clean(path) == filepath.Clean(output) {
		return 0, fmt.Errorf("output file must differ from input %s", path)
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Close()
			return logger.Written(), fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
	}

	if err := logger.Err(); err != nil {
		logger.Close()
		return logger.Written(), fmt.Errorf("failed to write event: %w", err)
	}
	if err := logger.Close(); err != nil {
		return logger.Written(), fmt.Errorf("failed to close output: %w", err)
	}
	return logger.Written(), nil
}
