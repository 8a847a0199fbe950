package loadtest

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends log output to both stdout and a file. If logFile is
// empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	if logFile == "" {
		logFile = "load_log_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	if err := logger.InitWithWriter(io.MultiWriter(os.Stdout, file), "text"); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the load tool.
func ShowHelp() {
	os.Stdout.WriteString(`Sequence Load Tool
==================

Submits generated team sequences to a running score service concurrently and
verifies every answer: no player reused, picks fill distinct slots of their
team, stats add up to maxScore and flags agree with resultType.

Usage:
  go run ./cmd/load-sequences [options]

Options:
  -url string        Base URL of the service (default "http://localhost:9080")
  -requests int      Number of sequences to submit (default 200)
  -rounds int        Teams per sequence (default 20)
  -challenge string  Challenge id (default: service default)
  -workers int       Number of concurrent submitters (default 2x CPU cores)
  -timeout duration  HTTP request timeout (default 60s)
  -seed int          Sequence seed (default: time-based)
  -mode string       Draw mode: soft-repeats or weighted (default "soft-repeats")
  -output string     Write outcomes to this JSON file
  -log string        Log file (default: load_log_TIMESTAMP.log)
  -verbose           Log every request
  -help              Show this help message
`)
}
