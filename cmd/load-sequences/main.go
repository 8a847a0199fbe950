package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/sequence"
	"github.com/sethseligman/statstack-v1-archive/internal/loadtest"
)

// Default configuration constants.
const (
	defaultRequests   = 200
	defaultRounds     = 20
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 60 * time.Second
	defaultRunTimeout = 30 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		requests   = flag.Int("requests", defaultRequests, "Number of sequences to submit")
		rounds     = flag.Int("rounds", defaultRounds, "Teams per sequence")
		challenge  = flag.String("challenge", "", "Challenge id (default: service default)")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed       = flag.Int64("seed", 0, "Sequence seed (default: time-based)")
		mode       = flag.String("mode", "soft-repeats", "Draw mode: soft-repeats or weighted")
		outputFile = flag.String("output", "", "Write outcomes to this JSON file")
		logFile    = flag.String("log", "", "Log file (default: load_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Log every request")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return
	}

	if err := loadtest.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	drawMode, err := sequence.ParseMode(*mode)
	if err != nil {
		os.Stderr.WriteString("Invalid mode: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &loadtest.Config{
		BaseURL:    *baseURL,
		Requests:   *requests,
		Rounds:     *rounds,
		Challenge:  *challenge,
		Workers:    *workers,
		Timeout:    *timeout,
		Seed:       *seed,
		Mode:       drawMode,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if _, err := loadtest.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Load run failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
