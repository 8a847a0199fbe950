// Package loadtest drives a running score service with generated sequences
// and verifies every answer it gets back.
package loadtest

import (
	"time"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
	"github.com/sethseligman/statstack-v1-archive/internal/domain/sequence"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Requests   int           // Number of sequences to submit
	Rounds     int           // Teams per sequence
	Challenge  string        // Challenge id; empty means the service default
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	Seed       int64         // Sequence seed; zero means time-based
	Mode       sequence.Mode // Draw mode; empty means soft repeats
	OutputFile string        // Output file for outcomes; empty skips saving
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// Request is one generated sequence.
type Request struct {
	RequestID string   `json:"requestId"`
	Challenge string   `json:"challenge,omitempty"`
	Teams     []string `json:"teams"`
}

// Outcome is what came back for one request.
type Outcome struct {
	Request  Request           `json:"request"`
	Status   int               `json:"status"`
	Code     string            `json:"code,omitempty"`
	Result   calculator.Result `json:"result"`
	Latency  time.Duration     `json:"latencyNs"`
	Problems []string          `json:"problems,omitempty"`
	Err      string            `json:"error,omitempty"`
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Answered   int
	Failed     int
	Invalid    int
	ByType     map[calculator.ResultType]int
	ByStatus   map[int]int
	LatencyP50 time.Duration
	LatencyP95 time.Duration
	LatencyP99 time.Duration
	LatencyMax time.Duration
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}
