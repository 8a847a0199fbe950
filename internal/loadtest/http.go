package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"

	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// submitRequests posts every request with cfg.Workers concurrent submitters
// and returns the outcomes in request order.
func submitRequests(ctx context.Context, cfg *Config, requests []Request, stats *Stats) []Outcome {
	logger.Get().Info(ctx, "submitting sequences",
		logger.Int("requests", len(requests)),
		logger.Int("workers", cfg.Workers),
	)

	client := newHTTPClient(cfg.Timeout)
	url := cfg.BaseURL + "/optimal-score"
	outcomes := make([]Outcome, len(requests))

	var submitted, answered, failed int64
	indexes := make(chan int, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				outcomes[i] = submitSingle(ctx, client, url, requests[i])
				atomic.AddInt64(&submitted, 1)
				if outcomes[i].Status == StatusOK && outcomes[i].Err == "" {
					atomic.AddInt64(&answered, 1)
				} else {
					atomic.AddInt64(&failed, 1)
				}
				if cfg.Verbose {
					logger.Get().Debug(ctx, "request finished",
						logger.String("requestID", requests[i].RequestID),
						logger.Int("status", outcomes[i].Status),
						logger.Duration("latency", outcomes[i].Latency),
					)
				}
			}
		}()
	}

	go func() {
		defer close(indexes)
		for i := range requests {
			select {
			case <-ctx.Done():
				return
			case indexes <- i:
			}
		}
	}()
	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Answered = int(atomic.LoadInt64(&answered))
	stats.Failed = int(atomic.LoadInt64(&failed))
	return outcomes[:stats.Submitted:stats.Submitted]
}

// submitSingle posts one request and decodes the answer.
func submitSingle(ctx context.Context, client *HTTPClient, url string, req Request) Outcome {
	out := Outcome{Request: req}
	start := time.Now()
	resp, err := client.Post(ctx, url, map[string]any{"challenge": req.Challenge, "teams": req.Teams})
	out.Latency = time.Since(start)
	if err != nil {
		out.Err = err.Error()
		return out
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	out.Status = resp.StatusCode
	if err != nil {
		out.Err = err.Error()
		return out
	}
	if resp.StatusCode != StatusOK {
		out.Code = gjson.GetBytes(body, "code").String()
		out.Err = gjson.GetBytes(body, "message").String()
		return out
	}
	if err := json.Unmarshal(body, &out.Result); err != nil {
		out.Err = fmt.Sprintf("decode result: %v", err)
	}
	return out
}
