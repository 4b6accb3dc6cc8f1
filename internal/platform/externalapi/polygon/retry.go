package polygon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// RetryConfig controls exponential backoff for transport errors and 5xx responses.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" envconfig:"POLYGON_RETRY_MAX_ATTEMPTS"`
	BaseDelay   time.Duration `yaml:"base_delay" envconfig:"POLYGON_RETRY_BASE_DELAY"`
	MaxDelay    time.Duration `yaml:"max_delay" envconfig:"POLYGON_RETRY_MAX_DELAY"`
}

var DefaultRetry = RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   1 * time.Second,
	MaxDelay:    10 * time.Second,
}

// doWithRetry executes an HTTP request with exponential backoff retry.
// buildReq is called on each attempt so that rate limiting applies to retries too.
// Responses below 500 (including 429) are returned to the caller untouched.
func doWithRetry(ctx context.Context, client *http.Client, cfg RetryConfig, buildReq func() (*http.Request, error)) (*http.Response, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultRetry.MaxAttempts
	}

	var lastErr error
	delay := cfg.BaseDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		req, err := buildReq()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		slog.Warn("polygon request failed, retrying",
			"attempt", attempt, "max_attempts", cfg.MaxAttempts, "delay", delay, "error", lastErr)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return nil, fmt.Errorf("all %d attempts failed, last error: %w", cfg.MaxAttempts, lastErr)
}
