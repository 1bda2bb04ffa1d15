package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/suzent/suzentd/internal/config"
)

// Blocks until the backend answers its liveness endpoint or the attempt
// budget is exhausted.
//
// Polling is strictly sequential: one request at a time, a fixed interval
// between attempts, and a bounded attempt count, so the worst-case wait is
// Attempts * Interval. The interval is constant rather than backing off; the
// target total wait is small and fixed. Context cancellation is honored
// between attempts. The optional hook fires before each request and exists
// for attempt accounting in logs and tests.
func waitReady(ctx context.Context, cfg config.HealthConfig, baseURL string, hook retryablehttp.RequestLogHook) error {
	client := newHealthClient(cfg)
	client.RequestLogHook = hook

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, baseURL+cfg.Path, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHealthCheck, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: backend not ready after %d attempts: %w", ErrHealthCheck, cfg.Attempts, err)
	}
	resp.Body.Close()

	return nil
}

// Builds the retrying HTTP client used for readiness polling.
//
// RetryWaitMin and RetryWaitMax are both set to the poll interval, which
// makes the default exponential backoff degenerate to a constant delay.
func newHealthClient(cfg config.HealthConfig) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.Attempts - 1
	client.RetryWaitMin = cfg.Interval
	client.RetryWaitMax = cfg.Interval
	client.HTTPClient.Timeout = cfg.RequestTimeout
	client.Logger = nil
	client.CheckRetry = checkReady
	return client
}

// Decides whether a poll attempt observed a ready backend.
//
// Any 2xx status counts as ready. So does 404: the endpoint being reachable
// but the resource absent means the server is up even if a route has not
// finished initializing. Transport errors and every other status are
// transient and retried.
func checkReady(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices, nil
}
