package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/suzent/suzentd/internal/config"
)

// Health configuration with near-zero delays so tests do not wait on the
// production 30-second budget.
func fastHealth(attempts int) config.HealthConfig {
	return config.HealthConfig{
		Path:           "/api/config",
		Attempts:       attempts,
		Interval:       25 * time.Millisecond,
		RequestTimeout: 250 * time.Millisecond,
	}
}

func TestWaitReadyImmediateSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := waitReady(context.Background(), fastHealth(5), srv.URL, nil); err != nil {
		t.Fatalf("waitReady() error = %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestWaitReadyTreats404AsReady(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	if err := waitReady(context.Background(), fastHealth(3), srv.URL, nil); err != nil {
		t.Fatalf("waitReady() error = %v for a 404 backend", err)
	}
}

func TestWaitReadyExhaustsAttemptBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := fastHealth(3)
	start := time.Now()
	err := waitReady(context.Background(), cfg, srv.URL, nil)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrHealthCheck) {
		t.Fatalf("waitReady() error = %v, want ErrHealthCheck", err)
	}
	if calls.Load() != int32(cfg.Attempts) {
		t.Fatalf("calls = %d, want exactly %d", calls.Load(), cfg.Attempts)
	}

	// Two fixed-interval waits separate three attempts.
	if min := time.Duration(cfg.Attempts-1) * cfg.Interval; elapsed < min {
		t.Fatalf("elapsed = %v, want at least %v", elapsed, min)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("elapsed = %v, interval should stay constant", elapsed)
	}
}

func TestWaitReadyRecoversWithinBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := waitReady(context.Background(), fastHealth(10), srv.URL, nil); err != nil {
		t.Fatalf("waitReady() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestWaitReadyCountsRefusedConnections(t *testing.T) {
	// Reserve a port with nothing listening on it.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var attempts atomic.Int32
	hook := func(_ retryablehttp.Logger, _ *http.Request, _ int) {
		attempts.Add(1)
	}

	err := waitReady(context.Background(), fastHealth(2), url, hook)
	if !errors.Is(err, ErrHealthCheck) {
		t.Fatalf("waitReady() error = %v, want ErrHealthCheck", err)
	}
	if attempts.Load() != 2 {
		t.Fatalf("attempts = %d, want 2", attempts.Load())
	}
}

func TestWaitReadyHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := waitReady(ctx, fastHealth(60), srv.URL, nil); err == nil {
		t.Fatal("waitReady() expected error for a cancelled context")
	}
}

func TestCheckReady(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		err       error
		wantRetry bool
	}{
		{name: "200 ready", status: http.StatusOK, wantRetry: false},
		{name: "204 ready", status: http.StatusNoContent, wantRetry: false},
		{name: "404 ready", status: http.StatusNotFound, wantRetry: false},
		{name: "500 retries", status: http.StatusInternalServerError, wantRetry: true},
		{name: "503 retries", status: http.StatusServiceUnavailable, wantRetry: true},
		{name: "302 retries", status: http.StatusFound, wantRetry: true},
		{name: "transport error retries", err: fmt.Errorf("connection refused"), wantRetry: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp *http.Response
			if tt.err == nil {
				resp = &http.Response{StatusCode: tt.status}
			}

			retry, err := checkReady(context.Background(), resp, tt.err)
			if err != nil {
				t.Fatalf("checkReady() error = %v", err)
			}
			if retry != tt.wantRetry {
				t.Fatalf("checkReady() retry = %v, want %v", retry, tt.wantRetry)
			}
		})
	}
}
