package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestCircuitBreakerFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	cbFetcher := NewCircuitBreakerFetcher(NewFetcher())

	resp, err := cbFetcher.Fetch(context.Background(), server.URL+"/api/packages/")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"results":[]}` {
		t.Errorf("unexpected body %q", string(body))
	}
}

func TestExtractHost(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"purldb", "https://public.purldb.io/api/packages/?purl=pkg%3Anpm%2Flodash", "public.purldb.io"},
		{"vulnerablecode", "https://public.vulnerablecode.io/api/packages/", "public.vulnerablecode.io"},
		{"invalid URL", "not-a-valid-url", "not-a-valid-url"},
		{"with port", "https://example.com:8080/path", "example.com:8080"},
		{"long opaque", "this-is-not-a-url-but-it-is-quite-long-so-it-gets-truncated", "this-is-not-a-url-but-it-is-quite-long-so-it-gets-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractHost(tt.url); got != tt.expected {
				t.Errorf("extractHost(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestBreakerStates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	cbFetcher := NewCircuitBreakerFetcher(NewFetcher())

	if states := cbFetcher.BreakerStates(); len(states) != 0 {
		t.Errorf("expected empty states, got %d entries", len(states))
	}

	resp, err := cbFetcher.Fetch(context.Background(), server.URL+"/test")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()

	states := cbFetcher.BreakerStates()
	if len(states) != 1 {
		t.Fatalf("expected one breaker state, got %v", states)
	}
	for host, state := range states {
		if state != "closed" {
			t.Errorf("%s: expected closed state, got %s", host, state)
		}
	}
}

func TestCircuitBreakerMultipleHosts(t *testing.T) {
	server1 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("server1"))
	}))
	defer server1.Close()

	server2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("server2"))
	}))
	defer server2.Close()

	cbFetcher := NewCircuitBreakerFetcher(NewFetcher())
	ctx := context.Background()

	for _, u := range []string{server1.URL, server2.URL} {
		resp, err := cbFetcher.Fetch(ctx, u+"/test")
		if err != nil {
			t.Fatalf("fetch %s failed: %v", u, err)
		}
		_ = resp.Body.Close()
	}

	if states := cbFetcher.BreakerStates(); len(states) != 2 {
		t.Errorf("expected 2 breaker states, got %d", len(states))
	}
}

func TestCircuitBreakerOpensOnFailures(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cbFetcher := NewCircuitBreakerFetcher(NewFetcher(WithMaxRetries(0), WithBaseDelay(0)))
	ctx := context.Background()

	var lastErr error
	for range 10 {
		_, lastErr = cbFetcher.Fetch(ctx, server.URL+"/test")
	}

	if !errors.Is(lastErr, ErrCircuitOpen) {
		t.Errorf("last error = %v, want ErrCircuitOpen", lastErr)
	}
	if requests.Load() >= 10 {
		t.Errorf("requests = %d, want fewer than 10 once the breaker opens", requests.Load())
	}
	for _, state := range cbFetcher.BreakerStates() {
		if state != "open" {
			t.Errorf("state = %s, want open", state)
		}
	}
}

func TestCircuitBreakerIgnoresNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cbFetcher := NewCircuitBreakerFetcher(NewFetcher(WithMaxRetries(0)))
	ctx := context.Background()

	for range 10 {
		_, err := cbFetcher.Fetch(ctx, server.URL+"/missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Fetch = %v, want ErrNotFound", err)
		}
	}

	for _, state := range cbFetcher.BreakerStates() {
		if state != "closed" {
			t.Errorf("state = %s, want closed", state)
		}
	}
}
