package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/hustle/internal/circuitbreaker"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{
		APIKey:   "test-key",
		Endpoint: srv.URL,
		Model:    "test-model",
		Breaker:  circuitbreaker.Config{FailureThreshold: 2, SuccessThreshold: 1, Timeout: time.Hour, HalfOpenMaxRequests: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("New() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestGenerateSendsPromptAndReturnsText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/v1beta/models/test-model:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("request body = %+v", req)
		}
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"line one\nline two"}]}}]}`)
	})

	got, err := c.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if got != "line one\nline two" {
		t.Errorf("Generate() = %q", got)
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates":[]}`)
	})
	got, err := c.Generate(context.Background(), "x")
	if err != nil || got != "" {
		t.Errorf("Generate() = %q, %v", got, err)
	}
}

func TestGenerateUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"quota exceeded"}}`)
	})

	_, err := c.Generate(context.Background(), "x")
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("Generate() error = %v, want UpstreamError", err)
	}
	if upstream.StatusCode != http.StatusTooManyRequests || !strings.Contains(upstream.Body, "quota exceeded") {
		t.Errorf("UpstreamError = %+v", upstream)
	}
}

func TestGenerateMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `not json`)
	})
	if _, err := c.Generate(context.Background(), "x"); err == nil {
		t.Error("expected decode error")
	}
}

func TestGenerateHonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Generate(ctx, "x"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Generate() error = %v, want deadline exceeded", err)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 2; i++ {
		_, _ = c.Generate(context.Background(), "x")
	}
	if _, err := c.Generate(context.Background(), "x"); !errors.Is(err, circuitbreaker.ErrOpen) {
		t.Errorf("third call error = %v, want ErrOpen", err)
	}
	if calls != 2 {
		t.Errorf("server saw %d calls, want 2", calls)
	}
	if c.BreakerState() != circuitbreaker.StateOpen {
		t.Errorf("BreakerState() = %s", c.BreakerState())
	}
}
