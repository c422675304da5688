// Package gemini calls the generateContent endpoint of the Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/julianstephens/hustle/internal/circuitbreaker"
	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/logger"
	"github.com/julianstephens/hustle/internal/metrics"
)

var ErrMissingAPIKey = errors.New("gemini API key is not configured")

const maxResponseBytes = 1 << 20

// UpstreamError carries a non-2xx response from the service.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	body := e.Body
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	return fmt.Sprintf("generation service returned %d: %s", e.StatusCode, strings.TrimSpace(body))
}

type Config struct {
	APIKey   string
	Endpoint string
	Model    string
	// HTTPClient defaults to a client without its own timeout; callers bound
	// each call through the context.
	HTTPClient *http.Client
	Breaker    circuitbreaker.Config
}

type Client struct {
	apiKey   string
	endpoint string
	model    string
	http     *http.Client
	cb       *circuitbreaker.CircuitBreaker
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = constants.DefaultGeminiEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = constants.DefaultGeminiModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Breaker.FailureThreshold == 0 {
		cfg.Breaker = circuitbreaker.DefaultConfig()
	}
	cfg.Breaker.IsFailure = func(err error) bool {
		// A caller giving up is not the service's fault.
		return !errors.Is(err, context.Canceled)
	}
	cfg.Breaker.OnStateChange = func(from, to circuitbreaker.State) {
		metrics.SetCircuitState("gemini", int(to))
		logger.Warn("gemini circuit breaker changed state", "from", from.String(), "to", to.String())
	}

	return &Client{
		apiKey:   cfg.APIKey,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		http:     cfg.HTTPClient,
		cb:       circuitbreaker.New(cfg.Breaker),
	}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) url() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.endpoint, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
}

// Generate sends prompt as a single user turn and returns the first candidate's
// text, or "" when the response has none.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var text string
	started := time.Now()

	err := c.cb.Execute(func() error {
		var callErr error
		text, callErr = c.generate(ctx, prompt)
		return callErr
	})

	status := "ok"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpen):
		status = "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		status = "timeout"
	case err != nil:
		status = "error"
	}
	metrics.RecordGeneration(status, time.Since(started))

	if err != nil {
		logger.Warn("gemini request failed", "model", c.model, "status", status, "error", err)
		return "", err
	}
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

// BreakerState exposes the circuit breaker state for health reporting.
func (c *Client) BreakerState() circuitbreaker.State {
	return c.cb.State()
}
