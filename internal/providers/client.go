// Package providers talks to the third-party publishing services used by the
// reference backend: Ayrshare for social posts, Brevo for email and Blogger
// for blog posts.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotConfigured is returned when a provider has no API key.
var ErrNotConfigured = errors.New("provider is not configured")

const (
	clientTimeout         = 30 * time.Second
	dialTimeout           = 10 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 15 * time.Second
	maxResponseBytes      = 1 << 20
)

// NewHTTPClient creates an HTTP client with provider-friendly timeouts.
// Redirects are not followed.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: clientTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   tlsHandshakeTimeout,
			ResponseHeaderTimeout: responseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Result is a provider's answer: its status code and raw JSON body.
type Result struct {
	StatusCode int
	Body       json.RawMessage
}

// OK reports whether the provider answered 2xx.
func (r *Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// caller is the transport shared by all providers. The limiter paces calls
// across providers so a burst of dashboard clicks cannot exhaust quotas.
type caller struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newCaller(httpClient *http.Client, limiter *rate.Limiter) caller {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return caller{httpClient: httpClient, limiter: limiter}
}

func (c caller) postJSON(ctx context.Context, url string, headers map[string]string, payload any) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if !json.Valid(body) {
		// Keep the body as a JSON string so it can be stored and relayed.
		body, _ = json.Marshal(string(body))
	}

	return &Result{StatusCode: resp.StatusCode, Body: body}, nil
}

// Options configures every provider.
type Options struct {
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}
