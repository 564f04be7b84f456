package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jimdaga/automarketer/internal/prompts"
)

// HeaderSecret authenticates requests to the generation service.
const HeaderSecret = "X-Generator-Secret"

// WebhookGenerator posts rendered prompts to an external generation service.
type WebhookGenerator struct {
	baseURL    string
	secret     string
	httpClient *http.Client
	registry   *prompts.Registry
	fallback   Generator
	logger     *slog.Logger
}

// NewWebhookGenerator creates a generator that calls baseURL + "/generate".
// Service failures are logged and answered with fallback's content.
func NewWebhookGenerator(baseURL, secret string, timeout time.Duration, registry *prompts.Registry, fallback Generator, logger *slog.Logger) *WebhookGenerator {
	return &WebhookGenerator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secret:     secret,
		httpClient: &http.Client{Timeout: timeout},
		registry:   registry,
		fallback:   fallback,
		logger:     logger,
	}
}

type webhookRequest struct {
	Platform string `json:"platform"`
	Prompt   string `json:"prompt"`
}

type webhookResponse struct {
	Content string `json:"content"`
}

// Generate asks the service for content, falling back on any failure.
func (g *WebhookGenerator) Generate(ctx context.Context, req Request) (string, error) {
	content, err := g.call(ctx, req)
	if err == nil {
		return content, nil
	}

	g.logger.Warn("Generation service failed, using fallback content",
		"platform", req.Platform,
		"product", req.ProductName,
		"error", err.Error(),
	)
	return g.fallback.Generate(ctx, req)
}

func (g *WebhookGenerator) call(ctx context.Context, req Request) (string, error) {
	prompt, err := g.registry.Prompt(req.Platform, req.product())
	if err != nil {
		return "", err
	}

	jsonData, err := json.Marshal(webhookRequest{Platform: string(req.Platform), Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.secret != "" {
		httpReq.Header.Set(HeaderSecret, g.secret)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("generation service returned status %d: %s", resp.StatusCode, string(body))
	}

	var out webhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	content := strings.TrimSpace(out.Content)
	if content == "" {
		return "", fmt.Errorf("generation service returned empty content")
	}
	return content, nil
}
