// Package backend is the dashboard's client for the AutoMarketer backend
// HTTP API. Responses are checked against embedded JSON Schemas before they
// are turned into typed values.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jimdaga/automarketer/internal/middleware"
	"github.com/jimdaga/automarketer/internal/models"
)

const maxBodyBytes = 4 << 20

// Client talks to the backend at baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	schemas    schemaSet
	logger     *slog.Logger
}

// NewHTTPClient returns the transport used by NewClient. There is no overall
// request timeout; dial and response-header timeouts still apply.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 2 * time.Minute,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// NewClient creates a client. httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	schemas, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		schemas:    schemas,
		logger:     logger,
	}, nil
}

// BaseURL returns the backend root the client calls.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one request and returns the raw body of a 2xx answer. Non-2xx
// answers become *APIError.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := middleware.GetRequestID(ctx); rid != "" {
		req.Header.Set(middleware.HeaderRequestID, rid)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to execute request: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	c.logger.Debug("Backend call",
		"op", op,
		"method", method,
		"path", path,
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w", op, newAPIError(resp.StatusCode, respBody))
	}
	return respBody, nil
}

// Signup creates an account. It returns the server's confirmation text.
func (c *Client) Signup(ctx context.Context, email, password, organization string) (string, error) {
	body, err := c.do(ctx, "signup", http.MethodPost, "/signup", nil, map[string]string{
		"email":        email,
		"password":     password,
		"organization": organization,
	})
	if err != nil {
		return "", err
	}
	var out wireMessage
	if err := c.schemas.decode("signup", schemaMessage, body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Login checks credentials and returns the account. A reply with only a
// message yields the submitted email.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body, err := c.do(ctx, "login", http.MethodPost, "/login", nil, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	var out wireLogin
	if err := c.schemas.decode("login", schemaLogin, body, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return &User{Email: email}, nil
	}
	return &User{
		ID:           int64(out.User.ID),
		Email:        out.User.Email,
		Organization: deref(out.User.Organization),
	}, nil
}

// ListProducts returns the products owned by ownerEmail.
func (c *Client) ListProducts(ctx context.Context, ownerEmail string) ([]Product, error) {
	body, err := c.do(ctx, "list products", http.MethodGet, "/products", url.Values{"user_email": {ownerEmail}}, nil)
	if err != nil {
		return nil, err
	}
	var wire []wireProduct
	if err := c.schemas.decode("list products", schemaProducts, body, &wire); err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(wire))
	for _, w := range wire {
		products = append(products, w.toProduct())
	}
	return products, nil
}

// CreateProduct stores a new product.
func (c *Client) CreateProduct(ctx context.Context, p NewProduct) (*Created, error) {
	body, err := c.do(ctx, "create product", http.MethodPost, "/products", nil, p)
	if err != nil {
		return nil, err
	}
	var out wireCreated
	if err := c.schemas.decode("create product", schemaCreated, body, &out); err != nil {
		return nil, err
	}
	return &Created{ID: int64(out.ID), Message: out.Message}, nil
}

// DeleteProduct removes a product. The backend deletes its drafts too.
func (c *Client) DeleteProduct(ctx context.Context, id int64, ownerEmail string) error {
	path := "/products/" + strconv.FormatInt(id, 10)
	_, err := c.do(ctx, "delete product", http.MethodDelete, path, nil, map[string]string{"user_email": ownerEmail})
	return err
}

// Generate asks the backend to write copy for a product. The backend stores
// the result as a draft.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*Generated, error) {
	body, err := c.do(ctx, "generate", http.MethodPost, "/generate", nil, req)
	if err != nil {
		return nil, err
	}
	var out wireGenerated
	if err := c.schemas.decode("generate", schemaGenerate, body, &out); err != nil {
		return nil, err
	}
	platform := models.Platform(out.Platform)
	if platform == "" {
		platform = req.Platform
	}
	return &Generated{Content: out.Content, Platform: platform, ProductName: out.ProductName}, nil
}

// ListDrafts returns the drafts of ownerEmail, newest first.
func (c *Client) ListDrafts(ctx context.Context, ownerEmail string) ([]Draft, error) {
	body, err := c.do(ctx, "list drafts", http.MethodGet, "/drafts", url.Values{"user_email": {ownerEmail}}, nil)
	if err != nil {
		return nil, err
	}
	var wire []wireDraft
	if err := c.schemas.decode("list drafts", schemaDrafts, body, &wire); err != nil {
		return nil, err
	}
	drafts := make([]Draft, 0, len(wire))
	for _, w := range wire {
		d, err := w.toDraft()
		if err != nil {
			return nil, &ParseError{Op: "list drafts", Err: err}
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// PostToSocial publishes content on a social platform and returns the
// server's confirmation text.
func (c *Client) PostToSocial(ctx context.Context, p SocialPost) (string, error) {
	body, err := c.do(ctx, "post social", http.MethodPost, "/post_social", nil, p)
	if err != nil {
		return "", err
	}
	return optionalMessage(body), nil
}

// SendEmail mails content to recipient.
func (c *Client) SendEmail(ctx context.Context, content, recipient string) error {
	_, err := c.do(ctx, "send email", http.MethodPost, "/send_email", nil, map[string]string{
		"content":   content,
		"recipient": recipient,
	})
	return err
}

// PublishBlog posts content to the configured blog.
func (c *Client) PublishBlog(ctx context.Context, content, title string) error {
	_, err := c.do(ctx, "publish blog", http.MethodPost, "/post_blog", nil, map[string]string{
		"content": content,
		"title":   title,
	})
	return err
}

// Health reports whether the backend answers /health.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, "health", http.MethodGet, "/health", nil, nil)
	return err
}

// optionalMessage returns the "message" field of a provider relay, if any.
func optionalMessage(body []byte) string {
	var out wireMessage
	if err := json.Unmarshal(body, &out); err != nil {
		return ""
	}
	return out.Message
}
