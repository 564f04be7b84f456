package providers

import (
	"context"
	"net/url"
	"strings"
)

// SocialPost is a post for one social platform.
type SocialPost struct {
	Content     string
	Platform    string
	ProductName string
}

// Ayrshare posts to social networks through the Ayrshare API.
type Ayrshare struct {
	caller
	endpoint string
	apiKey   string
}

// NewAyrshare creates an Ayrshare client for endpoint (the full /api/post URL).
func NewAyrshare(endpoint, apiKey string, opts Options) *Ayrshare {
	return &Ayrshare{
		caller:   newCaller(opts.HTTPClient, opts.Limiter),
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

type ayrsharePayload struct {
	Post      string   `json:"post"`
	Platforms []string `json:"platforms"`
	MediaURLs []string `json:"mediaUrls,omitempty"`
}

// Post publishes p. Instagram requires an image, so a stock image matching the
// product name is attached for it.
func (a *Ayrshare) Post(ctx context.Context, p SocialPost) (*Result, error) {
	if a.apiKey == "" {
		return nil, ErrNotConfigured
	}

	payload := ayrsharePayload{
		Post:      p.Content,
		Platforms: []string{p.Platform},
	}
	if p.Platform == "instagram" {
		payload.MediaURLs = []string{StockImageURL(p.ProductName)}
	}

	return a.postJSON(ctx, a.endpoint, map[string]string{
		"Authorization": "Bearer " + a.apiKey,
	}, payload)
}

// StockImageURL builds a 1080x1080 stock photo URL for a product name.
func StockImageURL(productName string) string {
	name := strings.TrimSpace(productName)
	if name == "" {
		name = "product"
	}
	query := url.QueryEscape(strings.ToLower(name))
	return "https://source.unsplash.com/1080x1080/?" + query + ",product,professional"
}
