package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// DefaultBlogTitle is used when a blog post has no title.
const DefaultBlogTitle = "New Post from AutoMarketer"

// BlogPost is a post for the configured blog.
type BlogPost struct {
	Title   string
	Content string
}

// Blogger publishes posts through the Blogger v3 API.
type Blogger struct {
	caller
	baseURL string
	blogID  string
	apiKey  string
}

// NewBlogger creates a Blogger client for one blog.
func NewBlogger(baseURL, blogID, apiKey string, opts Options) *Blogger {
	return &Blogger{
		caller:  newCaller(opts.HTTPClient, opts.Limiter),
		baseURL: strings.TrimRight(baseURL, "/"),
		blogID:  blogID,
		apiKey:  apiKey,
	}
}

type bloggerPayload struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Publish creates a post on the blog.
func (b *Blogger) Publish(ctx context.Context, p BlogPost) (*Result, error) {
	if b.apiKey == "" || b.blogID == "" {
		return nil, ErrNotConfigured
	}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = DefaultBlogTitle
	}

	endpoint := fmt.Sprintf("%s/blogs/%s/posts?key=%s", b.baseURL, url.PathEscape(b.blogID), url.QueryEscape(b.apiKey))
	return b.postJSON(ctx, endpoint, nil, bloggerPayload{
		Kind:    "blogger#post",
		Title:   title,
		Content: p.Content,
	})
}
