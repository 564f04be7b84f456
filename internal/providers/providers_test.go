package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestAyrshare_PostAddsMediaForInstagram(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","id":"abc"}`))
	}))
	defer srv.Close()

	client := NewAyrshare(srv.URL, "key-1", Options{})
	res, err := client.Post(context.Background(), SocialPost{
		Content:     "New wallet!",
		Platform:    "instagram",
		ProductName: "Leather Wallet",
	})
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.JSONEq(t, `{"status":"success","id":"abc"}`, string(res.Body))
	assert.Equal(t, "Bearer key-1", auth)
	assert.Equal(t, "New wallet!", got["post"])
	assert.Equal(t, []any{"instagram"}, got["platforms"])
	assert.Equal(t, []any{StockImageURL("Leather Wallet")}, got["mediaUrls"])
}

func TestAyrshare_PostLinkedInHasNoMedia(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	res, err := NewAyrshare(srv.URL, "key", Options{}).Post(context.Background(), SocialPost{Content: "hi", Platform: "linkedin"})
	require.NoError(t, err)

	assert.False(t, res.OK())
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.JSONEq(t, `"not json"`, string(res.Body))
	assert.NotContains(t, got, "mediaUrls")
}

func TestAyrshare_NotConfigured(t *testing.T) {
	_, err := NewAyrshare("http://unused", "", Options{}).Post(context.Background(), SocialPost{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestStockImageURL(t *testing.T) {
	assert.Equal(t, "https://source.unsplash.com/1080x1080/?leather+wallet,product,professional", StockImageURL("Leather Wallet"))
	assert.Equal(t, "https://source.unsplash.com/1080x1080/?product,product,professional", StockImageURL("  "))
}

func TestBrevo_Send(t *testing.T) {
	var got brevoPayload
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("api-key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<m1>"}`))
	}))
	defer srv.Close()

	res, err := NewBrevo(srv.URL, "brevo-key", "shop@example.com", Options{}).Send(context.Background(), EmailMessage{
		Content:   "Hello <b>there</b>\nBuy now",
		Recipient: "a@b.com",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "brevo-key", key)
	assert.Equal(t, "shop@example.com", got.Sender.Email)
	require.Len(t, got.To, 1)
	assert.Equal(t, "a@b.com", got.To[0].Email)
	assert.Equal(t, EmailSubject, got.Subject)
	assert.Contains(t, got.HTMLContent, "Hello &lt;b&gt;there&lt;/b&gt;<br>Buy now")
}

func TestRenderEmailHTML(t *testing.T) {
	html, err := RenderEmailHTML("line one\nline two")
	require.NoError(t, err)
	assert.Contains(t, html, "line one<br>line two")
	assert.Contains(t, html, EmailSubject)
}

func TestBlogger_Publish(t *testing.T) {
	var got bloggerPayload
	var path, key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.URL.Query().Get("key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"42","url":"https://blog.example.com/42"}`))
	}))
	defer srv.Close()

	res, err := NewBlogger(srv.URL+"/", "blog-9", "g-key", Options{}).Publish(context.Background(), BlogPost{Content: "Body"})
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.Equal(t, "/blogs/blog-9/posts", path)
	assert.Equal(t, "g-key", key)
	assert.Equal(t, DefaultBlogTitle, got.Title)
	assert.Equal(t, "blogger#post", got.Kind)
	assert.Equal(t, "Body", got.Content)
}

func TestBlogger_NotConfigured(t *testing.T) {
	_, err := NewBlogger("http://unused", "", "key", Options{}).Publish(context.Background(), BlogPost{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLimiter_RespectsContext(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := NewAyrshare("http://unused", "key", Options{Limiter: limiter}).Post(ctx, SocialPost{Platform: "linkedin"})
	assert.ErrorContains(t, err, "rate limiter")
}
