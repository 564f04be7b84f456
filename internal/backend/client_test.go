package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jimdaga/automarketer/internal/middleware"
	"github.com/jimdaga/automarketer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func respond(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(" ", nil, nil)
	assert.Error(t, err)
}

func TestLoadSchemas(t *testing.T) {
	set, err := loadSchemas()
	require.NoError(t, err)
	for _, name := range []string{schemaMessage, schemaLogin, schemaProducts, schemaCreated, schemaGenerate, schemaDrafts} {
		assert.Contains(t, set, name)
	}
}

func TestListProducts_SendsOwnerAndDecodes(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "a+b@shop.com", r.URL.Query().Get("user_email"))
		respond(w, http.StatusOK, `[
			{"id": 1, "name": "Wallet", "description": null, "offers": "10% off", "user_email": "a+b@shop.com"},
			{"id": 2, "name": "Tote", "description": "Canvas", "offers": null, "user_id": 4}
		]`)
	})

	products, err := c.ListProducts(context.Background(), "a+b@shop.com")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, Product{ID: 1, Name: "Wallet", Offers: "10% off", OwnerEmail: "a+b@shop.com"}, products[0])
	assert.Equal(t, Product{ID: 2, Name: "Tote", Description: "Canvas"}, products[1])
}

func TestListProducts_RejectsMalformedResponse(t *testing.T) {
	cases := map[string]string{
		"not an array": `{"products": []}`,
		"missing name": `[{"id": 1}]`,
		"string id":    `[{"id": "1", "name": "Wallet"}]`,
		"not json":     `<html>oops</html>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
				respond(w, http.StatusOK, body)
			})

			_, err := c.ListProducts(context.Background(), "a@shop.com")
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, "list products", parseErr.Op)
		})
	}
}

func TestAPIError_StringAndObjectMessages(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"error": "Product not found or not yours"}`, "Product not found or not yours"},
		{"object with message", `{"error": {"code": 156, "message": "Account not linked"}}`, "Account not linked"},
		{"object without message", `{"error": {"code": 156}}`, `{"code":156}`},
		{"no error field", `{"detail": "x"}`, ""},
		{"not json", `Bad Gateway`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
				respond(w, http.StatusNotFound, tc.body)
			})

			err := c.DeleteProduct(context.Background(), 3, "a@shop.com")
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusNotFound, apiErr.Status)
			assert.Equal(t, tc.want, apiErr.Message)
			assert.True(t, IsNotFound(err))
		})
	}
}

func TestServerMessage(t *testing.T) {
	err := errors.New("dial tcp: refused")
	assert.Equal(t, "Something went wrong", ServerMessage(err, "Something went wrong"))

	wrapped := errors.Join(errors.New("login"), &APIError{Status: 401, Message: "Invalid credentials"})
	assert.Equal(t, "Invalid credentials", ServerMessage(wrapped, "Something went wrong"))

	assert.Equal(t, "fallback", ServerMessage(&APIError{Status: 500}, "fallback"))
}

func TestDeleteProduct_SendsOwnerInBody(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/products/42", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@shop.com", body["user_email"])
		respond(w, http.StatusOK, `{"message": "Product deleted successfully"}`)
	})

	require.NoError(t, c.DeleteProduct(context.Background(), 42, "a@shop.com"))
}

func TestGenerate(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["product_id"])
		assert.Equal(t, "blog", body["platform"])
		assert.Equal(t, "a@shop.com", body["user_email"])
		respond(w, http.StatusOK, `{"content": "Once upon a time"}`)
	})

	out, err := c.Generate(context.Background(), GenerateRequest{ProductID: 7, Platform: models.PlatformBlog, OwnerEmail: "a@shop.com"})
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time", out.Content)
	assert.Equal(t, models.PlatformBlog, out.Platform)
}

func TestGenerate_MissingContentIsParseError(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"text": "wrong field"}`)
	})

	_, err := c.Generate(context.Background(), GenerateRequest{ProductID: 1, Platform: models.PlatformEmail, OwnerEmail: "a@shop.com"})
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestListDrafts_LegacyFields(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `[
			{"id": 9, "type": "Instagram", "content": "New!", "generated_at": "2025-03-01T10:20:30.123456", "product_name": "Wallet"},
			{"id": 8, "platform": "email", "product_id": 2, "content": "Hi", "generated_at": "2025-02-28T09:00:00Z", "product_name": "Tote"},
			{"id": 7, "platform": "blog", "content": "Story", "generated_at": null, "product_name": null}
		]`)
	})

	drafts, err := c.ListDrafts(context.Background(), "a@shop.com")
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	assert.Equal(t, models.PlatformInstagram, drafts[0].Platform)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 20, 30, 123456000, time.UTC), drafts[0].GeneratedAt)
	assert.Equal(t, int64(2), drafts[1].ProductID)
	assert.Equal(t, models.PlatformEmail, drafts[1].Platform)
	assert.True(t, drafts[2].GeneratedAt.IsZero())
	assert.Empty(t, drafts[2].ProductName)
}

func TestListDrafts_BadTimestamp(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `[{"id": 1, "platform": "blog", "content": "x", "generated_at": "yesterday"}]`)
	})

	_, err := c.ListDrafts(context.Background(), "a@shop.com")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.ErrorIs(t, err, errBadTimestamp)
}

func TestLogin(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"message": "Login successful", "user": {"id": 3, "email": "a@shop.com", "organization": null}}`)
	})

	user, err := c.Login(context.Background(), "a@shop.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, &User{ID: 3, Email: "a@shop.com"}, user)
}

func TestLogin_MessageOnly(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"message": "ok"}`)
	})

	user, err := c.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, &User{Email: "a@b.com"}, user)
}

func TestLogin_RejectsMissingMessage(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"user": {"email": "a@b.com"}}`)
	})

	_, err := c.Login(context.Background(), "a@b.com", "secret")
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestPostToSocial_ReturnsMessage(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"message": "Posted successfully!", "data": {"id": "x"}}`)
	})

	msg, err := c.PostToSocial(context.Background(), SocialPost{Content: "Hi", Platform: models.PlatformLinkedIn})
	require.NoError(t, err)
	assert.Equal(t, "Posted successfully!", msg)
}

func TestRequestIDIsForwarded(t *testing.T) {
	var got string
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(middleware.HeaderRequestID)
		respond(w, http.StatusOK, `{"status": "ok"}`)
	})

	ctx := middleware.WithRequestID(context.Background(), "rid-1")
	require.NoError(t, c.Health(ctx))
	assert.Equal(t, "rid-1", got)
}

func TestParseTimestamp(t *testing.T) {
	for _, in := range []string{"2025-01-02T03:04:05Z", "2025-01-02T03:04:05+05:30", "2025-01-02T03:04:05.5", "2025-01-02 03:04:05", "2025-01-02T03:04:05"} {
		_, err := ParseTimestamp(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseTimestamp("02/01/2025")
	assert.Error(t, err)
}
