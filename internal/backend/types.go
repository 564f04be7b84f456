package backend

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jimdaga/automarketer/internal/models"
)

// User is the account summary returned at login.
type User struct {
	ID           int64
	Email        string
	Organization string
}

// Product is a product as listed by the backend. OwnerEmail is empty when
// the backend does not report it.
type Product struct {
	ID          int64
	Name        string
	Description string
	Offers      string
	OwnerEmail  string
}

// Draft is one entry of the generation history.
type Draft struct {
	ID          int64
	ProductID   int64
	ProductName string
	Platform    models.Platform
	Content     string
	GeneratedAt time.Time
}

// NewProduct is the input of CreateProduct.
type NewProduct struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Offers      string `json:"offers"`
	OwnerEmail  string `json:"user_email"`
}

// Created is the answer to a successful CreateProduct.
type Created struct {
	ID      int64
	Message string
}

// GenerateRequest asks for copy about one product.
type GenerateRequest struct {
	ProductID  int64           `json:"product_id"`
	Platform   models.Platform `json:"platform"`
	OwnerEmail string          `json:"user_email"`
}

// Generated is the answer to a successful Generate.
type Generated struct {
	Content     string
	Platform    models.Platform
	ProductName string
}

// SocialPost is the input of PostToSocial.
type SocialPost struct {
	Content     string          `json:"content"`
	Platform    models.Platform `json:"platform"`
	ProductName string          `json:"product_name"`
}

// Wire shapes. Optional strings are pointers so JSON null decodes cleanly.

type wireUser struct {
	ID           float64 `json:"id"`
	Email        string  `json:"email"`
	Organization *string `json:"organization"`
}

type wireLogin struct {
	Message string    `json:"message"`
	User    *wireUser `json:"user"`
}

type wireProduct struct {
	ID          float64 `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Offers      *string `json:"offers"`
	UserEmail   *string `json:"user_email"`
}

type wireCreated struct {
	ID      float64 `json:"id"`
	Message string  `json:"message"`
}

type wireGenerated struct {
	Content     string `json:"content"`
	Platform    string `json:"platform"`
	ProductName string `json:"product_name"`
}

type wireDraft struct {
	ID          float64  `json:"id"`
	ProductID   *float64 `json:"product_id"`
	ProductName *string  `json:"product_name"`
	Platform    string   `json:"platform"`
	Type        string   `json:"type"`
	Content     string   `json:"content"`
	GeneratedAt *string  `json:"generated_at"`
}

type wireMessage struct {
	Message string `json:"message"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (w wireProduct) toProduct() Product {
	return Product{
		ID:          int64(w.ID),
		Name:        w.Name,
		Description: deref(w.Description),
		Offers:      deref(w.Offers),
		OwnerEmail:  deref(w.UserEmail),
	}
}

// toDraft converts a wire draft. Older backends name the platform "type".
func (w wireDraft) toDraft() (Draft, error) {
	d := Draft{
		ID:          int64(w.ID),
		ProductName: deref(w.ProductName),
		Content:     w.Content,
	}
	if w.ProductID != nil {
		d.ProductID = int64(*w.ProductID)
	}

	platform := w.Platform
	if platform == "" {
		platform = w.Type
	}
	d.Platform = models.Platform(strings.ToLower(platform))

	if w.GeneratedAt != nil && *w.GeneratedAt != "" {
		t, err := ParseTimestamp(*w.GeneratedAt)
		if err != nil {
			return Draft{}, fmt.Errorf("draft %d: %w", d.ID, err)
		}
		d.GeneratedAt = t
	}
	return d, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
}

var errBadTimestamp = errors.New("unrecognized timestamp")

// ParseTimestamp reads RFC 3339 timestamps and zone-less ISO 8601 ones, which
// are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q", errBadTimestamp, s)
}
