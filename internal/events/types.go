// Package events publishes reference backend events to Redis Streams.
package events

import (
	"strings"
	"time"
)

// Stream name constants
const (
	StreamDraftsGenerated = "drafts:generated"
)

// SchemaVersionV1 tags every message so consumers can evolve independently.
const SchemaVersionV1 = "v1"

// OwnerStream names the per-owner copy of StreamDraftsGenerated. Emails are
// matched case-insensitively, as they are at login.
func OwnerStream(email string) string {
	return StreamDraftsGenerated + ":" + strings.ToLower(strings.TrimSpace(email))
}

// DraftGenerated is published after a draft has been stored.
type DraftGenerated struct {
	DraftID     uint      `json:"draft_id"`
	ProductID   uint      `json:"product_id"`
	ProductName string    `json:"product_name"`
	Platform    string    `json:"platform"`
	UserEmail   string    `json:"user_email"`
	GeneratedAt time.Time `json:"generated_at"`
}
