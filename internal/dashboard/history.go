package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jimdaga/automarketer/internal/backend"
)

// PreviewLength is the number of characters shown for a collapsed draft.
const PreviewLength = 200

// EmptyHistoryText replaces the list when there are no drafts.
const EmptyHistoryText = "No drafts yet. Generate some content!"

// Preview returns the first PreviewLength characters of content, followed by
// "..." only when content is longer.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= PreviewLength {
		return content
	}
	return string(runes[:PreviewLength]) + "..."
}

// DraftView is one row of the history tab.
type DraftView struct {
	backend.Draft
	Preview   string
	Truncated bool
	Expanded  bool
}

// HistoryView is what the history tab renders.
type HistoryView struct {
	Drafts []DraftView
}

// Empty reports whether the placeholder should be shown.
func (v HistoryView) Empty() bool {
	return len(v.Drafts) == 0
}

// History is the draft history of one view.
type History struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger

	owner    string
	trigger  int
	loaded   bool
	drafts   []backend.Draft
	expanded map[int64]bool
}

// NewHistory creates an empty history.
func NewHistory(b Backend, logger *slog.Logger) *History {
	return &History{backend: b, logger: logger, expanded: make(map[int64]bool)}
}

// Sync refetches the drafts when owner or trigger differ from the last load.
// An empty owner clears the history without calling the backend.
func (h *History) Sync(ctx context.Context, owner string, trigger int) error {
	h.mu.Lock()
	fresh := h.loaded && h.owner == owner && h.trigger == trigger
	h.mu.Unlock()
	if fresh {
		return nil
	}
	return h.load(ctx, owner, trigger)
}

// Reload refetches the drafts of the current owner.
func (h *History) Reload(ctx context.Context) error {
	h.mu.Lock()
	owner, trigger := h.owner, h.trigger
	h.mu.Unlock()
	return h.load(ctx, owner, trigger)
}

func (h *History) load(ctx context.Context, owner string, trigger int) error {
	if owner == "" {
		h.mu.Lock()
		h.owner, h.trigger, h.drafts, h.loaded = "", trigger, nil, false
		h.mu.Unlock()
		return nil
	}

	drafts, err := h.backend.ListDrafts(ctx, owner)
	if err != nil {
		h.logger.Error("Failed to list drafts", "error", err)
		return fmt.Errorf("list drafts: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if owner != h.owner {
		h.expanded = make(map[int64]bool)
	}
	h.owner = owner
	h.trigger = trigger
	h.drafts = drafts
	h.loaded = true
	return nil
}

// Toggle flips the expanded state of draft id and returns the new state.
func (h *History) Toggle(id int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.expanded[id] = !h.expanded[id]
	return h.expanded[id]
}

// Expanded reports whether draft id is expanded.
func (h *History) Expanded(id int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.expanded[id]
}

// Draft returns the loaded draft with id.
func (h *History) Draft(id int64) (DraftView, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, d := range h.drafts {
		if d.ID == id {
			return h.row(d), true
		}
	}
	return DraftView{}, false
}

// View returns the state to render.
func (h *History) View() HistoryView {
	h.mu.Lock()
	defer h.mu.Unlock()
	v := HistoryView{Drafts: make([]DraftView, 0, len(h.drafts))}
	for _, d := range h.drafts {
		v.Drafts = append(v.Drafts, h.row(d))
	}
	return v
}

func (h *History) row(d backend.Draft) DraftView {
	preview := Preview(d.Content)
	return DraftView{
		Draft:     d,
		Preview:   preview,
		Truncated: preview != d.Content,
		Expanded:  h.expanded[d.ID],
	}
}
