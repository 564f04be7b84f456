package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jimdaga/automarketer/internal/backend"
	"github.com/jimdaga/automarketer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspace_GenerationRefreshesHistoryOnce(t *testing.T) {
	fb := newFakeBackend()
	fb.products = []backend.Product{wallet}
	r := NewRegistry(fb, time.Hour, discardLogger())
	ws := r.Open("a@b.com")
	ctx := context.Background()

	require.NoError(t, ws.Mount(ctx))
	assert.Equal(t, 1, fb.count("ListProducts"))
	assert.Equal(t, 1, fb.count("ListDrafts"))

	// no generation, no refetch
	require.NoError(t, ws.SyncHistory(ctx))
	assert.Equal(t, 1, fb.count("ListDrafts"))

	require.NoError(t, ws.Generator.Generate(ctx, ws.Owner, wallet, models.PlatformInstagram))
	assert.Equal(t, 1, ws.Refresh())
	require.NoError(t, ws.SyncHistory(ctx))
	assert.Equal(t, 2, fb.count("ListDrafts"))

	fb.generateErr = errors.New("down")
	require.NoError(t, ws.Generator.Generate(ctx, ws.Owner, wallet, models.PlatformInstagram))
	assert.Equal(t, 1, ws.Refresh())
	require.NoError(t, ws.SyncHistory(ctx))
	assert.Equal(t, 2, fb.count("ListDrafts"))
}

func TestRegistry_GetChecksOwner(t *testing.T) {
	r := NewRegistry(newFakeBackend(), time.Hour, discardLogger())
	ws := r.Open("a@b.com")

	got, ok := r.Get(ws.ID, "a@b.com")
	require.True(t, ok)
	assert.Same(t, ws, got)

	_, ok = r.Get(ws.ID, "c@d.com")
	assert.False(t, ok)
	_, ok = r.Get("missing", "a@b.com")
	assert.False(t, ok)
}

func TestRegistry_ViewsAreIndependent(t *testing.T) {
	fb := newFakeBackend()
	r := NewRegistry(fb, time.Hour, discardLogger())
	first := r.Open("a@b.com")
	second := r.Open("a@b.com")
	require.NotEqual(t, first.ID, second.ID)

	require.NoError(t, first.Generator.Generate(context.Background(), "a@b.com", wallet, models.PlatformBlog))
	assert.Equal(t, 1, first.Refresh())
	assert.Zero(t, second.Refresh())
	assert.Equal(t, StateIdle, second.Generator.View().State)
}

func TestRegistry_SweepEvictsIdle(t *testing.T) {
	r := NewRegistry(newFakeBackend(), time.Minute, discardLogger())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	stale := r.Open("a@b.com")
	now = now.Add(30 * time.Second)
	active := r.Open("a@b.com")

	now = now.Add(45 * time.Second)
	_, ok := r.Get(active.ID, "a@b.com")
	require.True(t, ok)

	assert.Equal(t, 1, r.Sweep())
	_, ok = r.Get(stale.ID, "a@b.com")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_DropOwner(t *testing.T) {
	r := NewRegistry(newFakeBackend(), time.Hour, discardLogger())
	r.Open("a@b.com")
	r.Open("a@b.com")
	keep := r.Open("c@d.com")

	r.DropOwner("a@b.com")
	assert.Equal(t, 1, r.Len())
	_, ok := r.Get(keep.ID, "c@d.com")
	assert.True(t, ok)

	r.Drop(keep.ID)
	assert.Zero(t, r.Len())
}

func TestRegistry_RunStopsWithContext(t *testing.T) {
	r := NewRegistry(newFakeBackend(), time.Nanosecond, discardLogger())
	r.Open("a@b.com")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	<-done
}
