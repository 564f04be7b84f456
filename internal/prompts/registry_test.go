package prompts

import (
	"strings"
	"testing"

	"github.com/jimdaga/automarketer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_CoversAllPlatforms(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Equal(t, "v1", c.SchemaVersion)
	assert.Len(t, c.Platforms, len(models.Platforms))
	assert.Equal(t, 8, c.Hashtags.Limit)
}

func TestLoadCatalog_RejectsUnknownFields(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader("schema_version: v1\nplatfroms: []\n"))
	assert.ErrorContains(t, err, "failed to parse prompt catalog")
}

func TestLoadCatalog_RequiresEveryPlatform(t *testing.T) {
	src := `
platforms:
  - name: instagram
    prompt: p
    sample: s
`
	_, err := LoadCatalog(strings.NewReader(src))
	assert.ErrorContains(t, err, `missing platform "linkedin"`)
}

func TestLoadCatalog_RejectsUnknownAndDuplicatePlatforms(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader("platforms:\n  - {name: tiktok, prompt: p, sample: s}\n"))
	assert.ErrorContains(t, err, "unknown platform")

	_, err = LoadCatalog(strings.NewReader(
		"platforms:\n  - {name: blog, prompt: p, sample: s}\n  - {name: blog, prompt: p, sample: s}\n"))
	assert.ErrorContains(t, err, "duplicate platform")
}

func TestRegistry_Hashtags(t *testing.T) {
	r, err := NewDefaultRegistry()
	require.NoError(t, err)

	tags := r.Hashtags("Classic Leather Wallet")
	require.Len(t, tags, 8)
	assert.Equal(t, []string{"#leatherwallet", "#mensfashion", "#everydaycarry", "#smallbusiness"}, tags[:4])

	plain := r.Hashtags("Clay Mug")
	assert.Equal(t, "#smallbusiness", plain[0])
	assert.Len(t, plain, 8)
}

func TestRegistry_PromptAndSample(t *testing.T) {
	r, err := NewDefaultRegistry()
	require.NoError(t, err)

	product := Product{Name: "Clay Mug", Description: "Wheel thrown", Offers: "Buy 2 get 1"}

	prompt, err := r.Prompt(models.PlatformLinkedIn, product)
	require.NoError(t, err)
	assert.Contains(t, prompt, "professional LinkedIn post for 'Clay Mug'")
	assert.Contains(t, prompt, "Highlight offer: Buy 2 get 1")

	sample, err := r.Sample(models.PlatformInstagram, product)
	require.NoError(t, err)
	assert.Contains(t, sample, "Meet Clay Mug!")
	assert.Contains(t, sample, "#smallbusiness")

	email, err := r.Sample(models.PlatformEmail, Product{Name: "Clay Mug"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(email, "Subject: Don't miss out on Clay Mug!"))
	assert.NotContains(t, email, "Right now")

	_, err = r.Prompt(models.Platform("fax"), product)
	assert.Error(t, err)
}

func TestRegistry_PlatformsInDisplayOrder(t *testing.T) {
	r, err := NewDefaultRegistry()
	require.NoError(t, err)
	assert.Equal(t, models.Platforms, r.Platforms())
}
