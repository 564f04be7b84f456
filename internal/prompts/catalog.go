// Package prompts loads the per-platform prompt catalog used by the reference
// backend's content generation.
package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/jimdaga/automarketer/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultCatalog []byte

// Catalog is the parsed prompts.yaml manifest.
type Catalog struct {
	SchemaVersion string           `yaml:"schema_version"`
	Hashtags      HashtagConfig    `yaml:"hashtags"`
	Platforms     []PlatformPrompt `yaml:"platforms"`
}

// HashtagConfig controls the trending hashtag line. Keywords are matched
// case-insensitively against the product name and take precedence over Base.
type HashtagConfig struct {
	Limit    int                 `yaml:"limit"`
	Base     []string            `yaml:"base"`
	Keywords map[string][]string `yaml:"keywords"`
}

// PlatformPrompt holds the text/template sources for one platform. Prompt is
// sent to a generation service; Sample is rendered locally when no service is
// available.
type PlatformPrompt struct {
	Name   models.Platform `yaml:"name"`
	Prompt string          `yaml:"prompt"`
	Sample string          `yaml:"sample"`
}

// LoadCatalog parses a catalog with strict validation.
// Unknown YAML keys are rejected and every supported platform must be present
// exactly once.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse prompt catalog: %w", err)
	}

	if c.SchemaVersion == "" {
		c.SchemaVersion = "v1"
	}
	if c.Hashtags.Limit <= 0 {
		c.Hashtags.Limit = 8
	}

	seen := make(map[models.Platform]bool, len(c.Platforms))
	for _, p := range c.Platforms {
		if !p.Name.Valid() {
			return nil, fmt.Errorf("prompt catalog: unknown platform %q", p.Name)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("prompt catalog: duplicate platform %q", p.Name)
		}
		if p.Prompt == "" || p.Sample == "" {
			return nil, fmt.Errorf("prompt catalog: platform %q needs both prompt and sample", p.Name)
		}
		seen[p.Name] = true
	}
	for _, p := range models.Platforms {
		if !seen[p] {
			return nil, fmt.Errorf("prompt catalog: missing platform %q", p)
		}
	}

	return &c, nil
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}
