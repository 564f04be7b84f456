package prompts

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/jimdaga/automarketer/internal/models"
)

// Product is the data a prompt template can reference.
type Product struct {
	Name        string
	Description string
	Offers      string
	Hashtags    string
}

type compiled struct {
	prompt *template.Template
	sample *template.Template
}

// Registry holds the compiled templates, indexed by platform.
type Registry struct {
	hashtags  HashtagConfig
	platforms map[models.Platform]compiled
}

// NewRegistry compiles every template in the catalog.
func NewRegistry(c *Catalog) (*Registry, error) {
	r := &Registry{
		hashtags:  c.Hashtags,
		platforms: make(map[models.Platform]compiled, len(c.Platforms)),
	}
	for _, p := range c.Platforms {
		prompt, err := template.New(string(p.Name) + ".prompt").Parse(p.Prompt)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s prompt: %w", p.Name, err)
		}
		sample, err := template.New(string(p.Name) + ".sample").Parse(p.Sample)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s sample: %w", p.Name, err)
		}
		r.platforms[p.Name] = compiled{prompt: prompt, sample: sample}
	}
	return r, nil
}

// NewDefaultRegistry compiles the embedded catalog.
func NewDefaultRegistry() (*Registry, error) {
	c, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return NewRegistry(c)
}

// Platforms returns the registered platforms in display order.
func (r *Registry) Platforms() []models.Platform {
	out := make([]models.Platform, 0, len(r.platforms))
	for _, p := range models.Platforms {
		if _, ok := r.platforms[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Hashtags returns the trending hashtags for a product name, keyword matches
// first, capped at the configured limit.
func (r *Registry) Hashtags(productName string) []string {
	name := strings.ToLower(productName)

	var tags []string
	seen := make(map[string]bool)
	add := func(tag string) {
		if !seen[tag] && len(tags) < r.hashtags.Limit {
			seen[tag] = true
			tags = append(tags, "#"+tag)
		}
	}

	keywords := make([]string, 0, len(r.hashtags.Keywords))
	for keyword := range r.hashtags.Keywords {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	for _, keyword := range keywords {
		if strings.Contains(name, strings.ToLower(keyword)) {
			for _, tag := range r.hashtags.Keywords[keyword] {
				add(tag)
			}
		}
	}
	for _, tag := range r.hashtags.Base {
		add(tag)
	}
	return tags
}

// Prompt renders the generation prompt for a platform.
func (r *Registry) Prompt(p models.Platform, product Product) (string, error) {
	c, ok := r.platforms[p]
	if !ok {
		return "", fmt.Errorf("no prompt registered for platform %q", p)
	}
	return r.render(c.prompt, product)
}

// Sample renders the offline sample copy for a platform.
func (r *Registry) Sample(p models.Platform, product Product) (string, error) {
	c, ok := r.platforms[p]
	if !ok {
		return "", fmt.Errorf("no sample registered for platform %q", p)
	}
	return r.render(c.sample, product)
}

func (r *Registry) render(t *template.Template, product Product) (string, error) {
	if product.Hashtags == "" {
		product.Hashtags = strings.Join(r.Hashtags(product.Name), " ")
	}
	var b strings.Builder
	if err := t.Execute(&b, product); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", t.Name(), err)
	}
	return strings.TrimSpace(b.String()), nil
}
