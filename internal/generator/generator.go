// Package generator produces marketing copy for a product and platform.
// The template generator renders local sample copy; the webhook generator
// delegates to an external generation service and falls back to the
// template generator when that service fails.
package generator

import (
	"context"

	"github.com/jimdaga/automarketer/internal/models"
	"github.com/jimdaga/automarketer/internal/prompts"
)

// Request describes the product copy should be written for.
type Request struct {
	Platform    models.Platform
	ProductName string
	Description string
	Offers      string
}

func (r Request) product() prompts.Product {
	return prompts.Product{Name: r.ProductName, Description: r.Description, Offers: r.Offers}
}

// Generator produces content for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// TemplateGenerator renders the catalog's sample copy. It never calls out.
type TemplateGenerator struct {
	registry *prompts.Registry
}

// NewTemplateGenerator creates a generator backed by registry.
func NewTemplateGenerator(registry *prompts.Registry) *TemplateGenerator {
	return &TemplateGenerator{registry: registry}
}

// Generate renders the sample for req.Platform.
func (g *TemplateGenerator) Generate(_ context.Context, req Request) (string, error) {
	return g.registry.Sample(req.Platform, req.product())
}
