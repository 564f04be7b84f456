package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jimdaga/automarketer/internal/backend"
)

// Product messages.
const (
	ProductAddedText   = "Product added successfully!"
	ProductDeletedText = "Product deleted successfully"
	ProductAddError    = "Error adding product"
	ProductDeleteError = "Error deleting product"
	DeleteConfirmText  = "Are you sure you want to delete this product? All related drafts will also be deleted."
)

// ProductForm is the add-product form.
type ProductForm struct {
	Name        string `validate:"required"`
	Description string
	Offers      string
}

// ProductsView is what the products tab renders.
type ProductsView struct {
	Items         []backend.Product
	Form          ProductForm
	Flash         *Notice
	PendingDelete *backend.Product
}

// Products is the product list of one view.
type Products struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger
	now     func() time.Time

	owner         string
	loaded        bool
	items         []backend.Product
	form          ProductForm
	flash         expiring
	pendingDelete int64
}

// NewProducts creates an empty product list.
func NewProducts(b Backend, logger *slog.Logger) *Products {
	return &Products{backend: b, logger: logger, now: time.Now}
}

// Sync loads the list for owner unless it is already loaded for owner.
func (p *Products) Sync(ctx context.Context, owner string) error {
	p.mu.Lock()
	fresh := p.loaded && p.owner == owner
	p.mu.Unlock()
	if fresh {
		return nil
	}
	return p.Load(ctx, owner)
}

// Load fetches the products of owner. An empty owner clears the list without
// calling the backend. Products reported for another owner are dropped.
func (p *Products) Load(ctx context.Context, owner string) error {
	if owner == "" {
		p.mu.Lock()
		p.owner, p.items, p.loaded = "", nil, false
		p.mu.Unlock()
		return nil
	}

	items, err := p.backend.ListProducts(ctx, owner)
	if err != nil {
		p.logger.Error("Failed to list products", "error", err)
		return fmt.Errorf("list products: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.owner = owner
	p.items = ownedBy(items, owner)
	p.loaded = true
	return nil
}

// ownedBy keeps the products whose owner is owner or unreported.
func ownedBy(items []backend.Product, owner string) []backend.Product {
	out := make([]backend.Product, 0, len(items))
	for _, item := range items {
		if item.OwnerEmail != "" && !strings.EqualFold(item.OwnerEmail, owner) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Create adds a product. An empty name or owner fails with ErrValidation
// before any call. Success clears the form, flashes a confirmation and
// reloads the list; failure flashes the server's text and keeps the form.
func (p *Products) Create(ctx context.Context, owner string, form ProductForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Description = strings.TrimSpace(form.Description)
	form.Offers = strings.TrimSpace(form.Offers)

	if err := check(form, "Product name is required"); err != nil {
		p.setForm(form)
		return err
	}
	if owner == "" {
		return fmt.Errorf("%w: owner email is required", ErrValidation)
	}

	_, err := p.backend.CreateProduct(ctx, backend.NewProduct{
		Name:        form.Name,
		Description: form.Description,
		Offers:      form.Offers,
		OwnerEmail:  owner,
	})
	if err != nil {
		p.logger.Error("Failed to create product", "error", err)
		p.mu.Lock()
		p.form = form
		p.flash.set(Flash(NoticeDanger, backend.ServerMessage(err, ProductAddError)), p.now())
		p.mu.Unlock()
		return fmt.Errorf("create product: %w", err)
	}

	p.mu.Lock()
	p.form = ProductForm{}
	p.flash.set(Flash(NoticeSuccess, ProductAddedText), p.now())
	p.mu.Unlock()

	return p.Load(ctx, owner)
}

// Delete removes a product. Without confirmed it only records the pending
// confirmation and returns ErrNotConfirmed.
func (p *Products) Delete(ctx context.Context, owner string, id int64, confirmed bool) error {
	if !confirmed {
		p.mu.Lock()
		p.pendingDelete = id
		p.mu.Unlock()
		return ErrNotConfirmed
	}
	if owner == "" || id <= 0 {
		return fmt.Errorf("%w: product and owner are required", ErrValidation)
	}

	if err := p.backend.DeleteProduct(ctx, id, owner); err != nil {
		p.logger.Error("Failed to delete product", "product_id", id, "error", err)
		p.mu.Lock()
		p.pendingDelete = 0
		p.flash.set(Flash(NoticeDanger, backend.ServerMessage(err, ProductDeleteError)), p.now())
		p.mu.Unlock()
		return fmt.Errorf("delete product: %w", err)
	}

	p.mu.Lock()
	p.pendingDelete = 0
	p.flash.set(Flash(NoticeSuccess, ProductDeletedText), p.now())
	p.mu.Unlock()

	return p.Load(ctx, owner)
}

// CancelDelete drops a pending confirmation.
func (p *Products) CancelDelete() {
	p.mu.Lock()
	p.pendingDelete = 0
	p.mu.Unlock()
}

// Items returns a copy of the current list.
func (p *Products) Items() []backend.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]backend.Product(nil), p.items...)
}

// Find returns the listed product with id.
func (p *Products) Find(id int64) (backend.Product, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range p.items {
		if item.ID == id {
			return item, true
		}
	}
	return backend.Product{}, false
}

// View returns the state to render. Expired flashes are gone.
func (p *Products) View() ProductsView {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := ProductsView{
		Items: append([]backend.Product(nil), p.items...),
		Form:  p.form,
		Flash: p.flash.get(p.now()),
	}
	for i := range p.items {
		if p.items[i].ID == p.pendingDelete {
			item := p.items[i]
			v.PendingDelete = &item
		}
	}
	return v
}

func (p *Products) setForm(form ProductForm) {
	p.mu.Lock()
	p.form = form
	p.mu.Unlock()
}

// IsValidation reports whether err was raised before any backend call.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
