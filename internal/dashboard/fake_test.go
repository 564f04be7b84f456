package dashboard

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/jimdaga/automarketer/internal/backend"
)

// fakeBackend records calls and answers from its fields.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	products    []backend.Product
	drafts      []backend.Draft
	generated   *backend.Generated
	socialMsg   string
	user        *backend.User
	signupMsg   string
	err         error
	generateErr error

	// block, when set, holds Generate until it is closed.
	block   chan struct{}
	started chan struct{}

	lastEmail   [2]string
	lastProduct backend.NewProduct
	lastDelete  int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeBackend) ListProducts(_ context.Context, _ string) ([]backend.Product, error) {
	if err := f.record("ListProducts"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backend.Product(nil), f.products...), nil
}

func (f *fakeBackend) CreateProduct(_ context.Context, p backend.NewProduct) (*backend.Created, error) {
	if err := f.record("CreateProduct"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastProduct = p
	id := int64(len(f.products) + 1)
	f.products = append(f.products, backend.Product{ID: id, Name: p.Name, Description: p.Description, Offers: p.Offers, OwnerEmail: p.OwnerEmail})
	return &backend.Created{ID: id, Message: "Product added successfully"}, nil
}

func (f *fakeBackend) DeleteProduct(_ context.Context, id int64, _ string) error {
	if err := f.record("DeleteProduct"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastDelete = id
	kept := f.products[:0]
	for _, p := range f.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.products = kept
	return nil
}

func (f *fakeBackend) Generate(_ context.Context, req backend.GenerateRequest) (*backend.Generated, error) {
	f.record("Generate")
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	if f.generated != nil {
		return f.generated, nil
	}
	return &backend.Generated{Content: "copy for " + string(req.Platform), Platform: req.Platform}, nil
}

func (f *fakeBackend) ListDrafts(_ context.Context, _ string) ([]backend.Draft, error) {
	if err := f.record("ListDrafts"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backend.Draft(nil), f.drafts...), nil
}

func (f *fakeBackend) PostToSocial(_ context.Context, _ backend.SocialPost) (string, error) {
	if err := f.record("PostToSocial"); err != nil {
		return "", err
	}
	return f.socialMsg, nil
}

func (f *fakeBackend) SendEmail(_ context.Context, content, recipient string) error {
	if err := f.record("SendEmail"); err != nil {
		return err
	}
	f.mu.Lock()
	f.lastEmail = [2]string{content, recipient}
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) PublishBlog(_ context.Context, _, _ string) error {
	return f.record("PublishBlog")
}

func (f *fakeBackend) Signup(_ context.Context, _, _, _ string) (string, error) {
	if err := f.record("Signup"); err != nil {
		return "", err
	}
	return f.signupMsg, nil
}

func (f *fakeBackend) Login(_ context.Context, email, _ string) (*backend.User, error) {
	if err := f.record("Login"); err != nil {
		return nil, err
	}
	if f.user != nil {
		return f.user, nil
	}
	return &backend.User{ID: 1, Email: email}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
