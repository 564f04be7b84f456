// Package dashboard holds the per-view state of the AutoMarketer dashboard
// and the operations behind its tabs: products, generation and draft
// history. Controllers never touch HTTP; internal/web renders their views.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jimdaga/automarketer/internal/backend"
)

// Backend is the part of the backend API the dashboard uses.
type Backend interface {
	ListProducts(ctx context.Context, ownerEmail string) ([]backend.Product, error)
	CreateProduct(ctx context.Context, p backend.NewProduct) (*backend.Created, error)
	DeleteProduct(ctx context.Context, id int64, ownerEmail string) error
	Generate(ctx context.Context, req backend.GenerateRequest) (*backend.Generated, error)
	ListDrafts(ctx context.Context, ownerEmail string) ([]backend.Draft, error)
	PostToSocial(ctx context.Context, p backend.SocialPost) (string, error)
	SendEmail(ctx context.Context, content, recipient string) error
	PublishBlog(ctx context.Context, content, title string) error
}

// Authenticator is the part of the backend API used by the sign-in page.
type Authenticator interface {
	Signup(ctx context.Context, email, password, organization string) (string, error)
	Login(ctx context.Context, email, password string) (*backend.User, error)
}

var (
	// ErrValidation marks input rejected before any backend call.
	ErrValidation = errors.New("validation failed")
	// ErrNotConfirmed is returned by a delete that still needs confirmation.
	ErrNotConfirmed = errors.New("confirmation required")
	// ErrGenerationInFlight is returned while a generation is running for
	// the same view.
	ErrGenerationInFlight = errors.New("generation already in progress")
)

// GenericError is shown when the backend gave no usable message.
const GenericError = "Something went wrong"

var validate = validator.New()

// check runs struct validation and maps failures to ErrValidation with msg.
func check(v any, msg string) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, msg)
	}
	return nil
}
