package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jimdaga/automarketer/internal/backend"
	"github.com/jimdaga/automarketer/internal/models"
)

// Generation messages.
const (
	SelectProductWarning = "Please select a product first and log in!"
	GenerationFailedText = "Error generating content. Check console or try again."
	RecipientRequired    = "Please enter a recipient email address."
	EmailSentText        = "Email sent successfully!"
	EmailFailedText      = "Failed to send email"
	SocialFailedText     = "Failed to post"
	BlogPublishedText    = "Blog post published successfully!"
	BlogFailedText       = "Failed to publish blog post"
)

// GenState is the state of the generation request of one view.
type GenState int

const (
	StateIdle GenState = iota
	StateRequesting
	StateSuccess
	StateFailure
)

func (s GenState) String() string {
	switch s {
	case StateRequesting:
		return "requesting"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return "idle"
	}
}

type generateInput struct {
	ProductID int64  `validate:"gt=0"`
	Owner     string `validate:"required"`
}

type emailInput struct {
	Content   string `validate:"required"`
	Recipient string `validate:"required"`
}

// GeneratorView is what the generate tab renders.
type GeneratorView struct {
	State       GenState
	Loading     bool
	ProductID   int64
	ProductName string
	Platform    models.Platform
	Content     string
	Recipient   string
}

// Succeeded reports whether the content on screen came from the backend.
func (v GeneratorView) Succeeded() bool {
	return v.State == StateSuccess
}

// CanPostSocial reports whether the content can go to a social network.
func (v GeneratorView) CanPostSocial() bool {
	return v.Succeeded() && v.Platform.Social()
}

// CanSendEmail reports whether the email form should be shown.
func (v GeneratorView) CanSendEmail() bool {
	return v.Succeeded() && v.Platform == models.PlatformEmail
}

// CanPublishBlog reports whether the blog form should be shown.
func (v GeneratorView) CanPublishBlog() bool {
	return v.Succeeded() && v.Platform == models.PlatformBlog
}

// HasContent reports whether generated copy (or the failure placeholder) is
// on screen.
func (v GeneratorView) HasContent() bool {
	return v.Content != ""
}

// Generator drives content generation for one view. At most one generation
// runs at a time; each success calls onGenerated once.
type Generator struct {
	mu          sync.Mutex
	backend     Backend
	logger      *slog.Logger
	onGenerated func()

	state       GenState
	productID   int64
	productName string
	platform    models.Platform
	content     string
	recipient   string
}

// NewGenerator creates an idle generator. onGenerated may be nil.
func NewGenerator(b Backend, logger *slog.Logger, onGenerated func()) *Generator {
	return &Generator{
		backend:     b,
		logger:      logger,
		onGenerated: onGenerated,
		platform:    models.PlatformInstagram,
	}
}

// Select records the chosen product and platform without generating.
func (g *Generator) Select(productID int64, platform models.Platform) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.productID = productID
	if platform.Valid() {
		g.platform = platform
	}
}

// Generate requests copy for product on platform. A missing product or owner
// returns ErrValidation (show SelectProductWarning) and a running generation
// returns ErrGenerationInFlight; neither calls the backend. A backend failure
// is logged and shown as GenerationFailedText; it is not returned.
func (g *Generator) Generate(ctx context.Context, owner string, product backend.Product, platform models.Platform) error {
	if err := check(generateInput{ProductID: product.ID, Owner: owner}, SelectProductWarning); err != nil {
		return err
	}
	if !platform.Valid() {
		return fmt.Errorf("%w: unknown platform %q", ErrValidation, platform)
	}

	g.mu.Lock()
	if g.state == StateRequesting {
		g.mu.Unlock()
		return ErrGenerationInFlight
	}
	g.state = StateRequesting
	g.productID = product.ID
	g.productName = product.Name
	g.platform = platform
	g.content = ""
	g.mu.Unlock()

	out, err := g.backend.Generate(ctx, backend.GenerateRequest{
		ProductID:  product.ID,
		Platform:   platform,
		OwnerEmail: owner,
	})

	g.mu.Lock()
	if err != nil {
		g.state = StateFailure
		g.content = GenerationFailedText
		g.mu.Unlock()
		g.logger.Error("Content generation failed", "product_id", product.ID, "platform", platform, "error", err)
		return nil
	}
	g.state = StateSuccess
	g.content = out.Content
	if out.ProductName != "" {
		g.productName = out.ProductName
	}
	g.mu.Unlock()

	if g.onGenerated != nil {
		g.onGenerated()
	}
	return nil
}

// PostToSocial publishes content and returns the alert to show.
func (g *Generator) PostToSocial(ctx context.Context, content string, platform models.Platform, productName string) Notice {
	if strings.TrimSpace(content) == "" || !platform.Social() {
		return Alert(NoticeWarning, "Only Instagram and LinkedIn content can be posted.")
	}

	msg, err := g.backend.PostToSocial(ctx, backend.SocialPost{
		Content:     content,
		Platform:    platform,
		ProductName: productName,
	})
	if err != nil {
		g.logger.Error("Social post failed", "platform", platform, "error", err)
		return Alert(NoticeDanger, SocialFailedText+": "+backend.ServerMessage(err, GenericError))
	}
	if msg == "" {
		msg = fmt.Sprintf("Posted to %s successfully!", platform.Title())
	}
	return Alert(NoticeSuccess, msg)
}

// SetRecipient keeps the email recipient field.
func (g *Generator) SetRecipient(recipient string) {
	g.mu.Lock()
	g.recipient = strings.TrimSpace(recipient)
	g.mu.Unlock()
}

// SendEmail mails content to recipient. An empty recipient is rejected with
// ErrValidation and no call. Success clears the recipient.
func (g *Generator) SendEmail(ctx context.Context, content, recipient string) (Notice, error) {
	recipient = strings.TrimSpace(recipient)
	g.SetRecipient(recipient)

	if err := check(emailInput{Content: content, Recipient: recipient}, RecipientRequired); err != nil {
		return Alert(NoticeWarning, RecipientRequired), err
	}

	if err := g.backend.SendEmail(ctx, content, recipient); err != nil {
		g.logger.Error("Email send failed", "error", err)
		return Alert(NoticeDanger, backend.ServerMessage(err, EmailFailedText)), err
	}

	g.SetRecipient("")
	return Alert(NoticeSuccess, EmailSentText), nil
}

// PublishBlog posts content to the blog and returns the alert to show.
func (g *Generator) PublishBlog(ctx context.Context, content, title string) Notice {
	if strings.TrimSpace(content) == "" {
		return Alert(NoticeWarning, "Generate some content first.")
	}
	if err := g.backend.PublishBlog(ctx, content, strings.TrimSpace(title)); err != nil {
		g.logger.Error("Blog publish failed", "error", err)
		return Alert(NoticeDanger, backend.ServerMessage(err, BlogFailedText))
	}
	return Alert(NoticeSuccess, BlogPublishedText)
}

// View returns the state to render.
func (g *Generator) View() GeneratorView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GeneratorView{
		State:       g.state,
		Loading:     g.state == StateRequesting,
		ProductID:   g.productID,
		ProductName: g.productName,
		Platform:    g.platform,
		Content:     g.content,
		Recipient:   g.recipient,
	}
}
