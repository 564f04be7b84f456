// Package api implements the reference backend: the JSON endpoints the
// dashboard calls for accounts, products, generation, drafts and publishing.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jimdaga/automarketer/internal/events"
	"github.com/jimdaga/automarketer/internal/generator"
	"github.com/jimdaga/automarketer/internal/models"
	"github.com/jimdaga/automarketer/internal/providers"
	"gorm.io/gorm"
)

// SocialPoster publishes a post to a social network.
type SocialPoster interface {
	Post(ctx context.Context, p providers.SocialPost) (*providers.Result, error)
}

// EmailSender delivers a campaign email.
type EmailSender interface {
	Send(ctx context.Context, m providers.EmailMessage) (*providers.Result, error)
}

// BlogPublisher creates a blog post.
type BlogPublisher interface {
	Publish(ctx context.Context, p providers.BlogPost) (*providers.Result, error)
}

// EventPublisher announces stored drafts.
type EventPublisher interface {
	PublishDraftGenerated(ctx context.Context, evt events.DraftGenerated) (string, error)
}

// Deps are the collaborators of Handler. Social, Email, Blog and Events may
// be nil; the matching endpoints then answer 503 or skip publishing.
type Deps struct {
	DB        *gorm.DB
	Generator generator.Generator
	Social    SocialPoster
	Email     EmailSender
	Blog      BlogPublisher
	Events    EventPublisher
	Logger    *slog.Logger
}

// Handler serves the backend endpoints.
type Handler struct {
	db        *gorm.DB
	generator generator.Generator
	social    SocialPoster
	email     EmailSender
	blog      BlogPublisher
	events    EventPublisher
	logger    *slog.Logger
	validate  *validator.Validate
}

// New creates a Handler.
func New(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		db:        deps.DB,
		generator: deps.Generator,
		social:    deps.Social,
		email:     deps.Email,
		blog:      deps.Blog,
		events:    deps.Events,
		logger:    logger,
		validate:  validator.New(),
	}
}

// Register mounts every endpoint on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)

	r.GET("/products", h.ListProducts)
	r.POST("/products", h.CreateProduct)
	r.DELETE("/products/:id", h.DeleteProduct)

	r.POST("/generate", h.Generate)
	r.GET("/drafts", h.ListDrafts)

	r.POST("/post_social", h.PostSocial)
	r.POST("/generate_and_post_instagram", h.PostInstagramWithImage)
	r.POST("/send_email", h.SendEmail)
	r.POST("/post_blog", h.PostBlog)
}

// errorResponse writes the {"error": ...} body every failure uses.
func errorResponse(c *gin.Context, status int, msg any) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// bind decodes the JSON body into req and validates it. On failure it writes
// a 400 carrying msg and the per-field problems, and returns false.
func (h *Handler) bind(c *gin.Context, req any, msg string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		errorResponse(c, http.StatusBadRequest, msg)
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, e := range validationErrors {
				fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg, "fields": fields})
		return false
	}
	return true
}

// findUser loads the user owning email. A missing user yields (nil, nil).
func (h *Handler) findUser(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := h.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	h.logger.Error(msg, "path", c.FullPath(), "error", err)
	errorResponse(c, http.StatusInternalServerError, msg)
}
