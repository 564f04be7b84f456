package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jimdaga/automarketer/internal/events"
	"github.com/jimdaga/automarketer/internal/generator"
	"github.com/jimdaga/automarketer/internal/models"
	"gorm.io/gorm"
)

// productID accepts an id sent either as a JSON number or as a numeric string,
// since HTML selects submit strings.
type productID uint

func (id *productID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", data)
	}
	*id = productID(n)
	return nil
}

type generateRequest struct {
	ProductID productID `json:"product_id" validate:"required"`
	Platform  string    `json:"platform" validate:"required"`
	UserEmail string    `json:"user_email" validate:"required"`
}

// GenerateResponse is the body of a successful /generate call.
type GenerateResponse struct {
	Content     string `json:"content"`
	Platform    string `json:"platform"`
	ProductName string `json:"product_name"`
}

// DraftResponse is the wire form of a draft.
type DraftResponse struct {
	ID          uint      `json:"id"`
	ProductID   uint      `json:"product_id"`
	ProductName string    `json:"product_name"`
	Platform    string    `json:"platform"`
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Generate handles POST /generate: it writes copy for one of the caller's
// products, stores it as a draft and announces it.
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if !h.bind(c, &req, "Missing required fields") {
		return
	}

	platform, err := models.ParsePlatform(req.Platform)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Unsupported platform")
		return
	}

	ctx := c.Request.Context()
	email := strings.TrimSpace(req.UserEmail)

	user, err := h.findUser(ctx, email)
	if err != nil {
		h.internalError(c, "Failed to look up user", err)
		return
	}
	if user == nil {
		errorResponse(c, http.StatusNotFound, "User not found")
		return
	}

	var product models.Product
	err = h.db.WithContext(ctx).Where("id = ? AND user_id = ?", uint(req.ProductID), user.ID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		errorResponse(c, http.StatusNotFound, "Product not found or not yours")
		return
	}
	if err != nil {
		h.internalError(c, "Failed to load product", err)
		return
	}

	content, err := h.generator.Generate(ctx, generator.Request{
		Platform:    platform,
		ProductName: product.Name,
		Description: product.Description,
		Offers:      product.Offers,
	})
	if err != nil {
		h.internalError(c, "Content generation failed", err)
		return
	}

	draft := models.Draft{
		UserID:      user.ID,
		ProductID:   product.ID,
		Platform:    platform,
		Content:     content,
		GeneratedAt: time.Now().UTC(),
	}
	if err := h.db.WithContext(ctx).Create(&draft).Error; err != nil {
		h.internalError(c, "Failed to save draft", err)
		return
	}

	h.publishDraft(c, draft, product.Name, user.Email)

	c.JSON(http.StatusOK, GenerateResponse{
		Content:     content,
		Platform:    string(platform),
		ProductName: product.Name,
	})
}

// publishDraft announces a stored draft. Publishing failures are logged; the
// draft is already saved.
func (h *Handler) publishDraft(c *gin.Context, draft models.Draft, productName, email string) {
	if h.events == nil {
		return
	}
	msgID, err := h.events.PublishDraftGenerated(c.Request.Context(), events.DraftGenerated{
		DraftID:     draft.ID,
		ProductID:   draft.ProductID,
		ProductName: productName,
		Platform:    string(draft.Platform),
		UserEmail:   email,
		GeneratedAt: draft.GeneratedAt,
	})
	if err != nil {
		h.logger.Warn("Failed to publish draft event", "draft_id", draft.ID, "error", err)
		return
	}
	h.logger.Debug("Published draft event", "draft_id", draft.ID, "message_id", msgID)
}

// ListDrafts handles GET /drafts?user_email=E, newest first.
func (h *Handler) ListDrafts(c *gin.Context) {
	email := strings.TrimSpace(c.Query("user_email"))
	if email == "" {
		errorResponse(c, http.StatusBadRequest, "user_email required")
		return
	}

	user, err := h.findUser(c.Request.Context(), email)
	if err != nil {
		h.internalError(c, "Failed to look up user", err)
		return
	}

	out := []DraftResponse{}
	if user == nil {
		c.JSON(http.StatusOK, out)
		return
	}

	var drafts []models.Draft
	if err := h.db.WithContext(c.Request.Context()).
		Joins("Product").
		Where("drafts.user_id = ?", user.ID).
		Order("drafts.id DESC").
		Find(&drafts).Error; err != nil {
		h.internalError(c, "Failed to list drafts", err)
		return
	}

	for _, d := range drafts {
		out = append(out, DraftResponse{
			ID:          d.ID,
			ProductID:   d.ProductID,
			ProductName: d.Product.Name,
			Platform:    string(d.Platform),
			Content:     d.Content,
			GeneratedAt: d.GeneratedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

var _ json.Unmarshaler = (*productID)(nil)
