package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jimdaga/automarketer/internal/models"
	"github.com/jimdaga/automarketer/internal/providers"
	"gorm.io/datatypes"
)

type postSocialRequest struct {
	Content     string `json:"content" validate:"required"`
	Platform    string `json:"platform" validate:"required"`
	ProductName string `json:"product_name"`
}

type instagramImageRequest struct {
	Content            string `json:"content" validate:"required"`
	ProductDescription string `json:"product_description"`
}

type sendEmailRequest struct {
	Content   string `json:"content" validate:"required"`
	Recipient string `json:"recipient" validate:"required,email"`
}

type postBlogRequest struct {
	Content string `json:"content" validate:"required"`
	Title   string `json:"title"`
}

// PostSocial handles POST /post_social.
func (h *Handler) PostSocial(c *gin.Context) {
	var req postSocialRequest
	if !h.bind(c, &req, "Missing content or platform") {
		return
	}
	platform, err := models.ParsePlatform(req.Platform)
	if err != nil || !platform.Social() {
		errorResponse(c, http.StatusBadRequest, "Platform cannot be posted to social media")
		return
	}
	h.postSocial(c, platform, req.Content, req.ProductName, "Posted successfully!")
}

// PostInstagramWithImage handles POST /generate_and_post_instagram: an
// Instagram post whose stock image is chosen from product_description.
func (h *Handler) PostInstagramWithImage(c *gin.Context) {
	var req instagramImageRequest
	if !h.bind(c, &req, "Missing content") {
		return
	}
	h.postSocial(c, models.PlatformInstagram, req.Content, req.ProductDescription, "Posted to Instagram with image!")
}

func (h *Handler) postSocial(c *gin.Context, platform models.Platform, content, productName, message string) {
	if h.social == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Social posting is not configured")
		return
	}

	productName = strings.TrimSpace(productName)
	if productName == "" {
		productName = "product"
	}

	res, err := h.social.Post(c.Request.Context(), providers.SocialPost{
		Content:     content,
		Platform:    string(platform),
		ProductName: productName,
	})
	h.recordDelivery(c.Request.Context(), models.DeliveryChannelSocial, string(platform), res, err)
	if !h.providerOK(c, "Social posting", res, err) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message, "data": res.Body})
}

// SendEmail handles POST /send_email. The provider's answer is relayed as is.
func (h *Handler) SendEmail(c *gin.Context) {
	var req sendEmailRequest
	if !h.bind(c, &req, "Missing content or recipient") {
		return
	}
	if h.email == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Email sending is not configured")
		return
	}

	res, err := h.email.Send(c.Request.Context(), providers.EmailMessage{
		Content:   req.Content,
		Recipient: strings.TrimSpace(req.Recipient),
	})
	h.recordDelivery(c.Request.Context(), models.DeliveryChannelEmail, req.Recipient, res, err)
	if !h.providerOK(c, "Email sending", res, err) {
		return
	}

	c.Data(res.StatusCode, "application/json; charset=utf-8", res.Body)
}

// PostBlog handles POST /post_blog. The provider's answer is relayed as is.
func (h *Handler) PostBlog(c *gin.Context) {
	var req postBlogRequest
	if !h.bind(c, &req, "Missing content") {
		return
	}
	if h.blog == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Blog publishing is not configured")
		return
	}

	res, err := h.blog.Publish(c.Request.Context(), providers.BlogPost{
		Title:   req.Title,
		Content: req.Content,
	})
	h.recordDelivery(c.Request.Context(), models.DeliveryChannelBlog, req.Title, res, err)
	if !h.providerOK(c, "Blog publishing", res, err) {
		return
	}

	c.Data(res.StatusCode, "application/json; charset=utf-8", res.Body)
}

// providerOK writes the failure response for a provider call and reports
// whether the call succeeded. A provider's non-2xx answer is mirrored with its
// status and body under "error".
func (h *Handler) providerOK(c *gin.Context, what string, res *providers.Result, err error) bool {
	switch {
	case errors.Is(err, providers.ErrNotConfigured):
		errorResponse(c, http.StatusServiceUnavailable, what+" is not configured")
		return false
	case err != nil:
		_ = c.Error(err)
		h.logger.Error(what+" failed", "error", err)
		errorResponse(c, http.StatusBadGateway, err.Error())
		return false
	case !res.OK():
		errorResponse(c, res.StatusCode, json.RawMessage(res.Body))
		return false
	}
	return true
}

// recordDelivery stores the outcome of a provider call. Storage failures are
// logged only.
func (h *Handler) recordDelivery(ctx context.Context, channel, target string, res *providers.Result, callErr error) {
	delivery := models.Delivery{Channel: channel, Target: target}
	if res != nil {
		delivery.StatusCode = res.StatusCode
		delivery.Response = datatypes.JSON(res.Body)
	}
	if callErr != nil {
		delivery.ErrorMessage = callErr.Error()
	}
	if err := h.db.WithContext(ctx).Create(&delivery).Error; err != nil {
		h.logger.Warn("Failed to record delivery", "channel", channel, "error", err)
	}
}
