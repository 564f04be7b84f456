package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jimdaga/automarketer/internal/models"
	"gorm.io/gorm"
)

// ProductResponse is the wire form of a product.
type ProductResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Offers      string `json:"offers"`
	UserEmail   string `json:"user_email"`
}

type createProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Offers      string `json:"offers"`
	UserEmail   string `json:"user_email" validate:"required"`
}

type deleteProductRequest struct {
	UserEmail string `json:"user_email"`
}

// errProductNotFound marks a product that is missing or owned by someone else.
var errProductNotFound = errors.New("product not found")

// ListProducts handles GET /products?user_email=E. An unknown email owns
// nothing and gets an empty list.
func (h *Handler) ListProducts(c *gin.Context) {
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

	out := []ProductResponse{}
	if user == nil {
		c.JSON(http.StatusOK, out)
		return
	}

	var products []models.Product
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		Order("id ASC").
		Find(&products).Error; err != nil {
		h.internalError(c, "Failed to list products", err)
		return
	}

	for _, p := range products {
		out = append(out, ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Offers:      p.Offers,
			UserEmail:   user.Email,
		})
	}
	c.JSON(http.StatusOK, out)
}

// CreateProduct handles POST /products.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if !h.bind(c, &req, "Name and user_email required") {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		errorResponse(c, http.StatusBadRequest, "Name and user_email required")
		return
	}

	user, err := h.findUser(c.Request.Context(), strings.TrimSpace(req.UserEmail))
	if err != nil {
		h.internalError(c, "Failed to look up user", err)
		return
	}
	if user == nil {
		errorResponse(c, http.StatusNotFound, "User not found")
		return
	}

	product := models.Product{
		UserID:      user.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Offers:      req.Offers,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
		h.internalError(c, "Failed to create product", err)
		return
	}

	h.logger.Info("Product created", "product_id", product.ID, "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{"id": product.ID, "message": "Product added successfully"})
}

// DeleteProduct handles DELETE /products/:id. The product's drafts are
// removed in the same transaction.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		errorResponse(c, http.StatusNotFound, "Product not found or not yours")
		return
	}

	var req deleteProductRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		errorResponse(c, http.StatusBadRequest, "user_email required")
		return
	}
	email := strings.TrimSpace(req.UserEmail)
	if email == "" {
		email = strings.TrimSpace(c.Query("user_email"))
	}
	if email == "" {
		errorResponse(c, http.StatusBadRequest, "user_email required")
		return
	}

	var removedDrafts int64
	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		err := tx.Joins("JOIN users ON users.id = products.user_id").
			Where("products.id = ? AND users.email = ?", id, email).
			First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errProductNotFound
		}
		if err != nil {
			return err
		}

		res := tx.Unscoped().Where("product_id = ?", product.ID).Delete(&models.Draft{})
		if res.Error != nil {
			return res.Error
		}
		removedDrafts = res.RowsAffected

		return tx.Unscoped().Delete(&product).Error
	})
	if errors.Is(err, errProductNotFound) {
		errorResponse(c, http.StatusNotFound, "Product not found or not yours")
		return
	}
	if err != nil {
		h.internalError(c, "Failed to delete product", err)
		return
	}

	h.logger.Info("Product deleted", "product_id", id, "drafts_removed", removedDrafts)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
