package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jimdaga/automarketer/internal/auth"
	"github.com/jimdaga/automarketer/internal/models"
)

type signupRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Organization string `json:"organization"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the account summary returned by /login.
type UserResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
}

// Signup handles POST /signup.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if !h.bind(c, &req, "Email and password required") {
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	existing, err := h.findUser(c.Request.Context(), req.Email)
	if err != nil {
		h.internalError(c, "Failed to look up user", err)
		return
	}
	if existing != nil {
		errorResponse(c, http.StatusBadRequest, "Email already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.internalError(c, "Failed to create user", err)
		return
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Organization: strings.TrimSpace(req.Organization),
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		h.internalError(c, "Failed to create user", err)
		return
	}

	h.logger.Info("User signed up", "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Signup successful"})
}

// Login handles POST /login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !h.bind(c, &req, "Email and password required") {
		return
	}

	user, err := h.findUser(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		h.internalError(c, "Failed to look up user", err)
		return
	}
	if user == nil || auth.CheckPassword(user.PasswordHash, req.Password) != nil {
		errorResponse(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": UserResponse{
			ID:           user.ID,
			Email:        user.Email,
			Organization: user.Organization,
		},
	})
}
