package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ggd-contact/internal/service"
)

// AuthHandler autentica al personal del portal.
type AuthHandler struct {
	logger *zap.Logger
	staff  *service.StaffService
	tokens *service.TokenService
}

func NewAuthHandler(logger *zap.Logger, staff *service.StaffService, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{logger: logger, staff: staff, tokens: tokens}
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	staff, err := h.staff.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Error("staff login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not log in"})
		return
	}

	token, err := h.tokens.IssueStaffToken(staff)
	if err != nil {
		h.logger.Error("issue staff token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"staff": staff, "token": token})
}
