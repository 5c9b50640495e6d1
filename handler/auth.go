package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/g3lasio/owlfenc/config"
	"github.com/g3lasio/owlfenc/middleware"
	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	config *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{config: cfg}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	ExpiresAt    string `json:"expires_at"`
	Username     string `json:"username"`
	ContractorID string `json:"contractor_id"`
}

// Login exchanges configured credentials for a contractor-scoped token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	user := h.config.FindUser(req.Username)
	if user == nil || subtle.ConstantTimeCompare([]byte(user.Password), []byte(req.Password)) != 1 {
		logger.Warn(c.Request.Context(), "login rejected", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password", "kind": model.KindUnauthorized})
		return
	}

	token, expiresAt, err := middleware.GenerateToken(user.Username, user.ContractorID, &h.config.Auth)
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:        token,
		ExpiresAt:    expiresAt.Format(time.RFC3339),
		Username:     user.Username,
		ContractorID: user.ContractorID,
	})
}

// GetCurrentUser returns the caller and the company profile on file.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	contractorID := middleware.GetContractorID(c)
	resp := gin.H{
		"username":      middleware.GetUsername(c),
		"contractor_id": contractorID,
	}
	if p, ok := h.config.FindProfile(contractorID); ok {
		resp["profile"] = p
	}
	c.JSON(http.StatusOK, resp)
}
