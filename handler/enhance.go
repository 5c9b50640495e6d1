package handler

import (
	"net/http"

	"github.com/g3lasio/owlfenc/service"
	"github.com/gin-gonic/gin"
)

type EnhanceHandler struct {
	svc *service.ContractService
}

func NewEnhanceHandler(svc *service.ContractService) *EnhanceHandler {
	return &EnhanceHandler{svc: svc}
}

type EnhanceRequest struct {
	Text     string `json:"text" binding:"required"`
	Category string `json:"category"`
}

// Enhance rewrites free text with the configured provider. Provider failures
// still answer 200 with the original text and enhanced=false.
func (h *EnhanceHandler) Enhance(c *gin.Context) {
	var req EnhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: text is required")
		return
	}

	text, enhanced := h.svc.Enhance(c.Request.Context(), req.Text, req.Category)
	c.JSON(http.StatusOK, gin.H{"text": text, "enhanced": enhanced})
}
