package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/g3lasio/owlfenc/middleware"
	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/logger"
	"github.com/g3lasio/owlfenc/service"
	"github.com/gin-gonic/gin"
)

// DraftHandler serves the contractor-facing drafting API. Every route runs
// behind AuthMiddleware and only sees the caller's own drafts.
type DraftHandler struct {
	svc *service.ContractService
}

func NewDraftHandler(svc *service.ContractService) *DraftHandler {
	return &DraftHandler{svc: svc}
}

type UpdateFieldsRequest struct {
	Values map[string]string `json:"values" binding:"required"`
}

type ApplySuggestionsRequest struct {
	// Paths limits which suggestions are applied; empty applies all.
	Paths []string `json:"paths"`
}

// Templates lists the catalog.
func (h *DraftHandler) Templates(c *gin.Context) {
	templates := h.svc.Templates()
	c.JSON(http.StatusOK, gin.H{"templates": templates, "count": len(templates)})
}

// Start selects a template and creates a draft.
func (h *DraftHandler) Start(c *gin.Context) {
	var req service.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: project_type and complexity are required")
		return
	}

	view, err := h.svc.StartDraft(c.Request.Context(), middleware.GetContractorID(c), req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// List returns the caller's drafts and contracts, newest first.
func (h *DraftHandler) List(c *gin.Context) {
	drafts, err := h.svc.ListDrafts(c.Request.Context(), middleware.GetContractorID(c))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts, "count": len(drafts)})
}

// Delete discards an unfinalized draft. Finalized contracts answer 409.
func (h *DraftHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteDraft(h.ctx(c), middleware.GetContractorID(c), c.Param("id")); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draft deleted"})
}

func (h *DraftHandler) Get(c *gin.Context) {
	view, err := h.svc.GetDraft(h.ctx(c), middleware.GetContractorID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateFields auto-saves a batch of edits keyed by dotted path. A blank
// value clears the field.
func (h *DraftHandler) UpdateFields(c *gin.Context) {
	var req UpdateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: values is required")
		return
	}

	view, err := h.svc.UpdateFields(h.ctx(c), middleware.GetContractorID(c), c.Param("id"), req.Values)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DraftHandler) Suggestions(c *gin.Context) {
	list, err := h.svc.Suggestions(h.ctx(c), middleware.GetContractorID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": list})
}

func (h *DraftHandler) ApplySuggestions(c *gin.Context) {
	var req ApplySuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request")
		return
	}

	view, err := h.svc.ApplySuggestions(h.ctx(c), middleware.GetContractorID(c), c.Param("id"), req.Paths)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Validate reports the draft's validation result. An invalid draft is a
// normal 200 response.
func (h *DraftHandler) Validate(c *gin.Context) {
	res, err := h.svc.Validate(h.ctx(c), middleware.GetContractorID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Advance moves to the next step, or answers 422 with the blocking errors.
func (h *DraftHandler) Advance(c *gin.Context) {
	view, err := h.svc.Advance(h.ctx(c), middleware.GetContractorID(c), c.Param("id"))
	if err != nil {
		h.respondBlocked(c, err, view)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Finalize freezes the draft into a signable contract.
func (h *DraftHandler) Finalize(c *gin.Context) {
	view, err := h.svc.Finalize(h.ctx(c), middleware.GetContractorID(c), c.Param("id"))
	if err != nil {
		h.respondBlocked(c, err, view)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DraftHandler) respondBlocked(c *gin.Context, err error, view service.DraftView) {
	if errors.Is(err, model.ErrDraftInvalid) {
		respondError(c, err, gin.H{"validation": view.Validation})
		return
	}
	respondError(c, err, nil)
}

func (h *DraftHandler) ctx(c *gin.Context) context.Context {
	return logger.With(c.Request.Context(), logger.ContractIDKey, c.Param("id"))
}
