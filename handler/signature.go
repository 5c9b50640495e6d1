package handler

import (
	"net/http"
	"time"

	"github.com/g3lasio/owlfenc/ledger"
	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/logger"
	"github.com/g3lasio/owlfenc/service"
	"github.com/gin-gonic/gin"
)

// SignatureHandler serves the public signing endpoints used by both parties.
type SignatureHandler struct {
	svc *service.ContractService
}

func NewSignatureHandler(svc *service.ContractService) *SignatureHandler {
	return &SignatureHandler{svc: svc}
}

type SignatureMetadata struct {
	DeviceInfo string `json:"deviceInfo"`
	Timestamp  string `json:"timestamp"`
}

// SubmitSignatureRequest is the body of POST /api/signatures.
type SubmitSignatureRequest struct {
	ContractID    string              `json:"contractId" binding:"required"`
	SignerName    string              `json:"signerName" binding:"required"`
	SignerRole    model.SignerRole    `json:"signerRole" binding:"required"`
	SignatureType model.SignatureType `json:"signatureType" binding:"required"`
	SignatureData string              `json:"signatureData" binding:"required"`
	Metadata      *SignatureMetadata  `json:"metadata"`
}

func (r SubmitSignatureRequest) toLedger() ledger.SignatureRequest {
	req := ledger.SignatureRequest{
		ContractID:    r.ContractID,
		SignerName:    r.SignerName,
		SignerRole:    r.SignerRole,
		SignatureType: r.SignatureType,
		SignatureData: r.SignatureData,
	}
	if r.Metadata != nil {
		req.Metadata = map[string]string{}
		if r.Metadata.DeviceInfo != "" {
			req.Metadata["deviceInfo"] = r.Metadata.DeviceInfo
		}
		if r.Metadata.Timestamp != "" {
			req.Metadata["timestamp"] = r.Metadata.Timestamp
		}
	}
	return req
}

// Submit records one party's signature and answers with the contract status.
// Resubmitting the same signature is answered as if it were the first.
func (h *SignatureHandler) Submit(c *gin.Context) {
	var req SubmitSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: contractId, signerName, signerRole, signatureType and signatureData are required",
			"kind":  model.KindInvalidSignature,
		})
		return
	}

	ctx := logger.With(c.Request.Context(), logger.ContractIDKey, req.ContractID)
	r, err := h.svc.SubmitSignature(ctx, req.toLedger())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contractStatus": r.Status})
}

// SignatureRecordView is what the public status route shows of a signature:
// who signed and when, never the signature payload or device metadata.
type SignatureRecordView struct {
	SignerRole    model.SignerRole    `json:"signerRole"`
	SignerName    string              `json:"signerName"`
	SignatureType model.SignatureType `json:"signatureType"`
	SignedAt      time.Time           `json:"signedAt"`
}

type SignatureStatusResponse struct {
	ContractID          string                `json:"contractId"`
	ContractorSignature *SignatureRecordView  `json:"contractorSignature,omitempty"`
	ClientSignature     *SignatureRecordView  `json:"clientSignature,omitempty"`
	Status              model.SignatureStatus `json:"status"`
}

func recordView(rec *model.SignatureRecord) *SignatureRecordView {
	if rec == nil {
		return nil
	}
	return &SignatureRecordView{
		SignerRole:    rec.SignerRole,
		SignerName:    rec.SignerName,
		SignatureType: rec.SignatureType,
		SignedAt:      rec.SignedAt,
	}
}

// Status returns both signature slots and the aggregate status.
func (h *SignatureHandler) Status(c *gin.Context) {
	id := c.Param("id")
	view, err := h.svc.SignatureStatus(logger.With(c.Request.Context(), logger.ContractIDKey, id), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, SignatureStatusResponse{
		ContractID:          view.ContractID,
		ContractorSignature: recordView(view.ContractorSignature),
		ClientSignature:     recordView(view.ClientSignature),
		Status:              view.Status,
	})
}
