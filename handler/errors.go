package handler

import (
	"net/http"

	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/logger"
	"github.com/gin-gonic/gin"
)

var kindStatus = map[string]int{
	model.KindInvalidComplexity: http.StatusBadRequest,
	model.KindInvalidField:      http.StatusBadRequest,
	model.KindInvalidSignature:  http.StatusBadRequest,
	model.KindBadRequest:        http.StatusBadRequest,
	model.KindDraftNotFound:     http.StatusNotFound,
	model.KindContractNotFound:  http.StatusNotFound,
	model.KindDraftFinalized:    http.StatusConflict,
	model.KindSignatureConflict: http.StatusConflict,
	model.KindDraftInvalid:      http.StatusUnprocessableEntity,
	// No template, not even a default, means the catalog is misconfigured.
	model.KindTemplateNotFound: http.StatusInternalServerError,
	model.KindInternal:         http.StatusInternalServerError,
}

// StatusFor maps an error to its HTTP status through its wire kind.
func StatusFor(err error) int {
	if status, ok := kindStatus[model.ErrorKind(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes {error, kind} plus any extra fields. Server faults are
// logged and their details kept out of the response.
func respondError(c *gin.Context, err error, extra gin.H) {
	kind := model.ErrorKind(err)
	status := StatusFor(err)

	body := gin.H{"error": err.Error(), "kind": kind}
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed", "kind", kind, "error", err)
		body["error"] = "Internal server error"
	}
	for k, v := range extra {
		body[k] = v
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg, "kind": model.KindBadRequest})
}
