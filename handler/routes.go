package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups the route handlers registered under /api.
type Handlers struct {
	Auth      *AuthHandler
	Drafts    *DraftHandler
	Signature *SignatureHandler
	Enhance   *EnhanceHandler
}

// Register mounts the API. Signing routes are public so clients can sign from
// a link; signatureLimit guards them. Everything else requires auth.
func Register(api *gin.RouterGroup, h Handlers, auth, signatureLimit gin.HandlerFunc) {
	api.POST("/auth/login", h.Auth.Login)

	signing := api.Group("/")
	signing.Use(signatureLimit)
	{
		signing.POST("/signatures", h.Signature.Submit)
		signing.GET("/contracts/:id/signatures", h.Signature.Status)
	}

	protected := api.Group("/")
	protected.Use(auth)
	{
		protected.GET("/auth/me", h.Auth.GetCurrentUser)
		protected.GET("/templates", h.Drafts.Templates)
		protected.GET("/drafts", h.Drafts.List)
		protected.POST("/drafts", h.Drafts.Start)
		protected.GET("/drafts/:id", h.Drafts.Get)
		protected.DELETE("/drafts/:id", h.Drafts.Delete)
		protected.PUT("/drafts/:id/fields", h.Drafts.UpdateFields)
		protected.GET("/drafts/:id/suggestions", h.Drafts.Suggestions)
		protected.POST("/drafts/:id/suggestions/apply", h.Drafts.ApplySuggestions)
		protected.POST("/drafts/:id/validate", h.Drafts.Validate)
		protected.POST("/drafts/:id/advance", h.Drafts.Advance)
		protected.POST("/drafts/:id/finalize", h.Drafts.Finalize)
		protected.POST("/enhance", h.Enhance.Enhance)
	}
}
