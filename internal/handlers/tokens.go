package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"notification-service/internal/repositories"
	"notification-service/internal/telemetry"
)

// TokenHandler manages the token-registry endpoints.
type TokenHandler struct {
	tokens repositories.TokenRepository
	audit  *telemetry.AuditEmitter
}

// NewTokenHandler constructs a TokenHandler.
func NewTokenHandler(tokens repositories.TokenRepository, audit *telemetry.AuditEmitter) *TokenHandler {
	return &TokenHandler{tokens: tokens, audit: audit}
}

type tokenRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Token  string `json:"token" binding:"required"`
}

// AttachToken handles POST /tokens/attach. The token is removed from every
// other owner and added to the requested user in one atomic batch.
func (h *TokenHandler) AttachToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid attach request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tokens.Attach(c.Request.Context(), req.UserID, req.Token); err != nil {
		h.emitAudit(c, "ERROR", "token attach failed")
		respondError(c, err, "could not attach token")
		return
	}

	h.emitAudit(c, "INFO", "Token attached")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DetachToken handles POST /tokens/detach. Detaching an absent token succeeds.
func (h *TokenHandler) DetachToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid detach request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tokens.Detach(c.Request.Context(), req.UserID, req.Token); err != nil {
		h.emitAudit(c, "ERROR", "token detach failed")
		respondError(c, err, "could not detach token")
		return
	}

	h.emitAudit(c, "INFO", "Token detached")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *TokenHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
