package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"notification-service/internal/notify"
	"notification-service/internal/repositories"
	"notification-service/internal/telemetry"
)

// GroupHandler manages the group-join and group-alert endpoints.
type GroupHandler struct {
	groups     repositories.GroupRepository
	resolver   *notify.Resolver
	dispatcher *notify.Dispatcher
	audit      *telemetry.AuditEmitter
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groups repositories.GroupRepository, resolver *notify.Resolver, dispatcher *notify.Dispatcher, audit *telemetry.AuditEmitter) *GroupHandler {
	return &GroupHandler{
		groups:     groups,
		resolver:   resolver,
		dispatcher: dispatcher,
		audit:      audit,
	}
}

type joinRequest struct {
	Code string `json:"code" binding:"required"`
}

// JoinGroupByCode handles POST /groups/join. Membership add uses set-union
// semantics, so repeated joins are no-ops.
func (h *GroupHandler) JoinGroupByCode(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid join request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groups.FindByJoinCode(c.Request.Context(), req.Code)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		h.emitAudit(c, "ERROR", "unknown join code")
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown join code"})
		return
	}
	if err != nil {
		h.emitAudit(c, "ERROR", "join code lookup failed")
		respondError(c, err, "could not resolve join code")
		return
	}

	if err := h.groups.AddMember(c.Request.Context(), group.ID, userID); err != nil {
		h.emitAudit(c, "ERROR", "membership add failed")
		respondError(c, err, "could not join group")
		return
	}

	h.emitAudit(c, "INFO", "Joined group by code")
	c.JSON(http.StatusOK, gin.H{"group_id": group.ID})
}

type groupAlertRequest struct {
	GroupID string `json:"group_id" binding:"required"`
}

// SendGroupAlert handles POST /notifications/group-alert. The alert goes to
// the group's honorees; when they have no registered tokens the call succeeds
// with success=false rather than failing.
func (h *GroupHandler) SendGroupAlert(c *gin.Context) {
	var req groupAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid alert request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.resolver.ResolveAlertTargets(c.Request.Context(), req.GroupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		h.emitAudit(c, "ERROR", "group not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	if err != nil {
		h.emitAudit(c, "ERROR", "alert target resolution failed")
		respondError(c, err, "could not resolve recipients")
		return
	}
	if len(tokens) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "reason": "NO_TOKENS"})
		return
	}

	sent, err := h.dispatcher.Dispatch(c.Request.Context(), tokens, notify.GroupAlertMessage())
	if err != nil {
		h.emitAudit(c, "ERROR", "alert dispatch failed")
		respondError(c, err, "could not send alert")
		return
	}

	h.emitAudit(c, "INFO", "Group alert sent")
	c.JSON(http.StatusOK, gin.H{"success": true, "sent": sent})
}

func (h *GroupHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
