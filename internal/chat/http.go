// Package chat exposes the assistant over HTTP: conversation turns against a
// project document, and one-shot concept analysis.
package chat

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tablero-app/planner-backend/internal/assistant"
	"github.com/tablero-app/planner-backend/internal/auth"
	"github.com/tablero-app/planner-backend/internal/planner/domain"
	"github.com/tablero-app/planner-backend/internal/quota"
)

type Handler struct {
	client  *assistant.Client
	limiter *quota.Limiter
}

func Register(rg *gin.RouterGroup, client *assistant.Client, limiter *quota.Limiter) {
	h := &Handler{client: client, limiter: limiter}

	rg.POST("/chat", h.chat)
	rg.POST("/analyze-concept", h.analyzeConcept)
}

type chatReq struct {
	Document domain.ProjectDocument `json:"document"`
}

type chatResp struct {
	Message    string         `json:"message"`
	Updates    map[string]any `json:"updates,omitempty"`
	NavigateTo *domain.Phase  `json:"navigate_to,omitempty"`
	Remaining  int64          `json:"remaining"`
}

// chat runs one conversational turn. The document's chat history must end
// with the new user message. A model failure or unparseable reply degrades
// to the fallback message rather than an error so the conversation can
// continue.
func (h *Handler) chat(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)

	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	history := req.Document.ChatHistory
	if len(history) == 0 || history[len(history)-1].Role != "user" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "history must end with a user message"})
		return
	}
	if !req.Document.CurrentPhase.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid phase"})
		return
	}

	remaining, err := h.limiter.Allow(c.Request.Context(), uid)
	if errors.Is(err, domain.ErrQuotaExceeded) {
		c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "daily message limit reached"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	reply, err := assistant.Respond(c.Request.Context(), h.client, history, req.Document.CurrentPhase, &req.Document)
	if err != nil {
		// Degrade to the fallback text; the client keeps its state.
		log.Printf("[chat] uid=%s assistant error: %v", uid, err)
		c.JSON(http.StatusOK, chatResp{Message: assistant.FallbackMessage, Remaining: remaining})
		return
	}

	c.JSON(http.StatusOK, chatResp{
		Message:    reply.Message,
		Updates:    reply.Updates,
		NavigateTo: reply.NavigateTo,
		Remaining:  remaining,
	})
}

type analyzeReq struct {
	Description string `json:"description"`
	City        string `json:"city,omitempty"`
	Mode        string `json:"mode,omitempty"`
}

func (h *Handler) analyzeConcept(c *gin.Context) {
	var req analyzeReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "description required"})
		return
	}

	out, err := assistant.AnalyzeConcept(c.Request.Context(), h.client, req.Description, req.City, req.Mode)
	if errors.Is(err, domain.ErrMalformedResponse) {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "model returned an unusable reply"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "analysis": out})
}
