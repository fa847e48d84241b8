package documents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tablero-app/planner-backend/internal/auth"
	"github.com/tablero-app/planner-backend/internal/planner/domain"
)

type Handler struct {
	repo *Repo
}

func Register(rg *gin.RouterGroup, repo *Repo) {
	h := &Handler{repo: repo}

	rg.GET("/latest", h.latest)
	rg.POST("", h.create)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

func (h *Handler) latest(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)

	doc, err := h.repo.FindLatestByOwner(c.Request.Context(), uid)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no documents"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) create(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)

	var doc domain.ProjectDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if !doc.CurrentPhase.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid phase"})
		return
	}
	if doc.OwnerID != domain.SentinelOwnerID && doc.OwnerID != uid {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "owner mismatch"})
		return
	}
	doc.OwnerID = uid

	created, err := h.repo.Create(c.Request.Context(), &doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) update(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)

	var doc domain.ProjectDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if !doc.CurrentPhase.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid phase"})
		return
	}
	if doc.OwnerID != domain.SentinelOwnerID && doc.OwnerID != uid {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "owner mismatch"})
		return
	}
	doc.ID = c.Param("id")
	doc.OwnerID = uid

	if err := h.repo.Update(c.Request.Context(), &doc); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) delete(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	id := c.Param("id")

	ok, err := h.repo.SoftDelete(c.Request.Context(), uid, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "document not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
