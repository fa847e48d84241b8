package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthResponse reports service liveness and the state of its backing store.
type HealthResponse struct {
	Status   string    `json:"status"`
	Service  string    `json:"service"`
	Version  string    `json:"version"`
	Time     time.Time `json:"time"`
	Uptime   string    `json:"uptime"`
	Database string    `json:"database,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	db          *pgxpool.Pool
	startedAt   time.Time
}

func NewHealthHandler(serviceName, version string, db *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		startedAt:   time.Now(),
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "ok"
	dbStatus := "disabled"
	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.db.Ping(pingCtx); err != nil {
			status = "degraded"
			dbStatus = "down"
		} else {
			dbStatus = "up"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:   status,
		Service:  h.serviceName,
		Version:  h.version,
		Time:     time.Now().UTC(),
		Uptime:   time.Since(h.startedAt).Round(time.Second).String(),
		Database: dbStatus,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
