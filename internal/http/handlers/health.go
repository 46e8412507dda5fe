package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/classroom-backend/internal/http/response"
)

type DBChecker interface {
	Healthy(ctx context.Context) bool
}

type HealthHandler struct {
	db DBChecker
}

func NewHealthHandler(db DBChecker) *HealthHandler { return &HealthHandler{db: db} }

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/v1/health reports storage reachability and always answers 200.
func (h *HealthHandler) Health(c *gin.Context) {
	state := "disconnected"
	if h.db != nil && h.db.Healthy(c.Request.Context()) {
		state = "connected"
	}
	response.RespondOK(c, gin.H{"status": "ok", "db": state})
}
