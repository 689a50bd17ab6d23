package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/elecmate/maintenance-planner/internal/health"
	"github.com/elecmate/maintenance-planner/internal/models"
	"github.com/gin-gonic/gin"
)

// HealthReporter yields the current system health.
type HealthReporter interface {
	Current(ctx context.Context) health.OverallHealth
}

type HealthHandler struct {
	reporter HealthReporter
	service  string
}

func NewHealthHandler(reporter HealthReporter, service string) *HealthHandler {
	return &HealthHandler{reporter: reporter, service: service}
}

// HandleHealth reports dependency health; 503 when a critical dependency is down.
func (h *HealthHandler) HandleHealth(c *gin.Context) {
	overall := h.reporter.Current(c.Request.Context())

	services := make(map[string]string, len(overall.Services))
	for _, svc := range overall.Services {
		services[svc.Name] = svc.Status
	}

	status := http.StatusOK
	if overall.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, models.HealthResponse{
		Status:    overall.Status,
		Service:   h.service,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
	})
}
