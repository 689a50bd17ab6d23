package health

import (
	"context"
	"errors"
	"time"

	"github.com/elecmate/maintenance-planner/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Probe checks one dependency.
type Probe func(ctx context.Context) error

// StatusCache holds the last periodic result.
type StatusCache interface {
	CacheSystemHealth(ctx context.Context, health []models.SystemHealth, expiration time.Duration) error
	GetCachedSystemHealth(ctx context.Context) ([]models.SystemHealth, error)
}

type service struct {
	name     string
	probe    Probe
	critical bool
}

// HealthChecker manages health checks for all services
type HealthChecker struct {
	services   []service
	cache      StatusCache
	healthRepo models.SystemHealthRepository
	logger     *logrus.Logger
	timeout    time.Duration
}

func NewHealthChecker(healthRepo models.SystemHealthRepository, cache StatusCache, logger *logrus.Logger) *HealthChecker {
	return &HealthChecker{
		cache:      cache,
		healthRepo: healthRepo,
		logger:     logger,
		timeout:    10 * time.Second,
	}
}

// Register adds a dependency. A failing critical service makes the whole
// system unhealthy; any other failure only degrades it.
func (h *HealthChecker) Register(name string, probe Probe, critical bool) {
	h.services = append(h.services, service{name: name, probe: probe, critical: critical})
}

// ServiceHealth represents the health status of a service
type ServiceHealth struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	ResponseTime int    `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
	LastChecked  string `json:"last_checked"`
}

// OverallHealth represents the overall system health
type OverallHealth struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
	Uptime   string          `json:"uptime"`
	Cached   bool            `json:"cached"`
}

func (h *HealthChecker) check(ctx context.Context, svc service) ServiceHealth {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := svc.probe(ctx)
	responseTime := int(time.Since(start).Milliseconds())

	status := StatusHealthy
	errorMsg := ""
	if err != nil {
		status = StatusDegraded
		if svc.critical {
			status = StatusUnhealthy
		}
		errorMsg = err.Error()
		h.logger.WithError(err).WithField("service", svc.name).Error("Health check failed")
	}

	if h.healthRepo != nil {
		if err := h.healthRepo.UpdateServiceHealth(svc.name, status, responseTime, errorMsg); err != nil {
			h.logger.WithError(err).Warn("Failed to record service health")
		}
	}

	return ServiceHealth{
		Name:         svc.name,
		Status:       status,
		ResponseTime: responseTime,
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// CheckAll performs health checks on all services
func (h *HealthChecker) CheckAll(ctx context.Context) OverallHealth {
	services := make([]ServiceHealth, 0, len(h.services))
	for _, svc := range h.services {
		services = append(services, h.check(ctx, svc))
	}

	return OverallHealth{
		Status:   overallStatus(services),
		Services: services,
		Uptime:   h.getUptime(),
	}
}

func overallStatus(services []ServiceHealth) string {
	status := StatusHealthy
	for _, service := range services {
		if service.Status == StatusUnhealthy {
			return StatusUnhealthy
		}
		if service.Status == StatusDegraded {
			status = StatusDegraded
		}
	}
	return status
}

// CheckCached returns cached health status if available
func (h *HealthChecker) CheckCached(ctx context.Context) (*OverallHealth, error) {
	if h.cache == nil {
		return nil, errNoCache
	}
	cachedHealth, err := h.cache.GetCachedSystemHealth(ctx)
	if err != nil {
		return nil, err
	}

	services := make([]ServiceHealth, len(cachedHealth))
	for i, health := range cachedHealth {
		services[i] = ServiceHealth{
			Name:         health.ServiceName,
			Status:       health.Status,
			ResponseTime: health.ResponseTimeMs,
			Error:        health.ErrorMessage,
			LastChecked:  health.CheckedAt.Format(time.RFC3339),
		}
	}

	return &OverallHealth{
		Status:   overallStatus(services),
		Services: services,
		Uptime:   h.getUptime(),
		Cached:   true,
	}, nil
}

// Current prefers the cached status and falls back to a live check.
func (h *HealthChecker) Current(ctx context.Context) OverallHealth {
	if cached, err := h.CheckCached(ctx); err == nil {
		return *cached
	}
	return h.CheckAll(ctx)
}

var startTime = time.Now()

func (h *HealthChecker) getUptime() string {
	return time.Since(startTime).Round(time.Second).String()
}

// PeriodicHealthCheck runs health checks periodically
func (h *HealthChecker) PeriodicHealthCheck(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			health := h.CheckAll(ctx)
			h.store(ctx, health, 2*interval)
			h.logger.WithField("status", health.Status).Debug("Periodic health check completed")
		}
	}
}

func (h *HealthChecker) store(ctx context.Context, health OverallHealth, ttl time.Duration) {
	if h.cache == nil {
		return
	}

	cacheCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	healthModels := make([]models.SystemHealth, len(health.Services))
	for i, service := range health.Services {
		checkedAt, _ := time.Parse(time.RFC3339, service.LastChecked)
		healthModels[i] = models.SystemHealth{
			ServiceName:    service.Name,
			Status:         service.Status,
			ResponseTimeMs: service.ResponseTime,
			ErrorMessage:   service.Error,
			CheckedAt:      checkedAt,
		}
	}

	if err := h.cache.CacheSystemHealth(cacheCtx, healthModels, ttl); err != nil {
		h.logger.WithError(err).Error("Failed to cache health status")
	}
}

var errNoCache = errors.New("health cache not configured")
