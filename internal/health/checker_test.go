package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/elecmate/maintenance-planner/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRepo struct {
	updates map[string]string
}

func (r *recordingRepo) UpdateServiceHealth(serviceName, status string, responseTime int, errorMsg string) error {
	r.updates[serviceName] = status
	return nil
}

func (r *recordingRepo) GetServiceHealth(serviceName string) (*models.SystemHealth, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingRepo) GetAllServicesHealth() ([]models.SystemHealth, error) {
	return nil, nil
}

type memoryCache struct {
	stored []models.SystemHealth
}

func (m *memoryCache) CacheSystemHealth(ctx context.Context, health []models.SystemHealth, expiration time.Duration) error {
	m.stored = health
	return nil
}

func (m *memoryCache) GetCachedSystemHealth(ctx context.Context) ([]models.SystemHealth, error) {
	if m.stored == nil {
		return nil, errors.New("miss")
	}
	return m.stored, nil
}

func ok(ctx context.Context) error   { return nil }
func fail(ctx context.Context) error { return errors.New("connection refused") }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestCheckAll(t *testing.T) {
	tests := []struct {
		name   string
		probes map[string]Probe
		want   string
	}{
		{"all healthy", map[string]Probe{"postgresql": ok, "redis": ok, "openai": ok}, StatusHealthy},
		{"non-critical failure degrades", map[string]Probe{"postgresql": ok, "redis": fail, "openai": ok}, StatusDegraded},
		{"critical failure", map[string]Probe{"postgresql": fail, "redis": ok, "openai": ok}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &recordingRepo{updates: map[string]string{}}
			checker := NewHealthChecker(repo, nil, quietLogger())
			checker.Register("postgresql", tt.probes["postgresql"], true)
			checker.Register("redis", tt.probes["redis"], false)
			checker.Register("openai", tt.probes["openai"], true)

			health := checker.CheckAll(context.Background())

			assert.Equal(t, tt.want, health.Status)
			assert.Len(t, health.Services, 3)
			assert.Len(t, repo.updates, 3)
			assert.False(t, health.Cached)
		})
	}
}

func TestCurrent_PrefersCache(t *testing.T) {
	cache := &memoryCache{}
	checker := NewHealthChecker(nil, cache, quietLogger())
	checker.Register("postgresql", ok, true)

	live := checker.Current(context.Background())
	assert.False(t, live.Cached)

	checker.store(context.Background(), live, time.Minute)
	require.Len(t, cache.stored, 1)

	cached := checker.Current(context.Background())
	assert.True(t, cached.Cached)
	assert.Equal(t, StatusHealthy, cached.Status)
	assert.Equal(t, "postgresql", cached.Services[0].Name)
}

func TestCheckCached_NoCache(t *testing.T) {
	checker := NewHealthChecker(nil, nil, quietLogger())
	_, err := checker.CheckCached(context.Background())
	assert.Error(t, err)
}
