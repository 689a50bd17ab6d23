package repository

import (
	"time"

	"github.com/elecmate/maintenance-planner/internal/models"
	"gorm.io/gorm"
)

// GenerationRecordRepositoryImpl implements GenerationRecordRepository
type GenerationRecordRepositoryImpl struct {
	db *gorm.DB
}

func NewGenerationRecordRepository(db *gorm.DB) models.GenerationRecordRepository {
	return &GenerationRecordRepositoryImpl{db: db}
}

func (r *GenerationRecordRepositoryImpl) Create(record *models.GenerationRecord) error {
	return r.db.Create(record).Error
}

func (r *GenerationRecordRepositoryImpl) GetByRequestID(requestID string) (*models.GenerationRecord, error) {
	var record models.GenerationRecord
	err := r.db.Where("request_id = ?", requestID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *GenerationRecordRepositoryImpl) GetRecent(limit int) ([]models.GenerationRecord, error) {
	var records []models.GenerationRecord
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *GenerationRecordRepositoryImpl) GetTierStats(from, to time.Time) ([]models.TierStats, error) {
	var stats []models.TierStats
	err := r.db.Raw(`
		SELECT
			retrieval_tier,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE partial) AS partial_count,
			COUNT(*) FILTER (WHERE status = 'failed') AS failed_count,
			COALESCE(AVG(response_time_ms), 0) AS avg_response_ms
		FROM generation_records
		WHERE created_at BETWEEN ? AND ?
		GROUP BY retrieval_tier
		ORDER BY retrieval_tier
	`, from, to).Scan(&stats).Error
	return stats, err
}

// SystemHealthRepositoryImpl implements SystemHealthRepository
type SystemHealthRepositoryImpl struct {
	db *gorm.DB
}

func NewSystemHealthRepository(db *gorm.DB) models.SystemHealthRepository {
	return &SystemHealthRepositoryImpl{db: db}
}

func (r *SystemHealthRepositoryImpl) UpdateServiceHealth(serviceName, status string, responseTime int, errorMsg string) error {
	return r.db.Exec(`
		INSERT INTO system_health (service_name, status, response_time_ms, error_message, checked_at)
		VALUES (?, ?, ?, ?, NOW())
	`, serviceName, status, responseTime, errorMsg).Error
}

func (r *SystemHealthRepositoryImpl) GetServiceHealth(serviceName string) (*models.SystemHealth, error) {
	var health models.SystemHealth
	err := r.db.Where("service_name = ?", serviceName).
		Order("checked_at DESC").
		First(&health).Error
	if err != nil {
		return nil, err
	}
	return &health, nil
}

func (r *SystemHealthRepositoryImpl) GetAllServicesHealth() ([]models.SystemHealth, error) {
	var health []models.SystemHealth
	err := r.db.Raw(`
		SELECT DISTINCT ON (service_name) *
		FROM system_health
		ORDER BY service_name, checked_at DESC
	`).Scan(&health).Error
	return health, err
}

// RepositoryManager bundles all repositories
type RepositoryManager struct {
	Generations  models.GenerationRecordRepository
	SystemHealth models.SystemHealthRepository
}

func NewRepositoryManager(db *gorm.DB) *RepositoryManager {
	return &RepositoryManager{
		Generations:  NewGenerationRecordRepository(db),
		SystemHealth: NewSystemHealthRepository(db),
	}
}
