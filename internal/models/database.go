package models

// GORM models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// StringArray for PostgreSQL array support
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "{}", nil
	}
	quoted := make([]string, len(s))
	for i, v := range s {
		quoted[i] = `"` + strings.ReplaceAll(strings.ReplaceAll(v, `\`, `\\`), `"`, `\"`) + `"`
	}
	return fmt.Sprintf("{%s}", strings.Join(quoted, ",")), nil
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}

	switch v := value.(type) {
	case string:
		v = strings.Trim(v, "{}")
		if v == "" {
			*s = StringArray{}
			return nil
		}
		parts := strings.Split(v, ",")
		for i, p := range parts {
			parts[i] = strings.Trim(p, `"`)
		}
		*s = StringArray(parts)
	case []byte:
		return s.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into StringArray", value)
	}
	return nil
}

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	GenerationSucceeded = "succeeded"
	GenerationFailed    = "failed"
)

// GenerationRecord traces one plan request: which retrieval tier fed it and
// whether the result came back partial.
type GenerationRecord struct {
	BaseModel
	RequestID       string      `json:"request_id" gorm:"uniqueIndex;not null"`
	EquipmentType   string      `json:"equipment_type"`
	MaintenanceType string      `json:"maintenance_type"`
	DetailLevel     string      `json:"detail_level"`
	RetrievalTier   string      `json:"retrieval_tier" gorm:"index"`
	PrimaryCount    int         `json:"primary_count"`
	FallbackCount   int         `json:"fallback_count"`
	RegulatoryCount int         `json:"regulatory_count"`
	AverageScore    float64     `json:"average_score"`
	Partial         bool        `json:"partial"`
	MissingSections StringArray `json:"missing_sections" gorm:"type:text[]"`
	TaskCount       int         `json:"task_count"`
	Status          string      `json:"status" gorm:"not null;check:status IN ('succeeded','failed')"`
	ErrorCode       string      `json:"error_code"`
	ResponseTimeMs  int         `json:"response_time_ms"`
}

// TierStats aggregates generation records per retrieval tier.
type TierStats struct {
	RetrievalTier string  `json:"retrieval_tier"`
	Total         int     `json:"total"`
	PartialCount  int     `json:"partial_count"`
	FailedCount   int     `json:"failed_count"`
	AvgResponseMs float64 `json:"avg_response_ms"`
}

// SystemHealth represents service health monitoring
type SystemHealth struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ServiceName    string    `json:"service_name" gorm:"not null"`
	Status         string    `json:"status" gorm:"not null;check:status IN ('healthy','degraded','unhealthy')"`
	ResponseTimeMs int       `json:"response_time_ms"`
	ErrorMessage   string    `json:"error_message"`
	CheckedAt      time.Time `json:"checked_at" gorm:"default:NOW()"`
}

// Database interfaces for repository pattern
type GenerationRecordRepository interface {
	Create(record *GenerationRecord) error
	GetByRequestID(requestID string) (*GenerationRecord, error)
	GetRecent(limit int) ([]GenerationRecord, error)
	GetTierStats(from, to time.Time) ([]TierStats, error)
}

type SystemHealthRepository interface {
	UpdateServiceHealth(serviceName, status string, responseTime int, errorMsg string) error
	GetServiceHealth(serviceName string) (*SystemHealth, error)
	GetAllServicesHealth() ([]SystemHealth, error)
}

// TableName methods for custom table names
func (GenerationRecord) TableName() string { return "generation_records" }
func (SystemHealth) TableName() string     { return "system_health" }

// Model validation methods
func (g *GenerationRecord) Validate() error {
	if g.RequestID == "" {
		return fmt.Errorf("request ID is required")
	}
	if g.Status != GenerationSucceeded && g.Status != GenerationFailed {
		return fmt.Errorf("invalid generation status: %s", g.Status)
	}
	if g.ResponseTimeMs < 0 {
		return fmt.Errorf("response time cannot be negative")
	}
	return nil
}

// GORM hooks
func (g *GenerationRecord) BeforeCreate(tx *gorm.DB) error {
	return g.Validate()
}
