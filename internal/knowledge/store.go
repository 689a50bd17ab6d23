package knowledge

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/elecmate/maintenance-planner/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PracticalWorkSearcher is the primary hybrid (lexical + semantic) search.
type PracticalWorkSearcher interface {
	SearchPracticalWork(ctx context.Context, query string, limit int) ([]Document, error)
}

// MaintenanceSearcher is the secondary embedding-driven hybrid search.
type MaintenanceSearcher interface {
	SearchMaintenance(ctx context.Context, query string, embedding []float32, equipmentType string, limit int) ([]Document, error)
}

// RegulationSearcher searches the regulatory-citation store.
type RegulationSearcher interface {
	SearchRegulations(ctx context.Context, query string, limit int) ([]Document, error)
}

// PracticalWorkDomain filters the practical-work store to maintenance content.
const PracticalWorkDomain = "maintenance"

// PostgresStore reads the knowledge stores through their SQL search
// functions. It never writes.
type PostgresStore struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewPostgresStore(db *gorm.DB, logger *logrus.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

type practicalWorkRow struct {
	ID                  string             `gorm:"column:id"`
	Topic               string             `gorm:"column:topic"`
	Content             string             `gorm:"column:content"`
	Source              string             `gorm:"column:source"`
	HybridScore         float64            `gorm:"column:hybrid_score"`
	MaintenanceInterval string             `gorm:"column:maintenance_interval"`
	ToolsRequired       models.StringArray `gorm:"column:tools_required"`
	Regulations         models.StringArray `gorm:"column:bs7671_regulations"`
}

type maintenanceRow struct {
	ID          string  `gorm:"column:id"`
	Topic       string  `gorm:"column:topic"`
	Content     string  `gorm:"column:content"`
	Source      string  `gorm:"column:source"`
	HybridScore float64 `gorm:"column:hybrid_score"`
	Interval    string  `gorm:"column:interval"`
}

type regulationRow struct {
	RegulationID     string             `gorm:"column:regulation_id"`
	RegulationNumber string             `gorm:"column:regulation_number"`
	PrimaryTopic     string             `gorm:"column:primary_topic"`
	Category         string             `gorm:"column:category"`
	HybridScore      float64            `gorm:"column:hybrid_score"`
	AppliesTo        models.StringArray `gorm:"column:applies_to"`
}

const practicalWorkSQL = `
SELECT id,
       COALESCE(NULLIF(primary_topic, ''), topic, '') AS topic,
       COALESCE(content, '') AS content,
       COALESCE(source, '') AS source,
       COALESCE(hybrid_score, 0) AS hybrid_score,
       COALESCE(maintenance_interval, '') AS maintenance_interval,
       COALESCE(tools_required, '{}') AS tools_required,
       COALESCE(bs7671_regulations, '{}') AS bs7671_regulations
FROM search_practical_work_intelligence_hybrid(?, NULL, ?, ?)`

const maintenanceSQL = `
SELECT id,
       COALESCE(topic, '') AS topic,
       COALESCE(content, '') AS content,
       COALESCE(source, '') AS source,
       COALESCE(hybrid_score, 0) AS hybrid_score,
       COALESCE(metadata->>'interval', metadata->>'frequency', '') AS interval
FROM search_maintenance_hybrid(?, ?::vector, ?, ?)`

const regulationSQL = `
SELECT regulation_id,
       COALESCE(regulation_number, '') AS regulation_number,
       COALESCE(primary_topic, '') AS primary_topic,
       COALESCE(category, '') AS category,
       COALESCE(hybrid_score, 0) AS hybrid_score,
       COALESCE(applies_to, '{}') AS applies_to
FROM search_regulations_intelligence_hybrid(?, NULL, ?)`

func (s *PostgresStore) SearchPracticalWork(ctx context.Context, query string, limit int) ([]Document, error) {
	var rows []practicalWorkRow
	if err := s.db.WithContext(ctx).Raw(practicalWorkSQL, query, PracticalWorkDomain, limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("practical work search failed: %w", err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Document{
			ID:          row.ID,
			Tier:        TierPrimary,
			Score:       row.HybridScore,
			Topic:       row.Topic,
			Content:     row.Content,
			Source:      row.Source,
			Interval:    row.MaintenanceInterval,
			Tools:       []string(row.ToolsRequired),
			Regulations: []string(row.Regulations),
		})
	}
	return docs, nil
}

func (s *PostgresStore) SearchMaintenance(ctx context.Context, query string, embedding []float32, equipmentType string, limit int) ([]Document, error) {
	var filter interface{}
	if strings.TrimSpace(equipmentType) != "" {
		filter = equipmentType
	}

	var rows []maintenanceRow
	err := s.db.WithContext(ctx).
		Raw(maintenanceSQL, query, VectorLiteral(embedding), filter, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("maintenance knowledge search failed: %w", err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Document{
			ID:       row.ID,
			Tier:     TierFallback,
			Score:    row.HybridScore,
			Topic:    row.Topic,
			Content:  row.Content,
			Source:   row.Source,
			Interval: row.Interval,
		})
	}
	return docs, nil
}

func (s *PostgresStore) SearchRegulations(ctx context.Context, query string, limit int) ([]Document, error) {
	var rows []regulationRow
	if err := s.db.WithContext(ctx).Raw(regulationSQL, query, limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("regulations search failed: %w", err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Document{
			ID:          row.RegulationID,
			Tier:        TierRegulatory,
			Score:       row.HybridScore,
			Topic:       row.PrimaryTopic,
			Content:     regulationContent(row),
			Source:      "BS 7671",
			Regulations: []string{row.RegulationNumber},
		})
	}
	return docs, nil
}

func regulationContent(row regulationRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Regulation %s", row.RegulationNumber)
	if row.Category != "" {
		fmt.Fprintf(&b, " (%s)", row.Category)
	}
	if row.PrimaryTopic != "" {
		fmt.Fprintf(&b, ": %s", row.PrimaryTopic)
	}
	if len(row.AppliesTo) > 0 {
		fmt.Fprintf(&b, ". Applies to: %s", strings.Join(row.AppliesTo, ", "))
	}
	return b.String()
}

// VectorLiteral renders an embedding as a pgvector text literal.
func VectorLiteral(embedding []float32) string {
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
