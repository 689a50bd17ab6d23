package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elecmate/maintenance-planner/internal/knowledge"
	"github.com/elecmate/maintenance-planner/internal/metrics"
	"github.com/elecmate/maintenance-planner/internal/models"
	"github.com/elecmate/maintenance-planner/internal/planner"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// KnowledgeRetriever is the tiered knowledge lookup.
type KnowledgeRetriever interface {
	Retrieve(ctx context.Context, query, equipmentType, detailLevel string) knowledge.Result
}

// PlanGenerator produces raw structured plan arguments.
type PlanGenerator interface {
	Generate(ctx context.Context, prompt planner.Prompt) (*planner.Generation, error)
}

type MaintenanceService struct {
	retriever   KnowledgeRetriever
	assembler   *knowledge.Assembler
	generator   PlanGenerator
	generations models.GenerationRecordRepository
	model       string
	logger      *logrus.Logger
	now         func() time.Time
}

func NewMaintenanceService(
	retriever KnowledgeRetriever,
	assembler *knowledge.Assembler,
	generator PlanGenerator,
	generations models.GenerationRecordRepository,
	model string,
	logger *logrus.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		retriever:   retriever,
		assembler:   assembler,
		generator:   generator,
		generations: generations,
		model:       model,
		logger:      logger,
		now:         time.Now,
	}
}

// GeneratePlan runs retrieval, generation, validation, metrics and response
// shaping for one request. Every call, failed or not, leaves a
// GenerationRecord when a repository is configured.
func (s *MaintenanceService) GeneratePlan(ctx context.Context, requestID string, req *models.MaintenanceRequest) (*models.PlanResponse, error) {
	start := s.now()
	log := s.logger.WithFields(logrus.Fields{
		"request_id":     requestID,
		"equipment_type": req.EquipmentType,
		"detail_level":   req.Detail(),
	})

	record := &models.GenerationRecord{
		RequestID:       requestID,
		EquipmentType:   req.EquipmentType,
		MaintenanceType: req.MaintenanceType,
		DetailLevel:     req.Detail(),
		RetrievalTier:   knowledge.TierNone,
	}

	if err := req.Validate(); err != nil {
		err = fmt.Errorf("%w: %v", planner.ErrInvalidRequest, err)
		s.recordFailure(record, start, err)
		return nil, err
	}

	query := knowledge.ExpandQuery(req)
	retrieved := s.retriever.Retrieve(ctx, query, req.EquipmentType, req.Detail())
	applyRetrievalStats(record, retrieved.Stats)
	log.WithFields(logrus.Fields{
		"tier":      retrieved.Stats.Tier,
		"documents": len(retrieved.Documents),
	}).Info("Knowledge retrieved")

	prompt := planner.BuildPrompt(req, s.assembler.Assemble(retrieved))

	generation, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.WithError(err).Error("Plan generation failed")
		s.recordFailure(record, start, err)
		return nil, err
	}

	plan, report, err := planner.Validate(generation.Arguments)
	if err != nil {
		log.WithError(err).Error("Plan validation failed")
		s.recordFailure(record, start, err)
		return nil, err
	}
	if report.Partial || report.FallbackSchedule || report.FilteredEntries > 0 {
		log.WithFields(logrus.Fields{
			"partial":           report.Partial,
			"missing_sections":  report.MissingSections,
			"fallback_schedule": report.FallbackSchedule,
			"filtered_entries":  report.FilteredEntries,
		}).Warn("Plan repaired")
	}

	age, ageKnown := req.Age()
	if !ageKnown {
		age = -1
	}
	riskLevel := metrics.ResolveRiskLevel(summaryString(plan.EquipmentSummary, "riskLevel"), req.Criticality)
	derived := metrics.Compute(plan.MaintenanceSchedule, riskLevel, age, req.BuildingType, s.now())

	response := &models.PlanResponse{
		Success:  true,
		Response: narrative(plan, req),
		Schedule: shapeSchedule(req, plan, report, derived),
		Metadata: models.PlanMetadata{
			RequestID:       requestID,
			Timestamp:       s.now().UTC().Format(time.RFC3339),
			EquipmentType:   req.EquipmentType,
			MaintenanceType: req.MaintenanceType,
			DetailLevel:     req.Detail(),
			Retrieval: models.RetrievalMetadata{
				Tier:            retrieved.Stats.Tier,
				PrimaryCount:    retrieved.Stats.PrimaryCount,
				FallbackCount:   retrieved.Stats.FallbackCount,
				RegulatoryCount: retrieved.Stats.RegulatoryCount,
				AverageScore:    retrieved.Stats.AverageScore,
			},
			Model:            firstNonEmpty(generation.Model, s.model),
			TokensUsed:       generation.TokensUsed,
			GenerationTimeMs: generation.Duration.Milliseconds(),
		},
	}

	record.Status = models.GenerationSucceeded
	record.Partial = report.Partial
	record.MissingSections = models.StringArray(report.MissingSections)
	record.TaskCount = len(plan.MaintenanceSchedule)
	record.ResponseTimeMs = int(s.now().Sub(start).Milliseconds())
	s.save(record)

	log.WithFields(logrus.Fields{
		"tasks":             record.TaskCount,
		"partial":           report.Partial,
		"compliance_status": derived.ComplianceStatus,
		"duration_ms":       record.ResponseTimeMs,
	}).Info("Maintenance plan generated")

	return response, nil
}

// GetGeneration returns the trace record for a request.
func (s *MaintenanceService) GetGeneration(requestID string) (*models.GenerationRecord, error) {
	if s.generations == nil {
		return nil, ErrTracingDisabled
	}
	record, err := s.generations.GetByRequestID(requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGenerationNotFound
	}
	return record, err
}

// RecentGenerations returns the latest trace records, newest first.
func (s *MaintenanceService) RecentGenerations(limit int) ([]models.GenerationRecord, error) {
	if s.generations == nil {
		return nil, ErrTracingDisabled
	}
	return s.generations.GetRecent(limit)
}

// TierStats aggregates trace records per retrieval tier over [from, to].
func (s *MaintenanceService) TierStats(from, to time.Time) ([]models.TierStats, error) {
	if s.generations == nil {
		return nil, ErrTracingDisabled
	}
	return s.generations.GetTierStats(from, to)
}

func applyRetrievalStats(record *models.GenerationRecord, stats knowledge.Stats) {
	record.RetrievalTier = stats.Tier
	record.PrimaryCount = stats.PrimaryCount
	record.FallbackCount = stats.FallbackCount
	record.RegulatoryCount = stats.RegulatoryCount
	record.AverageScore = stats.AverageScore
}

func (s *MaintenanceService) recordFailure(record *models.GenerationRecord, start time.Time, err error) {
	record.Status = models.GenerationFailed
	record.ErrorCode = planner.ErrorCode(err)
	record.ResponseTimeMs = int(s.now().Sub(start).Milliseconds())
	s.save(record)
}

func (s *MaintenanceService) save(record *models.GenerationRecord) {
	if s.generations == nil {
		return
	}
	if err := s.generations.Create(record); err != nil {
		s.logger.WithError(err).WithField("request_id", record.RequestID).Warn("Failed to store generation record")
	}
}

func narrative(plan *planner.GeneratedPlan, req *models.MaintenanceRequest) string {
	if plan.Summary != "" {
		return plan.Summary
	}
	return fmt.Sprintf("Maintenance plan for %s with %d scheduled tasks.", req.Description(), len(plan.MaintenanceSchedule))
}

func summaryString(summary map[string]interface{}, key string) string {
	if s, ok := summary[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
