package services

import (
	"errors"
	"strings"

	"github.com/elecmate/maintenance-planner/internal/metrics"
	"github.com/elecmate/maintenance-planner/internal/models"
	"github.com/elecmate/maintenance-planner/internal/planner"
)

var (
	// ErrTracingDisabled is returned by trace lookups when no database is configured.
	ErrTracingDisabled    = errors.New("generation tracing is not configured")
	ErrGenerationNotFound = errors.New("generation record not found")
)

// shapeSchedule builds the caller-facing schedule object.
func shapeSchedule(req *models.MaintenanceRequest, plan *planner.GeneratedPlan, report planner.ValidationReport, derived metrics.DerivedMetrics) models.ScheduleResult {
	age, _ := req.Age()

	return models.ScheduleResult{
		EquipmentType: firstNonEmpty(req.EquipmentType, summaryString(plan.EquipmentSummary, "equipmentType"), req.Description()),
		Location:      firstNonEmpty(req.Location, summaryString(plan.EquipmentSummary, "location")),
		AgeYears:      age,
		BuildingType:  req.BuildingType,
		Schedule:      plan.MaintenanceSchedule,

		Recommendations: plan.Recommendations,
		Regulations:     collectRegulations(plan),

		RiskScore:           derived.RiskScore,
		RiskLevel:           derived.RiskLevel,
		ComplianceStatus:    derived.ComplianceStatus,
		AnnualCostEstimate:  derived.AnnualCost,
		TotalEstimatedHours: derived.TotalEstimatedHours,
		NextEICRDue:         derived.NextEICRDue,

		Partial:         report.Partial,
		MissingSections: report.MissingSections,

		EquipmentSummary:          plan.EquipmentSummary,
		PreWorkRequirements:       plan.PreWorkRequirements,
		VisualInspection:          plan.VisualInspection,
		TestingProcedures:         plan.TestingProcedures,
		ServicingTasks:            plan.ServicingTasks,
		DocumentationRequirements: plan.DocumentationRequirements,
		CommonFaults:              plan.CommonFaults,
		QualityRequirements:       plan.QualityRequirements,
	}
}

// collectRegulations lists cited regulations once each, section citations
// first, then those named on schedule tasks.
func collectRegulations(plan *planner.GeneratedPlan) []string {
	regs := []string{}
	seen := make(map[string]bool)
	add := func(r string) {
		r = strings.TrimSpace(r)
		key := strings.ToLower(r)
		if r == "" || seen[key] {
			return
		}
		seen[key] = true
		regs = append(regs, r)
	}

	for _, ref := range plan.RegulationReferences {
		reference := summaryString(ref, "reference")
		if desc := summaryString(ref, "description"); reference != "" && desc != "" {
			add(reference + " - " + desc)
			continue
		}
		add(reference)
	}
	for _, task := range plan.MaintenanceSchedule {
		add(task.Regulation)
	}
	return regs
}
