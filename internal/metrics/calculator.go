package metrics

import (
	"math"
	"strings"
	"time"

	"github.com/elecmate/maintenance-planner/internal/models"
)

const (
	RiskCritical = "critical"
	RiskHigh     = "high"
	RiskMedium   = "medium"
	RiskLow      = "low"
)

const (
	StatusCompliant       = "compliant"
	StatusAttentionNeeded = "attention-needed"
	StatusNonCompliant    = "non-compliant"
)

// Policy thresholds in years.
const (
	NonCompliantAge  = 15
	AttentionAge     = 10
	AgedInterval     = 3
	DefaultEICRYears = 10
	EICRDateLayout   = "02/01/2006"
)

var riskScores = map[string]int{
	RiskCritical: 90,
	RiskHigh:     70,
	RiskMedium:   40,
	RiskLow:      20,
}

var eicrIntervals = map[string]int{
	"domestic":   10,
	"commercial": 5,
	"industrial": 3,
}

// DerivedMetrics are the deterministic figures attached to every plan.
type DerivedMetrics struct {
	AnnualCost          models.CostRange `json:"annualCostEstimate"`
	TotalEstimatedHours float64          `json:"totalEstimatedHours"`
	RiskScore           int              `json:"riskScore"`
	RiskLevel           string           `json:"riskLevel"`
	ComplianceStatus    string           `json:"complianceStatus"`
	NextEICRDue         string           `json:"nextEICRDue"`
	NextEICRDate        time.Time        `json:"-"`
}

// Compute derives plan metrics. ageYears < 0 means unknown age.
func Compute(tasks []models.MaintenanceTask, riskLevel string, ageYears int, buildingType string, now time.Time) DerivedMetrics {
	var costMin, costMax, minutes float64
	for _, task := range tasks {
		multiplier := FrequencyMultiplier(task.Interval)
		if task.EstimatedCost != nil {
			costMin += task.EstimatedCost.Min * multiplier
			costMax += task.EstimatedCost.Max * multiplier
		}
		if task.EstimatedDurationMinutes > 0 {
			minutes += task.EstimatedDurationMinutes * multiplier
		}
	}

	level := normalizeRisk(riskLevel)
	due := NextInspectionDue(buildingType, ageYears, now)

	return DerivedMetrics{
		AnnualCost:          models.CostRange{Min: math.Round(costMin), Max: math.Round(costMax)},
		TotalEstimatedHours: math.Round(minutes/60*10) / 10,
		RiskScore:           RiskScore(level),
		RiskLevel:           level,
		ComplianceStatus:    ComplianceStatus(level, ageYears),
		NextEICRDue:         due.Format(EICRDateLayout),
		NextEICRDate:        due,
	}
}

// RiskScore maps a risk level to its display score; unknown levels score
// as medium.
func RiskScore(level string) int {
	if score, ok := riskScores[strings.ToLower(strings.TrimSpace(level))]; ok {
		return score
	}
	return riskScores[RiskMedium]
}

func ComplianceStatus(level string, ageYears int) string {
	level = strings.ToLower(strings.TrimSpace(level))
	switch {
	case level == RiskCritical || ageYears > NonCompliantAge:
		return StatusNonCompliant
	case level == RiskHigh || ageYears > AttentionAge:
		return StatusAttentionNeeded
	default:
		return StatusCompliant
	}
}

// EICRIntervalYears is the periodic inspection interval for a building
// type, capped for installations older than AttentionAge.
func EICRIntervalYears(buildingType string, ageYears int) int {
	years, ok := eicrIntervals[strings.ToLower(strings.TrimSpace(buildingType))]
	if !ok {
		years = DefaultEICRYears
	}
	if ageYears > AttentionAge && years > AgedInterval {
		years = AgedInterval
	}
	return years
}

func NextInspectionDue(buildingType string, ageYears int, now time.Time) time.Time {
	return now.AddDate(EICRIntervalYears(buildingType, ageYears), 0, 0)
}

// ResolveRiskLevel prefers the model's assessed risk level and otherwise
// derives one from the caller's criticality.
func ResolveRiskLevel(assessed, criticality string) string {
	if level, ok := validRisk(assessed); ok {
		return level
	}
	switch strings.ToLower(strings.TrimSpace(criticality)) {
	case RiskCritical, RiskHigh:
		return RiskHigh
	case RiskLow:
		return RiskLow
	default:
		return RiskMedium
	}
}

func validRisk(level string) (string, bool) {
	level = strings.ToLower(strings.TrimSpace(level))
	_, ok := riskScores[level]
	return level, ok
}

func normalizeRisk(level string) string {
	if l, ok := validRisk(level); ok {
		return l
	}
	return RiskMedium
}
