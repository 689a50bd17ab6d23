package models

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	DetailQuick = "quick"
	DetailFull  = "full"
)

// MaintenanceRequest is the caller's description of the equipment. Both
// historical spellings of the description and age fields are accepted.
type MaintenanceRequest struct {
	Query                string `json:"query"`
	EquipmentDescription string `json:"equipmentDescription"`
	EquipmentType        string `json:"equipmentType"`
	InstallationAge      *Years `json:"installationAge"`
	AgeYears             *Years `json:"ageYears"`
	MaintenanceType      string `json:"maintenanceType"`
	Location             string `json:"location"`
	BuildingType         string `json:"buildingType"`
	Environment          string `json:"environment"`
	Criticality          string `json:"criticality"`
	DetailLevel          string `json:"detailLevel"`
}

// Description returns the free-text description, preferring query and
// falling back to the equipment type.
func (r *MaintenanceRequest) Description() string {
	if q := strings.TrimSpace(r.Query); q != "" {
		return q
	}
	if d := strings.TrimSpace(r.EquipmentDescription); d != "" {
		return d
	}
	return strings.TrimSpace(r.EquipmentType)
}

// Age returns the equipment age in whole years, preferring ageYears, and
// whether any age was supplied.
func (r *MaintenanceRequest) Age() (int, bool) {
	if r.AgeYears != nil {
		return int(*r.AgeYears), true
	}
	if r.InstallationAge != nil {
		return int(*r.InstallationAge), true
	}
	return 0, false
}

// Detail returns the normalised detail level; anything but "full" is quick.
func (r *MaintenanceRequest) Detail() string {
	if strings.EqualFold(strings.TrimSpace(r.DetailLevel), DetailFull) {
		return DetailFull
	}
	return DetailQuick
}

// Validate checks the fields the pipeline cannot run without.
func (r *MaintenanceRequest) Validate() error {
	if r.Description() == "" {
		return fmt.Errorf("query or equipmentDescription is required")
	}
	if len(r.Description()) > 4000 {
		return fmt.Errorf("description too long (max 4000 characters)")
	}
	if age, ok := r.Age(); ok && (age < 0 || age > 150) {
		return fmt.Errorf("installation age out of range: %d", age)
	}
	return nil
}

// Years is an age in whole years decoded from a number or from strings such
// as "12" or "12 years".
type Years int

var leadingNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

func (y *Years) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*y = Years(int(math.Round(n)))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("age must be a number or string: %w", err)
	}
	match := leadingNumber.FindString(s)
	if match == "" {
		return fmt.Errorf("age %q has no number", s)
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return err
	}
	*y = Years(int(math.Round(f)))
	return nil
}

// CostRange is a min/max estimate in whole currency units.
type CostRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MaintenanceTask is the canonical schedule entry every caller sees.
type MaintenanceTask struct {
	Interval                 string     `json:"interval"`
	Task                     string     `json:"task"`
	Description              string     `json:"description"`
	Priority                 string     `json:"priority"`
	Category                 string     `json:"category"`
	EstimatedDurationMinutes float64    `json:"estimatedDurationMinutes"`
	EstimatedCost            *CostRange `json:"estimatedCost,omitempty"`
	RequiredTools            []string   `json:"requiredTools"`
	RequiredQualifications   []string   `json:"requiredQualifications"`
	Procedure                []string   `json:"procedure"`
	SafetyPrecautions        []string   `json:"safetyPrecautions"`
	Regulation               string     `json:"regulation"`
}

// ScheduleResult is the caller-facing plan.
type ScheduleResult struct {
	EquipmentType string            `json:"equipmentType"`
	Location      string            `json:"location"`
	AgeYears      int               `json:"ageYears"`
	BuildingType  string            `json:"buildingType"`
	Schedule      []MaintenanceTask `json:"schedule"`

	Recommendations []string `json:"recommendations"`
	Regulations     []string `json:"regulations"`

	RiskScore           int       `json:"riskScore"`
	RiskLevel           string    `json:"riskLevel"`
	ComplianceStatus    string    `json:"complianceStatus"`
	AnnualCostEstimate  CostRange `json:"annualCostEstimate"`
	TotalEstimatedHours float64   `json:"totalEstimatedHours"`
	NextEICRDue         string    `json:"nextEICRDue"`

	Partial         bool     `json:"partial"`
	MissingSections []string `json:"missingSections"`

	EquipmentSummary          map[string]interface{}   `json:"equipmentSummary"`
	PreWorkRequirements       []map[string]interface{} `json:"preWorkRequirements"`
	VisualInspection          []map[string]interface{} `json:"visualInspection"`
	TestingProcedures         []map[string]interface{} `json:"testingProcedures"`
	ServicingTasks            []map[string]interface{} `json:"servicingTasks"`
	DocumentationRequirements []map[string]interface{} `json:"documentationRequirements"`
	CommonFaults              []map[string]interface{} `json:"commonFaults"`
	QualityRequirements       []map[string]interface{} `json:"qualityRequirements"`
}

// RetrievalMetadata reports which knowledge tier fed the generation.
type RetrievalMetadata struct {
	Tier            string  `json:"tier"`
	PrimaryCount    int     `json:"primaryCount"`
	FallbackCount   int     `json:"fallbackCount"`
	RegulatoryCount int     `json:"regulatoryCount"`
	AverageScore    float64 `json:"averageScore"`
}

type PlanMetadata struct {
	RequestID        string            `json:"requestId"`
	Timestamp        string            `json:"timestamp"`
	EquipmentType    string            `json:"equipmentType"`
	MaintenanceType  string            `json:"maintenanceType"`
	DetailLevel      string            `json:"detailLevel"`
	Retrieval        RetrievalMetadata `json:"retrieval"`
	Model            string            `json:"model,omitempty"`
	TokensUsed       int               `json:"tokensUsed,omitempty"`
	GenerationTimeMs int64             `json:"generationTimeMs"`
}

// PlanResponse is the success payload of the plan endpoint.
type PlanResponse struct {
	Success  bool           `json:"success"`
	Response string         `json:"response"`
	Schedule ScheduleResult `json:"schedule"`
	Metadata PlanMetadata   `json:"metadata"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}
