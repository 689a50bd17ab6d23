package planner

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/elecmate/maintenance-planner/internal/models"
)

// GeneratedPlan is the model output after validation and repair. Every
// slice is non-nil.
type GeneratedPlan struct {
	Summary                   string
	EquipmentSummary          map[string]interface{}
	PreWorkRequirements       []map[string]interface{}
	VisualInspection          []map[string]interface{}
	TestingProcedures         []map[string]interface{}
	ServicingTasks            []map[string]interface{}
	MaintenanceSchedule       []models.MaintenanceTask
	DocumentationRequirements []map[string]interface{}
	CommonFaults              []map[string]interface{}
	QualityRequirements       []map[string]interface{}
	RegulationReferences      []map[string]interface{}
	Recommendations           []string
}

// ValidationReport records what the repairer had to do.
type ValidationReport struct {
	Partial          bool
	MissingSections  []string
	FallbackSchedule bool
	FilteredEntries  int
}

// Key used when a section item arrives as a bare string.
var sectionItemKey = map[string]string{
	SectionPreWorkRequirements:       "requirement",
	SectionVisualInspection:          "checkpoint",
	SectionTestingProcedures:         "testName",
	SectionServicingTasks:            "task",
	SectionMaintenanceSchedule:       "task",
	SectionDocumentationRequirements: "document",
	SectionCommonFaults:              "fault",
	SectionQualityRequirements:       "requirement",
	SectionRegulationReferences:      "reference",
}

var leakPattern = buildLeakPattern()

// buildLeakPattern matches list items that start like a JSON key of the plan:
// section names, task fields with every accepted alias, flat cost fields and
// section item keys. Compound names such as safetyPrecautions only occur as
// keys, so any following bracket or colon marks a leak. Plain words such as
// "safety" or "steps" also start ordinary sentences ("Safety: wear gloves"),
// so they count only when quoted before a colon or followed by a bracket.
func buildLeakPattern() *regexp.Regexp {
	names := append([]string{}, ArraySections...)
	names = append(names, SectionEquipmentSummary, SectionSummary)
	for canonical, aliases := range taskFields {
		names = append(names, canonical)
		names = append(names, aliases...)
	}
	names = append(names, costMinFields...)
	names = append(names, costMaxFields...)
	for _, key := range sectionItemKey {
		names = append(names, key)
	}
	sort.Strings(names)

	var compound, plain []string
	seen := make(map[string]bool)
	for _, n := range names {
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		if key != n {
			compound = append(compound, regexp.QuoteMeta(n))
		} else {
			plain = append(plain, regexp.QuoteMeta(n))
		}
	}

	compoundAlt := strings.Join(compound, "|")
	plainAlt := strings.Join(plain, "|")
	return regexp.MustCompile(`(?i)^\s*(?:"?(?:` + compoundAlt + `)"?\s*[\[{:]` +
		`|"(?:` + plainAlt + `)"\s*:` +
		`|(?:` + plainAlt + `)\s*:?\s*[\[{])`)
}

// IsLeakedFragment reports whether s looks like schema syntax that leaked
// into a list item, e.g. `"procedure": [`.
func IsLeakedFragment(s string) bool {
	return leakPattern.MatchString(s)
}

// Validate checks and repairs raw tool-call arguments.
func Validate(raw json.RawMessage) (*GeneratedPlan, ValidationReport, error) {
	var report ValidationReport

	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrMalformedGeneration, err)
	}
	obj, ok := parsed.(map[string]interface{})
	if !ok {
		return nil, report, fmt.Errorf("%w: got %T", ErrInvalidAIResponse, parsed)
	}

	plan := &GeneratedPlan{
		Summary:                   asString(obj[SectionSummary]),
		EquipmentSummary:          objectValue(obj[SectionEquipmentSummary]),
		PreWorkRequirements:       objectList(obj, SectionPreWorkRequirements),
		VisualInspection:          objectList(obj, SectionVisualInspection),
		TestingProcedures:         objectList(obj, SectionTestingProcedures),
		ServicingTasks:            objectList(obj, SectionServicingTasks),
		DocumentationRequirements: objectList(obj, SectionDocumentationRequirements),
		CommonFaults:              objectList(obj, SectionCommonFaults),
		QualityRequirements:       objectList(obj, SectionQualityRequirements),
		RegulationReferences:      objectList(obj, SectionRegulationReferences),
		Recommendations:           StringList(obj[SectionRecommendations]),
	}

	sizes := map[string]int{
		SectionPreWorkRequirements: len(plan.PreWorkRequirements),
		SectionVisualInspection:    len(plan.VisualInspection),
		SectionTestingProcedures:   len(plan.TestingProcedures),
	}
	for _, section := range RequiredSections {
		if sizes[section] == 0 {
			report.Partial = true
			report.MissingSections = append(report.MissingSections, section)
		}
	}
	if report.MissingSections == nil {
		report.MissingSections = []string{}
	}

	plan.MaintenanceSchedule = NormalizeTasks(objectList(obj, SectionMaintenanceSchedule))
	if len(plan.MaintenanceSchedule) == 0 {
		plan.MaintenanceSchedule = FallbackTasks()
		report.FallbackSchedule = true
	}
	for i := range plan.MaintenanceSchedule {
		report.FilteredEntries += sanitizeTask(&plan.MaintenanceSchedule[i])
	}

	return plan, report, nil
}

// sanitizeTask strips empty and leaked entries from the task's step lists
// and returns how many it removed.
func sanitizeTask(task *models.MaintenanceTask) int {
	var removed int
	task.Procedure, removed = filterEntries(task.Procedure, DefaultProcedureStep)
	var removedSafety int
	task.SafetyPrecautions, removedSafety = filterEntries(task.SafetyPrecautions, DefaultSafetyStep)
	return removed + removedSafety
}

func filterEntries(items []string, fallback string) ([]string, int) {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" || IsLeakedFragment(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}
	removed := len(items) - len(kept)
	if len(kept) == 0 {
		kept = []string{fallback}
	}
	return kept, removed
}

func objectValue(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

// objectList reads an array section, tolerating a single object or string
// in place of the array and dropping null items.
func objectList(obj map[string]interface{}, section string) []map[string]interface{} {
	out := []map[string]interface{}{}

	var items []interface{}
	switch v := obj[section].(type) {
	case nil:
		return out
	case []interface{}:
		items = v
	default:
		items = []interface{}{v}
	}

	for _, item := range items {
		switch val := item.(type) {
		case map[string]interface{}:
			out = append(out, val)
		case string:
			if s := strings.TrimSpace(val); s != "" {
				out = append(out, map[string]interface{}{sectionItemKey[section]: s})
			}
		}
	}
	return out
}
