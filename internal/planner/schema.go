package planner

// PlanFunctionName is the single tool the model is forced to call.
const PlanFunctionName = "provide_maintenance_plan"

type Schema struct {
	Type       string                     `json:"type"`
	Properties map[string]*SchemaProperty `json:"properties"`
	Required   []string                   `json:"required,omitempty"`
}

type SchemaProperty struct {
	Type        string                     `json:"type"`
	Description string                     `json:"description,omitempty"`
	Enum        []string                   `json:"enum,omitempty"`
	Items       *SchemaProperty            `json:"items,omitempty"`
	MinItems    int                        `json:"minItems,omitempty"`
	Required    []string                   `json:"required,omitempty"`
	Properties  map[string]*SchemaProperty `json:"properties,omitempty"`
}

// Top-level plan sections.
const (
	SectionEquipmentSummary          = "equipmentSummary"
	SectionSummary                   = "summary"
	SectionPreWorkRequirements       = "preWorkRequirements"
	SectionVisualInspection          = "visualInspection"
	SectionTestingProcedures         = "testingProcedures"
	SectionServicingTasks            = "servicingTasks"
	SectionMaintenanceSchedule       = "maintenanceSchedule"
	SectionDocumentationRequirements = "documentationRequirements"
	SectionCommonFaults              = "commonFaults"
	SectionQualityRequirements       = "qualityRequirements"
	SectionRegulationReferences      = "regulationReferences"
	SectionRecommendations           = "recommendations"
)

// ArraySections lists every array-typed top-level section.
var ArraySections = []string{
	SectionPreWorkRequirements,
	SectionVisualInspection,
	SectionTestingProcedures,
	SectionServicingTasks,
	SectionMaintenanceSchedule,
	SectionDocumentationRequirements,
	SectionCommonFaults,
	SectionQualityRequirements,
	SectionRegulationReferences,
	SectionRecommendations,
}

// RequiredSections are the sections whose emptiness marks a plan partial.
var RequiredSections = []string{
	SectionPreWorkRequirements,
	SectionVisualInspection,
	SectionTestingProcedures,
}

var (
	RiskLevels = []string{"critical", "high", "medium", "low"}
	Priorities = []string{"high", "medium", "low"}
)

func str(desc string) *SchemaProperty { return &SchemaProperty{Type: "string", Description: desc} }
func num(desc string) *SchemaProperty { return &SchemaProperty{Type: "number", Description: desc} }

func strList(desc string) *SchemaProperty {
	return &SchemaProperty{Type: "array", Description: desc, Items: &SchemaProperty{Type: "string"}}
}

func objList(desc string, required []string, props map[string]*SchemaProperty) *SchemaProperty {
	return &SchemaProperty{
		Type:        "array",
		Description: desc,
		Items:       &SchemaProperty{Type: "object", Required: required, Properties: props},
	}
}

// TaskSchema describes one maintenanceSchedule entry.
func TaskSchema() *SchemaProperty {
	return &SchemaProperty{
		Type:     "object",
		Required: []string{"interval", "task", "description", "priority", "category", "estimatedDurationMinutes", "procedure", "safetyPrecautions"},
		Properties: map[string]*SchemaProperty{
			"interval":                 str("How often, e.g. \"Every 6 months\", \"Annual\", \"Every 5 years\""),
			"task":                     str("Short task name"),
			"description":              str("What the task involves"),
			"priority":                 {Type: "string", Enum: Priorities},
			"category":                 {Type: "string", Enum: []string{"inspection", "testing", "servicing", "cleaning", "documentation", "replacement"}},
			"estimatedDurationMinutes": num("Duration of one occurrence in minutes"),
			"estimatedCost": {
				Type:        "object",
				Description: "Cost of one occurrence in GBP",
				Required:    []string{"min", "max"},
				Properties: map[string]*SchemaProperty{
					"min": num("Lower estimate"),
					"max": num("Upper estimate"),
				},
			},
			"requiredTools":          strList("Tools and instruments, one per item"),
			"requiredQualifications": strList("Qualifications, one per item"),
			"procedure":              strList("Ordered steps, each a complete sentence"),
			"safetyPrecautions":      strList("Safety precautions, each a complete sentence"),
			"regulation":             str("Governing regulation, e.g. \"BS 7671 Reg 651.1\""),
		},
	}
}

// PlanSchema is the parameter schema of the plan function.
func PlanSchema() *Schema {
	schedule := &SchemaProperty{
		Type:        "array",
		Description: "Recurring maintenance tasks. At least 2 and ideally 4 or more.",
		Items:       TaskSchema(),
		MinItems:    2,
	}

	return &Schema{
		Type: "object",
		Required: []string{
			SectionEquipmentSummary, SectionSummary, SectionPreWorkRequirements, SectionVisualInspection,
			SectionTestingProcedures, SectionMaintenanceSchedule, SectionRegulationReferences, SectionRecommendations,
		},
		Properties: map[string]*SchemaProperty{
			SectionEquipmentSummary: {
				Type:     "object",
				Required: []string{"equipmentType", "riskLevel"},
				Properties: map[string]*SchemaProperty{
					"equipmentType":    str("Equipment identified from the description"),
					"location":         str("Installed location"),
					"ageYears":         num("Installation age in years, if known"),
					"condition":        str("Expected condition given age and environment"),
					"riskLevel":        {Type: "string", Enum: RiskLevels},
					"criticalFindings": strList("Issues needing immediate attention"),
				},
			},
			SectionSummary: str("Narrative overview of the plan for the duty holder"),
			SectionPreWorkRequirements: objList("Requirements before any work starts",
				[]string{"requirement", "details"},
				map[string]*SchemaProperty{
					"requirement": str("Requirement"),
					"details":     str("How to satisfy it"),
					"regulation":  str("Governing regulation"),
				}),
			SectionVisualInspection: objList("Visual inspection checkpoints",
				[]string{"checkpoint", "lookFor"},
				map[string]*SchemaProperty{
					"checkpoint":         str("What to inspect"),
					"lookFor":            str("Defects or signs to look for"),
					"acceptanceCriteria": str("What passes"),
					"regulation":         str("Governing regulation"),
				}),
			SectionTestingProcedures: objList("Tests with method and expected results",
				[]string{"testName", "procedure", "expectedResult"},
				map[string]*SchemaProperty{
					"testName":       str("Test name"),
					"procedure":      strList("Ordered steps, each a complete sentence"),
					"instrument":     str("Test instrument"),
					"expectedResult": str("Acceptable reading or outcome"),
					"regulation":     str("Governing regulation"),
				}),
			SectionServicingTasks: objList("Servicing work beyond inspection and testing",
				[]string{"task", "description"},
				map[string]*SchemaProperty{
					"task":        str("Task"),
					"description": str("What it involves"),
					"interval":    str("How often"),
				}),
			SectionMaintenanceSchedule: schedule,
			SectionDocumentationRequirements: objList("Records and certificates to keep",
				[]string{"document"},
				map[string]*SchemaProperty{
					"document": str("Document or record"),
					"purpose":  str("Why it is kept"),
				}),
			SectionCommonFaults: objList("Common faults for this equipment",
				[]string{"fault", "remedy"},
				map[string]*SchemaProperty{
					"fault":       str("Fault"),
					"symptoms":    str("How it shows"),
					"likelyCause": str("Usual cause"),
					"remedy":      str("Corrective action"),
				}),
			SectionQualityRequirements: objList("Quality and competence requirements",
				[]string{"requirement"},
				map[string]*SchemaProperty{
					"requirement": str("Requirement"),
					"standard":    str("Standard it derives from"),
				}),
			SectionRegulationReferences: objList("Regulations the plan relies on",
				[]string{"reference"},
				map[string]*SchemaProperty{
					"reference":   str("Citation, e.g. \"BS 7671:2018+A2:2022 Reg 651.1\""),
					"description": str("What it requires"),
				}),
			SectionRecommendations: strList("Recommendations, each a complete sentence"),
		},
	}
}
