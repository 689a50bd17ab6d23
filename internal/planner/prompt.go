package planner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/elecmate/maintenance-planner/internal/models"
)

const notSpecified = "Not specified"

// Prompt is everything the generator needs for one call.
type Prompt struct {
	System string
	User   string
	Schema *Schema
}

const systemPrompt = `You are a senior UK electrical maintenance engineer producing planned preventive maintenance schedules for electrical installations and equipment.

Work to BS 7671:2018+A2:2022 (IET Wiring Regulations), IET Guidance Note 3 (Inspection and Testing), the Electricity at Work Regulations 1989 and relevant BS EN equipment standards. Cite specific regulation numbers where you can.

OUTPUT CONTRACT:
- You MUST answer by calling the ` + PlanFunctionName + ` function. Never reply in free text.
- maintenanceSchedule MUST contain at least 2-4 tasks, each with an interval, duration in minutes, cost range in GBP, procedure and safety precautions.
- Populate preWorkRequirements, visualInspection and testingProcedures. Do not leave them empty.
- Intervals must be plain phrases such as "Every 6 months", "Annual", "Every 3 years", "Monthly".

ARRAY RULES:
- Every list item is one complete, standalone sentence.
- Never prefix a list item with a field name. Items such as "procedure: ..." or "safetyPrecautions: [" are invalid.
- Never put JSON, brackets or braces inside list items.`

const stricterSuffix = `

IMPORTANT: your previous answer was rejected because it did not call ` + PlanFunctionName + ` with valid JSON arguments. Call the function exactly once. Return only arguments that match the schema.`

// BuildPrompt renders the system contract and the user message for req
// with the assembled knowledge context.
func BuildPrompt(req *models.MaintenanceRequest, knowledgeContext string) Prompt {
	var b strings.Builder

	b.WriteString("Create a maintenance plan for the following equipment.\n\n")
	b.WriteString("EQUIPMENT DETAILS:\n")
	fmt.Fprintf(&b, "- Description: %s\n", orNotSpecified(req.Description()))
	fmt.Fprintf(&b, "- Equipment type: %s\n", orNotSpecified(req.EquipmentType))
	fmt.Fprintf(&b, "- Installation age: %s\n", ageText(req))
	fmt.Fprintf(&b, "- Maintenance type: %s\n", orNotSpecified(req.MaintenanceType))
	fmt.Fprintf(&b, "- Location: %s\n", orNotSpecified(req.Location))
	fmt.Fprintf(&b, "- Building type: %s\n", orNotSpecified(req.BuildingType))
	fmt.Fprintf(&b, "- Environment: %s\n", orNotSpecified(req.Environment))
	fmt.Fprintf(&b, "- Criticality: %s\n", orNotSpecified(req.Criticality))
	b.WriteString("\n")

	if req.Detail() == models.DetailFull {
		b.WriteString("DETAIL LEVEL: full. Give detailed step-by-step procedures, expected test values, common faults and documentation requirements.\n\n")
	} else {
		b.WriteString("DETAIL LEVEL: quick. Keep procedures concise but complete.\n\n")
	}

	b.WriteString("KNOWLEDGE BASE CONTEXT:\n")
	b.WriteString(knowledgeContext)
	b.WriteString("\n\n")
	b.WriteString("Use the context above where it applies. Call " + PlanFunctionName + " with arguments that follow the schema exactly.")

	return Prompt{
		System: systemPrompt,
		User:   b.String(),
		Schema: PlanSchema(),
	}
}

// Stricter returns the prompt used for a re-prompt after a rejected answer.
func (p Prompt) Stricter() Prompt {
	p.System += stricterSuffix
	return p
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}

func ageText(req *models.MaintenanceRequest) string {
	age, ok := req.Age()
	if !ok {
		return notSpecified
	}
	return strconv.Itoa(age) + " years"
}
