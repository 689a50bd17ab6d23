package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_NotAnObject(t *testing.T) {
	for _, raw := range []string{`[]`, `"plan"`, `42`, `null`} {
		_, _, err := Validate(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrInvalidAIResponse, raw)
		assert.Equal(t, CodeInvalidAIResponse, ErrorCode(err))
	}
}

func TestValidate_Malformed(t *testing.T) {
	_, _, err := Validate(json.RawMessage(`{"summary":`))
	assert.ErrorIs(t, err, ErrMalformedGeneration)
}

func TestValidate_EmptyObjectIsRepaired(t *testing.T) {
	plan, report, err := Validate(json.RawMessage(`{}`))
	require.NoError(t, err)

	assert.True(t, report.Partial)
	assert.Equal(t, []string{SectionPreWorkRequirements, SectionVisualInspection, SectionTestingProcedures}, report.MissingSections)
	assert.True(t, report.FallbackSchedule)

	require.Len(t, plan.MaintenanceSchedule, 2)
	assert.Equal(t, "Every 6 months", plan.MaintenanceSchedule[0].Interval)
	assert.Equal(t, "Annual", plan.MaintenanceSchedule[1].Interval)

	assert.NotNil(t, plan.PreWorkRequirements)
	assert.NotNil(t, plan.ServicingTasks)
	assert.NotNil(t, plan.CommonFaults)
	assert.NotNil(t, plan.RegulationReferences)
	assert.NotNil(t, plan.Recommendations)
	assert.NotNil(t, plan.EquipmentSummary)

	out, err := json.Marshal(plan)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "null")
}

func TestValidate_NullSections(t *testing.T) {
	raw := `{"summary":"ok","preWorkRequirements":null,"visualInspection":[{"checkpoint":"Enclosure"}],"testingProcedures":[{"testName":"IR"}],"maintenanceSchedule":null,"recommendations":null}`

	plan, report, err := Validate(json.RawMessage(raw))
	require.NoError(t, err)

	assert.True(t, report.Partial)
	assert.Equal(t, []string{SectionPreWorkRequirements}, report.MissingSections)
	assert.Empty(t, plan.PreWorkRequirements)
	assert.NotNil(t, plan.PreWorkRequirements)
	assert.Len(t, plan.MaintenanceSchedule, 2)
	assert.Equal(t, "ok", plan.Summary)
}

func TestValidate_CompletePlanNotPartial(t *testing.T) {
	raw := `{
		"summary": "Plan",
		"equipmentSummary": {"equipmentType": "consumer unit", "riskLevel": "high"},
		"preWorkRequirements": [{"requirement": "Safe isolation"}],
		"visualInspection": [{"checkpoint": "Enclosure"}],
		"testingProcedures": [{"testName": "RCD test"}],
		"maintenanceSchedule": [
			{"interval": "Quarterly", "taskName": "RCD test button", "priority": "medium", "estimatedDurationMinutes": 10,
			 "procedure": ["Press the test button on each RCD."], "safetyPrecautions": ["Warn occupants of power loss."]}
		],
		"recommendations": "Replace rewirable fuses."
	}`

	plan, report, err := Validate(json.RawMessage(raw))
	require.NoError(t, err)

	assert.False(t, report.Partial)
	assert.Equal(t, []string{}, report.MissingSections)
	assert.False(t, report.FallbackSchedule)
	require.Len(t, plan.MaintenanceSchedule, 1)
	assert.Equal(t, "RCD test button", plan.MaintenanceSchedule[0].Task)
	assert.Equal(t, []string{"Replace rewirable fuses."}, plan.Recommendations)
	assert.Equal(t, "high", plan.EquipmentSummary["riskLevel"])
}

func TestValidate_FiltersLeakedFragments(t *testing.T) {
	raw := `{"maintenanceSchedule": [{
		"task": "Thermal imaging",
		"procedure": ["Open the panel cover under permit.", "\"procedure\": [", "   ", "safetyPrecautions: [\"x\"]", "Scan all terminations."],
		"safetyPrecautions": ["", "\"safetyPrecautions\":{", "requiredTools: [camera]"]
	}]}`

	plan, report, err := Validate(json.RawMessage(raw))
	require.NoError(t, err)
	require.Len(t, plan.MaintenanceSchedule, 1)

	task := plan.MaintenanceSchedule[0]
	assert.Equal(t, []string{"Open the panel cover under permit.", "Scan all terminations."}, task.Procedure)
	assert.Equal(t, []string{DefaultSafetyStep}, task.SafetyPrecautions)
	assert.Equal(t, 4, report.FilteredEntries)
}

func TestValidate_ObjectStepsBecomeSentences(t *testing.T) {
	raw := `{"maintenanceSchedule": [{
		"task": "Isolation check",
		"procedure": [{"step": 1, "action": "Isolate the supply"}, "Check for dead", {"step": 3}],
		"safetyPrecautions": [{"precaution": "Wear PPE"}, {"note": "Lock off the isolator"}]
	}]}`

	plan, _, err := Validate(json.RawMessage(raw))
	require.NoError(t, err)
	require.Len(t, plan.MaintenanceSchedule, 1)

	task := plan.MaintenanceSchedule[0]
	assert.Equal(t, []string{"Isolate the supply", "Check for dead"}, task.Procedure)
	assert.Equal(t, []string{"Wear PPE", "Lock off the isolator"}, task.SafetyPrecautions)
	for _, s := range append(task.Procedure, task.SafetyPrecautions...) {
		assert.NotContains(t, s, "{")
	}
}

func TestValidate_FiltersAliasFragments(t *testing.T) {
	raw := `{"maintenanceSchedule": [{
		"task": "RCD test",
		"procedure": ["\"steps\": [", "Press the test button.", "checkpoint: {", "testName: \"RCD\""],
		"safetyPrecautions": ["safety: [", "\"precautions\": \"x\"", "Safety: keep the enclosure closed."]
	}]}`

	plan, report, err := Validate(json.RawMessage(raw))
	require.NoError(t, err)

	task := plan.MaintenanceSchedule[0]
	assert.Equal(t, []string{"Press the test button."}, task.Procedure)
	assert.Equal(t, []string{"Safety: keep the enclosure closed."}, task.SafetyPrecautions)
	assert.Equal(t, 5, report.FilteredEntries)
}

func TestValidate_StringWhereListExpected(t *testing.T) {
	raw := `{
		"preWorkRequirements": "Obtain permit to work",
		"visualInspection": {"checkpoint": "Cables"},
		"testingProcedures": ["Insulation resistance"],
		"maintenanceSchedule": [{"task": "Check", "procedure": "Inspect the enclosure.\nRecord findings.", "safetyPrecautions": "Isolate first."}]
	}`

	plan, report, err := Validate(json.RawMessage(raw))
	require.NoError(t, err)

	assert.False(t, report.Partial)
	assert.Equal(t, "Obtain permit to work", plan.PreWorkRequirements[0]["requirement"])
	assert.Equal(t, "Cables", plan.VisualInspection[0]["checkpoint"])
	assert.Equal(t, "Insulation resistance", plan.TestingProcedures[0]["testName"])
	assert.Equal(t, []string{"Inspect the enclosure.", "Record findings."}, plan.MaintenanceSchedule[0].Procedure)
	assert.Equal(t, []string{"Isolate first."}, plan.MaintenanceSchedule[0].SafetyPrecautions)
}

func TestIsLeakedFragment(t *testing.T) {
	leaked := []string{
		`"procedure": [`, `safetyPrecautions: x`, `  TASKNAME {`, `maintenanceSchedule:[`, `"estimatedCost":{"min":1}`,
		`"steps": [`, `safety: [`, `"precautions": "x"`, `requirement: {`, `"checkpoint":`, `testName: x`, `costMin: 5`,
	}
	for _, s := range leaked {
		assert.True(t, IsLeakedFragment(s), s)
	}

	clean := []string{
		"Isolate the supply.", "Check the procedure board is present.", "Safety glasses: wear at all times",
		"Test RCDs [monthly]", "Safety: wear insulated gloves", "Steps 1 to 3 need two people",
	}
	for _, s := range clean {
		assert.False(t, IsLeakedFragment(s), s)
	}
}

func TestFallbackTasks(t *testing.T) {
	tasks := FallbackTasks()
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, "high", task.Priority)
		assert.NotEmpty(t, task.Procedure)
		assert.NotEmpty(t, task.SafetyPrecautions)
		assert.NotEmpty(t, task.RequiredTools)
		assert.Contains(t, task.Regulation, "BS 7671")
		assert.Contains(t, task.Regulation, "EAWR 1989 Reg 4(2)")
		require.NotNil(t, task.EstimatedCost)
	}
	assert.Equal(t, "inspection", tasks[0].Category)
	assert.Equal(t, 30.0, tasks[0].EstimatedDurationMinutes)
	assert.Equal(t, "testing", tasks[1].Category)
	assert.Equal(t, 120.0, tasks[1].EstimatedDurationMinutes)
}
