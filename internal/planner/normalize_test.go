package planner

import (
	"testing"

	"github.com/elecmate/maintenance-planner/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTask_FieldPriority(t *testing.T) {
	tests := []struct {
		name     string
		entry    map[string]interface{}
		wantTask string
		wantDesc string
	}{
		{
			name:     "taskName wins over task",
			entry:    map[string]interface{}{"taskName": "RCD test", "task": "Test", "description": "Test all RCDs"},
			wantTask: "RCD test",
			wantDesc: "Test all RCDs",
		},
		{
			name:     "task only",
			entry:    map[string]interface{}{"task": "Torque check"},
			wantTask: "Torque check",
			wantDesc: "Torque check",
		},
		{
			name:     "description only",
			entry:    map[string]interface{}{"description": "Clean vents"},
			wantTask: "Clean vents",
			wantDesc: "Clean vents",
		},
		{
			name:     "blank values fall through",
			entry:    map[string]interface{}{"taskName": "  ", "title": "Visual check"},
			wantTask: "Visual check",
			wantDesc: "Visual check",
		},
		{
			name:     "nothing usable",
			entry:    map[string]interface{}{},
			wantTask: defaultTaskName,
			wantDesc: defaultTaskName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := NormalizeTask(tt.entry)
			assert.Equal(t, tt.wantTask, task.Task)
			assert.Equal(t, tt.wantDesc, task.Description)
		})
	}
}

func TestNormalizeTask_NumbersAndCosts(t *testing.T) {
	tests := []struct {
		name        string
		entry       map[string]interface{}
		wantMinutes float64
		wantCost    *models.CostRange
	}{
		{
			name:        "cost object",
			entry:       map[string]interface{}{"estimatedDurationMinutes": float64(45), "estimatedCost": map[string]interface{}{"min": float64(80), "max": float64(120)}},
			wantMinutes: 45,
			wantCost:    &models.CostRange{Min: 80, Max: 120},
		},
		{
			name:        "numeric strings and flat cost fields",
			entry:       map[string]interface{}{"duration": "30 minutes", "estimatedCostMin": "50", "estimatedCostMax": 90},
			wantMinutes: 30,
			wantCost:    &models.CostRange{Min: 50, Max: 90},
		},
		{
			name:        "hours and single cost",
			entry:       map[string]interface{}{"estimatedDuration": "2 hours", "cost": float64(200)},
			wantMinutes: 120,
			wantCost:    &models.CostRange{Min: 200, Max: 200},
		},
		{
			name:     "cost range string",
			entry:    map[string]interface{}{"estimatedCost": "£150-£300"},
			wantCost: &models.CostRange{Min: 150, Max: 300},
		},
		{
			name:     "swapped bounds",
			entry:    map[string]interface{}{"estimatedCost": map[string]interface{}{"min": "300", "max": "150"}},
			wantCost: &models.CostRange{Min: 150, Max: 300},
		},
		{
			name:  "no cost",
			entry: map[string]interface{}{"estimatedDurationMinutes": "soon"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := NormalizeTask(tt.entry)
			assert.Equal(t, tt.wantMinutes, task.EstimatedDurationMinutes)
			assert.Equal(t, tt.wantCost, task.EstimatedCost)
		})
	}
}

func TestNormalizeTask_ListsAndEnums(t *testing.T) {
	task := NormalizeTask(map[string]interface{}{
		"frequency":      "Every 6 months",
		"priority":       "Critical",
		"type":           "Testing",
		"tools":          []interface{}{"Multifunction tester", "", 3.0},
		"qualifications": "18th Edition",
		"steps":          []interface{}{"Isolate.", "Test."},
		"safety":         nil,
		"regulations":    []interface{}{"Reg 643.3", "Reg 411.3.3"},
	})

	assert.Equal(t, "Every 6 months", task.Interval)
	assert.Equal(t, "high", task.Priority)
	assert.Equal(t, "testing", task.Category)
	assert.Equal(t, []string{"Multifunction tester", "3"}, task.RequiredTools)
	assert.Equal(t, []string{"18th Edition"}, task.RequiredQualifications)
	assert.Equal(t, []string{"Isolate.", "Test."}, task.Procedure)
	assert.Equal(t, []string{}, task.SafetyPrecautions)
	assert.Equal(t, "Reg 643.3; Reg 411.3.3", task.Regulation)
}

func TestNormalizeTasks_YAMLShapes(t *testing.T) {
	tasks := NormalizeTasks([]map[string]interface{}{
		{"task": "Inspect", "estimatedDurationMinutes": 30, "estimatedCost": map[string]interface{}{"min": 40, "max": int64(60)}},
	})

	require.Len(t, tasks, 1)
	assert.Equal(t, 30.0, tasks[0].EstimatedDurationMinutes)
	assert.Equal(t, &models.CostRange{Min: 40, Max: 60}, tasks[0].EstimatedCost)
	assert.Equal(t, "medium", tasks[0].Priority)
	assert.Equal(t, defaultCategory, tasks[0].Category)
}
