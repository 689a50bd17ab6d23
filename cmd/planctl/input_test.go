package main

import (
	"testing"

	"github.com/elecmate/maintenance-planner/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDocumentYAMLRequest(t *testing.T) {
	data := []byte(`
query: Consumer unit in a rented flat
equipmentType: consumer_unit
ageYears: "12 years"
buildingType: domestic
criticality: high
detailLevel: full
`)

	var req models.MaintenanceRequest
	require.NoError(t, decodeDocument(data, &req))

	assert.Equal(t, "Consumer unit in a rented flat", req.Query)
	assert.Equal(t, "consumer_unit", req.EquipmentType)
	require.NotNil(t, req.AgeYears)
	assert.Equal(t, models.Years(12), *req.AgeYears)
	assert.Equal(t, "full", req.Detail())
}

func TestDecodeDocumentJSONRequest(t *testing.T) {
	data := []byte(`{"equipmentType": "distribution_board", "installationAge": 8}`)

	var req models.MaintenanceRequest
	require.NoError(t, decodeDocument(data, &req))

	assert.Equal(t, "distribution_board", req.EquipmentType)
	age, ok := req.Age()
	assert.True(t, ok)
	assert.Equal(t, 8, age)
}

func TestDecodeDocumentErrors(t *testing.T) {
	var req models.MaintenanceRequest
	assert.Error(t, decodeDocument([]byte(""), &req))
	assert.Error(t, decodeDocument([]byte("query: [unterminated"), &req))
}

func TestDecodeScheduleList(t *testing.T) {
	data := []byte(`
- taskName: Visual inspection
  frequency: Every 6 months
  duration: 30
- task: Insulation resistance test
  interval: Annual
`)

	input, err := decodeSchedule(data)
	require.NoError(t, err)
	assert.Len(t, input.MaintenanceSchedule, 2)
	assert.Nil(t, input.AgeYears)
}

func TestDecodeScheduleObject(t *testing.T) {
	data := []byte(`{
		"riskLevel": "high",
		"ageYears": 20,
		"buildingType": "commercial",
		"maintenanceSchedule": [{"task": "Thermal imaging", "interval": "Annual"}]
	}`)

	input, err := decodeSchedule(data)
	require.NoError(t, err)
	assert.Len(t, input.MaintenanceSchedule, 1)
	assert.Equal(t, "high", input.RiskLevel)
	assert.Equal(t, "commercial", input.BuildingType)
	require.NotNil(t, input.AgeYears)
	assert.Equal(t, models.Years(20), *input.AgeYears)
}

func TestDecodeScheduleSavedPlan(t *testing.T) {
	data := []byte(`{
		"success": true,
		"schedule": {
			"buildingType": "domestic",
			"ageYears": 5,
			"riskLevel": "low",
			"schedule": [{"task": "RCD test", "interval": "Quarterly"}]
		}
	}`)

	input, err := decodeSchedule(data)
	require.NoError(t, err)
	assert.Len(t, input.MaintenanceSchedule, 1)
	assert.Equal(t, "low", input.RiskLevel)
	assert.Equal(t, "domestic", input.BuildingType)
}

func TestDecodeScheduleEmpty(t *testing.T) {
	_, err := decodeSchedule([]byte(`{"riskLevel": "high"}`))
	assert.Error(t, err)
}
