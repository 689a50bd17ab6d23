package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenanceRequest_AgeAliases(t *testing.T) {
	var req MaintenanceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"query":"consumer unit","installationAge":"12 years"}`), &req))
	age, ok := req.Age()
	assert.True(t, ok)
	assert.Equal(t, 12, age)

	require.NoError(t, json.Unmarshal([]byte(`{"query":"x","ageYears":7.6,"installationAge":2}`), &req))
	age, _ = req.Age()
	assert.Equal(t, 8, age, "ageYears wins over installationAge")
}

func TestMaintenanceRequest_RejectsAgeWithoutNumber(t *testing.T) {
	var req MaintenanceRequest
	err := json.Unmarshal([]byte(`{"query":"x","ageYears":"old"}`), &req)
	assert.Error(t, err)
}

func TestMaintenanceRequest_Validate(t *testing.T) {
	empty := MaintenanceRequest{}
	assert.Error(t, empty.Validate())

	typeOnly := MaintenanceRequest{EquipmentType: "domestic consumer unit"}
	assert.NoError(t, typeOnly.Validate())
	assert.Equal(t, "domestic consumer unit", typeOnly.Description())

	desc := MaintenanceRequest{EquipmentDescription: "  3-phase motor  "}
	assert.Equal(t, "3-phase motor", desc.Description())
}

func TestMaintenanceRequest_Detail(t *testing.T) {
	assert.Equal(t, DetailFull, (&MaintenanceRequest{DetailLevel: "FULL"}).Detail())
	assert.Equal(t, DetailQuick, (&MaintenanceRequest{DetailLevel: "verbose"}).Detail())
	assert.Equal(t, DetailQuick, (&MaintenanceRequest{}).Detail())
}

func TestStringArray_RoundTrip(t *testing.T) {
	in := StringArray{"preWorkRequirements", "visualInspection"}
	v, err := in.Value()
	require.NoError(t, err)

	var out StringArray
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)

	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)
}

func TestGenerationRecord_Validate(t *testing.T) {
	rec := &GenerationRecord{RequestID: "r1", Status: GenerationSucceeded}
	assert.NoError(t, rec.Validate())

	rec.Status = "pending"
	assert.Error(t, rec.Validate())

	rec = &GenerationRecord{Status: GenerationFailed}
	assert.Error(t, rec.Validate())
}
