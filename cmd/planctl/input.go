package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/elecmate/maintenance-planner/internal/models"
	"go.yaml.in/yaml/v3"
)

// decodeDocument decodes YAML or JSON into v. YAML is converted to JSON
// first so the models' JSON decoding rules apply to both formats.
func decodeDocument(data []byte, v interface{}) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("document is empty")
	}

	bridged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert document: %w", err)
	}
	if err := json.Unmarshal(bridged, v); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

func readDocument(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return decodeDocument(data, v)
}

// scheduleInput is a saved plan or a bare schedule with the request context
// the metrics depend on.
type scheduleInput struct {
	MaintenanceSchedule []map[string]interface{} `json:"maintenanceSchedule"`
	RiskLevel           string                   `json:"riskLevel"`
	Criticality         string                   `json:"criticality"`
	AgeYears            *models.Years            `json:"ageYears"`
	BuildingType        string                   `json:"buildingType"`
}

// savedPlan is the shape of a plan response written by generate.
type savedPlan struct {
	Schedule struct {
		Tasks        []map[string]interface{} `json:"schedule"`
		RiskLevel    string                   `json:"riskLevel"`
		AgeYears     *models.Years            `json:"ageYears"`
		BuildingType string                   `json:"buildingType"`
	} `json:"schedule"`
}

// decodeSchedule accepts a list of tasks, an object holding
// maintenanceSchedule, or a saved plan response.
func decodeSchedule(data []byte) (*scheduleInput, error) {
	var tasks []map[string]interface{}
	if err := decodeDocument(data, &tasks); err == nil {
		return &scheduleInput{MaintenanceSchedule: tasks}, nil
	}

	var input scheduleInput
	if err := decodeDocument(data, &input); err != nil {
		return nil, err
	}
	if len(input.MaintenanceSchedule) > 0 {
		return &input, nil
	}

	var saved savedPlan
	if err := decodeDocument(data, &saved); err == nil && len(saved.Schedule.Tasks) > 0 {
		return &scheduleInput{
			MaintenanceSchedule: saved.Schedule.Tasks,
			RiskLevel:           saved.Schedule.RiskLevel,
			AgeYears:            saved.Schedule.AgeYears,
			BuildingType:        saved.Schedule.BuildingType,
		}, nil
	}
	return nil, fmt.Errorf("no maintenanceSchedule entries found")
}
