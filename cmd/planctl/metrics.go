package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/elecmate/maintenance-planner/internal/metrics"
	"github.com/elecmate/maintenance-planner/internal/models"
	"github.com/elecmate/maintenance-planner/internal/planner"
	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics <schedule-file>",
	Short: "Recompute derived metrics for a maintenance schedule",
	Long: `metrics normalizes the tasks in a schedule file and prints the annual cost
estimate, total hours, risk score, compliance status and next EICR date.

The file may be a saved plan response, an object with maintenanceSchedule, or
a bare list of tasks. No model or database is contacted.`,
	Args: cobra.ExactArgs(1),
	RunE: runMetrics,
}

func init() {
	metricsCmd.Flags().String("building-type", "", "building type (overrides the file)")
	metricsCmd.Flags().Int("age", -1, "installation age in years (overrides the file)")
	metricsCmd.Flags().String("risk-level", "", "assessed risk level (overrides the file)")
	metricsCmd.Flags().String("criticality", "", "criticality used when no risk level is given")

	rootCmd.AddCommand(metricsCmd)
}

type metricsOutput struct {
	Tasks   int                    `json:"tasks"`
	Metrics metrics.DerivedMetrics `json:"metrics"`
}

func runMetrics(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	input, err := decodeSchedule(data)
	if err != nil {
		return err
	}
	applyMetricsFlags(cmd, input)

	age := -1
	if input.AgeYears != nil {
		age = int(*input.AgeYears)
	}

	tasks := planner.NormalizeTasks(input.MaintenanceSchedule)
	riskLevel := metrics.ResolveRiskLevel(input.RiskLevel, input.Criticality)
	derived := metrics.Compute(tasks, riskLevel, age, input.BuildingType, time.Now())

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(metricsOutput{Tasks: len(tasks), Metrics: derived})
}

func applyMetricsFlags(cmd *cobra.Command, input *scheduleInput) {
	if cmd.Flags().Changed("building-type") {
		input.BuildingType, _ = cmd.Flags().GetString("building-type")
	}
	if cmd.Flags().Changed("risk-level") {
		input.RiskLevel, _ = cmd.Flags().GetString("risk-level")
	}
	if cmd.Flags().Changed("criticality") {
		input.Criticality, _ = cmd.Flags().GetString("criticality")
	}
	if cmd.Flags().Changed("age") {
		age, _ := cmd.Flags().GetInt("age")
		if age < 0 {
			input.AgeYears = nil
			return
		}
		years := models.Years(age)
		input.AgeYears = &years
	}
}
