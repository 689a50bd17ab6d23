package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/elecmate/maintenance-planner/internal/app"
	"github.com/elecmate/maintenance-planner/internal/models"
	"github.com/elecmate/maintenance-planner/internal/planner"
	"github.com/elecmate/maintenance-planner/pkg/utils"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a maintenance plan for one piece of equipment",
	Long: `generate retrieves maintenance knowledge, asks the model for a structured
plan, validates it and prints the full plan response as JSON.

The request comes from --file (YAML or JSON with the same field names as the
HTTP API) and any flags given, which override file values.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("file", "", "request file (YAML or JSON)")
	generateCmd.Flags().String("query", "", "equipment description")
	generateCmd.Flags().String("equipment-type", "", "equipment type, e.g. consumer_unit")
	generateCmd.Flags().String("age", "", "installation age in years")
	generateCmd.Flags().String("building-type", "", "building type, e.g. domestic or commercial")
	generateCmd.Flags().String("environment", "", "operating environment")
	generateCmd.Flags().String("criticality", "", "criticality: low, medium, high or critical")
	generateCmd.Flags().String("location", "", "installation location")
	generateCmd.Flags().String("maintenance-type", "", "maintenance type")
	generateCmd.Flags().String("detail", "", "detail level: quick or full")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", planner.ErrInvalidRequest, err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := utils.GetLogger()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resp, err := application.Planner.GeneratePlan(ctx, utils.NewRequestID(), req)
	if err != nil {
		return fmt.Errorf("%s: %w", planner.ErrorCode(err), err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// requestFromFlags reads --file, if any, then applies the flags that were set.
func requestFromFlags(cmd *cobra.Command) (*models.MaintenanceRequest, error) {
	req := &models.MaintenanceRequest{}
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		if err := readDocument(path, req); err != nil {
			return nil, err
		}
	}

	overrides := map[string]*string{
		"query":            &req.Query,
		"equipment-type":   &req.EquipmentType,
		"building-type":    &req.BuildingType,
		"environment":      &req.Environment,
		"criticality":      &req.Criticality,
		"location":         &req.Location,
		"maintenance-type": &req.MaintenanceType,
		"detail":           &req.DetailLevel,
	}
	for name, field := range overrides {
		if cmd.Flags().Changed(name) {
			*field, _ = cmd.Flags().GetString(name)
		}
	}

	if cmd.Flags().Changed("age") {
		raw, _ := cmd.Flags().GetString("age")
		var age models.Years
		if err := json.Unmarshal([]byte(strconv.Quote(raw)), &age); err != nil {
			return nil, fmt.Errorf("invalid --age %q: %w", raw, err)
		}
		req.AgeYears = &age
	}

	return req, nil
}
