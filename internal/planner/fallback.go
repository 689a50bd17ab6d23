package planner

import "github.com/elecmate/maintenance-planner/internal/models"

const (
	DefaultProcedureStep = "Follow the relevant inspection and testing procedures in IET Guidance Note 3 and BS 7671 for this equipment."
	DefaultSafetyStep    = "Follow safe isolation procedures: isolate, lock off, prove dead with an approved voltage indicator and wear appropriate PPE before work."
)

// FallbackTasks is the minimal schedule used when the model returns none.
func FallbackTasks() []models.MaintenanceTask {
	return []models.MaintenanceTask{
		{
			Interval:                 "Every 6 months",
			Task:                     "Visual inspection",
			Description:              "General visual inspection of the equipment, enclosures, cables and terminations for damage, overheating or deterioration.",
			Priority:                 "high",
			Category:                 "inspection",
			EstimatedDurationMinutes: 30,
			EstimatedCost:            &models.CostRange{Min: 50, Max: 100},
			RequiredTools:            []string{"Torch", "Inspection checklist", "Camera for recording defects"},
			RequiredQualifications:   []string{"Competent person (EAWR 1989 Reg 16)"},
			Procedure: []string{
				"Check enclosures, covers and doors are secure and undamaged.",
				"Look for signs of overheating such as discolouration, scorching or a burning smell.",
				"Check cables and glands for damage, strain or exposed conductors.",
				"Confirm labels, circuit charts and warning notices are present and legible.",
				"Record defects and report anything dangerous immediately.",
			},
			SafetyPrecautions: []string{
				"Do not remove covers from live equipment.",
				"Keep a safe distance from exposed live parts and report them immediately.",
			},
			Regulation: "BS 7671:2018+A2:2022 Chapter 64; EAWR 1989 Reg 4(2)",
		},
		{
			Interval:                 "Annual",
			Task:                     "Periodic electrical testing",
			Description:              "Periodic inspection and testing of protective devices, continuity and insulation resistance.",
			Priority:                 "high",
			Category:                 "testing",
			EstimatedDurationMinutes: 120,
			EstimatedCost:            &models.CostRange{Min: 150, Max: 300},
			RequiredTools:            []string{"Multifunction tester (BS EN 61557)", "Approved voltage indicator and proving unit", "Lock-off kit"},
			RequiredQualifications:   []string{"Qualified electrician", "City & Guilds 2391 or equivalent inspection and testing qualification"},
			Procedure: []string{
				"Safely isolate the supply and prove dead before dead tests.",
				"Test continuity of protective conductors.",
				"Test insulation resistance between live conductors and earth.",
				"Re-energise and measure earth fault loop impedance.",
				"Test RCD operation and trip times.",
				"Record results on the appropriate schedule of test results.",
			},
			SafetyPrecautions: []string{
				DefaultSafetyStep,
				"Use GS38 compliant test leads and probes.",
			},
			Regulation: "BS 7671:2018+A2:2022 Chapters 64 and 65; EAWR 1989 Reg 4(2)",
		},
	}
}
