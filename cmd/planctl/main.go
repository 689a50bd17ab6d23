// Package main is the planctl command line client for the maintenance planner.
package main

import (
	"fmt"
	"os"

	"github.com/elecmate/maintenance-planner/internal/config"
	"github.com/elecmate/maintenance-planner/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "Generate and inspect electrical maintenance plans",
	Long: `planctl runs the maintenance plan pipeline from the command line.

generate builds a plan for one piece of equipment using the configured
knowledge base and model. metrics recomputes cost, hours, risk and EICR
dates for an existing schedule without calling the model.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

// loadConfig reads the --config file when given, otherwise the default search path.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Ignoring .env: %v\n", err)
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	utils.InitLogger(cfg.LogLevel)
	// Logs go to stderr so stdout stays valid JSON.
	utils.GetLogger().SetOutput(os.Stderr)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
