package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gffarchive/gffarchive/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Validate checks the configuration file for required fields and
valid enum values (merge strategy, logging level/format) without
touching any input file or store.

Example:
  gffarchive validate --config gffarchive.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cmd.Printf("Config file: %s\n", configFile)
	cmd.Printf("Jobs found: %d\n\n", len(cfg.Jobs))

	if err := cfg.Validate(); err != nil {
		cmd.Printf("❌ %v\n", err)
		return fmt.Errorf("validation failed")
	}

	cmd.Println("✅ Configuration valid")
	return nil
}
