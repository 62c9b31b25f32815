package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gffarchive/gffarchive/internal/config"
)

var listJobsCmd = &cobra.Command{
	Use:   "list-jobs",
	Short: "List all jobs defined in configuration",
	Long: `List-jobs displays all ingestion jobs defined in the configuration
file along with their id synthesis and collision settings.

Example:
  gffarchive list-jobs --config gffarchive.yaml`,
	RunE: runListJobs,
}

func init() {
	rootCmd.AddCommand(listJobsCmd)
}

func runListJobs(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	jobNames := cfg.ListJobs()
	if len(jobNames) == 0 {
		cmd.Printf("No jobs defined in %s\n", configFile)
		return nil
	}
	sort.Strings(jobNames)

	cmd.Printf("Jobs defined in %s:\n\n", configFile)
	for i, jobName := range jobNames {
		job, err := cfg.GetJob(jobName)
		if err != nil {
			return fmt.Errorf("failed to get job %q: %w", jobName, err)
		}

		cmd.Printf("%d. %s\n", i+1, jobName)
		cmd.Printf("   Data:           %s\n", job.Data)
		cmd.Printf("   Store:          %s\n", job.Dbfn)
		cmd.Printf("   Id spec:        %s\n", orNone(job.IDSpecKey))
		cmd.Printf("   Merge strategy: %s\n", orDefault(job.MergeStrategy, "error"))
		if job.ForceGFF {
			cmd.Printf("   Force GFF3:     true\n")
		}
		if job.GTF.DisableInferExtents {
			cmd.Printf("   GTF extents:    disabled\n")
		}

		if i < len(jobNames)-1 {
			cmd.Println()
		}
	}

	cmd.Printf("\nTotal: %d job(s)\n", len(jobNames))
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none, auto-increment)"
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
