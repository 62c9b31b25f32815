package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gffarchive/gffarchive/internal/config"
	"github.com/gffarchive/gffarchive/internal/inspect"
	"github.com/gffarchive/gffarchive/internal/query"
	"github.com/gffarchive/gffarchive/internal/store"
)

var inspectJob string

var inspectCmd = &cobra.Command{
	Use:   "inspect <feature-id>",
	Short: "Print a feature's descendant tree",
	Long: `Inspect loads a feature by id and prints it, and every feature
reachable from it via level-1 relation edges, as a colorized ASCII
ancestry tree.

Example:
  gffarchive inspect --job ingest_annotations gene1`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectJob, "job", "j", "",
		"Job name from configuration file (required, selects the store to query)")
	inspectCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	featureID := args[0]

	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	job, err := cfg.GetJob(inspectJob)
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := store.Open(ctx, job.Dbfn, false)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	dialect, err := dialectFromMeta(ctx, st)
	if err != nil {
		return err
	}

	q := query.New(st, dialect)
	return inspect.WriteTree(ctx, os.Stdout, q, featureID)
}
