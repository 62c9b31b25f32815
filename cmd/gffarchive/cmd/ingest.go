package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gffarchive/gffarchive/internal/config"
	"github.com/gffarchive/gffarchive/internal/ident"
	"github.com/gffarchive/gffarchive/internal/ingest"
	"github.com/gffarchive/gffarchive/internal/logger"
	"github.com/gffarchive/gffarchive/internal/merge"
	"github.com/gffarchive/gffarchive/internal/store"
)

var ingestJob string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a GFF3 or GTF file into an embedded store",
	Long: `Ingest reads the job's input file, elects a dialect (unless forced),
synthesises feature ids per the job's id_spec, resolves duplicate-id
collisions per its merge strategy, and writes the resulting features and
their parent/child closure into an embedded SQLite store.

Example:
  gffarchive ingest --config gffarchive.yaml --job ingest_annotations`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestJob, "job", "j", "",
		"Job name from configuration file (required)")
	ingestCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	job, err := cfg.GetJob(ingestJob)
	if err != nil {
		return err
	}

	applyLogOverrides(&cfg.Logging.Level, &cfg.Logging.Format)
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()
	log = log.WithJob(ingestJob)

	log.Infow("starting ingestion", "data", job.Data, "dbfn", job.Dbfn)

	ctx := context.Background()

	st, err := store.Open(ctx, job.Dbfn, job.Force)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	transform, err := ingest.LookupTransform(job.Transform)
	if err != nil {
		return fmt.Errorf("resolving transform: %w", err)
	}

	it, err := ingest.NewIterator(ingest.Options{
		Data:              job.Data,
		FromString:        job.FromString,
		Checklines:        job.Checklines,
		ForceDialectCheck: job.ForceDialectCheck,
		ForceGFF:          job.ForceGFF,
		Transform:         transform,
	})
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}

	runCfg := ingest.Config{
		IDSpec:              ident.FromKey(job.IDSpecKey),
		MergeStrategy:       merge.Policy(job.MergeStrategy),
		DisableInferExtents: job.GTF.DisableInferExtents,
		GTFTranscriptKey:    job.GTF.TranscriptKeyOrDefault(),
		GTFGeneKey:          job.GTF.GeneKeyOrDefault(),
		GTFSubfeature:       job.GTF.SubfeatureOrDefault(),
	}

	start := time.Now()
	result, err := ingest.Run(ctx, st, it, runCfg)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	duration := time.Since(start)

	if result.Dialect != nil {
		encoded, err := json.Marshal(result.Dialect)
		if err != nil {
			return fmt.Errorf("encoding dialect: %w", err)
		}
		if err := st.SetMeta(ctx, "dialect", string(encoded)); err != nil {
			return fmt.Errorf("recording dialect: %w", err)
		}
	}
	if err := st.SetMeta(ctx, "version", Version); err != nil {
		return fmt.Errorf("recording version: %w", err)
	}

	fmt.Printf("\n=== Ingest Complete ===\n")
	fmt.Printf("Job: %s\n", ingestJob)
	fmt.Printf("Duration: %s\n", duration)
	fmt.Printf("Features written: %d\n", result.FeaturesWritten)
	if result.Dialect != nil {
		fmt.Printf("Dialect: %s\n", result.Dialect.Fmt)
	}
	if len(result.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Printf("  - %v\n", w)
			log.Warnw("ingestion warning", "error", w)
		}
	}

	return nil
}
