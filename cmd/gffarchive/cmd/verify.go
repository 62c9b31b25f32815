package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gffarchive/gffarchive/internal/config"
	"github.com/gffarchive/gffarchive/internal/ident"
	"github.com/gffarchive/gffarchive/internal/ingest"
	"github.com/gffarchive/gffarchive/internal/logger"
	"github.com/gffarchive/gffarchive/internal/merge"
	"github.com/gffarchive/gffarchive/internal/store"
	"github.com/gffarchive/gffarchive/internal/verifier"
)

var (
	verifyJob    string
	verifyMethod string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that a job's input ingests idempotently",
	Long: `Verify re-ingests a job's input into a throwaway in-memory store and
compares it against the job's already-populated store, table by table.
A clean diff confirms the ingestion pipeline is idempotent for that
input: running it again would not change the store.

Example:
  gffarchive verify --job ingest_annotations --method sha256`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyJob, "job", "j", "",
		"Job name from configuration file (required)")
	verifyCmd.MarkFlagRequired("job")
	verifyCmd.Flags().StringVarP(&verifyMethod, "method", "m", string(verifier.MethodSHA256),
		"Verification method: count, sha256, or skip")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	job, err := cfg.GetJob(verifyJob)
	if err != nil {
		return err
	}

	applyLogOverrides(&cfg.Logging.Level, &cfg.Logging.Format)
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()
	log = log.WithJob(verifyJob)

	ctx := context.Background()

	onDisk, err := store.Open(ctx, job.Dbfn, false)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer onDisk.Close()

	shadow, err := store.Open(ctx, ":memory:", false)
	if err != nil {
		return fmt.Errorf("opening shadow store: %w", err)
	}
	defer shadow.Close()

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
	if _, err := ingest.Run(ctx, shadow, it, runCfg); err != nil {
		return fmt.Errorf("shadow re-ingest failed: %w", err)
	}

	v, err := verifier.New(onDisk.DB(), shadow.DB(), verifier.Method(verifyMethod), log)
	if err != nil {
		return fmt.Errorf("constructing verifier: %w", err)
	}
	stats, err := v.Verify(ctx)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	fmt.Printf("\n=== Verify Complete ===\n")
	fmt.Printf("Job: %s\n", verifyJob)
	fmt.Printf("Method: %s\n", stats.Method)
	fmt.Printf("Tables verified: %d (passed %d, failed %d)\n", stats.TablesVerified, stats.TablesPassed, stats.TablesFailed)
	fmt.Printf("Total rows: %d\n", stats.TotalRows)
	return nil
}
