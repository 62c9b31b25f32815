package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gffarchive/gffarchive/internal/config"
	"github.com/gffarchive/gffarchive/internal/model"
	"github.com/gffarchive/gffarchive/internal/query"
	"github.com/gffarchive/gffarchive/internal/store"
	"github.com/gffarchive/gffarchive/internal/write"
)

var (
	regionJob  string
	regionType string
)

var regionCmd = &cobra.Command{
	Use:   "region <seqid:start-end>",
	Short: "List features overlapping a coordinate range",
	Long: `Region queries a store's bin index for every feature on seqid
overlapping the inclusive [start, end] range, optionally filtered to one
feature type, and prints each as a feature line.

Example:
  gffarchive region --job ingest_annotations chr1:1000-5000
  gffarchive region --job ingest_annotations --type exon chr2:20000-25000`,
	Args: cobra.ExactArgs(1),
	RunE: runRegion,
}

func init() {
	regionCmd.Flags().StringVarP(&regionJob, "job", "j", "",
		"Job name from configuration file (required, selects the store to query)")
	regionCmd.MarkFlagRequired("job")
	regionCmd.Flags().StringVarP(&regionType, "type", "t", "",
		"Restrict results to one feature type")

	rootCmd.AddCommand(regionCmd)
}

func runRegion(cmd *cobra.Command, args []string) error {
	seqid, start, end, err := parseRegionArg(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	job, err := cfg.GetJob(regionJob)
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
	features, err := q.Region(ctx, seqid, start, end, regionType)
	if err != nil {
		return fmt.Errorf("querying region: %w", err)
	}

	for _, f := range features {
		line, err := write.Render(f, dialect)
		if err != nil {
			return err
		}
		fmt.Println(line)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d feature(s) in %s:%d-%d\n", len(features), seqid, start, end)
	return nil
}

// parseRegionArg parses "seqid:start-end" (1-based, inclusive).
func parseRegionArg(arg string) (seqid string, start, end int64, err error) {
	parts := strings.SplitN(arg, ":", 2)
	if len(parts) != 2 {
		return "", 0, 0, fmt.Errorf("invalid region %q: expected seqid:start-end", arg)
	}
	seqid = parts[0]

	coords := strings.SplitN(parts[1], "-", 2)
	if len(coords) != 2 {
		return "", 0, 0, fmt.Errorf("invalid region %q: expected start-end", arg)
	}
	start, err = strconv.ParseInt(coords[0], 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid start coordinate %q: %w", coords[0], err)
	}
	end, err = strconv.ParseInt(coords[1], 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid end coordinate %q: %w", coords[1], err)
	}
	return seqid, start, end, nil
}

// dialectFromMeta rebuilds the exact dialect a store was ingested under,
// including its recorded attribute Order, from the JSON descriptor written
// to meta at ingest finalisation. It falls back to a bare default dialect
// (Order: nil) when the store was never ingested, and to the default
// dialect matching the recorded format when meta holds a bare format
// string rather than a JSON descriptor. Otherwise a region/inspect
// call against an already-populated store always sees the same attribute
// order the ingesting process elected, not map iteration order.
func dialectFromMeta(ctx context.Context, st *store.Store) (*model.Dialect, error) {
	value, ok, err := st.Meta(ctx, "dialect")
	if err != nil {
		return nil, fmt.Errorf("reading store dialect: %w", err)
	}
	if !ok {
		return model.DefaultGFF3Dialect(), nil
	}

	var dialect model.Dialect
	if err := json.Unmarshal([]byte(value), &dialect); err != nil {
		// Pre-existing stores recorded only the bare format string;
		// fall back to the matching default dialect for those.
		if model.Format(value) == model.FormatGTF {
			return model.DefaultGTFDialect(), nil
		}
		return model.DefaultGFF3Dialect(), nil
	}
	return &dialect, nil
}
