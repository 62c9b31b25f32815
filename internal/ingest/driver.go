package ingest

import (
	"context"
	"fmt"

	"github.com/gffarchive/gffarchive/internal/config"
	"github.com/gffarchive/gffarchive/internal/ident"
	"github.com/gffarchive/gffarchive/internal/merge"
	"github.com/gffarchive/gffarchive/internal/model"
	"github.com/gffarchive/gffarchive/internal/store"
)

// Config controls one ingestion run against an already-open Store.
type Config struct {
	IDSpec              *ident.Spec
	MergeStrategy       merge.Policy
	DisableInferExtents bool // GTF only: skip transcript/gene extent synthesis

	// GTF-only knobs mirroring create_db's transcript_key/gene_key/
	// subfeature keyword arguments. Empty strings fall back to the
	// config package's documented defaults.
	GTFTranscriptKey string
	GTFGeneKey       string
	GTFSubfeature    string
}

func (c Config) gtfTranscriptKey() string {
	if c.GTFTranscriptKey == "" {
		return config.DefaultGTFTranscriptKey
	}
	return c.GTFTranscriptKey
}

func (c Config) gtfGeneKey() string {
	if c.GTFGeneKey == "" {
		return config.DefaultGTFGeneKey
	}
	return c.GTFGeneKey
}

func (c Config) gtfSubfeature() string {
	if c.GTFSubfeature == "" {
		return config.DefaultGTFSubfeature
	}
	return c.GTFSubfeature
}

// Result summarises one ingestion run, mirroring the counters a caller
// needs to report progress or drive the idempotence testable property.
type Result struct {
	FeaturesWritten int
	Warnings        []error
	Dialect         *model.Dialect
}

// Run drains it, resolving ids and collisions, persisting every feature
// and its first-order relations to st, then computing the level-2
// closure. The dialect elected by it determines whether GFF or GTF edge
// semantics apply.
func Run(ctx context.Context, st *store.Store, it *Iterator, cfg Config) (*Result, error) {
	if err := st.BeginBulkLoad(ctx); err != nil {
		return nil, err
	}
	defer st.EndBulkLoad(ctx)

	counters := ident.NewCounters()
	seen := make(map[string]*model.Feature)
	res := &Result{}

	for {
		f, ok := it.Next()
		if !ok {
			break
		}

		f.ID = ident.Resolve(f, cfg.IDSpec, counters)

		if existing, dup := seen[f.ID]; dup {
			outcome, err := merge.Resolve(cfg.MergeStrategy, existing, f, counters)
			if err != nil {
				return nil, fmt.Errorf("resolving collision on id %q: %w", f.ID, err)
			}
			if outcome.Warning != nil {
				res.Warnings = append(res.Warnings, outcome.Warning)
			}
			if outcome.Result == nil {
				continue
			}
			f = outcome.Result
		}
		seen[f.ID] = f

		if err := st.UpsertFeature(ctx, f); err != nil {
			return nil, err
		}
		res.FeaturesWritten++

		if err := emitFirstOrderEdges(ctx, st, f, cfg); err != nil {
			return nil, err
		}
	}
	res.Warnings = append(res.Warnings, it.Warnings()...)
	res.Dialect = it.Dialect()

	for ord, d := range it.Directives() {
		if err := st.AppendDirective(ctx, ord, d); err != nil {
			return nil, err
		}
	}

	if res.Dialect != nil && res.Dialect.Fmt == model.FormatGTF && !cfg.DisableInferExtents {
		if err := inferGTFExtents(ctx, st, seen, counters, cfg.MergeStrategy, res, cfg.gtfTranscriptKey(), cfg.gtfGeneKey(), cfg.gtfSubfeature()); err != nil {
			return nil, err
		}
	}

	if err := assertAcyclic(ctx, st); err != nil {
		return nil, err
	}

	if err := computeLevel2Closure(ctx, st); err != nil {
		return nil, err
	}

	if err := st.SaveCounters(ctx, counters.Snapshot()); err != nil {
		return nil, err
	}
	return res, nil
}

// emitFirstOrderEdges records the level-1 parent/child relations implied
// by f, dispatching on its dialect.
func emitFirstOrderEdges(ctx context.Context, st *store.Store, f *model.Feature, cfg Config) error {
	if f.Dialect != nil && f.Dialect.Fmt == model.FormatGTF {
		return emitGTFEdges(ctx, st, f, cfg.gtfTranscriptKey(), cfg.gtfGeneKey())
	}
	return emitGFFEdges(ctx, st, f)
}
