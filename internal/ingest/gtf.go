package ingest

import (
	"context"
	"fmt"

	"github.com/gffarchive/gffarchive/internal/ident"
	"github.com/gffarchive/gffarchive/internal/merge"
	"github.com/gffarchive/gffarchive/internal/model"
	"github.com/gffarchive/gffarchive/internal/store"
)

// derivedSource tags a feature synthesised by extent inference rather
// than read directly off an input line.
const derivedSource = "gffarchive_derived"

// emitGTFEdges records GTF's implicit two-level hierarchy: transcriptKey
// parents the record, geneKey parents the transcriptKey, and geneKey also
// parents the record directly at level 2 — unconditionally, since a
// standalone gene-level GTF line (gene_id present, no transcript_id) still
// needs a gene/feature edge even though pass 1 never sees a transcript to
// hang it off.
func emitGTFEdges(ctx context.Context, st *store.Store, f *model.Feature, transcriptKey, geneKey string) error {
	transcriptID, _ := f.Attributes.First(transcriptKey)
	geneID, _ := f.Attributes.First(geneKey)

	if transcriptID != "" && transcriptID != f.ID {
		if err := st.InsertRelation(ctx, transcriptID, f.ID, 1); err != nil {
			return err
		}
	}
	if geneID != "" && transcriptID != "" && geneID != transcriptID {
		if err := st.InsertRelation(ctx, geneID, transcriptID, 1); err != nil {
			return err
		}
	}
	if geneID != "" && geneID != f.ID {
		if err := st.InsertRelation(ctx, geneID, f.ID, 2); err != nil {
			return err
		}
	}
	return nil
}

// extent tracks the bounding box and consistency of a synthesised
// transcript or gene record while its children are aggregated.
type extent struct {
	seqid        string
	source       string
	strand       string
	start, end   int64
	haveCoords   bool
	seqidMixed   bool
	strandMixed  bool
	children     []string
}

// inferGTFExtents synthesises "transcript" and "gene" records from the
// subfeature-level records GTF actually carries (default "exon"; CDS,
// start_codon and UTR lines sharing the same transcript_id are excluded),
// aggregating each transcript's subfeatures and each gene's transcripts
// into a bounding interval. Synthesised records are written back through
// the merge collision policy so that an explicit transcript/gene line
// already present in the input wins any attribute conflict rather than
// being silently dropped.
func inferGTFExtents(ctx context.Context, st *store.Store, seen map[string]*model.Feature, counters *ident.Counters, policy merge.Policy, res *Result, transcriptKey, geneKey, subfeature string) error {
	transcripts := make(map[string]*extent)
	transcriptGene := make(map[string]string)

	for _, f := range seen {
		if f.FeatureType != subfeature {
			continue
		}
		transcriptID, _ := f.Attributes.First(transcriptKey)
		geneID, _ := f.Attributes.First(geneKey)
		if transcriptID == "" {
			continue
		}
		accumulate(transcripts, transcriptID, f)
		if geneID != "" {
			transcriptGene[transcriptID] = geneID
		}
	}

	if err := writeSynthesized(ctx, st, seen, counters, policy, res, "transcript", transcripts); err != nil {
		return err
	}

	// Gene extents aggregate their transcripts' already-computed bounding
	// boxes, not the raw exon records, so the gene spans exactly its
	// transcripts rather than double-counting shared exons.
	genes := make(map[string]*extent)
	for transcriptID, e := range transcripts {
		geneID, ok := transcriptGene[transcriptID]
		if !ok {
			continue
		}
		g, ok := genes[geneID]
		if !ok {
			g = &extent{seqid: e.seqid, source: e.source, strand: e.strand}
			genes[geneID] = g
		}
		if e.seqid != g.seqid {
			g.seqidMixed = true
		}
		if e.strand != g.strand {
			g.strandMixed = true
		}
		if e.haveCoords {
			if !g.haveCoords || e.start < g.start {
				g.start = e.start
			}
			if !g.haveCoords || e.end > g.end {
				g.end = e.end
			}
			g.haveCoords = true
		}
		g.children = append(g.children, transcriptID)
	}

	if err := writeSynthesized(ctx, st, seen, counters, policy, res, "gene", genes); err != nil {
		return err
	}
	return nil
}

func accumulate(index map[string]*extent, id string, f *model.Feature) {
	e, ok := index[id]
	if !ok {
		e = &extent{seqid: f.Seqid, source: f.Source, strand: f.Strand}
		index[id] = e
	}
	if f.Seqid != e.seqid {
		e.seqidMixed = true
	}
	if f.Strand != e.strand {
		e.strandMixed = true
	}
	if f.Start.Present {
		if !e.haveCoords || f.Start.Value < e.start {
			e.start = f.Start.Value
		}
	}
	if f.End.Present {
		if !e.haveCoords || f.End.Value > e.end {
			e.end = f.End.Value
		}
	}
	if f.Start.Present || f.End.Present {
		e.haveCoords = true
	}
	e.children = append(e.children, f.ID)
}

func writeSynthesized(ctx context.Context, st *store.Store, seen map[string]*model.Feature, counters *ident.Counters, policy merge.Policy, res *Result, featureType string, index map[string]*extent) error {
	for id, e := range index {
		f := model.NewFeature(nil)
		f.ID = id
		f.FeatureType = featureType
		f.Seqid = e.seqid
		f.Source = derivedSource
		f.Strand = e.strand
		if e.haveCoords {
			f.Start = model.Number(e.start)
			f.End = model.Number(e.end)
		}
		f.RecomputeBin()

		if e.seqidMixed {
			res.Warnings = append(res.Warnings, fmt.Errorf("synthesised %s %q spans inconsistent seqid among its children", featureType, id))
		}
		if e.strandMixed {
			res.Warnings = append(res.Warnings, fmt.Errorf("synthesised %s %q spans inconsistent strand among its children", featureType, id))
		}

		if existing, ok := seen[id]; ok {
			outcome, err := merge.Resolve(merge.PolicyMerge, existing, f, counters)
			if err != nil {
				return fmt.Errorf("merging synthesised %s %q with explicit record: %w", featureType, id, err)
			}
			if outcome.Result != nil {
				f = outcome.Result
			}
		}

		if err := st.UpsertFeature(ctx, f); err != nil {
			return err
		}
		seen[id] = f
		res.FeaturesWritten++

		for _, child := range e.children {
			if err := st.InsertRelation(ctx, id, child, 1); err != nil {
				return err
			}
		}
	}
	return nil
}
