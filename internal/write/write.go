// Package write renders Feature records back to GFF3/GTF text, including
// the canonical gene-subtree ordering used when dumping a whole gene.
package write

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/gffarchive/gffarchive/internal/model"
	"github.com/gffarchive/gffarchive/internal/parser"
)

// Writer serialises Features to an underlying stream under a fixed
// dialect, optionally emitting a timestamped comment header first.
type Writer struct {
	w         io.Writer
	dialect   *model.Dialect
	wroteHead bool
}

func New(w io.Writer, dialect *model.Dialect) *Writer {
	return &Writer{w: w, dialect: dialect}
}

// WriteHeader emits a single timestamped comment line identifying the
// file as machine-generated, written at most once per Writer.
func (w *Writer) WriteHeader() error {
	if w.wroteHead {
		return nil
	}
	w.wroteHead = true
	timestamp := time.Now().UTC().Format("2006-01-02 15:04:05")
	_, err := fmt.Fprintf(w.w, "#GFF3 file (created by gffarchive on %s)\n", timestamp)
	return err
}

// WriteFeature renders one record on its own line.
func (w *Writer) WriteFeature(f *model.Feature) error {
	line, err := Render(f, w.dialect)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.w, line)
	return err
}

// WriteFeatures renders each record in order.
func (w *Writer) WriteFeatures(fs []*model.Feature) error {
	for _, f := range fs {
		if err := w.WriteFeature(f); err != nil {
			return err
		}
	}
	return nil
}

// Render produces the nine-column wire representation of f under
// dialect, re-encoding reserved characters in attribute values.
func Render(f *model.Feature, dialect *model.Dialect) (string, error) {
	cols := []string{
		orDot(f.Seqid),
		orDot(f.Source),
		orDot(f.FeatureType),
		f.Start.String(),
		f.End.String(),
		orDot(f.Score),
		orDot(f.Strand),
		orDot(f.Frame),
		renderAttributes(f.Attributes, dialect),
	}
	return strings.Join(cols, "\t"), nil
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}

func renderAttributes(attrs *model.Attributes, dialect *model.Dialect) string {
	if attrs == nil || attrs.Len() == 0 {
		return "."
	}

	var entries []string
	for _, key := range attrs.Keys() {
		values := attrs.Get(key)
		switch dialect.RepeatedKeys {
		case model.RepeatKey:
			for _, v := range values {
				entries = append(entries, fmt.Sprintf("%s \"%s\"", key, v))
			}
		default:
			encoded := make([]string, len(values))
			for i, v := range values {
				encoded[i] = parser.URLEncode(v)
			}
			entries = append(entries, fmt.Sprintf("%s=%s", key, strings.Join(encoded, ",")))
		}
	}

	sep := dialect.FieldSeparator
	if sep == "" {
		sep = ";"
	}
	joined := strings.Join(entries, sep)
	if dialect.Fmt == model.FormatGTF && !strings.HasSuffix(joined, ";") {
		joined += ";"
	}
	return joined
}

// ChildLister is the minimal structural traversal WriteGene needs,
// satisfied by *query.Querier.
type ChildLister interface {
	Feature(ctx context.Context, id string) (*model.Feature, error)
	Children(ctx context.Context, id string, level int) ([]*model.Feature, error)
}

// WriteGene renders one gene and its full subtree in the canonical
// order: the gene record, then each mRNA longest-exon-total first, each
// mRNA's exons sorted by start with the exon's own children interleaved,
// then any non-exonic mRNA children, then the gene's non-mRNA level-1
// children.
func (w *Writer) WriteGene(ctx context.Context, db ChildLister, geneID string) error {
	gene, err := db.Feature(ctx, geneID)
	if err != nil {
		return fmt.Errorf("loading gene %q: %w", geneID, err)
	}
	if err := w.WriteFeature(gene); err != nil {
		return err
	}

	children, err := db.Children(ctx, geneID, 1)
	if err != nil {
		return fmt.Errorf("listing children of %q: %w", geneID, err)
	}
	var mRNAs, nonMRNA []*model.Feature
	for _, c := range children {
		if c.FeatureType == "mRNA" {
			mRNAs = append(mRNAs, c)
		} else {
			nonMRNA = append(nonMRNA, c)
		}
	}

	type scored struct {
		f      *model.Feature
		length int64
	}
	ranked := make([]scored, 0, len(mRNAs))
	for _, m := range mRNAs {
		mChildren, err := db.Children(ctx, m.ID, 1)
		if err != nil {
			return fmt.Errorf("listing children of %q: %w", m.ID, err)
		}
		var total int64
		for _, e := range mChildren {
			if e.FeatureType == "exon" && e.Start.Present && e.End.Present {
				total += e.End.Value - e.Start.Value + 1
			}
		}
		ranked = append(ranked, scored{f: m, length: total})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].length > ranked[j].length })

	for _, r := range ranked {
		if err := w.WriteFeature(r.f); err != nil {
			return err
		}
		if err := w.writeMRNAChildren(ctx, db, r.f.ID); err != nil {
			return err
		}
	}

	for _, c := range nonMRNA {
		if err := w.WriteFeature(c); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeMRNAChildren(ctx context.Context, db ChildLister, mRNAID string) error {
	children, err := db.Children(ctx, mRNAID, 1)
	if err != nil {
		return fmt.Errorf("listing children of %q: %w", mRNAID, err)
	}

	var exons, rest []*model.Feature
	for _, c := range children {
		if c.FeatureType == "exon" {
			exons = append(exons, c)
		} else {
			rest = append(rest, c)
		}
	}
	sort.SliceStable(exons, func(i, j int) bool {
		return exons[i].Start.Value < exons[j].Start.Value
	})

	for _, exon := range exons {
		if err := w.WriteFeature(exon); err != nil {
			return err
		}
		exonChildren, err := db.Children(ctx, exon.ID, 1)
		if err != nil {
			return fmt.Errorf("listing children of %q: %w", exon.ID, err)
		}
		if err := w.WriteFeatures(exonChildren); err != nil {
			return err
		}
	}
	return w.WriteFeatures(rest)
}
