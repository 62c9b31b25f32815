package ingest

import (
	"context"

	"github.com/gffarchive/gffarchive/internal/model"
	"github.com/gffarchive/gffarchive/internal/store"
)

// emitGFFEdges records one level-1 relation per value of f's "Parent"
// attribute, per the GFF3 convention that a feature may declare multiple
// parents (e.g. an exon shared between splice variants).
func emitGFFEdges(ctx context.Context, st *store.Store, f *model.Feature) error {
	parents := f.Attributes.Get("Parent")
	for _, p := range parents {
		if p == "" {
			continue
		}
		if err := st.InsertRelation(ctx, p, f.ID, 1); err != nil {
			return err
		}
	}
	return nil
}
