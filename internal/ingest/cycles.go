package ingest

import (
	"context"
	"fmt"

	"github.com/gffarchive/gffarchive/internal/graph"
	"github.com/gffarchive/gffarchive/internal/store"
)

// assertAcyclic loads every level-1 relation and fails fast if it forms a
// cycle, rather than letting a malformed "Parent" chain (or a GTF record
// whose transcript_id equals its own gene_id) silently corrupt the
// level-2 closure pass.
func assertAcyclic(ctx context.Context, st *store.Store) error {
	edges, err := level1Edges(ctx, st)
	if err != nil {
		return err
	}

	g := graph.NewGraph()
	for _, e := range edges {
		g.AddEdge(e.parent, e.child)
	}

	if err := g.Validate(); err != nil {
		return fmt.Errorf("relation graph is not acyclic: %w", err)
	}
	return nil
}
