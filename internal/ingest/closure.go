package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/gffarchive/gffarchive/internal/store"
)

// computeLevel2Closure derives grandparent/grandchild relations from the
// level-1 edges just written: for every path parent -(1)-> mid -(1)->
// child, record parent -(2)-> child (e.g. gene -> exon, skipping the
// intervening transcript).
//
// The self-join runs against a scratch copy of the level-1 edges rather
// than the live relations table: sqlite forbids a statement from
// observing rows inserted by a different connection's write transaction
// that is still in flight, and the scratch copy sidesteps reading and
// writing the same table within one pass entirely. The scratch file is
// always a fresh temp path, never fixed, so concurrent ingests never
// collide on it.
func computeLevel2Closure(ctx context.Context, st *store.Store) error {
	edges, err := level1Edges(ctx, st)
	if err != nil {
		return err
	}
	if len(edges) == 0 {
		return nil
	}

	scratchFile, err := os.CreateTemp("", "gffarchive-closure-*.sqlite")
	if err != nil {
		return fmt.Errorf("creating closure scratch file: %w", err)
	}
	scratchPath := scratchFile.Name()
	scratchFile.Close()
	defer os.Remove(scratchPath)

	scratch, err := store.Open(ctx, scratchPath, true)
	if err != nil {
		return fmt.Errorf("opening closure scratch store: %w", err)
	}
	defer scratch.Close()

	for _, e := range edges {
		if err := scratch.InsertRelation(ctx, e.parent, e.child, 1); err != nil {
			return fmt.Errorf("populating closure scratch store: %w", err)
		}
	}

	grandEdges, err := selfJoinEdges(ctx, scratch)
	if err != nil {
		return err
	}
	for _, e := range grandEdges {
		if err := st.InsertRelation(ctx, e.parent, e.child, 2); err != nil {
			return err
		}
	}
	return nil
}

type edge struct{ parent, child string }

func level1Edges(ctx context.Context, st *store.Store) ([]edge, error) {
	rows, err := st.DB().QueryContext(ctx, `SELECT parent, child FROM relations WHERE level = 1`)
	if err != nil {
		return nil, fmt.Errorf("reading level-1 relations: %w", err)
	}
	defer rows.Close()

	var out []edge
	for rows.Next() {
		var e edge
		if err := rows.Scan(&e.parent, &e.child); err != nil {
			return nil, fmt.Errorf("scanning level-1 relation: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func selfJoinEdges(ctx context.Context, scratch *store.Store) ([]edge, error) {
	rows, err := scratch.DB().QueryContext(ctx, `
		SELECT DISTINCT r1.parent, r2.child
		FROM relations r1
		JOIN relations r2 ON r1.child = r2.parent
		WHERE r1.level = 1 AND r2.level = 1
	`)
	if err != nil {
		return nil, fmt.Errorf("computing grandparent closure: %w", err)
	}
	defer rows.Close()

	var out []edge
	for rows.Next() {
		var e edge
		if err := rows.Scan(&e.parent, &e.child); err != nil {
			return nil, fmt.Errorf("scanning grandparent relation: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
