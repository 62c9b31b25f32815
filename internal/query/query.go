// Package query implements the read-side surface over an ingested store:
// lookup by id, structural traversal, and coordinate-range search.
package query

import (
	"context"
	"fmt"

	"github.com/gffarchive/gffarchive/internal/model"
	"github.com/gffarchive/gffarchive/internal/store"
)

// Querier answers read-only questions against an ingested store under a
// fixed dialect (needed to rebuild attribute key order on scan).
type Querier struct {
	st      *store.Store
	dialect *model.Dialect
}

func New(st *store.Store, dialect *model.Dialect) *Querier {
	return &Querier{st: st, dialect: dialect}
}

// Feature returns the record with the given id.
func (q *Querier) Feature(ctx context.Context, id string) (*model.Feature, error) {
	return q.st.GetFeature(ctx, id, q.dialect)
}

// Children returns id's direct (level 1) or transitive-grandchild
// (level 2) children. level must be 1 or 2.
func (q *Querier) Children(ctx context.Context, id string, level int) ([]*model.Feature, error) {
	ids, err := q.st.Children(ctx, id, level)
	if err != nil {
		return nil, err
	}
	return q.resolveAll(ctx, ids)
}

// Parents returns id's direct (level 1) or transitive-grandparent
// (level 2) parents.
func (q *Querier) Parents(ctx context.Context, id string, level int) ([]*model.Feature, error) {
	ids, err := q.st.Parents(ctx, id, level)
	if err != nil {
		return nil, err
	}
	return q.resolveAll(ctx, ids)
}

// Relatives returns every feature reachable from id by following either
// children or parents edges up to level 2, per the "relatives" traversal:
// id's own level-1 and level-2 neighbours on the requested side, deduped.
func (q *Querier) Relatives(ctx context.Context, id string, direction string) ([]*model.Feature, error) {
	var level1, level2 []string
	var err error

	switch direction {
	case "children":
		level1, err = q.st.Children(ctx, id, 1)
		if err == nil {
			level2, err = q.st.Children(ctx, id, 2)
		}
	case "parents":
		level1, err = q.st.Parents(ctx, id, 1)
		if err == nil {
			level2, err = q.st.Parents(ctx, id, 2)
		}
	default:
		return nil, fmt.Errorf("query: unknown relatives direction %q", direction)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var ids []string
	for _, id := range append(level1, level2...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return q.resolveAll(ctx, ids)
}

func (q *Querier) resolveAll(ctx context.Context, ids []string) ([]*model.Feature, error) {
	out := make([]*model.Feature, 0, len(ids))
	for _, id := range ids {
		f, err := q.Feature(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", id, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// Region returns every feature on seqid overlapping [start, end]
// (1-based, inclusive on both ends), using the UCSC bin index to prune
// candidates before the exact coordinate check.
func (q *Querier) Region(ctx context.Context, seqid string, start, end int64, featureType string) ([]*model.Feature, error) {
	bins := model.OverlappingBins(start, end)
	if len(bins) == 0 {
		return nil, nil
	}

	placeholders := make([]interface{}, 0, len(bins)+3)
	query := `SELECT id, seqid, source, featuretype, start, end, score, strand, frame, attributes, extra, bin, line_number
		FROM features WHERE seqid = ? AND start <= ? AND end >= ? AND bin IN (`
	placeholders = append(placeholders, seqid, end, start)
	for i, b := range bins {
		if i > 0 {
			query += ","
		}
		query += "?"
		placeholders = append(placeholders, b)
	}
	query += ")"
	if featureType != "" {
		query += " AND featuretype = ?"
		placeholders = append(placeholders, featureType)
	}

	rows, err := q.st.DB().QueryContext(ctx, query, placeholders...)
	if err != nil {
		return nil, fmt.Errorf("querying region %s:%d-%d: %w", seqid, start, end, err)
	}
	defer rows.Close()

	var out []*model.Feature
	for rows.Next() {
		f, err := store.ScanFeatureRow(rows, q.dialect)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
