// Package inspect renders a feature's descendant tree as a colorized
// ASCII diagram, the read-side analogue of gffutils' children_bfs used
// interactively to eyeball a gene model's shape.
package inspect

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/gffarchive/gffarchive/internal/model"
)

// ChildLister is the minimal structural query surface a tree walk needs,
// satisfied by *query.Querier.
type ChildLister interface {
	Feature(ctx context.Context, id string) (*model.Feature, error)
	Children(ctx context.Context, id string, level int) ([]*model.Feature, error)
}

// typeColor assigns a consistent color per feature type, falling back to
// plain text for types it doesn't recognise.
var typeColor = map[string]color.Color{
	"gene":       color.FgGreen,
	"mRNA":       color.FgCyan,
	"transcript": color.FgCyan,
	"exon":       color.FgYellow,
	"CDS":        color.FgMagenta,
}

// WriteTree renders rootID and every descendant reachable via level-1
// relation edges, depth-first, using the conventional box-drawing
// ancestry-tree glyphs (├──, └──, │).
func WriteTree(ctx context.Context, w io.Writer, db ChildLister, rootID string) error {
	root, err := db.Feature(ctx, rootID)
	if err != nil {
		return fmt.Errorf("loading %q: %w", rootID, err)
	}
	fmt.Fprintln(w, label(root))
	return writeChildren(ctx, w, db, rootID, "")
}

func writeChildren(ctx context.Context, w io.Writer, db ChildLister, parentID, prefix string) error {
	children, err := db.Children(ctx, parentID, 1)
	if err != nil {
		return fmt.Errorf("listing children of %q: %w", parentID, err)
	}
	sort.SliceStable(children, func(i, j int) bool {
		if children[i].Start.Value != children[j].Start.Value {
			return children[i].Start.Value < children[j].Start.Value
		}
		return children[i].ID < children[j].ID
	})

	for i, c := range children {
		last := i == len(children)-1
		connector := "├── "
		nextPrefix := prefix + "│   "
		if last {
			connector = "└── "
			nextPrefix = prefix + "    "
		}
		fmt.Fprintln(w, prefix+connector+label(c))
		if err := writeChildren(ctx, w, db, c.ID, nextPrefix); err != nil {
			return err
		}
	}
	return nil
}

// label formats one tree line: colored feature type, id, and coordinates
// when present, padded to a consistent visual width across sibling rows.
func label(f *model.Feature) string {
	coords := "."
	if f.Start.Present && f.End.Present {
		coords = fmt.Sprintf("%d-%d", f.Start.Value, f.End.Value)
	}
	kind := f.FeatureType
	if c, ok := typeColor[kind]; ok {
		kind = c.Render(kind)
	}
	return fmt.Sprintf("%s %s [%s]", kind, padRight(f.ID, 20), coords)
}

// padRight pads s with spaces to at least width visual columns, using
// go-runewidth so box-drawing and any wide characters in an attribute
// value align correctly in a monospaced terminal.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
