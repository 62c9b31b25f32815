package inspect

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/gffarchive/gffarchive/internal/model"
)

type fakeDB struct {
	features map[string]*model.Feature
	children map[string][]string
}

func newFakeDB() *fakeDB {
	return &fakeDB{features: map[string]*model.Feature{}, children: map[string][]string{}}
}

func (db *fakeDB) add(id, ftype string, start, end int64, parent string) {
	f := model.NewFeature(model.DefaultGFF3Dialect())
	f.ID = id
	f.FeatureType = ftype
	f.Start = model.Number(start)
	f.End = model.Number(end)
	db.features[id] = f
	if parent != "" {
		db.children[parent] = append(db.children[parent], id)
	}
}

func (db *fakeDB) Feature(ctx context.Context, id string) (*model.Feature, error) {
	return db.features[id], nil
}

func (db *fakeDB) Children(ctx context.Context, id string, level int) ([]*model.Feature, error) {
	if level != 1 {
		return nil, nil
	}
	var out []*model.Feature
	for _, cid := range db.children[id] {
		out = append(out, db.features[cid])
	}
	return out, nil
}

func TestWriteTreeIncludesEveryDescendant(t *testing.T) {
	db := newFakeDB()
	db.add("gene1", "gene", 1, 1000, "")
	db.add("mRNA1", "mRNA", 1, 1000, "gene1")
	db.add("exon1", "exon", 1, 500, "mRNA1")
	db.add("exon2", "exon", 600, 1000, "mRNA1")

	var buf bytes.Buffer
	if err := WriteTree(context.Background(), &buf, db, "gene1"); err != nil {
		t.Fatalf("WriteTree failed: %v", err)
	}

	out := buf.String()
	for _, id := range []string{"gene1", "mRNA1", "exon1", "exon2"} {
		if !strings.Contains(out, id) {
			t.Errorf("expected tree output to mention %q, got:\n%s", id, out)
		}
	}
}

func TestWriteTreeOrdersChildrenByStart(t *testing.T) {
	db := newFakeDB()
	db.add("mRNA1", "mRNA", 1, 1000, "")
	db.add("exon2", "exon", 600, 1000, "mRNA1")
	db.add("exon1", "exon", 1, 500, "mRNA1")

	var buf bytes.Buffer
	if err := WriteTree(context.Background(), &buf, db, "mRNA1"); err != nil {
		t.Fatalf("WriteTree failed: %v", err)
	}

	out := buf.String()
	if strings.Index(out, "exon1") > strings.Index(out, "exon2") {
		t.Errorf("expected exon1 (lower start) before exon2, got:\n%s", out)
	}
}

func TestPadRightPadsShortStrings(t *testing.T) {
	if got := padRight("abc", 10); len(got) != 10 {
		t.Errorf("expected padded length 10, got %d (%q)", len(got), got)
	}
}

func TestPadRightLeavesLongStringsAlone(t *testing.T) {
	if got := padRight("a-very-long-identifier-string", 5); got != "a-very-long-identifier-string" {
		t.Errorf("expected no truncation, got %q", got)
	}
}
