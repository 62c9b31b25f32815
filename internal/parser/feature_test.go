package parser

import (
	"testing"

	"github.com/gffarchive/gffarchive/internal/model"
)

func TestBuildFeatureBasicGFF3(t *testing.T) {
	tok, err := ClassifyAndSplit("chr1\tsrc\tgene\t100\t200\t.\t+\t.\tID=gene1;Name=abc1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dialect := model.DefaultGFF3Dialect()
	f, warnings := BuildFeature(tok, dialect, 1)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	if f.Seqid != "chr1" || f.FeatureType != "gene" {
		t.Errorf("unexpected seqid/type: %q %q", f.Seqid, f.FeatureType)
	}
	if !f.Start.Present || f.Start.Value != 100 {
		t.Errorf("unexpected start: %+v", f.Start)
	}
	if !f.End.Present || f.End.Value != 200 {
		t.Errorf("unexpected end: %+v", f.End)
	}
	if v, _ := f.Attributes.First("ID"); v != "gene1" {
		t.Errorf("expected ID=gene1, got %q", v)
	}
	if f.Bin != model.Bin(100, 200) {
		t.Errorf("expected bin recomputed from coordinates")
	}
}

func TestBuildFeatureEmptyColumnsDefaultToDot(t *testing.T) {
	tok, err := ClassifyAndSplit("\t\t\t\t\t\t\t\t", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dialect := model.DefaultGFF3Dialect()
	f, _ := BuildFeature(tok, dialect, 1)

	if f.Seqid != "." || f.Source != "." || f.FeatureType != "." {
		t.Errorf("expected dot defaults for empty columns, got %q %q %q", f.Seqid, f.Source, f.FeatureType)
	}
	if f.Start.Present || f.End.Present {
		t.Error("expected absent coordinates for empty columns")
	}
}

func TestBuildFeatureDotColumn9SkipsAttributeParse(t *testing.T) {
	tok, err := ClassifyAndSplit("chr1\tsrc\tgene\t100\t200\t.\t+\t.\t.", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, warnings := BuildFeature(tok, model.DefaultGFF3Dialect(), 1)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if f.Attributes.Len() != 0 {
		t.Errorf("expected no attributes for dot column 9, got %d", f.Attributes.Len())
	}
}

func TestBuildFeatureRecordsLineNumber(t *testing.T) {
	tok, _ := ClassifyAndSplit("chr1\tsrc\tgene\t100\t200\t.\t+\t.\tID=gene1", 42)
	f, _ := BuildFeature(tok, model.DefaultGFF3Dialect(), 42)
	if f.LineNumber != 42 {
		t.Errorf("expected line number 42, got %d", f.LineNumber)
	}
}
