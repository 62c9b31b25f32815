package model

import "fmt"

// NumberOrDot represents a column whose wire form is either a signed
// integer or the literal ".". Present distinguishes "unset" from "zero".
type NumberOrDot struct {
	Value   int64
	Present bool
}

func Number(v int64) NumberOrDot { return NumberOrDot{Value: v, Present: true} }

func (n NumberOrDot) String() string {
	if !n.Present {
		return "."
	}
	return fmt.Sprintf("%d", n.Value)
}

// Feature is the canonical normalised record, shared by GFF3 and GTF
// input after parsing.
type Feature struct {
	ID          string
	Seqid       string
	Source      string
	FeatureType string
	Start       NumberOrDot
	End         NumberOrDot
	Score       string
	Strand      string
	Frame       string
	Attributes  *Attributes
	Extra       []string
	Bin         uint32
	Dialect     *Dialect

	// LineNumber is the 1-based source line this record was parsed from,
	// used in duplicate-id and merge-conflict error messages. Zero for
	// synthesised records.
	LineNumber int
}

// NewFeature returns a Feature with all textual fields defaulted to "."
// and an empty attribute map, matching the "nine empty/dot columns parse
// to a default record" rule.
func NewFeature(dialect *Dialect) *Feature {
	return &Feature{
		Seqid:       ".",
		Source:      ".",
		FeatureType: ".",
		Score:       ".",
		Strand:      ".",
		Frame:       ".",
		Attributes:  NewAttributes(),
		Dialect:     dialect,
	}
}

// RecomputeBin sets Bin from Start/End using the UCSC binning scheme. A
// feature missing either coordinate bins as [0,0).
func (f *Feature) RecomputeBin() {
	start, end := int64(0), int64(0)
	if f.Start.Present {
		start = f.Start.Value
	}
	if f.End.Present {
		end = f.End.Value
	}
	f.Bin = Bin(start, end)
}

// Clone returns a deep copy sharing the Dialect pointer (dialects are
// immutable once elected) but owning independent Attributes and Extra.
func (f *Feature) Clone() *Feature {
	cp := *f
	cp.Attributes = f.Attributes.Clone()
	cp.Extra = append([]string(nil), f.Extra...)
	return &cp
}

// SameCoreFields reports whether every field except Attributes and Extra
// is identical, the comparison the "merge" collision policy requires
// before unioning attributes.
func (f *Feature) SameCoreFields(o *Feature) (mismatchField string, ok bool) {
	switch {
	case f.Seqid != o.Seqid:
		return "seqid", false
	case f.Source != o.Source:
		return "source", false
	case f.FeatureType != o.FeatureType:
		return "featuretype", false
	case f.Start != o.Start:
		return "start", false
	case f.End != o.End:
		return "end", false
	case f.Score != o.Score:
		return "score", false
	case f.Strand != o.Strand:
		return "strand", false
	case f.Frame != o.Frame:
		return "frame", false
	}
	return "", true
}
