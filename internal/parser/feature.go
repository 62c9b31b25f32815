package parser

import (
	"strconv"

	"github.com/gffarchive/gffarchive/internal/model"
)

// BuildFeature converts classified tokens into a normalised Feature under
// the given dialect. lineNumber is recorded for later error messages.
// Attribute-parse warnings are returned but never drop the record.
func BuildFeature(tok *Tokens, dialect *model.Dialect, lineNumber int) (*model.Feature, []error) {
	f := model.NewFeature(dialect)
	f.LineNumber = lineNumber
	f.Extra = tok.Extra

	cols := tok.Fields
	if cols[0] != "" {
		f.Seqid = cols[0]
	}
	if cols[1] != "" {
		f.Source = cols[1]
	}
	if cols[2] != "" {
		f.FeatureType = cols[2]
	}
	f.Start = parseNumberOrDot(cols[3])
	f.End = parseNumberOrDot(cols[4])
	if cols[5] != "" {
		f.Score = cols[5]
	}
	if cols[6] != "" {
		f.Strand = cols[6]
	}
	if cols[7] != "" {
		f.Frame = cols[7]
	}

	var warnings []error
	if cols[8] != "" && cols[8] != "." {
		attrs, order, attrWarnings := ParseAttributes(cols[8], dialect)
		f.Attributes = attrs
		if len(dialect.Order) == 0 {
			dialect.Order = order
		}
		warnings = append(warnings, attrWarnings...)
	}

	f.RecomputeBin()
	return f, warnings
}

func parseNumberOrDot(s string) model.NumberOrDot {
	if s == "" || s == "." {
		return model.NumberOrDot{}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return model.NumberOrDot{}
	}
	return model.Number(v)
}
