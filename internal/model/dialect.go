// Package model holds the normalised in-memory representation of GFF3 and
// GTF annotation records shared by the parser, ingestion drivers, and
// store.
package model

// Format names the two column-9 dialects this module understands.
type Format string

const (
	FormatGFF3 Format = "gff3"
	FormatGTF  Format = "gtf"
)

// RepeatedKeysPolicy describes how a dialect represents multiple values for
// the same attribute key.
type RepeatedKeysPolicy string

const (
	// RepeatCommaWithinEntry is GFF3's style: key=v1,v2,v3
	RepeatCommaWithinEntry RepeatedKeysPolicy = "comma"
	// RepeatKey is GTF's style: key "v1"; key "v2";
	RepeatKey RepeatedKeysPolicy = "repeat-key"
)

// Dialect is the elected configuration controlling parsing and emission of
// column 9. Records hold a reference to a Dialect rather than a copy so
// that all features parsed from one input share identical settings.
type Dialect struct {
	Fmt              Format
	FieldSeparator   string
	KeyValSeparator  string
	Quoted           bool
	RepeatedKeys     RepeatedKeysPolicy
	Order            []string
}

// DefaultGFF3Dialect is the canonical GFF3 descriptor used when sniffing is
// bypassed via force_gff.
func DefaultGFF3Dialect() *Dialect {
	return &Dialect{
		Fmt:             FormatGFF3,
		FieldSeparator:  ";",
		KeyValSeparator: "=",
		Quoted:          false,
		RepeatedKeys:    RepeatCommaWithinEntry,
	}
}

// DefaultGTFDialect is the canonical GTF descriptor.
func DefaultGTFDialect() *Dialect {
	return &Dialect{
		Fmt:             FormatGTF,
		FieldSeparator:  "; ",
		KeyValSeparator: " ",
		Quoted:          true,
		RepeatedKeys:    RepeatKey,
	}
}

// Equal reports whether two dialects describe the same parse/emit
// configuration (Order is insertion-order metadata and is ignored).
func (d *Dialect) Equal(o *Dialect) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.Fmt == o.Fmt &&
		d.FieldSeparator == o.FieldSeparator &&
		d.KeyValSeparator == o.KeyValSeparator &&
		d.Quoted == o.Quoted &&
		d.RepeatedKeys == o.RepeatedKeys
}
