// Package parser tokenises raw GFF3/GTF lines into fields, classifies
// directive/comment/data lines, and decodes the column-9 attribute
// grammar for both dialects.
package parser

import (
	"fmt"
	"strings"
)

// LineKind classifies a raw input line.
type LineKind int

const (
	KindBlank LineKind = iota
	KindDirective
	KindComment
	KindData
)

// MalformedLineError is reported as a warning when a data line has fewer
// than nine tab-separated fields and is not uniformly blank/".".
type MalformedLineError struct {
	LineNumber int
	FieldCount int
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed line %d: expected at least 9 tab-separated fields, got %d", e.LineNumber, e.FieldCount)
}

// Tokens holds a classified line's payload.
type Tokens struct {
	Kind      LineKind
	Directive string   // set when Kind == KindDirective, includes leading "##"
	Fields    []string // the 9 standard GFF/GTF columns, set when Kind == KindData
	Extra     []string // trailing columns beyond the 9th
}

// ClassifyAndSplit tokenises one raw input line (with any trailing
// newline already stripped). lineNumber is 1-based and used only for the
// malformed-line error.
func ClassifyAndSplit(line string, lineNumber int) (*Tokens, error) {
	if strings.TrimSpace(line) == "" {
		return &Tokens{Kind: KindBlank}, nil
	}
	if strings.HasPrefix(line, "##") {
		return &Tokens{Kind: KindDirective, Directive: line}, nil
	}
	if strings.HasPrefix(line, "#") {
		return &Tokens{Kind: KindComment}, nil
	}

	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		if allBlankOrDot(fields) {
			padded := make([]string, 9)
			for i := range padded {
				padded[i] = ""
			}
			return &Tokens{Kind: KindData, Fields: padded}, nil
		}
		return nil, &MalformedLineError{LineNumber: lineNumber, FieldCount: len(fields)}
	}

	return &Tokens{
		Kind:   KindData,
		Fields: fields[:9],
		Extra:  append([]string(nil), fields[9:]...),
	}, nil
}

func allBlankOrDot(fields []string) bool {
	for _, f := range fields {
		if f != "" && f != "." {
			return false
		}
	}
	return true
}
