// Package ingest implements the streaming ingestion pipeline: the lazy
// feature iterator, the GFF and GTF drivers, and the relation-closure
// second pass described by the ingestion specification.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gffarchive/gffarchive/internal/model"
	"github.com/gffarchive/gffarchive/internal/parser"
)

// TransformFunc rewrites a record's attributes before it is emitted by the
// iterator, e.g. to inject or rename keys.
type TransformFunc func(*model.Attributes) *model.Attributes

// Options configures NewIterator. Data is interpreted as a path (default), as
// literal text when FromString is true, or as a pre-materialised sequence
// of features when Features is non-nil — Data is then ignored.
type Options struct {
	Data                string
	Features            []*model.Feature
	FromString          bool
	Checklines          int
	Transform           TransformFunc
	ForceDialectCheck   bool
	ForceGFF            bool
	Dialect             *model.Dialect
}

// Iterator is a restartable-once source of feature records: Reset rewinds
// it to the beginning for a second pass over the same buffered input, but
// callers should not assume a third pass is cheap for very large inputs
// materialised from an external source channel.
type Iterator struct {
	opts       Options
	dialect    *model.Dialect
	directives []string
	warnings   []error

	rawLines   []string // fully buffered raw lines, used for file/string sources
	features   []*model.Feature
	pos        int
	lineNo     int
	fromSlice  bool
}

// NewIterator builds an Iterator, eagerly reading the source (file or
// literal text) into memory and electing a dialect via Sniff unless one
// was supplied or ForceGFF is set. Pre-materialised feature slices carry
// their own dialect per-record and are not sniffed.
func NewIterator(opts Options) (*Iterator, error) {
	it := &Iterator{opts: opts}

	if opts.Features != nil {
		it.fromSlice = true
		it.features = opts.Features
		if opts.Dialect != nil {
			it.dialect = opts.Dialect
		} else if len(opts.Features) > 0 {
			it.dialect = opts.Features[0].Dialect
		}
		return it, nil
	}

	lines, directives, err := readLines(opts.Data, opts.FromString)
	if err != nil {
		return nil, err
	}
	it.rawLines = lines
	it.directives = directives

	switch {
	case opts.Dialect != nil:
		it.dialect = opts.Dialect
	case opts.ForceGFF:
		it.dialect = model.DefaultGFF3Dialect()
	default:
		dataLines := dataLinesOnly(lines)
		it.dialect = parser.Sniff(dataLines, opts.Checklines)
	}

	return it, nil
}

func readLines(data string, fromString bool) (lines []string, directives []string, err error) {
	var r io.Reader
	if fromString {
		r = strings.NewReader(data)
	} else {
		f, err := os.Open(data)
		if err != nil {
			return nil, nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil, nil
}

func dataLinesOnly(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Dialect returns the dialect descriptor elected (or supplied) when
// NewIterator built the iterator.
func (it *Iterator) Dialect() *model.Dialect { return it.dialect }

// Directives returns the verbatim, order-preserving list of "##" pragma
// lines encountered.
func (it *Iterator) Directives() []string { return it.directives }

// Warnings returns every non-fatal issue accumulated so far.
func (it *Iterator) Warnings() []error { return it.warnings }

// Reset rewinds the iterator to its first record.
func (it *Iterator) Reset() {
	it.pos = 0
	it.lineNo = 0
}

// Next returns the next feature, or ok=false once the source is
// exhausted. Malformed lines and attribute-parse failures are recorded as
// warnings and skipped transparently (Next keeps advancing internally).
func (it *Iterator) Next() (*model.Feature, bool) {
	if it.fromSlice {
		if it.pos >= len(it.features) {
			return nil, false
		}
		f := it.features[it.pos]
		it.pos++
		return it.applyTransform(f), true
	}

	for it.pos < len(it.rawLines) {
		line := it.rawLines[it.pos]
		it.pos++
		it.lineNo++

		tok, err := parser.ClassifyAndSplit(line, it.lineNo)
		if err != nil {
			it.warnings = append(it.warnings, err)
			continue
		}
		if tok.Kind == parser.KindDirective {
			it.directives = append(it.directives, tok.Directive)
			continue
		}
		if tok.Kind != parser.KindData {
			continue
		}

		dialect := it.dialect
		if it.opts.ForceDialectCheck {
			trial := parser.Sniff([]string{line}, 1)
			if !trial.Equal(dialect) {
				it.warnings = append(it.warnings, fmt.Errorf("line %d: dialect disagreement, continuing with elected dialect", it.lineNo))
			}
		}

		f, warnings := parser.BuildFeature(tok, dialect, it.lineNo)
		for _, w := range warnings {
			it.warnings = append(it.warnings, fmt.Errorf("line %d: %w", it.lineNo, w))
		}
		return it.applyTransform(f), true
	}
	return nil, false
}

func (it *Iterator) applyTransform(f *model.Feature) *model.Feature {
	if it.opts.Transform == nil {
		return f
	}
	f.Attributes = it.opts.Transform(f.Attributes)
	return f
}
