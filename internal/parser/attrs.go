package parser

import (
	"strconv"
	"strings"

	"github.com/gffarchive/gffarchive/internal/model"
)

// AttributeParseWarning is reported when an attribute entry has no
// delimiter for the active dialect; the entry is dropped, not the whole
// record.
type AttributeParseWarning struct {
	Entry string
}

func (e *AttributeParseWarning) Error() string {
	return "could not parse attribute entry: " + strconv.Quote(e.Entry)
}

// ParseAttributes decodes column 9 under the given dialect, returning the
// ordered attribute map, the key order observed (for Dialect.Order), and
// any per-entry warnings.
func ParseAttributes(col9 string, d *model.Dialect) (*model.Attributes, []string, []error) {
	attrs := model.NewAttributes()
	var order []string
	var warnings []error

	sep := d.FieldSeparator
	if sep == "" {
		sep = ";"
	}
	entries := splitEntries(col9, sep)

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		var key string
		var values []string
		var err error

		switch d.Fmt {
		case model.FormatGTF:
			key, values, err = parseGTFEntry(entry)
		default:
			key, values, err = parseGFF3Entry(entry)
		}

		if err != nil {
			warnings = append(warnings, &AttributeParseWarning{Entry: entry})
			continue
		}

		if !attrs.Has(key) {
			order = append(order, key)
		}
		attrs.Set(key, append(attrs.Get(key), values...))
	}

	return attrs, order, warnings
}

// splitEntries splits column 9 on the dialect's field separator,
// tolerating GTF's "; " convention where the separator itself may carry
// trailing whitespace.
func splitEntries(col9, sep string) []string {
	trimmedSep := strings.TrimRight(sep, " ")
	if trimmedSep == "" {
		trimmedSep = sep
	}
	raw := strings.Split(col9, trimmedSep)
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}

func parseGFF3Entry(entry string) (string, []string, error) {
	idx := strings.Index(entry, "=")
	if idx < 0 {
		return "", nil, &AttributeParseWarning{Entry: entry}
	}
	key := entry[:idx]
	rawVal := entry[idx+1:]
	// Split on the literal "," byte before decoding: a comma that was part
	// of a value is escaped on the wire as "%2C", so it never appears as a
	// literal "," until after decoding.
	parts := splitUnescaped(rawVal, ',')
	values := make([]string, len(parts))
	for i, p := range parts {
		values[i] = URLDecode(p)
	}
	return key, values, nil
}

func parseGTFEntry(entry string) (string, []string, error) {
	idx := strings.IndexAny(entry, " \t")
	if idx < 0 {
		return "", nil, &AttributeParseWarning{Entry: entry}
	}
	key := entry[:idx]
	val := strings.TrimSpace(entry[idx+1:])
	val = unquote(val)
	return key, []string{val}, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// splitUnescaped splits s on every literal sep. Callers pass the raw,
// still percent-encoded value, so an escaped separator ("%2C") is not
// split on and only decodes to sep afterwards.
func splitUnescaped(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// reservedGFF3 lists characters that must be percent-encoded on emission
// within a GFF3 attribute value.
var reservedGFF3 = map[byte]bool{
	';': true, '=': true, ',': true, '\t': true, '\n': true, '\r': true, '%': true,
}

// URLDecode decodes %HH escapes for any byte, including control
// characters such as newline (%0A). Bytes that are not part of a valid
// %HH sequence pass through unchanged.
func URLDecode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, okHi := hexVal(s[i+1])
			lo, okLo := hexVal(s[i+2])
			if okHi && okLo {
				b.WriteByte(byte(hi<<4 | lo))
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func hexVal(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

// URLEncode percent-encodes the GFF3 reserved character set, leaving
// everything else (including high-bit bytes) untouched. This is the
// canonical realisation of "a lookup table with identity default".
func URLEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if reservedGFF3[c] {
			b.WriteByte('%')
			b.WriteByte(hexDigit(c >> 4))
			b.WriteByte(hexDigit(c & 0x0f))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + (n - 10)
}
