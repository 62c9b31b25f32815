package parser

import (
	"strings"

	"github.com/gffarchive/gffarchive/internal/model"
)

// Sniff inspects up to checklines data lines and elects a dialect by
// scoring a trial GFF3 parse and a trial GTF parse of each line's column
// 9 on: (a) number of entries successfully parsed, (b) presence of
// quotation, (c) "=" vs space delimiter. Ties break toward GFF3.
func Sniff(dataLines []string, checklines int) *model.Dialect {
	n := len(dataLines)
	if checklines > 0 && checklines < n {
		n = checklines
	}

	gffScore, gtfScore := 0, 0
	for i := 0; i < n; i++ {
		col9 := column9(dataLines[i])
		if col9 == "" || col9 == "." {
			continue
		}
		gffScore += scoreGFF3(col9)
		gtfScore += scoreGTF(col9)
	}

	if gtfScore > gffScore {
		d := model.DefaultGTFDialect()
		return d
	}
	return model.DefaultGFF3Dialect()
}

func column9(line string) string {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return ""
	}
	return fields[8]
}

func scoreGFF3(col9 string) int {
	score := 0
	entries := splitEntries(col9, ";")
	for _, e := range entries {
		if strings.Contains(e, "=") && !strings.Contains(e, "\"") {
			score++
		}
	}
	return score
}

func scoreGTF(col9 string) int {
	score := 0
	entries := splitEntries(col9, "; ")
	for _, e := range entries {
		if strings.Contains(e, "\"") {
			score += 2
		} else if idx := strings.IndexAny(e, " \t"); idx > 0 && !strings.Contains(e[:idx], "=") {
			score++
		}
	}
	return score
}
