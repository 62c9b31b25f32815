// Package verifier provides data integrity verification for gffarchive,
// repurposed from row-count/hash table comparison into the idempotence
// check an ingestion pipeline needs: running the same input twice must
// produce byte-identical features and relations.
package verifier

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gffarchive/gffarchive/internal/logger"
)

// Method defines how to verify store integrity.
type Method string

const (
	// MethodCount uses simple row count comparison (fast).
	MethodCount Method = "count"
	// MethodSHA256 hashes every row, ordered by each table's key columns,
	// for an exact comparison.
	MethodSHA256 Method = "sha256"
	// MethodSkip skips verification entirely.
	MethodSkip Method = "skip"
)

// Result holds the verification outcome for one table.
type Result struct {
	Table        string
	Method       Method
	LeftCount    int64
	RightCount   int64
	LeftHash     string
	RightHash    string
	Match        bool
	ErrorMessage string
}

// Stats summarises verification across every table checked.
type Stats struct {
	TablesVerified int
	TablesPassed   int
	TablesFailed   int
	TotalRows      int64
	Method         Method
}

// tables lists the store tables compared, in a fixed, deterministic
// order so the overall verdict does not depend on map iteration.
var tables = []struct {
	name       string
	orderBy    string
	idempotent bool // relations/autoincrements can legitimately differ in row order but not content
}{
	{name: "features", orderBy: "id"},
	{name: "relations", orderBy: "parent, child, level"},
}

// Verifier compares two already-ingested stores (e.g. the same input
// ingested twice into separate databases) for the idempotence property.
type Verifier struct {
	left, right *sql.DB
	method      Method
	chunkSize   int
	logger      *logger.Logger
}

// New creates a Verifier comparing left against right.
func New(left, right *sql.DB, method Method, log *logger.Logger) (*Verifier, error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("verifier: both stores must be non-nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	if method == "" {
		method = MethodCount
	}
	return &Verifier{left: left, right: right, method: method, chunkSize: 1000, logger: log}, nil
}

// Verify runs the configured comparison across every table.
func (v *Verifier) Verify(ctx context.Context) (*Stats, error) {
	if v.method == MethodSkip {
		v.logger.Info("verification skipped (method=skip)")
		return &Stats{Method: MethodSkip}, nil
	}

	stats := &Stats{Method: v.method}

	for _, tbl := range tables {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("verification interrupted: %w", err)
		}

		var result *Result
		var err error
		switch v.method {
		case MethodCount:
			result, err = v.verifyByCount(ctx, tbl.name)
		case MethodSHA256:
			result, err = v.verifyBySHA256(ctx, tbl.name, tbl.orderBy)
		default:
			return stats, fmt.Errorf("unsupported verification method: %s", v.method)
		}
		if err != nil {
			return stats, fmt.Errorf("verification failed for table %s: %w", tbl.name, err)
		}

		stats.TablesVerified++
		stats.TotalRows += result.LeftCount
		if result.Match {
			stats.TablesPassed++
		} else {
			stats.TablesFailed++
			return stats, fmt.Errorf("verification mismatch in table %s: %s", tbl.name, result.ErrorMessage)
		}
	}

	v.logger.Infof("verification complete: %d tables verified, %d passed, %d failed, %d total rows",
		stats.TablesVerified, stats.TablesPassed, stats.TablesFailed, stats.TotalRows)
	return stats, nil
}

func (v *Verifier) verifyByCount(ctx context.Context, table string) (*Result, error) {
	var leftCount, rightCount int64
	if err := v.left.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&leftCount); err != nil {
		return nil, fmt.Errorf("counting left.%s: %w", table, err)
	}
	if err := v.right.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&rightCount); err != nil {
		return nil, fmt.Errorf("counting right.%s: %w", table, err)
	}

	result := &Result{Table: table, Method: MethodCount, LeftCount: leftCount, RightCount: rightCount, Match: leftCount == rightCount}
	if !result.Match {
		result.ErrorMessage = fmt.Sprintf("count mismatch: left=%d, right=%d", leftCount, rightCount)
	}
	return result, nil
}

func (v *Verifier) verifyBySHA256(ctx context.Context, table, orderBy string) (*Result, error) {
	leftHash, leftCount, err := v.computeTableHash(ctx, v.left, table, orderBy)
	if err != nil {
		return nil, fmt.Errorf("hashing left.%s: %w", table, err)
	}
	rightHash, rightCount, err := v.computeTableHash(ctx, v.right, table, orderBy)
	if err != nil {
		return nil, fmt.Errorf("hashing right.%s: %w", table, err)
	}

	result := &Result{
		Table: table, Method: MethodSHA256,
		LeftCount: leftCount, RightCount: rightCount,
		LeftHash: leftHash, RightHash: rightHash,
		Match: leftHash == rightHash && leftCount == rightCount,
	}
	if !result.Match {
		if leftCount != rightCount {
			result.ErrorMessage = fmt.Sprintf("count mismatch: left=%d, right=%d", leftCount, rightCount)
		} else {
			result.ErrorMessage = fmt.Sprintf("hash mismatch: left=%s, right=%s", leftHash[:16], rightHash[:16])
		}
	}
	return result, nil
}

func (v *Verifier) computeTableHash(ctx context.Context, db *sql.DB, table, orderBy string) (string, int64, error) {
	hasher := sha256.New()
	var totalRows int64

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY %s", table, orderBy))
	if err != nil {
		return "", 0, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", 0, fmt.Errorf("failed to get columns: %w", err)
	}

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return "", 0, fmt.Errorf("hash computation interrupted: %w", err)
		}

		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for j := range values {
			valuePtrs[j] = &values[j]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return "", 0, fmt.Errorf("failed to scan row: %w", err)
		}

		hasher.Write([]byte(serializeRow(columns, values)))
		hasher.Write([]byte("\n"))
		totalRows++
	}
	if err := rows.Err(); err != nil {
		return "", 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), totalRows, nil
}

// serializeRow converts a row to a deterministic string representation
// for hashing: col1=val1<NUL>col2=val2<NUL>...
func serializeRow(columns []string, values []interface{}) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		var valStr string
		switch val := values[i].(type) {
		case nil:
			valStr = "NULL"
		case []byte:
			valStr = string(val)
		case int64:
			valStr = fmt.Sprintf("%d", val)
		case float64:
			valStr = fmt.Sprintf("%f", val)
		case bool:
			valStr = fmt.Sprintf("%t", val)
		case string:
			valStr = val
		default:
			valStr = fmt.Sprintf("%v", val)
		}
		parts[i] = fmt.Sprintf("%s=%s", col, valStr)
	}
	return strings.Join(parts, "\x00")
}

// SetChunkSize is retained for interface parity with batch-oriented
// verifiers; this implementation hashes each table in one pass and does
// not currently chunk, so it only bounds future chunked variants.
func (v *Verifier) SetChunkSize(size int) {
	if size > 0 {
		v.chunkSize = size
	}
}

// GetMethod returns the configured verification method.
func (v *Verifier) GetMethod() Method { return v.method }
