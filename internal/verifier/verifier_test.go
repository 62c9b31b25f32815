package verifier

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gffarchive/gffarchive/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsNilStores(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = New(nil, db, MethodCount, nil)
	assert.Error(t, err)

	_, err = New(db, nil, MethodCount, nil)
	assert.Error(t, err)
}

func TestNew_DefaultsMethodAndLogger(t *testing.T) {
	left, _, _ := sqlmock.New()
	right, _, _ := sqlmock.New()
	defer left.Close()
	defer right.Close()

	v, err := New(left, right, "", nil)
	require.NoError(t, err)
	assert.Equal(t, MethodCount, v.GetMethod())
	assert.NotNil(t, v.logger)
}

func TestVerify_Skip(t *testing.T) {
	left, _, _ := sqlmock.New()
	right, _, _ := sqlmock.New()
	defer left.Close()
	defer right.Close()

	v, err := New(left, right, MethodSkip, logger.NewDefault())
	require.NoError(t, err)

	stats, err := v.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MethodSkip, stats.Method)
}

func TestVerify_ByCount_Match(t *testing.T) {
	left, leftMock, _ := sqlmock.New()
	right, rightMock, _ := sqlmock.New()
	defer left.Close()
	defer right.Close()

	leftMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM features").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	rightMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM features").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	leftMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM relations").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	rightMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM relations").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	v, err := New(left, right, MethodCount, logger.NewDefault())
	require.NoError(t, err)

	stats, err := v.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TablesFailed)
	assert.Equal(t, 2, stats.TablesPassed)
}

func TestVerify_ByCount_Mismatch(t *testing.T) {
	left, leftMock, _ := sqlmock.New()
	right, rightMock, _ := sqlmock.New()
	defer left.Close()
	defer right.Close()

	leftMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM features").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	rightMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM features").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	v, err := New(left, right, MethodCount, logger.NewDefault())
	require.NoError(t, err)

	_, err = v.Verify(context.Background())
	assert.Error(t, err)
}

func TestVerify_BySHA256_Match(t *testing.T) {
	left, leftMock, _ := sqlmock.New()
	right, rightMock, _ := sqlmock.New()
	defer left.Close()
	defer right.Close()

	cols := []string{"id", "seqid", "start", "end"}
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(cols).AddRow("gene1", "chr1", 1, 100)
	}

	leftMock.ExpectQuery("SELECT \\* FROM features ORDER BY id").WillReturnRows(row())
	rightMock.ExpectQuery("SELECT \\* FROM features ORDER BY id").WillReturnRows(row())
	leftMock.ExpectQuery("SELECT \\* FROM relations ORDER BY parent, child, level").
		WillReturnRows(sqlmock.NewRows([]string{"parent", "child", "level"}))
	rightMock.ExpectQuery("SELECT \\* FROM relations ORDER BY parent, child, level").
		WillReturnRows(sqlmock.NewRows([]string{"parent", "child", "level"}))

	v, err := New(left, right, MethodSHA256, logger.NewDefault())
	require.NoError(t, err)

	stats, err := v.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TablesFailed)
}

func TestVerify_BySHA256_Mismatch(t *testing.T) {
	left, leftMock, _ := sqlmock.New()
	right, rightMock, _ := sqlmock.New()
	defer left.Close()
	defer right.Close()

	cols := []string{"id", "seqid", "start", "end"}
	leftMock.ExpectQuery("SELECT \\* FROM features ORDER BY id").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("gene1", "chr1", 1, 100))
	rightMock.ExpectQuery("SELECT \\* FROM features ORDER BY id").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("gene1", "chr1", 1, 200))

	v, err := New(left, right, MethodSHA256, logger.NewDefault())
	require.NoError(t, err)

	_, err = v.Verify(context.Background())
	assert.Error(t, err)
}

func TestSerializeRow_Deterministic(t *testing.T) {
	cols := []string{"id", "start", "end"}
	a := serializeRow(cols, []interface{}{"gene1", int64(1), int64(100)})
	b := serializeRow(cols, []interface{}{"gene1", int64(1), int64(100)})
	assert.Equal(t, a, b)

	c := serializeRow(cols, []interface{}{"gene1", int64(1), int64(101)})
	assert.NotEqual(t, a, c)
}

func TestSetChunkSize_IgnoresNonPositive(t *testing.T) {
	left, _, _ := sqlmock.New()
	right, _, _ := sqlmock.New()
	defer left.Close()
	defer right.Close()

	v, _ := New(left, right, MethodCount, logger.NewDefault())
	v.SetChunkSize(50)
	assert.Equal(t, 50, v.chunkSize)

	v.SetChunkSize(-1)
	assert.Equal(t, 50, v.chunkSize, "non-positive chunk size should be ignored")
}
