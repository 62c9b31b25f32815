package cmd

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gffarchive/gffarchive/internal/model"
	"github.com/gffarchive/gffarchive/internal/store"
)

func TestDialectFromMetaDefaultsWhenAbsent(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, ":memory:", false)
	require.NoError(t, err)
	defer st.Close()

	dialect, err := dialectFromMeta(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, model.FormatGFF3, dialect.Fmt)
}

func TestDialectFromMetaRoundTripsFullDescriptor(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, ":memory:", false)
	require.NoError(t, err)
	defer st.Close()

	want := model.DefaultGTFDialect()
	want.Order = []string{"gene_id", "transcript_id", "exon_number"}

	encoded, err := json.Marshal(want)
	require.NoError(t, err)
	require.NoError(t, st.SetMeta(ctx, "dialect", string(encoded)))

	got, err := dialectFromMeta(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, want.Fmt, got.Fmt)
	assert.Equal(t, want.FieldSeparator, got.FieldSeparator)
	assert.Equal(t, want.KeyValSeparator, got.KeyValSeparator)
	assert.Equal(t, want.Quoted, got.Quoted)
	assert.Equal(t, want.RepeatedKeys, got.RepeatedKeys)
	assert.Equal(t, want.Order, got.Order, "attribute order must survive the round trip for deterministic cross-process output")
}

func TestDialectFromMetaFallsBackOnBareFormatString(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, ":memory:", false)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.SetMeta(ctx, "dialect", "gtf"))

	dialect, err := dialectFromMeta(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, model.FormatGTF, dialect.Fmt)
}

func TestRegionCommandStructure(t *testing.T) {
	assert.NotNil(t, regionCmd)
	assert.Contains(t, regionCmd.Use, "region")
	assert.NotNil(t, regionCmd.RunE)
}
