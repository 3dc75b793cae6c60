package source_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapcheck/internal/source"
	"github.com/leapstack-labs/leapcheck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover_Directory(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "b.csv", "x\n")
	testutil.WriteFile(t, dir, "a.csv", "x\n")
	testutil.WriteFile(t, dir, "notes.txt", "x\n")
	testutil.WriteFile(t, dir, filepath.Join("nested", "c.csv"), "x\n")

	inputs, err := source.Discover(context.Background(), dir, "", nil)
	require.NoError(t, err)

	var names []string
	for _, in := range inputs {
		assert.True(t, in.Local)
		names = append(names, in.Name)
	}
	assert.Equal(t, []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "nested", "c.csv"),
	}, names)
}

func TestDiscover_Pattern(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "pricing_2024.csv", "x\n")
	testutil.WriteFile(t, dir, "costs.csv", "x\n")

	inputs, err := source.Discover(context.Background(), dir, "pricing_*.csv", nil)
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, filepath.Join(dir, "pricing_2024.csv"), inputs[0].Name)

	_, err = source.Discover(context.Background(), dir, "[", nil)
	assert.Error(t, err)
}

func TestDiscover_SingleFile(t *testing.T) {
	dir := t.TempDir()
	p := testutil.WriteFile(t, dir, "one.csv", "a\n1\n")

	inputs, err := source.Discover(context.Background(), p, "", nil)
	require.NoError(t, err)
	require.Len(t, inputs, 1)

	rc, err := inputs[0].Open(context.Background())
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(data))
}

func TestDiscover_MissingPathIsSingleInput(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	inputs, err := source.Discover(context.Background(), missing, "", nil)
	require.NoError(t, err)
	require.Len(t, inputs, 1)

	_, err = inputs[0].Open(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_RemoteWithoutStore(t *testing.T) {
	_, err := source.Discover(context.Background(), "s3://bucket/data/", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "object_store is not configured")
}

func TestParseURL(t *testing.T) {
	bucket, prefix, err := source.ParseURL("s3://pricing/2024/q1/")
	require.NoError(t, err)
	assert.Equal(t, "pricing", bucket)
	assert.Equal(t, "2024/q1/", prefix)

	_, _, err = source.ParseURL("s3:///nobucket")
	assert.Error(t, err)
	_, _, err = source.ParseURL("https://host/x")
	assert.Error(t, err)

	assert.True(t, source.IsRemote("s3://b/k.csv"))
	assert.False(t, source.IsRemote("data/k.csv"))
}

func TestNewObjectStore_RequiresEndpoint(t *testing.T) {
	_, err := source.NewObjectStore(source.ObjectStoreConfig{})
	require.Error(t, err)

	store, err := source.NewObjectStore(source.ObjectStoreConfig{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	assert.NotNil(t, store)
}
