package batch_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapcheck/internal/batch"
	"github.com/leapstack-labs/leapcheck/internal/source"
	"github.com/leapstack-labs/leapcheck/internal/testutil"
	"github.com/leapstack-labs/leapcheck/pkg/core"
	"github.com/leapstack-labs/leapcheck/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(testutil.PricingSchemaYAML))
	require.NoError(t, err)
	return s
}

func discover(t *testing.T, dir string) []source.Input {
	t.Helper()
	inputs, err := source.Discover(context.Background(), dir, "", nil)
	require.NoError(t, err)
	return inputs
}

func TestRunner_DeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 12; i++ {
		// every file has one bad price on its second row
		content := testutil.PricingHeader + "CA,a,1,\n" + fmt.Sprintf("NY,b,%d,\n", 200+i)
		testutil.WriteFile(t, dir, fmt.Sprintf("f%02d.csv", i), content)
	}
	inputs := discover(t, dir)

	var first []string
	for attempt := 0; attempt < 3; attempt++ {
		res, err := batch.New(loadSchema(t), batch.Options{Jobs: 4, Logger: testutil.NewTestLogger(t)}).Run(context.Background(), inputs)
		require.NoError(t, err)
		require.Len(t, res.Files, 12)
		require.Len(t, res.Messages, 12)

		var files []string
		for _, m := range res.Messages {
			files = append(files, m.File)
		}
		if first == nil {
			first = files
			continue
		}
		assert.Equal(t, first, files)
	}
	for i, f := range first {
		assert.Equal(t, filepath.Join(dir, fmt.Sprintf("f%02d.csv", i)), f)
	}
}

func TestRunner_IsolatedVersusSharedTrackers(t *testing.T) {
	dir := t.TempDir()
	row := "CA,a,1,\n"
	testutil.WriteFile(t, dir, "a.csv", testutil.PricingHeader+row)
	testutil.WriteFile(t, dir, "b.csv", testutil.PricingHeader+row)
	inputs := discover(t, dir)

	isolated, err := batch.New(loadSchema(t), batch.Options{Jobs: 2}).Run(context.Background(), inputs)
	require.NoError(t, err)
	assert.True(t, isolated.Passed())

	shared, err := batch.New(loadSchema(t), batch.Options{ShareTrackers: true}).Run(context.Background(), inputs)
	require.NoError(t, err)
	assert.False(t, shared.Passed())
	require.Len(t, shared.Messages, 1)
	assert.Equal(t,
		"Row 2: duplicate primary key (state=CA, source_name=a) first seen at row 2 in "+filepath.Join(dir, "a.csv"),
		shared.Messages[0].Message)
	assert.True(t, shared.Files[0].Passed)
	assert.False(t, shared.Files[1].Passed)
}

func TestRunner_MissingFileDoesNotStopBatch(t *testing.T) {
	dir := t.TempDir()
	good := testutil.WriteFile(t, dir, "good.csv", testutil.PricingHeader+"CA,a,1,2\n")
	missing := filepath.Join(dir, "missing.csv")

	res, err := batch.New(loadSchema(t), batch.Options{}).Run(context.Background(),
		[]source.Input{source.LocalFile(missing), source.LocalFile(good)})
	require.NoError(t, err)

	assert.False(t, res.Files[0].Passed)
	assert.True(t, res.Files[1].Passed)
	report := res.Report()
	assert.Equal(t, core.StatusFailed, report.Status)
	assert.Equal(t, "Input file not found: "+missing, report.Messages[0].Message)
}

func TestRunner_StrictAndFailFast(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "x.csv", "state,source_name,price,list_price,extra\nCA,a,500,,\nNY,b,600,,\n")
	inputs := discover(t, dir)

	res, err := batch.New(loadSchema(t), batch.Options{Strict: true, FailFast: true}).Run(context.Background(), inputs)
	require.NoError(t, err)
	report := res.Report()
	assert.Equal(t, 2, report.ErrorCount, "promoted extra-column warning plus the first bad row")
	assert.Zero(t, report.WarningCount)
}

func TestRunner_Cancelled(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.csv", testutil.PricingHeader+"CA,a,1,\n")
	testutil.WriteFile(t, dir, "b.csv", testutil.PricingHeader+"CA,a,1,\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := batch.New(loadSchema(t), batch.Options{Jobs: 2}).Run(ctx, discover(t, dir))
	assert.ErrorIs(t, err, context.Canceled)
}
