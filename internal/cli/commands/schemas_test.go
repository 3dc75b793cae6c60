package commands

import (
	"encoding/json"
	"testing"

	clitest "github.com/leapstack-labs/leapcheck/internal/cli/testutil"
	"github.com/leapstack-labs/leapcheck/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemasListJSON(t *testing.T) {
	p := clitest.SetupTestProject(t)
	p.WriteFile(t, "leapcheck.yaml", "output: json\n")
	p.WriteFile(t, "docs/data_schemas/schemas/labels.schema.yml", `dataset_id: labels
fields:
  - name: code
    dtype: string
    min: 1
`)
	p.LoadConfig(t)

	out, _, err := execute(t, nil, NewSchemasCommand)
	require.NoError(t, err)

	var items []SchemaListItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)

	byID := map[string]SchemaListItem{}
	for _, it := range items {
		byID[it.DatasetID] = it
	}
	assert.Equal(t, []string{"state", "source_name"}, byID["pricing"].PrimaryKey)
	assert.Equal(t, 4, byID["pricing"].Fields)
	assert.Empty(t, byID["pricing"].Warnings)
	require.Len(t, byID["labels"].Warnings, 1)
	assert.Contains(t, byID["labels"].Warnings[0].Message, "min/max apply only to number fields")
}

func TestSchemasListReportsBrokenFiles(t *testing.T) {
	p := clitest.SetupTestProject(t)
	p.WriteFile(t, "docs/data_schemas/schemas/broken.schema.yaml", "dataset_id: broken\nfields: [")
	p.LoadConfig(t)

	out, errOut, err := execute(t, nil, NewSchemasCommand)
	require.Error(t, err)
	assert.Equal(t, "1 schema file(s) failed to load", err.Error())
	assert.Contains(t, out, "pricing", "valid schemas are still listed")
	assert.Contains(t, errOut, "broken.schema.yaml")
}

func TestSchemasListEmptyDirectory(t *testing.T) {
	p := clitest.SetupTestProject(t)
	p.WriteFile(t, "leapcheck.yaml", "schemas_dir: empty\n")
	p.WriteFile(t, "empty/README.md", "no schemas")
	p.LoadConfig(t)

	out, _, err := execute(t, nil, NewSchemasCommand)
	require.NoError(t, err)
	assert.Contains(t, out, "No schema files in")
}

func TestSchemasDetail(t *testing.T) {
	p := clitest.SetupTestProject(t)
	p.LoadConfig(t)

	out, _, err := execute(t, []string{"pricing"}, NewSchemasCommand)
	require.NoError(t, err)
	assert.Contains(t, out, "# Schema: pricing")
	assert.Contains(t, out, "- **Version:** 1.0.0")
	assert.Contains(t, out, ">= 0; <= 100")
	assert.Contains(t, out, "price_le_list")
	clitest.AssertValidMarkdown(t, out)
}

func TestSchemasDetailUnknownDataset(t *testing.T) {
	p := clitest.SetupTestProject(t)
	p.LoadConfig(t)

	_, _, err := execute(t, []string{"missing"}, NewSchemasCommand)
	require.ErrorIs(t, err, schema.ErrNotFound)
}

func TestFieldRules(t *testing.T) {
	sc, err := schema.Parse([]byte(`dataset_id: rules
fields:
  - name: price
    dtype: number
    min: 0.5
    max: 10
  - name: day
    dtype: date
  - name: tier
    dtype: string
    enum: [a, b]
    regex: "[ab]"
    required: true
    allow_null: true
`))
	require.NoError(t, err)

	assert.Equal(t, ">= 0.5; <= 10", fieldRules(&sc.Fields[0]))
	assert.Equal(t, "format YYYY-MM-DD", fieldRules(&sc.Fields[1]))
	assert.Equal(t, "one of [a, b]; matches [ab]; nullable", fieldRules(&sc.Fields[2]))
}
