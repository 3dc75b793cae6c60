package schema_test

import (
	"testing"

	"github.com/leapstack-labs/leapcheck/pkg/core"
	"github.com/leapstack-labs/leapcheck/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLint(t *testing.T) {
	s, err := schema.Parse([]byte(`
dataset_id: smells
fields:
  - name: code
    dtype: string
    min: 1
  - name: flag
    dtype: boolean
    enum: ["yes", "no"]
  - name: when
    dtype: string
    format: DD/MM/YYYY
  - name: ref
    dtype: string
    required: true
    unique: true
    allow_null: true
  - name: price
    dtype: number
constraints:
  - name: uses_missing
    type: compare
    expression: price > discount
  - name: bad_field
    type: regex
    field: nowhere
    pattern: x
`))
	require.NoError(t, err)

	msgs := schema.Lint(s)
	var texts []string
	for _, m := range msgs {
		assert.Equal(t, core.LevelWarning, m.Level)
		texts = append(texts, m.Message)
	}

	assert.Contains(t, texts, "field 'code': min/max apply only to number fields, validate reports them as an error for string")
	assert.Contains(t, texts, "field 'flag': regex/enum on a boolean field checks the raw text")
	assert.Contains(t, texts, "field 'when': format applies only to date fields and is ignored for string")
	assert.Contains(t, texts, "field 'ref': empty values are not checked for uniqueness")
	assert.Contains(t, texts, "constraint 'uses_missing': expression references undeclared column 'discount'")
	assert.Contains(t, texts, "constraint 'bad_field': field 'nowhere' is not declared")
	assert.Len(t, texts, 6)
}

func TestLint_Clean(t *testing.T) {
	s, err := schema.Load("testdata/pricing.schema.yaml")
	require.NoError(t, err)
	assert.Empty(t, schema.Lint(s))
}
