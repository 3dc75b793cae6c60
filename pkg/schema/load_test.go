package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapcheck/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Pricing(t *testing.T) {
	s, err := schema.Load(filepath.Join("testdata", "pricing.schema.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "internal_pricing", s.DatasetID)
	assert.Equal(t, "1.2.0", s.Version)
	assert.Equal(t, "internal_pricing*.csv", s.FilePattern)
	assert.Equal(t, []string{"state", "source_name"}, s.PrimaryKey)
	assert.True(t, s.HasCompositeKey())
	require.Len(t, s.Fields, 7)
	require.Len(t, s.Constraints, 3)

	price, ok := s.Field("list_price")
	require.True(t, ok)
	assert.Equal(t, schema.DTypeNumber, price.Type)
	require.NotNil(t, price.Min)
	require.NotNil(t, price.Max)
	assert.InDelta(t, 0.0, *price.Min, 0)
	assert.InDelta(t, 1000.0, *price.Max, 0)

	state, _ := s.Field("state")
	require.NotNil(t, state.Pattern())
	assert.True(t, state.Pattern().MatchString("CA"))
	assert.False(t, state.Pattern().MatchString("CAL"), "field regex must match the whole value")

	date, _ := s.Field("effective_date")
	assert.Equal(t, "2006-01-02", date.Layout())
	assert.Equal(t, "%Y-%m-%d", date.DateFormat())
	assert.Equal(t, "2024-01-31", date.Example)

	tier, _ := s.Field("tier")
	assert.True(t, tier.Allows("premium"))
	assert.False(t, tier.Allows("Premium"))

	cmp := s.Constraints[0]
	assert.Equal(t, schema.KindCompare, cmp.Kind)
	require.NotNil(t, cmp.Program())
	assert.Equal(t, []string{"net_price", "list_price"}, cmp.Program().Identifiers())

	_, hasLiteral := s.Constraints[1].MaxDate()
	assert.False(t, hasLiteral)
}

func TestParse_Defaults(t *testing.T) {
	s, err := schema.Parse([]byte(`
dataset_id: minimal
fields:
  - name: id
    dtype: integer
`))
	require.NoError(t, err)
	assert.Equal(t, schema.DefaultVersion, s.Version)
	assert.Empty(t, s.PrimaryKey)

	id, _ := s.Field("id")
	assert.Equal(t, schema.DefaultDateFormat, id.DateFormat())
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "empty document",
			yaml:    "",
			wantErr: "empty schema document",
		},
		{
			name:    "unknown top-level key",
			yaml:    "dataset_id: x\nowner: me\n",
			wantErr: "field owner not found",
		},
		{
			name:    "unknown field key",
			yaml:    "dataset_id: x\nfields:\n  - name: a\n    dtype: string\n    nullable: true\n",
			wantErr: "field nullable not found",
		},
		{
			name:    "missing dataset id",
			yaml:    "fields:\n  - name: a\n    dtype: string\n",
			wantErr: "dataset_id is required",
		},
		{
			name:    "unknown dtype",
			yaml:    "dataset_id: x\nfields:\n  - name: a\n    dtype: decimal\n",
			wantErr: `unsupported dtype "decimal"`,
		},
		{
			name:    "missing dtype",
			yaml:    "dataset_id: x\nfields:\n  - name: a\n",
			wantErr: "dtype is required",
		},
		{
			name:    "duplicate field",
			yaml:    "dataset_id: x\nfields:\n  - name: a\n    dtype: string\n  - name: a\n    dtype: number\n",
			wantErr: "declared more than once",
		},
		{
			name:    "primary key not declared",
			yaml:    "dataset_id: x\nprimary_key: [b]\nfields:\n  - name: a\n    dtype: string\n",
			wantErr: `primary_key: "b" is not a declared field`,
		},
		{
			name:    "bad regex",
			yaml:    "dataset_id: x\nfields:\n  - name: a\n    dtype: string\n    regex: \"[a-\"\n",
			wantErr: "regex:",
		},
		{
			name:    "min above max",
			yaml:    "dataset_id: x\nfields:\n  - name: a\n    dtype: number\n    min: 10\n    max: 1\n",
			wantErr: "min 10 is greater than max 1",
		},
		{
			name:    "unknown constraint type",
			yaml:    "dataset_id: x\nconstraints:\n  - name: c\n    type: lookup\n",
			wantErr: `unsupported constraint type "lookup"`,
		},
		{
			name:    "regex constraint without pattern",
			yaml:    "dataset_id: x\nconstraints:\n  - name: c\n    type: regex\n    field: a\n",
			wantErr: "requires field and pattern",
		},
		{
			name:    "bad max date",
			yaml:    "dataset_id: x\nconstraints:\n  - name: c\n    type: max_date\n    field: a\n    max: tomorrow\n",
			wantErr: "is not a YYYY-MM-DD date",
		},
		{
			name:    "unparsable expression",
			yaml:    "dataset_id: x\nconstraints:\n  - name: c\n    type: compare\n    expression: \"a = b\"\n",
			wantErr: "parse error",
		},
		{
			name:    "function call expression",
			yaml:    "dataset_id: x\nconstraints:\n  - name: c\n    type: compare\n    expression: \"__import__('os')\"\n",
			wantErr: "parse error",
		},
		{
			name:    "arithmetic expression",
			yaml:    "dataset_id: x\nconstraints:\n  - name: c\n    type: compare\n    expression: \"price + 1\"\n",
			wantErr: "expression does not yield a boolean",
		},
		{
			name:    "negated number literal",
			yaml:    "dataset_id: x\nconstraints:\n  - name: c\n    type: compare\n    expression: \"-(price)\"\n",
			wantErr: "expression does not yield a boolean",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_UnquotedMaxDate(t *testing.T) {
	s, err := schema.Parse([]byte(`
dataset_id: x
fields:
  - name: d
    dtype: date
constraints:
  - name: cutoff
    type: max_date
    field: d
    max: 2025-01-01
`))
	require.NoError(t, err)
	maxDate, ok := s.Constraints[0].MaxDate()
	require.True(t, ok)
	assert.Equal(t, "2025-01-01", maxDate.Format("2006-01-02"))
}

func TestLoad_Errors(t *testing.T) {
	_, err := schema.Load(filepath.Join(t.TempDir(), "missing.schema.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var le *schema.LoadError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Path, "missing.schema.yaml")
}

func TestSchema_ValidateProgrammatic(t *testing.T) {
	s := &schema.Schema{
		DatasetID:  "prog",
		PrimaryKey: []string{"id"},
		Fields: []schema.FieldRule{
			{Name: "id", Type: schema.DTypeInteger, Required: true, Unique: true},
		},
	}
	require.NoError(t, s.Validate())
	require.NoError(t, s.Validate(), "second call returns the cached result")
	assert.Equal(t, []string{"id"}, s.FieldNames())
}
