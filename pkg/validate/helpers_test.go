package validate_test

import (
	"testing"

	"github.com/leapstack-labs/leapcheck/pkg/core"
	"github.com/leapstack-labs/leapcheck/pkg/schema"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

// pricingSchema is a small schema exercising every rule kind.
func pricingSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s := &schema.Schema{
		DatasetID:  "pricing",
		PrimaryKey: []string{"state", "source_name"},
		Fields: []schema.FieldRule{
			{Name: "state", Type: schema.DTypeString, Required: true},
			{Name: "source_name", Type: schema.DTypeString, Required: true},
			{Name: "price", Type: schema.DTypeNumber, Required: true, Min: ptr(0), Max: ptr(100)},
			{Name: "code", Type: schema.DTypeString, Unique: true},
		},
	}
	require.NoError(t, s.Validate())
	return s
}

func texts(msgs []core.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Message
	}
	return out
}

func countErrors(msgs []core.Message) int {
	n := 0
	for _, m := range msgs {
		if m.IsError() {
			n++
		}
	}
	return n
}
