package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateLayout(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"", "2006-01-02"},
		{"YYYY-MM-DD", "2006-01-02"},
		{"DD/MM/YYYY", "02/01/2006"},
		{"YYYY-MM-DDTHH:mm:ss", "2006-01-02T15:04:05"},
		{"DD MMM YY", "02 Jan 06"},
		{"%Y-%m-%d", "2006-1-2"},
		{"%d/%m/%Y %H:%M:%S", "2/1/2006 15:4:5"},
		{"%I:%M %p", "3:4 PM"},
		{"%Y%m%d", "20060102"},
		{"%Y%%", "2006%"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := DateLayout(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateLayout_Rejects(t *testing.T) {
	for _, format := range []string{"%Q", "%Y-%", "YYYY-1", "DD_MM", "HH:mm pm", "%H pm"} {
		t.Run(format, func(t *testing.T) {
			_, err := DateLayout(format)
			assert.Error(t, err)
		})
	}
}

func TestDateLayout_StrftimeAcceptsUnpadded(t *testing.T) {
	tests := []struct {
		format string
		value  string
		want   string
	}{
		{"%d/%m/%Y", "1/2/2024", "2024-02-01"},
		{"%d/%m/%Y", "01/02/2024", "2024-02-01"},
		{"%m/%d/%Y %I:%M %p", "3/7/2024 9:05 PM", "2024-03-07"},
		{"%Y%m%d", "20240307", "2024-03-07"},
	}

	for _, tt := range tests {
		t.Run(tt.format+" "+tt.value, func(t *testing.T) {
			layout, err := DateLayout(tt.format)
			require.NoError(t, err)
			got, err := time.Parse(layout, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(time.DateOnly))
		})
	}
}

func TestDateLayout_TokenFormatsStayPadded(t *testing.T) {
	layout, err := DateLayout("DD/MM/YYYY")
	require.NoError(t, err)
	_, err = time.Parse(layout, "1/2/2024")
	assert.Error(t, err)
}
