package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapcheck/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newBuffered(mode OutputMode, tty bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, tty, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"TEXT", ModeText},
		{"md", ModeMarkdown},
		{"markdown", ModeMarkdown},
		{"json", ModeJSON},
		{"yaml", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}

	assert.True(t, ValidMode("json"))
	assert.True(t, ValidMode(""))
	assert.False(t, ValidMode("yaml"))
}

func TestEffectiveMode(t *testing.T) {
	r, _, _ := newBuffered(ModeAuto, true)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r, _, _ = newBuffered(ModeAuto, false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r, _, _ = newBuffered(ModeJSON, true)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestMessageRouting(t *testing.T) {
	r, out, errOut := newBuffered(ModeMarkdown, false)

	r.Message(core.Message{Level: core.LevelError, Message: "'price' cannot be empty", Row: 3, Column: "price"})
	r.Message(core.Message{Level: core.LevelWarning, Message: "Extra columns in a.csv: x"})

	assert.Equal(t, "[ERROR] 'price' cannot be empty row=3 column=price\n", errOut.String())
	assert.Equal(t, "[WARNING] Extra columns in a.csv: x\n", out.String())
}

func TestMessageJSONModeIsSilent(t *testing.T) {
	r, out, errOut := newBuffered(ModeJSON, false)
	r.Message(core.Message{Level: core.LevelError, Message: "x"})
	r.Info("Validating %s", "a.csv")
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestInfo(t *testing.T) {
	r, out, _ := newBuffered(ModeMarkdown, false)
	r.Info("Validating %s", "data/a.csv")
	assert.Equal(t, "[INFO] Validating data/a.csv\n", out.String())
}

func TestNonTTYHasNoANSI(t *testing.T) {
	r, out, errOut := newBuffered(ModeText, false)
	r.Header(1, "Schemas")
	r.Success("done")
	r.Message(core.Message{Level: core.LevelError, Message: "bad"})
	r.Summary(core.NewReport(nil), 1)
	assert.False(t, ansi.MatchString(out.String()+errOut.String()))
	assert.Contains(t, out.String(), "PASSED")
}

func TestSummaryMarkdown(t *testing.T) {
	r, out, _ := newBuffered(ModeMarkdown, false)
	rep := core.NewReport([]core.Message{{Level: core.LevelError, Message: "x"}, {Level: core.LevelWarning, Message: "y"}})
	r.Summary(rep, 2)
	assert.Contains(t, out.String(), "## Summary")
	assert.Contains(t, out.String(), "- **Status:** failed")
	assert.Contains(t, out.String(), "- **Errors:** 1")
	assert.Contains(t, out.String(), "- **Warnings:** 1")
}

func TestJSON(t *testing.T) {
	r, out, _ := newBuffered(ModeJSON, false)
	require.NoError(t, r.JSON(core.NewReport(nil)))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "passed", got["status"])
}

func TestTable(t *testing.T) {
	r, out, _ := newBuffered(ModeMarkdown, false)
	r.Table([]string{"Dataset", "Version"}, [][]string{{"pricing", "1.0.0"}})
	assert.Contains(t, strings.ToLower(out.String()), "| dataset | version |")
	assert.Contains(t, out.String(), "| pricing | 1.0.0 |")

	r, out, _ = newBuffered(ModeText, false)
	r.Table([]string{"Dataset"}, [][]string{{"pricing"}})
	assert.Contains(t, out.String(), "pricing")
	assert.Contains(t, out.String(), "┌")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Summary", FormatHeader(2, "Summary"))
	assert.Equal(t, "# Top", FormatHeader(0, "Top"))
	assert.Equal(t, "- **Files:** 3", FormatKeyValue("Files", "3"))
}
