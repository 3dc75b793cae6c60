package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapcheck/pkg/core"
	"golang.org/x/term"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles *Styles
	errSty *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	r := &Renderer{out: out, errOut: errOut, mode: mode, isTTY: isTTY}
	color := r.EffectiveMode() == ModeText && isTTY
	r.styles = NewStyles(out, color)
	r.errSty = NewStyles(errOut, color && isTerminal(errOut))
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// EffectiveMode resolves ModeAuto against the TTY state.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto && r.mode != "" {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether stdout is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the stdout styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the stdout writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the stderr writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Println writes a line to stdout.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to stdout.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section header.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeText {
		r.Println(r.styles.Header.Render(text))
		return
	}
	r.Println(FormatHeader(level, text))
}

// Success writes a success line.
func (r *Renderer) Success(msg string) {
	if r.EffectiveMode() == ModeText {
		r.Println(r.styles.Success.Render("✓ " + msg))
		return
	}
	r.Println("**" + msg + "**")
}

// Warning writes a warning line to stdout.
func (r *Renderer) Warning(msg string) {
	if r.EffectiveMode() == ModeText {
		r.Println(r.styles.Warning.Render("! " + msg))
		return
	}
	r.Println("> " + msg)
}

// Error writes an error line to stderr.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.errSty.Error.Render("✗ "+msg))
}

// StatusLine writes "name status [detail]" with a status marker.
func (r *Renderer) StatusLine(name, status, detail string) {
	var marker string
	switch status {
	case "success", core.StatusPassed:
		marker = r.styles.Success.Render("✓")
	case core.StatusFailed, "error":
		marker = r.styles.Error.Render("✗")
	case "skipped", "warning":
		marker = r.styles.Warning.Render("-")
	default:
		marker = " "
	}
	if r.EffectiveMode() != ModeText {
		marker = "-"
	}
	line := marker + " " + name
	if detail != "" {
		line += " " + r.styles.Muted.Render(detail)
	}
	r.Println(line)
}

// Muted renders s in the muted style.
func (r *Renderer) Muted(s string) string {
	return r.styles.Muted.Render(s)
}

// Info writes an "[INFO] text" progress line to stdout. JSON mode keeps
// stdout for the document and drops progress lines.
func (r *Renderer) Info(format string, a ...any) {
	if r.EffectiveMode() == ModeJSON {
		return
	}
	tag := "[INFO]"
	if r.EffectiveMode() == ModeText {
		tag = r.styles.Info.Render(tag)
	}
	r.Printf("%s %s\n", tag, fmt.Sprintf(format, a...))
}

// Message writes one validation message as "[LEVEL] text row=N column=C".
// Errors go to stderr and everything else to stdout. JSON mode prints
// nothing; the report carries the messages.
func (r *Renderer) Message(m core.Message) {
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		return
	}
	w, sty := r.out, r.styles
	if m.IsError() {
		w, sty = r.errOut, r.errSty
	}
	line := m.String()
	if mode == ModeText {
		tag := "[" + m.Level.String() + "]"
		style := sty.Warning
		if m.IsError() {
			style = sty.Error
		}
		line = style.Render(tag) + strings.TrimPrefix(line, tag)
	}
	_, _ = fmt.Fprintln(w, line)
}

// Summary writes the status line of a report.
func (r *Renderer) Summary(rep core.Report, files int) {
	switch r.EffectiveMode() {
	case ModeJSON:
		return
	case ModeText:
		status := r.styles.StatusPassed.Render(strings.ToUpper(rep.Status))
		if !rep.Passed() {
			status = r.styles.StatusFailed.Render(strings.ToUpper(rep.Status))
		}
		r.Printf("%s %s\n", status, r.Muted(fmt.Sprintf("%d file(s), %d error(s), %d warning(s)",
			files, rep.ErrorCount, rep.WarningCount)))
	default:
		r.Println(FormatHeader(2, "Summary"))
		r.Println(FormatKeyValue("Status", rep.Status))
		r.Println(FormatKeyValue("Files", fmt.Sprintf("%d", files)))
		r.Println(FormatKeyValue("Errors", fmt.Sprintf("%d", rep.ErrorCount)))
		r.Println(FormatKeyValue("Warnings", fmt.Sprintf("%d", rep.WarningCount)))
	}
}

// JSON writes v as indented JSON to stdout.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes rows under header. Markdown mode emits a markdown table.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	hr := make(table.Row, len(header))
	for i, h := range header {
		hr[i] = h
	}
	t.AppendHeader(hr)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, c := range row {
			tr[i] = c
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeText {
		t.Render()
		return
	}
	t.RenderMarkdown()
}
