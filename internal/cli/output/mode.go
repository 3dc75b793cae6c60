// Package output renders CLI results for terminals, pipes and machines.
//
// The same command output adapts to its destination:
//   - text: styled for an interactive terminal
//   - markdown: plain, ANSI-free text for pipes, logs and agents
//   - json: machine-readable documents
//
// ModeAuto picks text on a TTY and markdown otherwise.
package output

import "strings"

// OutputMode selects how a Renderer formats output.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Modes lists the accepted --output values.
var Modes = []OutputMode{ModeAuto, ModeText, ModeMarkdown, ModeJSON}

// Mode converts a flag or config value to an OutputMode. Unknown and empty
// values map to ModeAuto; "md" is accepted for markdown.
func Mode(s string) OutputMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return ModeText
	case "markdown", "md":
		return ModeMarkdown
	case "json":
		return ModeJSON
	default:
		return ModeAuto
	}
}

// ValidMode reports whether s names a known mode. Empty means auto.
func ValidMode(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "text", "markdown", "md", "json":
		return true
	}
	return false
}
