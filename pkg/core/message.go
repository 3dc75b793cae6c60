package core

import (
	"fmt"
	"strings"
)

// Message is a single validation finding.
//
// Messages are created once and never mutated. Row is 1-based with the
// header counted as row 1; zero means the message is not tied to a row.
type Message struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Row     int    `json:"row,omitempty"`
	Column  string `json:"column,omitempty"`

	// File is the source the message was found in. It is used for
	// rendering and grouping and is not part of the JSON report.
	File string `json:"-"`
}

// IsError reports whether the message has error level.
func (m Message) IsError() bool {
	return m.Level == LevelError
}

// String renders the message the way the CLI prints it:
// "[LEVEL] text row=N column=C".
func (m Message) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", m.Level, m.Message)
	if m.Row > 0 {
		fmt.Fprintf(&b, " row=%d", m.Row)
	}
	if m.Column != "" {
		fmt.Fprintf(&b, " column=%s", m.Column)
	}
	return b.String()
}
