package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// =============================================================================
// Level
// =============================================================================

// Level indicates the importance of a validation message.
type Level int

// Levels for validation messages. Errors fail a run; warnings do not,
// unless strict mode promotes them.
const (
	// LevelError indicates a finding that fails the run.
	LevelError Level = iota
	// LevelWarning indicates a finding that should be reviewed.
	LevelWarning
)

// String returns the report representation of the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level value.
// Returns the level and true if valid, or LevelWarning and false if invalid.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, true
	case "warning", "warn":
		return LevelWarning, true
	default:
		return LevelWarning, false
	}
}

// MarshalJSON encodes the level as its upper-case name.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level name.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseLevel(s)
	if !ok {
		return fmt.Errorf("unknown level %q", s)
	}
	*l = parsed
	return nil
}
