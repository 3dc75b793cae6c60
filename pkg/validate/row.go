package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapcheck/pkg/core"
	"github.com/leapstack-labs/leapcheck/pkg/schema"
)

// Row maps column names to raw cell values. A missing key means the record
// has no such column; an empty string means the cell is empty.
type Row map[string]string

// RowValidator checks one record against the field rules of a schema.
type RowValidator struct {
	schema  *schema.Schema
	tracker *Tracker
}

// NewRowValidator returns a RowValidator recording unique values in tracker.
func NewRowValidator(s *schema.Schema, tracker *Tracker) *RowValidator {
	return &RowValidator{schema: s, tracker: tracker}
}

// Validate checks every field of row in declared order. Each field yields at
// most one error; the first failing check wins.
func (v *RowValidator) Validate(row Row, rowNum int) []core.Message {
	var out []core.Message
	for i := range v.schema.Fields {
		f := &v.schema.Fields[i]
		if text, failed := v.checkField(f, row, rowNum); failed {
			out = append(out, core.Message{
				Level:   core.LevelError,
				Message: text,
				Row:     rowNum,
				Column:  f.Name,
			})
		}
	}
	return out
}

func (v *RowValidator) checkField(f *schema.FieldRule, row Row, rowNum int) (string, bool) {
	value, ok := row[f.Name]
	if !ok {
		if f.Required {
			return fmt.Sprintf("Row %d: required column '%s' missing", rowNum, f.Name), true
		}
		return "", false
	}

	if value == "" {
		if f.Required && !f.AllowNull {
			return fmt.Sprintf("Row %d: '%s' cannot be empty", rowNum, f.Name), true
		}
		return "", false
	}

	if reason := checkValue(f, value); reason != "" {
		return fmt.Sprintf("Row %d: field '%s' invalid - %s", rowNum, f.Name, reason), true
	}

	if f.Unique && v.tracker.Observe(f.Name, value) {
		return fmt.Sprintf("Row %d: duplicate value '%s' in unique column '%s'", rowNum, value, f.Name), true
	}
	return "", false
}

// checkValue coerces value to the field type and applies bounds, enum and
// regex. It returns the failure reason, or "" when the value is valid.
func checkValue(f *schema.FieldRule, value string) string {
	switch f.Type {
	case schema.DTypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return fmt.Sprintf("could not convert '%s' to number", value)
		}
		if f.Min != nil && n < *f.Min {
			return "must be >= " + schema.FormatBound(*f.Min)
		}
		if f.Max != nil && n > *f.Max {
			return "must be <= " + schema.FormatBound(*f.Max)
		}
	case schema.DTypeInteger:
		if _, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err != nil && !errors.Is(err, strconv.ErrRange) {
			return fmt.Sprintf("could not convert '%s' to integer", value)
		}
	case schema.DTypeBoolean:
		switch strings.ToLower(value) {
		case "true", "false", "1", "0":
		default:
			return "must be boolean"
		}
	case schema.DTypeDate:
		if _, err := time.Parse(f.Layout(), value); err != nil {
			return fmt.Sprintf("does not match date format %s", f.DateFormat())
		}
	case schema.DTypeString:
	}

	if !f.Allows(value) {
		return "must be one of [" + strings.Join(f.Enum, ", ") + "]"
	}
	if re := f.Pattern(); re != nil && !re.MatchString(value) {
		return "does not match pattern " + f.Regex
	}
	return ""
}
