package schema

import (
	"fmt"

	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// Lint reports schema smells that do not prevent validation: rule
// parameters that the field type ignores and constraints naming fields the
// schema does not declare. s must have passed Validate.
func Lint(s *Schema) []core.Message {
	var out []core.Message
	warn := func(column, format string, args ...any) {
		out = append(out, core.Message{
			Level:   core.LevelWarning,
			Message: fmt.Sprintf(format, args...),
			Column:  column,
		})
	}

	for i := range s.Fields {
		f := &s.Fields[i]
		if f.IgnoresBounds() {
			warn(f.Name, "field '%s': min/max apply only to number fields, validate reports them as an error for %s", f.Name, f.Type)
		}
		if f.Format != "" && f.Type != DTypeDate {
			warn(f.Name, "field '%s': format applies only to date fields and is ignored for %s", f.Name, f.Type)
		}
		if f.Type == DTypeBoolean && (f.Regex != "" || len(f.Enum) > 0) {
			warn(f.Name, "field '%s': regex/enum on a boolean field checks the raw text", f.Name)
		}
		if f.AllowNull && !f.Required {
			warn(f.Name, "field '%s': allow_null has no effect on an optional field", f.Name)
		}
		if f.Unique && f.AllowNull {
			warn(f.Name, "field '%s': empty values are not checked for uniqueness", f.Name)
		}
	}

	for _, c := range s.Constraints {
		switch c.Kind {
		case KindRegex, KindMaxDate:
			if _, ok := s.Field(c.Field); !ok {
				warn(c.Field, "constraint '%s': field '%s' is not declared", c.Name, c.Field)
			}
		case KindCompare:
			if c.program == nil {
				continue
			}
			for _, name := range c.program.Identifiers() {
				if _, ok := s.Field(name); !ok {
					warn(name, "constraint '%s': expression references undeclared column '%s'", c.Name, name)
				}
			}
		}
	}
	return out
}
