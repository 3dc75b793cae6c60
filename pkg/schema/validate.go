package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/leapstack-labs/leapcheck/pkg/expr"
)

// Validate checks the schema invariants and compiles its patterns, date
// layouts and expressions. It runs once per Schema; later calls return the
// first result. A schema must not be modified after Validate.
func (s *Schema) Validate() error {
	s.once.Do(func() {
		s.err = s.compile()
	})
	return s.err
}

func (s *Schema) compile() error {
	if s.DatasetID == "" {
		return fmt.Errorf("dataset_id is required")
	}
	if s.Version == "" {
		s.Version = DefaultVersion
	}

	seen := make(map[string]bool, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("fields[%d]: name is required", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("field %q: declared more than once", f.Name)
		}
		seen[f.Name] = true
		if err := f.compile(); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}

	keySeen := make(map[string]bool, len(s.PrimaryKey))
	for _, k := range s.PrimaryKey {
		if !seen[k] {
			return fmt.Errorf("primary_key: %q is not a declared field", k)
		}
		if keySeen[k] {
			return fmt.Errorf("primary_key: %q listed more than once", k)
		}
		keySeen[k] = true
	}

	for i := range s.Constraints {
		c := &s.Constraints[i]
		if c.Name == "" {
			return fmt.Errorf("constraints[%d]: name is required", i)
		}
		if err := c.compile(); err != nil {
			return fmt.Errorf("constraint %q: %w", c.Name, err)
		}
	}
	return nil
}

func (f *FieldRule) compile() error {
	if f.Type == "" {
		return fmt.Errorf("dtype is required")
	}
	if !f.Type.Valid() {
		return fmt.Errorf("unsupported dtype %q", f.Type)
	}
	if f.Regex != "" {
		re, err := compileAnchored(f.Regex)
		if err != nil {
			return fmt.Errorf("regex: %w", err)
		}
		f.pattern = re
	}
	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		return fmt.Errorf("min %s is greater than max %s", FormatBound(*f.Min), FormatBound(*f.Max))
	}
	layout, err := DateLayout(f.Format)
	if err != nil {
		return err
	}
	f.layout = layout
	return nil
}

func (c *Constraint) compile() error {
	switch c.Kind {
	case KindRegex:
		if c.Field == "" || c.Pattern == "" {
			return fmt.Errorf("regex constraint requires field and pattern")
		}
		re, err := compileAnchored(c.Pattern)
		if err != nil {
			return fmt.Errorf("pattern: %w", err)
		}
		c.pattern = re
	case KindMaxDate:
		if c.Field == "" {
			return fmt.Errorf("max_date constraint requires field")
		}
		if c.Max != "" && c.Max != Today {
			t, err := time.Parse(time.DateOnly, c.Max)
			if err != nil {
				return fmt.Errorf("max: %q is not a YYYY-MM-DD date or %q", c.Max, Today)
			}
			c.maxDate = t
		}
	case KindCompare:
		if c.Expression == "" {
			return fmt.Errorf("compare constraint requires expression")
		}
		p, err := expr.Compile(c.Expression)
		if err != nil {
			return fmt.Errorf("expression %q: %w", c.Expression, err)
		}
		if !expr.YieldsBoolean(p.Root) {
			return fmt.Errorf("expression %q: %w", c.Expression, expr.ErrNotBoolean)
		}
		c.program = p
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unsupported constraint type %q", c.Kind)
	}
	return nil
}

// compileAnchored compiles pattern so that it must match the whole value.
func compileAnchored(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pattern + `)$`)
}

// FormatBound renders a numeric bound the way it appears in messages.
func FormatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
