// Package schema defines the dataset schema model consumed by the validation
// engine: field rules, row constraints and the primary key. Schemas are
// loaded from YAML files, checked once, and are read-only afterwards.
package schema

import (
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/leapstack-labs/leapcheck/pkg/expr"
)

// DType is the declared type of a field.
type DType string

// Supported field types.
const (
	DTypeNumber  DType = "number"
	DTypeInteger DType = "integer"
	DTypeBoolean DType = "boolean"
	DTypeDate    DType = "date"
	DTypeString  DType = "string"
)

// Valid reports whether d is a supported type.
func (d DType) Valid() bool {
	switch d {
	case DTypeNumber, DTypeInteger, DTypeBoolean, DTypeDate, DTypeString:
		return true
	default:
		return false
	}
}

// ConstraintKind identifies the variant of a Constraint.
type ConstraintKind string

// Supported constraint kinds.
const (
	KindRegex   ConstraintKind = "regex"
	KindMaxDate ConstraintKind = "max_date"
	KindCompare ConstraintKind = "compare"
)

// Valid reports whether k is a supported constraint kind.
func (k ConstraintKind) Valid() bool {
	switch k {
	case KindRegex, KindMaxDate, KindCompare:
		return true
	default:
		return false
	}
}

// DefaultDateFormat is used for date fields that declare no format.
const DefaultDateFormat = "YYYY-MM-DD"

// Today is the max_date sentinel for the current local date.
const Today = "today"

// DefaultVersion is assigned to schemas without a version.
const DefaultVersion = "0.0.0"

// Schema describes the expected shape of one dataset.
type Schema struct {
	DatasetID   string
	Version     string
	Description string
	FilePattern string
	PrimaryKey  []string
	Fields      []FieldRule
	Constraints []Constraint

	once sync.Once
	err  error
}

// FieldRule is the contract for a single column.
type FieldRule struct {
	Name      string
	Type      DType
	Required  bool
	Unique    bool
	AllowNull bool
	Regex     string
	Enum      []string
	Min       *float64
	Max       *float64
	Format    string
	Notes     string
	Example   string

	pattern *regexp.Regexp
	layout  string
}

// Constraint is a row-level rule. Which parameters apply depends on Kind:
// regex uses Field and Pattern, max_date uses Field and Max, compare uses
// Expression.
type Constraint struct {
	Name       string
	Kind       ConstraintKind
	Field      string
	Pattern    string
	Max        string
	Expression string

	pattern *regexp.Regexp
	maxDate time.Time
	program *expr.Program
}

// Field returns the rule named name.
func (s *Schema) Field(name string) (*FieldRule, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// FieldNames returns the declared field names in order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// HasCompositeKey reports whether the primary key spans more than one field.
func (s *Schema) HasCompositeKey() bool {
	return len(s.PrimaryKey) > 1
}

// Pattern returns the anchored compiled Regex, or nil when none is declared.
func (f *FieldRule) Pattern() *regexp.Regexp { return f.pattern }

// Layout returns the Go time layout for Format.
func (f *FieldRule) Layout() string { return f.layout }

// DateFormat returns Format as written, or the default.
func (f *FieldRule) DateFormat() string {
	if f.Format == "" {
		return DefaultDateFormat
	}
	return f.Format
}

// IgnoresBounds reports whether min or max is declared on a field whose
// dtype has no numeric bounds.
func (f *FieldRule) IgnoresBounds() bool {
	return (f.Min != nil || f.Max != nil) && f.Type != DTypeNumber
}

// Allows reports whether value passes the enum, if any.
func (f *FieldRule) Allows(value string) bool {
	return len(f.Enum) == 0 || slices.Contains(f.Enum, value)
}

// Regexp returns the anchored compiled pattern of a regex constraint.
func (c *Constraint) Regexp() *regexp.Regexp { return c.pattern }

// MaxDate returns the literal ceiling of a max_date constraint. ok is false
// when the ceiling is the current date.
func (c *Constraint) MaxDate() (t time.Time, ok bool) {
	if c.maxDate.IsZero() {
		return time.Time{}, false
	}
	return c.maxDate, true
}

// Program returns the compiled expression of a compare constraint.
func (c *Constraint) Program() *expr.Program { return c.program }
