package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadError reports a schema file that could not be read, decoded or
// validated.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load schema %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// schemaYAML is the on-disk layout. Unknown keys are rejected.
type schemaYAML struct {
	DatasetID   string           `yaml:"dataset_id"`
	Version     string           `yaml:"version"`
	Description string           `yaml:"description"`
	FilePattern string           `yaml:"file_pattern"`
	PrimaryKey  []string         `yaml:"primary_key"`
	Fields      []fieldYAML      `yaml:"fields"`
	Constraints []constraintYAML `yaml:"constraints"`
}

type fieldYAML struct {
	Name      string   `yaml:"name"`
	DType     string   `yaml:"dtype"`
	Required  bool     `yaml:"required"`
	Unique    bool     `yaml:"unique"`
	AllowNull bool     `yaml:"allow_null"`
	Regex     string   `yaml:"regex"`
	Enum      []string `yaml:"enum"`
	Min       *float64 `yaml:"min"`
	Max       *float64 `yaml:"max"`
	Format    string   `yaml:"format"`
	Notes     string   `yaml:"notes"`
	Example   string   `yaml:"example"`
}

type constraintYAML struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Field      string `yaml:"field"`
	Pattern    string `yaml:"pattern"`
	Max        string `yaml:"max"`
	Expression string `yaml:"expression"`
}

// Load reads, decodes and validates the schema file at path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	s, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return s, nil
}

// Parse decodes and validates a YAML schema document.
func Parse(data []byte) (*Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw schemaYAML
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty schema document")
		}
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	s := raw.toSchema()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (raw *schemaYAML) toSchema() *Schema {
	s := &Schema{
		DatasetID:   raw.DatasetID,
		Version:     raw.Version,
		Description: raw.Description,
		FilePattern: raw.FilePattern,
		PrimaryKey:  raw.PrimaryKey,
	}
	for _, f := range raw.Fields {
		s.Fields = append(s.Fields, FieldRule{
			Name:      f.Name,
			Type:      DType(f.DType),
			Required:  f.Required,
			Unique:    f.Unique,
			AllowNull: f.AllowNull,
			Regex:     f.Regex,
			Enum:      f.Enum,
			Min:       f.Min,
			Max:       f.Max,
			Format:    f.Format,
			Notes:     f.Notes,
			Example:   f.Example,
		})
	}
	for _, c := range raw.Constraints {
		s.Constraints = append(s.Constraints, Constraint{
			Name:       c.Name,
			Kind:       ConstraintKind(c.Type),
			Field:      c.Field,
			Pattern:    c.Pattern,
			Max:        c.Max,
			Expression: c.Expression,
		})
	}
	return s
}
