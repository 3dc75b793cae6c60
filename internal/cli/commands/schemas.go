package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapcheck/internal/cli/output"
	"github.com/leapstack-labs/leapcheck/pkg/core"
	"github.com/leapstack-labs/leapcheck/pkg/schema"
	"github.com/spf13/cobra"
)

// SchemaListItem is one schema in JSON output.
type SchemaListItem struct {
	DatasetID  string         `json:"dataset_id,omitempty"`
	Version    string         `json:"version,omitempty"`
	Path       string         `json:"path"`
	Fields     int            `json:"fields"`
	PrimaryKey []string       `json:"primary_key,omitempty"`
	Warnings   []core.Message `json:"warnings,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// NewSchemasCommand creates the schemas command.
func NewSchemasCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemas [dataset-id]",
		Short: "List dataset schemas or show one schema",
		Long: `List every schema in the schemas directory, or show the fields and
constraints of one dataset.

Each schema is loaded and checked. Files that fail to load are reported and
make the command exit 1. Schema lint warnings point at rules that have no
effect, such as min/max on a string field.`,
		Example: `  # List all schemas
  leapcheck schemas

  # Show one schema
  leapcheck schemas pricing

  # Machine-readable listing
  leapcheck schemas -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			resolver := schema.NewResolver(cmdCtx.Cfg.SchemasDir)
			if len(args) == 1 {
				return showSchema(cmdCtx.Renderer, resolver, args[0])
			}
			return listSchemas(cmdCtx.Renderer, resolver)
		},
	}
	return cmd
}

func listSchemas(r *output.Renderer, resolver *schema.Resolver) error {
	entries, err := resolver.List()
	if err != nil {
		return fmt.Errorf("failed to list schemas: %w", err)
	}

	items := make([]SchemaListItem, 0, len(entries))
	failed := 0
	for _, e := range entries {
		item := SchemaListItem{Path: e.Path}
		if e.Err != nil {
			item.Error = e.Err.Error()
			failed++
		} else {
			item.DatasetID = e.Schema.DatasetID
			item.Version = e.Schema.Version
			item.Fields = len(e.Schema.Fields)
			item.PrimaryKey = e.Schema.PrimaryKey
			item.Warnings = schema.Lint(e.Schema)
		}
		items = append(items, item)
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(items); err != nil {
			return err
		}
	} else {
		renderSchemaList(r, resolver.Dir, items)
	}

	if failed > 0 {
		return fmt.Errorf("%d schema file(s) failed to load", failed)
	}
	return nil
}

func renderSchemaList(r *output.Renderer, dir string, items []SchemaListItem) {
	r.Header(1, "Schemas")
	if len(items) == 0 {
		r.Println(r.Muted("No schema files in " + dir))
		return
	}

	var rows [][]string
	for _, it := range items {
		if it.Error != "" {
			continue
		}
		rows = append(rows, []string{
			it.DatasetID,
			it.Version,
			fmt.Sprintf("%d", it.Fields),
			strings.Join(it.PrimaryKey, ", "),
			fmt.Sprintf("%d", len(it.Warnings)),
			filepath.Base(it.Path),
		})
	}
	if len(rows) > 0 {
		r.Table([]string{"Dataset", "Version", "Fields", "Primary Key", "Warnings", "File"}, rows)
	}

	for _, it := range items {
		if it.Error != "" {
			r.Error(fmt.Sprintf("%s: %s", it.Path, it.Error))
		}
	}
}

// SchemaDetail is one schema in JSON output.
type SchemaDetail struct {
	DatasetID   string             `json:"dataset_id"`
	Version     string             `json:"version"`
	Description string             `json:"description,omitempty"`
	FilePattern string             `json:"file_pattern,omitempty"`
	PrimaryKey  []string           `json:"primary_key,omitempty"`
	Path        string             `json:"path"`
	Fields      []FieldDetail      `json:"fields"`
	Constraints []ConstraintDetail `json:"constraints,omitempty"`
	Warnings    []core.Message     `json:"warnings,omitempty"`
}

// FieldDetail describes one field rule.
type FieldDetail struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Unique   bool   `json:"unique,omitempty"`
	Rules    string `json:"rules,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// ConstraintDetail describes one constraint.
type ConstraintDetail struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	Rule  string `json:"rule"`
}

func showSchema(r *output.Renderer, resolver *schema.Resolver, datasetID string) error {
	sc, path, err := resolver.Resolve("", datasetID)
	if err != nil {
		return err
	}
	detail := describeSchema(sc, path)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(detail)
	}

	r.Header(1, "Schema: "+detail.DatasetID)
	r.Println(output.FormatKeyValue("Version", detail.Version))
	if detail.Description != "" {
		r.Println(output.FormatKeyValue("Description", detail.Description))
	}
	if detail.FilePattern != "" {
		r.Println(output.FormatKeyValue("File Pattern", detail.FilePattern))
	}
	if len(detail.PrimaryKey) > 0 {
		r.Println(output.FormatKeyValue("Primary Key", strings.Join(detail.PrimaryKey, ", ")))
	}
	r.Println(output.FormatKeyValue("File", detail.Path))

	r.Println("")
	r.Header(2, "Fields")
	rows := make([][]string, 0, len(detail.Fields))
	for _, f := range detail.Fields {
		rows = append(rows, []string{f.Name, f.Type, yesNo(f.Required), yesNo(f.Unique), f.Rules})
	}
	r.Table([]string{"Name", "Type", "Required", "Unique", "Rules"}, rows)

	if len(detail.Constraints) > 0 {
		r.Println("")
		r.Header(2, "Constraints")
		crows := make([][]string, 0, len(detail.Constraints))
		for _, c := range detail.Constraints {
			crows = append(crows, []string{c.Name, c.Type, c.Field, c.Rule})
		}
		r.Table([]string{"Name", "Type", "Field", "Rule"}, crows)
	}

	if len(detail.Warnings) > 0 {
		r.Println("")
		r.Header(2, "Warnings")
		for _, m := range detail.Warnings {
			r.Message(m)
		}
	}
	return nil
}

func describeSchema(sc *schema.Schema, path string) SchemaDetail {
	d := SchemaDetail{
		DatasetID:   sc.DatasetID,
		Version:     sc.Version,
		Description: sc.Description,
		FilePattern: sc.FilePattern,
		PrimaryKey:  sc.PrimaryKey,
		Path:        path,
		Warnings:    schema.Lint(sc),
	}
	for i := range sc.Fields {
		f := &sc.Fields[i]
		d.Fields = append(d.Fields, FieldDetail{
			Name:     f.Name,
			Type:     string(f.Type),
			Required: f.Required,
			Unique:   f.Unique,
			Rules:    fieldRules(f),
			Notes:    f.Notes,
		})
	}
	for _, c := range sc.Constraints {
		cd := ConstraintDetail{Name: c.Name, Type: string(c.Kind), Field: c.Field}
		switch c.Kind {
		case schema.KindRegex:
			cd.Rule = c.Pattern
		case schema.KindMaxDate:
			cd.Rule = "<= " + c.Max
		case schema.KindCompare:
			cd.Rule = c.Expression
		}
		d.Constraints = append(d.Constraints, cd)
	}
	return d
}

// fieldRules summarizes the checks a field carries.
func fieldRules(f *schema.FieldRule) string {
	var parts []string
	if f.Min != nil {
		parts = append(parts, ">= "+schema.FormatBound(*f.Min))
	}
	if f.Max != nil {
		parts = append(parts, "<= "+schema.FormatBound(*f.Max))
	}
	if f.Type == schema.DTypeDate {
		parts = append(parts, "format "+f.DateFormat())
	}
	if len(f.Enum) > 0 {
		parts = append(parts, "one of ["+strings.Join(f.Enum, ", ")+"]")
	}
	if f.Regex != "" {
		parts = append(parts, "matches "+f.Regex)
	}
	if f.AllowNull {
		parts = append(parts, "nullable")
	}
	return strings.Join(parts, "; ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
