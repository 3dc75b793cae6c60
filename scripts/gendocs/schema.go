package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapcheck/pkg/schema"
)

// generateSchemaDocs writes the schema file format and configuration references.
func generateSchemaDocs(outDir string) error {
	log.Printf("Generating schema docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateSchemaFormatDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate schema-format.md: %w", err)
	}
	log.Printf("  Generated schema-format.md")

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// SchemaKey represents one key of a schema document.
type SchemaKey struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

func schemaKeys() []SchemaKey {
	return []SchemaKey{
		{Name: "dataset_id", Type: "string", Required: true, Description: "Identifier used by --dataset-id and the sample file name"},
		{Name: "version", Type: "string", Description: "Schema version recorded with each run (default " + schema.DefaultVersion + ")"},
		{Name: "description", Type: "string", Description: "Free text"},
		{Name: "file_pattern", Type: "string", Description: "Glob for files picked up when validating a directory (default *.csv)"},
		{Name: "primary_key", Type: "[]string", Description: "Columns whose combined values must be unique"},
		{Name: "fields", Type: "[]field", Required: true, Description: "Column rules, see below"},
		{Name: "constraints", Type: "[]constraint", Description: "Row rules, see below"},
	}
}

func fieldKeys() []SchemaKey {
	return []SchemaKey{
		{Name: "name", Type: "string", Required: true, Description: "Column header"},
		{Name: "dtype", Type: "string", Required: true, Description: "One of the types listed below"},
		{Name: "required", Type: "bool", Description: "Column must be present and non-empty"},
		{Name: "allow_null", Type: "bool", Description: "A required column may hold empty values"},
		{Name: "unique", Type: "bool", Description: "Non-empty values must not repeat"},
		{Name: "regex", Type: "string", Description: "Full-match pattern for the raw value"},
		{Name: "enum", Type: "[]string", Description: "Allowed values"},
		{Name: "min / max", Type: "number", Description: "Inclusive bounds for number fields"},
		{Name: "format", Type: "string", Description: "Date format, token (" + schema.DefaultDateFormat + ") or strftime (%Y-%m-%d) style"},
		{Name: "notes / example", Type: "string", Description: "Documentation only"},
	}
}

func generateSchemaFormatDoc(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Schema Format", "Reference for *.schema.yaml dataset schemas")
	w.GeneratedMarker()

	w.Header(1, "Schema Format")
	w.Paragraph("A schema is a YAML file named `<dataset_id>.schema.yaml` (or `.schema.yml`) in the schemas directory. Unknown keys are rejected when the schema is loaded.")

	w.Header(2, "Top-level Keys")
	writeKeysTable(w, schemaKeys())

	w.Header(2, "Field Keys")
	writeKeysTable(w, fieldKeys())

	w.Header(2, "Field Types")
	w.Table([]string{"dtype", "Accepts"}, [][]string{
		{InlineCode(string(schema.DTypeNumber)), "Any decimal number"},
		{InlineCode(string(schema.DTypeInteger)), "Whole numbers"},
		{InlineCode(string(schema.DTypeBoolean)), "true, false, 1, 0 (any case)"},
		{InlineCode(string(schema.DTypeDate)), "Dates in the field format"},
		{InlineCode(string(schema.DTypeString)), "Any text"},
	})

	w.Header(2, "Constraints")
	w.Table([]string{"type", "Keys", "Rule"}, [][]string{
		{InlineCode(string(schema.KindRegex)), "field, pattern", "The field value must fully match pattern"},
		{InlineCode(string(schema.KindMaxDate)), "field, max", "The date must not be after max (a date or " + InlineCode(schema.Today) + ")"},
		{InlineCode(string(schema.KindCompare)), "expression", "The boolean expression must hold for the row"},
	})
	w.Paragraph("Compare expressions reference columns by name and support arithmetic, comparisons, `and`, `or`, `not` and parentheses. Empty numeric cells are NaN, so `x != x` tests for an empty value.")

	w.Header(2, "Example")
	w.CodeBlock("yaml", `dataset_id: pricing
version: 1.0.0
primary_key: [state, source_name]
fields:
  - name: state
    dtype: string
    required: true
    regex: "[A-Z]{2}"
  - name: price
    dtype: number
    required: true
    min: 0
  - name: list_price
    dtype: number
constraints:
  - name: price_le_list
    type: compare
    expression: price <= list_price or list_price != list_price`)

	return os.WriteFile(filepath.Join(outDir, "schema-format.md"), w.Bytes(), 0600)
}

func writeKeysTable(w *MarkdownWriter, keys []SchemaKey) {
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		req := "No"
		if k.Required {
			req = "Yes"
		}
		rows = append(rows, []string{InlineCode(k.Name), k.Type, req, k.Description})
	}
	w.Table([]string{"Key", "Type", "Required", "Description"}, rows)
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "leapcheck configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("leapcheck reads `leapcheck.yaml` from the project root, found by searching upward from the working directory. Environment variables override the file and flags override both.")

	w.Header(2, "Settings")
	var rows [][]string
	for _, s := range settings() {
		rows = append(rows, []string{InlineCode(s.Key), s.Type, s.Default, InlineCode(s.EnvVar), s.Description})
	}
	w.Table([]string{"Key", "Type", "Default", "Environment", "Description"}, rows)

	w.Header(2, "Environment Variables")
	w.Paragraph("Use `${VAR_NAME}` in history.dsn and object_store values to keep secrets out of the file:")
	w.CodeBlock("yaml", `history:
  dsn: postgres://leapcheck:${PG_PASSWORD}@db:5432/leapcheck
object_store:
  endpoint: minio:9000
  access_key: ${MINIO_ACCESS_KEY}
  secret_key: ${MINIO_SECRET_KEY}`)

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
