package main

import (
	"strconv"

	"github.com/leapstack-labs/leapcheck/internal/cli/config"
)

// settingDoc describes one configuration key. Type is only needed for keys
// without a default value; the rest take it from the default.
type settingDoc struct {
	Key         string
	Type        string
	Description string
}

var settingDocs = []settingDoc{
	{Key: "schemas_dir", Description: "Directory holding schema files"},
	{Key: "samples_dir", Description: "Directory holding <dataset>_sample.csv files for --sample-check"},
	{Key: "output", Description: "auto, text, markdown or json"},
	{Key: "verbose", Description: "Log debug details to stderr"},
	{Key: "fail_fast", Description: "Stop reading a file after its first failing row"},
	{Key: "strict", Description: "Treat warnings as errors"},
	{Key: "jobs", Description: "Files validated in parallel, 0 uses every CPU"},
	{Key: "share_trackers", Description: "Check uniqueness across all files of a run"},
	{Key: "history.enabled", Description: "Record every validate run"},
	{Key: "history.dsn", Description: "SQLite path or postgres:// URL"},
	{Key: "serve.port", Description: "Port used by serve"},
	{Key: "object_store.endpoint", Type: "string", Description: "S3-compatible endpoint for s3:// inputs"},
	{Key: "object_store.access_key", Type: "string", Description: "Access key for s3:// inputs"},
	{Key: "object_store.secret_key", Type: "string", Description: "Secret key for s3:// inputs"},
	{Key: "object_store.region", Type: "string", Description: "Region for s3:// inputs"},
	{Key: "object_store.use_ssl", Type: "bool", Description: "Connect to the object store over TLS"},
}

// settingRow is a documented key joined with its default and its
// environment override.
type settingRow struct {
	settingDoc
	Default string
	EnvVar  string
}

func settings() []settingRow {
	defs := config.DefaultValues()
	rows := make([]settingRow, 0, len(settingDocs))
	for _, d := range settingDocs {
		r := settingRow{settingDoc: d, Default: "-", EnvVar: config.EnvVar(d.Key)}
		if v, ok := defs[d.Key]; ok {
			r.Type, r.Default = describeDefault(v)
		}
		rows = append(rows, r)
	}
	return rows
}

func describeDefault(v any) (typ, def string) {
	switch v := v.(type) {
	case bool:
		return "bool", strconv.FormatBool(v)
	case int:
		return "int", strconv.Itoa(v)
	case string:
		if v == "" {
			return "string", "-"
		}
		return "string", InlineCode(v)
	}
	return "any", "-"
}

// undocumentedSettings returns default keys missing from settingDocs.
func undocumentedSettings() []string {
	documented := make(map[string]bool, len(settingDocs))
	for _, d := range settingDocs {
		documented[d.Key] = true
	}
	var missing []string
	for key := range config.DefaultValues() {
		if !documented[key] {
			missing = append(missing, key)
		}
	}
	return missing
}
