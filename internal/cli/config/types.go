// Package config provides configuration management for the leapcheck CLI.
package config

import (
	"github.com/leapstack-labs/leapcheck/internal/source"
	"github.com/leapstack-labs/leapcheck/pkg/schema"
)

// Config holds all CLI configuration options.
type Config struct {
	SchemasDir    string             `koanf:"schemas_dir"`
	SamplesDir    string             `koanf:"samples_dir"`
	OutputFormat  string             `koanf:"output"`
	Verbose       bool               `koanf:"verbose"`
	FailFast      bool               `koanf:"fail_fast"`
	Strict        bool               `koanf:"strict"`
	Jobs          int                `koanf:"jobs"`
	ShareTrackers bool               `koanf:"share_trackers"`
	History       HistoryConfig      `koanf:"history"`
	Serve         ServeConfig        `koanf:"serve"`
	ObjectStore   *ObjectStoreConfig `koanf:"object_store"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// HistoryConfig configures the run history store.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	DSN     string `koanf:"dsn"`
}

// ServeConfig configures the HTTP API server.
type ServeConfig struct {
	Port int `koanf:"port"`
}

// ObjectStoreConfig holds S3-compatible storage settings for s3:// inputs.
type ObjectStoreConfig struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Region    string `koanf:"region"`
	UseSSL    bool   `koanf:"use_ssl"`
}

// Source converts the settings for internal/source.
func (o *ObjectStoreConfig) Source() source.ObjectStoreConfig {
	return source.ObjectStoreConfig{
		Endpoint:  o.Endpoint,
		AccessKey: o.AccessKey,
		SecretKey: o.SecretKey,
		Region:    o.Region,
		UseSSL:    o.UseSSL,
	}
}

// Default configuration values.
const (
	DefaultSchemasDir = schema.DefaultDir
	DefaultSamplesDir = "data/pricing/samples"
	DefaultHistoryDSN = ".leapcheck/history.db"
	DefaultPort       = 8780
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// defaults is the lowest configuration layer.
func defaults() map[string]any {
	return map[string]any{
		"schemas_dir":     DefaultSchemasDir,
		"samples_dir":     DefaultSamplesDir,
		"output":          DefaultOutput,
		"verbose":         false,
		"fail_fast":       false,
		"strict":          false,
		"jobs":            0,
		"share_trackers":  false,
		"history.enabled": false,
		"history.dsn":     DefaultHistoryDSN,
		"serve.port":      DefaultPort,
	}
}

// DefaultValues returns the default layer keyed by dotted configuration key.
func DefaultValues() map[string]any {
	return defaults()
}

// Default returns a Config holding only default values.
func Default() *Config {
	return &Config{
		SchemasDir:   DefaultSchemasDir,
		SamplesDir:   DefaultSamplesDir,
		OutputFormat: DefaultOutput,
		History:      HistoryConfig{DSN: DefaultHistoryDSN},
		Serve:        ServeConfig{Port: DefaultPort},
	}
}
