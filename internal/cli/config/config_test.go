package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "leapcheck.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0600))
	return p
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("schemas-dir", "", "schemas directory")
	flags.String("output", "", "output mode")
	flags.Bool("strict", false, "strict")
	flags.Int("jobs", 0, "jobs")
	flags.Bool("record", false, "record run")
	flags.Int("port", 0, "port")
	flags.String("input", "", "input")
	return flags
}

// TestLoadConfig_Defaults tests values applied when nothing is configured.
func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "verbose: false\n")
	root := filepath.Dir(cfgPath)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, DefaultSchemasDir), cfg.SchemasDir)
	assert.Equal(t, filepath.Join(root, DefaultSamplesDir), cfg.SamplesDir)
	assert.Equal(t, filepath.Join(root, DefaultHistoryDSN), cfg.History.DSN)
	assert.Equal(t, DefaultPort, cfg.Serve.Port)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.History.Enabled)
	assert.Nil(t, cfg.ObjectStore)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

// TestLoadConfig_File tests nested keys and env expansion from the config file.
func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	t.Setenv("TEST_MINIO_SECRET", "s3cr3t")
	cfgPath := writeConfig(t, `schemas_dir: schemas
strict: true
jobs: 3
share_trackers: true
history:
  enabled: true
  dsn: postgres://user@localhost/leapcheck
serve:
  port: 9000
object_store:
  endpoint: localhost:9000
  access_key: minio
  secret_key: ${TEST_MINIO_SECRET}
  use_ssl: false
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), "schemas"), cfg.SchemasDir)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 3, cfg.Jobs)
	assert.True(t, cfg.ShareTrackers)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "postgres://user@localhost/leapcheck", cfg.History.DSN, "server DSNs are not resolved as paths")
	assert.Equal(t, 9000, cfg.Serve.Port)
	require.NotNil(t, cfg.ObjectStore)
	assert.Equal(t, "s3cr3t", cfg.ObjectStore.SecretKey)
	assert.Equal(t, "localhost:9000", cfg.ObjectStore.Source().Endpoint)
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "schemas_dir: from_file\njobs: 1\n")
	t.Setenv("LEAPCHECK_SCHEMAS_DIR", "from_env")
	t.Setenv("LEAPCHECK_JOBS", "2")

	flags := testFlags()
	require.NoError(t, flags.Set("schemas-dir", "from_flag"))
	require.NoError(t, flags.Set("jobs", "4"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	wantDir, err := filepath.Abs("from_flag")
	require.NoError(t, err)
	assert.Equal(t, wantDir, cfg.SchemasDir, "flag paths resolve against the working directory")
	assert.Equal(t, 4, cfg.Jobs)
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "schemas_dir: from_file\nserve:\n  port: 9000\n")
	t.Setenv("LEAPCHECK_SCHEMAS_DIR", "from_env")
	t.Setenv("LEAPCHECK_SERVE__PORT", "9100")
	t.Setenv("LEAPCHECK_STRICT", "true")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), "from_env"), cfg.SchemasDir)
	assert.Equal(t, 9100, cfg.Serve.Port)
	assert.True(t, cfg.Strict)
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "output: text\n")
	t.Setenv("LEAPCHECK_OUTPUT", "json")

	cfg, err := LoadConfig(cfgPath, testFlags())
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
}

// TestLoadConfig_MappedFlags tests flags whose names differ from their keys.
func TestLoadConfig_MappedFlags(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "verbose: false\n")

	flags := testFlags()
	require.NoError(t, flags.Set("record", "true"))
	require.NoError(t, flags.Set("port", "8001"))
	require.NoError(t, flags.Set("input", "data.csv"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 8001, cfg.Serve.Port)
}

// TestLoadConfig_Invalid tests that validation failures surface from LoadConfig.
func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"bad output", "output: yaml\n", "invalid output"},
		{"negative jobs", "jobs: -1\n", "jobs must be >= 0"},
		{"port out of range", "serve:\n  port: 70000\n", "serve.port"},
		{"object store without endpoint", "object_store:\n  access_key: x\n", "object_store.endpoint is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

// TestLoadConfig_MissingFile tests that an explicit missing config file fails.
func TestLoadConfig_MissingFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestFindProjectRootUpward(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "leapcheck.yml"), []byte("{}\n"), 0600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))

	assert.Equal(t, root, findProjectRootUpward(nested))
	assert.Empty(t, findProjectRootUpward(t.TempDir()))
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_LEAPCHECK_VAR", "value")
	assert.Equal(t, "pre-value-post", expandEnvVars("pre-${TEST_LEAPCHECK_VAR}-post"))
	assert.Equal(t, "${TEST_LEAPCHECK_UNSET}", expandEnvVars("${TEST_LEAPCHECK_UNSET}"))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "schemas_dir", envKey("LEAPCHECK_SCHEMAS_DIR"))
	assert.Equal(t, "object_store.secret_key", envKey("LEAPCHECK_OBJECT_STORE__SECRET_KEY"))
}

func TestEnvVar_RoundTripsDefaultKeys(t *testing.T) {
	assert.Equal(t, "LEAPCHECK_HISTORY__DSN", EnvVar("history.dsn"))
	for key := range DefaultValues() {
		assert.Equal(t, key, envKey(EnvVar(key)))
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})

	t.Run("empty schemas_dir", func(t *testing.T) {
		cfg := Default()
		cfg.SchemasDir = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schemas_dir is required")
	})

	t.Run("history enabled without dsn", func(t *testing.T) {
		cfg := Default()
		cfg.History = HistoryConfig{Enabled: true}
		assert.Error(t, cfg.Validate())
	})
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))
}
