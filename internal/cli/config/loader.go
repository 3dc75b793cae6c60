package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: LEAPCHECK_HISTORY__DSN sets history.dsn.
const EnvPrefix = "LEAPCHECK_"

// configNames are the config file names looked up in the project root.
var configNames = []string{"leapcheck.yaml", "leapcheck.yml"}

// flagKeys maps CLI flags to config keys. Flags not listed here are
// command arguments and never reach the config.
var flagKeys = map[string]string{
	"schemas-dir":    "schemas_dir",
	"samples-dir":    "samples_dir",
	"output":         "output",
	"verbose":        "verbose",
	"fail-fast":      "fail_fast",
	"strict":         "strict",
	"jobs":           "jobs",
	"share-trackers": "share_trackers",
	"record":         "history.enabled",
	"history-dsn":    "history.dsn",
	"port":           "serve.port",
}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// configExistsIn returns the config file in dir, if any.
func configExistsIn(dir string) string {
	for _, name := range configNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// findProjectRootUpward searches upward from startDir for a leapcheck config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configExistsIn(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit config file
//  2. Search upward from CWD for leapcheck.yaml
//  3. Current working directory
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	cwd, _ := os.Getwd()
	if cwd == "" {
		return "."
	}
	if root := findProjectRootUpward(cwd); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from defaults, the config file,
// environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	projectRoot := inferProjectRoot(cfgFile)

	// Paths given as flags are relative to CWD, not the project root.
	flagPaths := map[string]string{}
	if flags != nil {
		for _, name := range []string{"schemas-dir", "samples-dir", "history-dsn"} {
			f := flags.Lookup(name)
			if f == nil || !f.Changed || f.Value.String() == "" {
				continue
			}
			v := f.Value.String()
			if name == "history-dsn" && !isFileDSN(v) {
				flagPaths[name] = v
				continue
			}
			abs, err := filepath.Abs(v)
			if err != nil {
				abs = v
			}
			flagPaths[name] = abs
		}
	}

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	if cfgFile == "" {
		cfgFile = configExistsIn(projectRoot)
	}
	configFileUsed = cfgFile
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (LEAPCHECK_ prefix)
	// Transform: LEAPCHECK_SCHEMAS_DIR -> schemas_dir, LEAPCHECK_SERVE__PORT -> serve.port
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Set project root and resolve relative paths
	cfg.ProjectRoot = projectRoot
	cfg.SchemasDir = pick(flagPaths["schemas-dir"], resolvePathRelativeTo(cfg.SchemasDir, projectRoot))
	cfg.SamplesDir = pick(flagPaths["samples-dir"], resolvePathRelativeTo(cfg.SamplesDir, projectRoot))

	cfg.History.DSN = expandEnvVars(cfg.History.DSN)
	if v, ok := flagPaths["history-dsn"]; ok {
		cfg.History.DSN = v
	} else if isFileDSN(cfg.History.DSN) {
		cfg.History.DSN = resolvePathRelativeTo(cfg.History.DSN, projectRoot)
	}

	expandObjectStoreEnvVars(cfg.ObjectStore)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// EnvVar returns the environment variable that overrides the dotted key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

func pick(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}

// isFileDSN reports whether dsn is a SQLite file path.
func isFileDSN(dsn string) bool {
	return dsn != "" && dsn != ":memory:" && !strings.Contains(dsn, "://")
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR}
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}

// expandObjectStoreEnvVars expands environment variables in credentials.
func expandObjectStoreEnvVars(o *ObjectStoreConfig) {
	if o == nil {
		return
	}
	o.Endpoint = expandEnvVars(o.Endpoint)
	o.AccessKey = expandEnvVars(o.AccessKey)
	o.SecretKey = expandEnvVars(o.SecretKey)
	o.Region = expandEnvVars(o.Region)
}
