package config

import (
	"fmt"

	"github.com/leapstack-labs/leapcheck/internal/cli/output"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SchemasDir == "" {
		return fmt.Errorf("schemas_dir is required")
	}
	if !output.ValidMode(c.OutputFormat) {
		return fmt.Errorf("invalid output %q: expected one of auto, text, markdown, json", c.OutputFormat)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be >= 0, got %d", c.Jobs)
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port must be between 0 and 65535, got %d", c.Serve.Port)
	}
	if c.History.Enabled && c.History.DSN == "" {
		return fmt.Errorf("history.dsn is required when history is enabled")
	}
	if c.ObjectStore != nil {
		if err := c.ObjectStore.Source().Validate(); err != nil {
			return err
		}
	}
	return nil
}
