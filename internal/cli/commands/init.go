package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new leapcheck project",
		Long: `Initialize a leapcheck project with a configuration file, an example
schema and a matching sample file.

This creates:
  - leapcheck.yaml configuration file
  - docs/data_schemas/schemas/example.schema.yaml
  - data/pricing/samples/example_sample.csv
  - .gitignore entry for the local history store`,
		Example: `  # Initialize in current directory
  leapcheck init

  # Initialize in a new directory
  leapcheck init my-project

  # Force overwrite existing files
  leapcheck init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(NewCommandContext(cmd), dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(cmdCtx *CommandContext, dir string, force bool) error {
	r := cmdCtx.Renderer

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, "leapcheck.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("leapcheck.yaml already exists. Use --force to overwrite")
	}

	files, err := copyTemplate("init", dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	for _, f := range files {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("leapcheck project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Describe your dataset in docs/data_schemas/schemas/<dataset>.schema.yaml")
	r.Println("  2. Run 'leapcheck schemas' to check it")
	r.Println("  3. Run 'leapcheck validate --input <file> --dataset-id <dataset>'")
	r.Println("  4. Try 'leapcheck validate --input data/pricing/samples --dataset-id example'")

	return nil
}
