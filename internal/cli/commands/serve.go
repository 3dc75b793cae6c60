package commands

import (
	"github.com/leapstack-labs/leapcheck/internal/history"
	"github.com/leapstack-labs/leapcheck/internal/server"
	"github.com/leapstack-labs/leapcheck/pkg/schema"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation HTTP API",
		Long: `Start an HTTP server exposing the schemas directory.

Endpoints:
  GET  /healthz                          liveness check
  GET  /v1/schemas                       list schemas
  POST /v1/schemas/{dataset}/validate    validate the CSV request body

Validation responses carry the JSON report with status 200 when the upload
passed and 422 when it failed. Runs are recorded when history is enabled.`,
		Example: `  # Serve on the default port
  leapcheck serve

  # Serve on another port and record every run
  leapcheck serve --port 9000 --record

  # Validate a file
  curl --data-binary @prices.csv localhost:8780/v1/schemas/pricing/validate?strict=1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			cfg := cmdCtx.Cfg

			port := cfg.Serve.Port
			if cmd.Flags().Changed("port") {
				port, _ = cmd.Flags().GetInt("port")
			}
			record := cfg.History.Enabled
			if cmd.Flags().Changed("record") {
				record, _ = cmd.Flags().GetBool("record")
			}

			var store history.Store
			if record {
				s, err := openHistory(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer func() { _ = s.Close() }()
				store = s
			}

			srv := server.NewServer(server.Config{
				Resolver: schema.NewResolver(cfg.SchemasDir),
				Store:    store,
				Port:     port,
				Logger:   cmdCtx.Logger,
			})
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().IntP("port", "p", 0, "Port to listen on (default from serve.port)")
	cmd.Flags().Bool("record", false, "Record every validation in the history store")

	return cmd
}
