package cli

import (
	"github.com/alexanderramin/punchclock/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the attendance HTTP and realtime server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.ParseConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}

			return server.Run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides PUNCHCLOCK_HTTP_ADDR)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Database path (overrides PUNCHCLOCK_DB_PATH)")
	return cmd
}
