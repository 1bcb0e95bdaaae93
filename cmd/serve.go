package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stsysd/calheat/api"
	"github.com/stsysd/calheat/config"
	"github.com/stsysd/calheat/db"
	"github.com/stsysd/calheat/logging"
	"github.com/stsysd/calheat/store"
)

// NewServeCommand creates the 'serve' subcommand that runs the HTTP service.
func NewServeCommand(fs afero.Fs, ctx context.Context, cfg *config.Config, logger *logging.Logger) *cobra.Command {
	var port, dataDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering service",
		RunE: func(cmd *cobra.Command, args []string) error {
			serveCfg := *cfg
			if port != "" {
				serveCfg.Port = port
			}
			if dataDir != "" {
				serveCfg.DataDir = dataDir
			}
			if err := serveCfg.Validate(); err != nil {
				return err
			}
			if err := fs.MkdirAll(serveCfg.DataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}

			// SQLiteストアの初期化（マイグレーション関数を渡す）
			sqliteStore, err := store.NewSQLiteStore(serveCfg.DataDir, db.Migrate)
			if err != nil {
				return fmt.Errorf("failed to initialize SQLite store: %w", err)
			}
			defer sqliteStore.Close()

			logger.Info("store ready", "data_dir", serveCfg.DataDir, "timezone", serveCfg.Timezone)
			server := api.NewServer(sqliteStore, &serveCfg)
			return server.Run(ctx, ":"+serveCfg.Port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides CALHEAT_SERVER_PORT)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "data directory (overrides CALHEAT_DATA_DIR)")
	return cmd
}
