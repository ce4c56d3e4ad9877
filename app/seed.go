package app

import (
	"github.com/spf13/cobra"

	"github.com/accelerator-admin/accelerator-admin/internal/config"
	"github.com/accelerator-admin/accelerator-admin/internal/daemon"
	"github.com/accelerator-admin/accelerator-admin/internal/logger"
)

func init() { //nolint: gochecknoinits
	seedCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration directory")

	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with the default admin user and settings",
	Long: `Seed connects to the configured database, runs the schema migration and
materializes the built-in defaults: the initial admin account, the global
settings rows and the per-user settings rows for the system owner. Existing
rows are updated in place, so the command is safe to run repeatedly.`,
	PreRun: func(_ *cobra.Command, _ []string) {
		if cfg, err = config.ReadConfig(configPath); err != nil {
			panic(err)
		}

		if err = logger.Init(cfg.Log); err != nil {
			panic(err)
		}
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return daemon.Seed(&cfg)
	},
}
