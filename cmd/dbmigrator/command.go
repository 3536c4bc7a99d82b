package dbmigrator

import (
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/openkcm/common-sdk/pkg/logger"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/constants"
	"github.com/shopmesh/shopmesh/internal/db"
)

func Cmd(buildInfo string) *cobra.Command {
	var (
		version  int64
		rollback bool
	)

	cmd := &cobra.Command{
		Use:   "db-migrator",
		Short: "ShopMesh DB Migrator",
		Long:  "ShopMesh DB Migrator applies the versioned SQL of the shared schema. Store schemas are created from the registered models when a store is provisioned.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			defaultValues := map[string]any{}
			cfg := &config.Config{}

			err := commoncfg.LoadConfig(
				cfg,
				defaultValues,
				constants.DefaultConfigPath1,
				constants.DefaultConfigPath2,
				".",
			)
			if err != nil {
				return oops.In("main").Wrapf(err, "failed to load the config")
			}

			// Update Version
			err = commoncfg.UpdateConfigVersion(&cfg.BaseConfig, buildInfo)
			if err != nil {
				return oops.In("main").
					Wrapf(err, "Failed to update the version configuration")
			}

			// LoggerConfig initialisation
			err = logger.InitAsDefault(cfg.Logger, cfg.Application)
			if err != nil {
				return oops.In("main").
					Wrapf(err, "Failed to initialise the logger")
			}

			m, err := db.NewMigrator(cfg)
			if err != nil {
				return oops.In("main").Wrapf(err, "failed to create the migrator")
			}

			migration := db.Migration{Downgrade: rollback}

			if version != 0 {
				err = m.MigrateTo(ctx, migration, version)
			} else {
				err = m.MigrateToLatest(ctx, migration)
			}
			if err != nil {
				return oops.In("main").Wrapf(err, "failed to run the migration")
			}

			return nil
		},
	}

	cmd.Flags().Int64Var(&version, "version", 0, "run migration until targeted version")
	cmd.Flags().BoolVarP(&rollback, "rollback", "r", false, "run down migrations (rollback)")

	return cmd
}
