package taskworker

import (
	"context"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/openkcm/common-sdk/pkg/logger"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/shopmesh/shopmesh/internal/async"
	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/constants"
	meshlog "github.com/shopmesh/shopmesh/internal/log"
)

func Cmd(buildInfo string) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "task-worker",
		Short: "ShopMesh Task Worker",
		Long:  "ShopMesh Task Worker - A background service that processes queued platform tasks asynchronously.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

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

			worker, err := async.New(cfg)
			if err != nil {
				return oops.In("main").Wrapf(err, "failed to create the worker")
			}

			err = worker.RunWorker(ctx, cfg)
			if err != nil {
				return oops.In("main").Wrapf(err, "failed to start the worker")
			}

			<-ctx.Done()

			err = worker.Shutdown(ctx)
			if err != nil {
				return oops.In("main").Wrapf(err, "%s", async.ErrClientShutdown.Error())
			}

			meshlog.Info(ctx, "shutting down worker")

			return nil
		},
	}

	return cmd
}
