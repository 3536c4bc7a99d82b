package taskscheduler

import (
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
		Use:   "task-scheduler",
		Short: "ShopMesh Task Scheduler",
		Long:  "ShopMesh Task Scheduler - Enqueues the recurring platform tasks on their cron schedule.",
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

			scheduler, err := async.New(cfg)
			if err != nil {
				return oops.In("main").Wrapf(err, "failed to create the scheduler")
			}

			err = scheduler.RunScheduler()
			if err != nil {
				return oops.In("main").Wrapf(err, "failed to start the scheduler job")
			}

			<-ctx.Done()

			err = scheduler.Shutdown(ctx)
			if err != nil {
				return oops.In("main").Wrapf(err, "failed to shutdown the scheduler")
			}

			meshlog.Info(ctx, "shutting down scheduler")

			return nil
		},
	}

	return cmd
}
