package storecli

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/openkcm/common-sdk/pkg/logger"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/constants"
	"github.com/shopmesh/shopmesh/internal/db"
	"github.com/shopmesh/shopmesh/internal/manager"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
	"github.com/shopmesh/shopmesh/internal/repo/sql"
)

var ErrStoreIDRequired = errors.New("store id is required")

const (
	defaultListTop = 50
)

// factory holds the connected registry shared by all subcommands.
type factory struct {
	manager *manager.Manager
	repo    repo.Repo
}

func Cmd(buildInfo string) *cobra.Command {
	f := &factory{}

	cmd := &cobra.Command{
		Use:   "store-cli",
		Short: "ShopMesh Store CLI",
		Long: "ShopMesh Store CLI is an operator tool for the store registry, supporting: provisioning stores, " +
			"listing stores, " +
			"inspecting a store record, " +
			"suspending and reactivating stores, " +
			"offboarding a store together with its schema, " +
			"resetting the monthly usage counters, " +
			"and reading inside one store's schema.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return f.connect(cmd, buildInfo)
		},
	}

	cmd.AddCommand(
		f.createCmd(),
		f.listCmd(),
		f.getCmd(),
		f.suspendCmd(),
		f.activateCmd(),
		f.deleteCmd(),
		f.resetUsageCmd(),
		f.runAsCmd(),
	)

	return cmd
}

func (f *factory) connect(cmd *cobra.Command, buildInfo string) error {
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

	err = commoncfg.UpdateConfigVersion(&cfg.BaseConfig, buildInfo)
	if err != nil {
		return oops.In("main").
			Wrapf(err, "Failed to update the version configuration")
	}

	err = logger.InitAsDefault(cfg.Logger, cfg.Application)
	if err != nil {
		return oops.In("main").
			Wrapf(err, "Failed to initialise the logger")
	}

	dbCon, err := db.StartDBConnection(cmd.Context(), cfg.Database, cfg.DatabaseReplicas)
	if err != nil {
		return oops.In("main").Wrapf(err, "failed to connect to the database")
	}

	f.repo = sql.NewRepository(dbCon)
	f.manager = manager.New(f.repo, cfg)

	return nil
}

func (f *factory) createCmd() *cobra.Command {
	var (
		id    string
		name  string
		owner string
		plan  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Provision a store with its hostname and schema",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if id == "" {
				return ErrStoreIDRequired
			}

			ownerID, err := uuid.Parse(owner)
			if err != nil {
				return oops.In("main").Wrapf(err, "invalid owner id %q", owner)
			}

			tenant, err := f.manager.Tenant.CreateStore(cmd.Context(), manager.CreateStoreParams{
				ID:        id,
				StoreName: name,
				OwnerID:   ownerID,
				PlanSlug:  plan,
			})
			if err != nil {
				return err
			}

			return printStore(cmd, tenant)
		},
	}

	cmd.Flags().StringVarP(&id, "id", "i", "", "Store id, becomes the subdomain")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name of the store")
	cmd.Flags().StringVarP(&owner, "owner", "o", "", "Central user id of the owner")
	cmd.Flags().StringVarP(&plan, "plan", "p", "", "Plan slug, defaults to the free plan")
	markIDRequired(cmd)

	err := cmd.MarkFlagRequired("owner")
	if err != nil {
		cmd.PrintErrf("failed to mark flag 'owner' as required: %v\n", err)
	}

	return cmd
}

func (f *factory) listCmd() *cobra.Command {
	var (
		skip int
		top  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List provisioned stores",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			stores, total, err := f.manager.Tenant.ListStores(cmd.Context(), skip, top)
			if err != nil {
				return err
			}

			cmd.Printf("%d stores total\n", total)

			return printJSON(cmd, stores)
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "number of stores to skip")
	cmd.Flags().IntVar(&top, "top", defaultListTop, "maximum number of stores to list")

	return cmd
}

func (f *factory) getCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a store record by id. Usage: store-cli get --id [store id]",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if id == "" {
				return ErrStoreIDRequired
			}

			tenant, err := f.manager.Tenant.GetStore(cmd.Context(), id)
			if err != nil {
				return err
			}

			return printStore(cmd, tenant)
		},
	}

	cmd.Flags().StringVarP(&id, "id", "i", "", "Store id")
	markIDRequired(cmd)

	return cmd
}

func (f *factory) suspendCmd() *cobra.Command {
	var (
		id     string
		reason string
	)

	cmd := &cobra.Command{
		Use:   "suspend",
		Short: "Suspend a store. Its data is retained; only traffic stops",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if id == "" {
				return ErrStoreIDRequired
			}

			err := f.manager.Tenant.SuspendStore(cmd.Context(), id, reason)
			if err != nil {
				return err
			}

			cmd.Printf("Store %s suspended\n", id)

			return nil
		},
	}

	cmd.Flags().StringVarP(&id, "id", "i", "", "Store id")
	cmd.Flags().StringVarP(&reason, "reason", "m", "", "Reason shown to visitors")
	markIDRequired(cmd)

	return cmd
}

func (f *factory) activateCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "activate",
		Short: "Lift a store suspension",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if id == "" {
				return ErrStoreIDRequired
			}

			err := f.manager.Tenant.ActivateStore(cmd.Context(), id)
			if err != nil {
				return err
			}

			cmd.Printf("Store %s activated\n", id)

			return nil
		},
	}

	cmd.Flags().StringVarP(&id, "id", "i", "", "Store id")
	markIDRequired(cmd)

	return cmd
}

func (f *factory) deleteCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Offboard a store and drop its schema. This cannot be undone",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if id == "" {
				return ErrStoreIDRequired
			}

			err := f.manager.Tenant.DeleteStore(cmd.Context(), id)
			if err != nil {
				return err
			}

			cmd.Printf("Store %s deleted\n", id)

			return nil
		},
	}

	cmd.Flags().StringVarP(&id, "id", "i", "", "Store id")
	markIDRequired(cmd)

	return cmd
}

// tenantUsage is what run-as prints: live row counts read from the store's
// own schema next to the registry counters.
type tenantUsage struct {
	ID                  string
	Products            int
	Orders              int
	ProductCount        int
	OrderCountThisMonth int
	StorageUsedMB       int
}

func (f *factory) runAsCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "run-as",
		Short: "Read one store's schema and print its usage next to the registry counters",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if id == "" {
				return ErrStoreIDRequired
			}

			tenant, err := f.manager.Tenant.GetStore(cmd.Context(), id)
			if err != nil {
				return err
			}

			ctx := manager.RunAsTenant(cmd.Context(), tenant.ID)

			var products []*model.Product

			productCount, err := f.repo.List(ctx, model.Product{}, &products, *repo.NewQuery())
			if err != nil {
				return err
			}

			var orders []*model.Order

			orderCount, err := f.repo.List(ctx, model.Order{}, &orders, *repo.NewQuery())
			if err != nil {
				return err
			}

			return printJSON(cmd, tenantUsage{
				ID:                  tenant.ID,
				Products:            productCount,
				Orders:              orderCount,
				ProductCount:        tenant.ProductCount,
				OrderCountThisMonth: tenant.OrderCountThisMonth,
				StorageUsedMB:       tenant.StorageUsedMB,
			})
		},
	}

	cmd.Flags().StringVarP(&id, "id", "i", "", "Store id")
	markIDRequired(cmd)

	return cmd
}

func (f *factory) resetUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-usage",
		Short: "Reset the monthly order counters of all due stores",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			resets, err := f.manager.Tenant.ResetMonthlyUsage(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("Reset usage counters of %d stores\n", resets)

			return nil
		},
	}
}

func printStore(cmd *cobra.Command, tenant *model.Tenant) error {
	return printJSON(cmd, tenant)
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	cmd.Println(string(out))

	return nil
}

func markIDRequired(cmd *cobra.Command) {
	err := cmd.MarkFlagRequired("id")
	if err != nil {
		cmd.PrintErrf("failed to mark flag 'id' as required: %v\n", err)
	}
}
