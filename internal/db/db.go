package db

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	multitenancy "github.com/bartventer/gorm-multitenancy/v8"

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/log"
	"github.com/shopmesh/shopmesh/internal/model"
)

var (
	ErrEmptyPlanCatalog = errors.New("plan catalog cannot be empty")
	ErrPlanSeedSlug     = errors.New("plan catalog entry needs a slug")
	ErrPlanSeedName     = errors.New("plan catalog entry needs a name")
)

const DBLogDomain = "db"

// StartDB starts the DB connection and seeds the plan catalog.
func StartDB(
	ctx context.Context,
	cfg *config.Config,
) (*multitenancy.DB, error) {
	log.Info(ctx, "Starting DB connection")

	dbCon, err := StartDBConnection(ctx, cfg.Database, cfg.DatabaseReplicas)
	if err != nil {
		return nil, oops.In(DBLogDomain).Wrapf(err, "failed to initialize DB Connection")
	}

	err = addPlansFromConfig(ctx, dbCon, cfg.Provisioning.InitPlans)
	if err != nil {
		return nil, oops.In(DBLogDomain).Wrapf(err, "failed to seed plan catalog")
	}

	return dbCon, nil
}

func parsePlanCatalog(raw []byte) ([]config.PlanSeed, error) {
	var seeds []config.PlanSeed

	err := yaml.Unmarshal(raw, &seeds)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to unmarshal YAML plan catalog")
	}

	if len(seeds) == 0 {
		return nil, ErrEmptyPlanCatalog
	}

	for _, seed := range seeds {
		if seed.Slug == "" {
			return nil, ErrPlanSeedSlug
		}

		if seed.Name == "" {
			return nil, ErrPlanSeedName
		}
	}

	return seeds, nil
}

// addPlansFromConfig inserts the configured plan catalog. Already existing
// slugs are left untouched so re-deploys never overwrite pricing edits made
// through other channels.
func addPlansFromConfig(
	ctx context.Context,
	db *multitenancy.DB,
	initPlans config.InitPlansConfig,
) error {
	if !initPlans.Enabled {
		log.Info(ctx, "Initial plan catalog will not be seeded")
		return nil
	}

	raw, err := commoncfg.LoadValueFromSourceRef(initPlans.Source)
	if err != nil {
		return errs.Wrapf(err, "failed to load plan catalog source")
	}

	seeds, err := parsePlanCatalog([]byte(raw))
	if err != nil {
		return err
	}

	for i, seed := range seeds {
		plan := &model.Plan{
			ID:                uuid.New(),
			Slug:              seed.Slug,
			Name:              seed.Name,
			PriceMonthlyCents: toCents(seed.PriceMonthly),
			PriceYearlyCents:  toCents(seed.PriceYearly),
			MaxProducts:       seed.MaxProducts,
			MaxOrdersPerMonth: seed.MaxOrdersPerMonth,
			MaxStorageMB:      seed.MaxStorageMB,
			MaxUsers:          seed.MaxUsers,
			Features:          seed.Features,
			Active:            true,
			Featured:          seed.Featured,
			SortOrder:         i,
		}

		err = db.WithContext(ctx).Create(plan).Error
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.Wrapf(err, "failed to save plan %s", seed.Slug)
		}
	}

	return nil
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}
