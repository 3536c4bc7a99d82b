package manager

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/bartventer/gorm-multitenancy/v8/pkg/namespace"
	"github.com/google/uuid"

	multitenancy "github.com/bartventer/gorm-multitenancy/v8"

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/log"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
	"github.com/shopmesh/shopmesh/utils/schema"
)

var ErrSchemaNameLength = errors.New("schema name must be between 3 and 63 characters")

// Tenant manages the store registry and the lifecycle of tenant schemas.
type Tenant interface {
	CreateStore(ctx context.Context, params CreateStoreParams) (*model.Tenant, error)
	GetStore(ctx context.Context, tenantID string) (*model.Tenant, error)
	GetStoreByHostname(ctx context.Context, hostname string) (*model.Tenant, error)
	ListStores(ctx context.Context, skip int, top int) ([]*model.Tenant, int, error)
	SuspendStore(ctx context.Context, tenantID string, reason string) error
	ActivateStore(ctx context.Context, tenantID string) error
	DeleteStore(ctx context.Context, tenantID string) error
}

type TenantManager struct {
	repo repo.Repo
	cfg  *config.Config
}

// CreateStoreParams carries everything needed to provision a store.
type CreateStoreParams struct {
	ID        string
	StoreName string
	OwnerID   uuid.UUID
	PlanSlug  string
}

func NewTenantManager(repo repo.Repo, cfg *config.Config) *TenantManager {
	return &TenantManager{
		repo: repo,
		cfg:  cfg,
	}
}

// Hostname returns the primary hostname of a store under the base domain.
func (m *TenantManager) Hostname(tenantID string) string {
	return tenantID + "." + m.cfg.Tenancy.BaseDomain
}

// CreateStore provisions a new store: a registry row, its primary hostname
// and a freshly migrated tenant schema, all in one transaction. New stores
// start on a trial window.
func (m *TenantManager) CreateStore(ctx context.Context, params CreateStoreParams) (*model.Tenant, error) {
	if slices.Contains(m.cfg.Tenancy.Reserved(), params.ID) {
		return nil, errs.Wrapf(ErrReservedSubdomain, "%q", params.ID)
	}

	planSlug := params.PlanSlug
	if planSlug == "" {
		planSlug = model.PlanFree
	}

	plan, err := repo.GetPlanBySlug(ctx, m.repo, planSlug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errs.Wrapf(ErrPlanNotFound, "%q", planSlug)
		}

		return nil, err
	}

	if !plan.Active {
		return nil, errs.Wrapf(ErrPlanInactive, "%q", planSlug)
	}

	schemaName, err := schema.EncodeName(params.ID)
	if err != nil {
		return nil, errs.Wrap(ErrCreatingTenant, err)
	}

	err = validateSchema(schemaName)
	if err != nil {
		return nil, errs.Wrap(ErrCreatingTenant, err)
	}

	now := time.Now()
	trialEnds := now.AddDate(0, 0, m.cfg.Tenancy.TrialDays)
	usageReset := firstOfNextMonth(now)

	tenant := &model.Tenant{
		TenantModel: multitenancy.TenantModel{
			DomainURL:  m.Hostname(params.ID),
			SchemaName: schemaName,
		},
		ID:                 params.ID,
		OwnerID:            params.OwnerID,
		StoreName:          params.StoreName,
		Status:             model.TenantStatusActive,
		PlanID:             &plan.ID,
		SubscriptionStatus: model.SubscriptionTrial,
		BillingCycle:       model.BillingMonthly,
		TrialEndsAt:        &trialEnds,
		UsageResetDate:     &usageReset,
	}

	err = tenant.Validate()
	if err != nil {
		return nil, errs.Wrap(ErrValidatingTenant, err)
	}

	err = m.repo.Transaction(ctx, func(ctx context.Context, r repo.Repo) error {
		err := r.Create(ctx, tenant)
		if err != nil {
			if errors.Is(err, repo.ErrUniqueConstraint) {
				err = errs.Wrap(ErrProvisioningProgress, err)
			}

			return errs.Wrap(ErrCreatingTenant, err)
		}

		err = r.Create(ctx, &model.Domain{
			ID:       uuid.New(),
			Domain:   tenant.DomainURL,
			TenantID: tenant.ID,
		})
		if err != nil {
			return errs.Wrap(ErrCreatingTenant, err)
		}

		log.Info(ctx, "Store added to registry")

		return r.Migrate(ctx, schemaName)
	})
	if err != nil {
		return nil, err
	}

	tenant.Plan = plan

	return tenant, nil
}

func (m *TenantManager) GetStore(ctx context.Context, tenantID string) (*model.Tenant, error) {
	return repo.GetTenantByID(ctx, m.repo, tenantID)
}

func (m *TenantManager) GetStoreByHostname(ctx context.Context, hostname string) (*model.Tenant, error) {
	return repo.GetTenantByDomain(ctx, m.repo, hostname)
}

func (m *TenantManager) ListStores(
	ctx context.Context,
	skip int,
	top int,
) ([]*model.Tenant, int, error) {
	var tenants []*model.Tenant

	query := repo.NewQuery().
		SetLimit(top).
		SetOffset(skip).
		Order(repo.OrderField{Field: repo.CreatedField, Direction: repo.Asc})

	count, err := m.repo.List(ctx, model.Tenant{}, &tenants, *query)
	if err != nil {
		return nil, 0, ErrListTenants
	}

	return tenants, count, nil
}

// ListOwnedStores returns the stores owned by one central user.
func (m *TenantManager) ListOwnedStores(
	ctx context.Context,
	ownerID uuid.UUID,
	skip int,
	top int,
) ([]*model.Tenant, int, error) {
	var tenants []*model.Tenant

	query := repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.OwnerIDField, ownerID))).
		SetLimit(top).
		SetOffset(skip).
		Order(repo.OrderField{Field: repo.CreatedField, Direction: repo.Asc})

	count, err := m.repo.List(ctx, model.Tenant{}, &tenants, *query)
	if err != nil {
		return nil, 0, ErrListTenants
	}

	return tenants, count, nil
}

// CountStoresByStatus reports how many stores are in the given lifecycle
// status. Feeds the registry gauge metrics.
func (m *TenantManager) CountStoresByStatus(
	ctx context.Context,
	status model.TenantStatus,
) (int, error) {
	count, err := m.repo.Count(ctx, model.Tenant{}, *repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.StatusField, status))))
	if err != nil {
		return 0, ErrListTenants
	}

	return count, nil
}

// SuspendStore takes a store offline. Tenant data is retained; only traffic
// stops.
func (m *TenantManager) SuspendStore(ctx context.Context, tenantID string, reason string) error {
	now := time.Now()

	patched, err := m.repo.Patch(ctx, &model.Tenant{
		Status:          model.TenantStatusSuspended,
		SuspendedAt:     &now,
		SuspendedReason: reason,
	}, *byTenantID(tenantID).
		Update(repo.StatusField, repo.SuspendedAtField, repo.SuspendedReasonField))
	if err != nil {
		return err
	}

	if !patched {
		return repo.ErrTenantNotFound
	}

	return nil
}

// ActivateStore lifts a suspension.
func (m *TenantManager) ActivateStore(ctx context.Context, tenantID string) error {
	patched, err := m.repo.Patch(ctx, &model.Tenant{
		Status: model.TenantStatusActive,
	}, *byTenantID(tenantID).
		Update(repo.StatusField, repo.SuspendedAtField, repo.SuspendedReasonField))
	if err != nil {
		return err
	}

	if !patched {
		return repo.ErrTenantNotFound
	}

	return nil
}

// DeleteStore removes the registry row, the hostname mappings and the tenant
// schema. This is irreversible.
func (m *TenantManager) DeleteStore(ctx context.Context, tenantID string) error {
	tenant, err := repo.GetTenantByID(ctx, m.repo, tenantID)
	if err != nil {
		return err
	}

	return m.repo.Transaction(ctx, func(ctx context.Context, r repo.Repo) error {
		_, err := r.Delete(ctx, &model.Domain{}, *repo.NewQuery().
			Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.TenantIDField, tenantID))))
		if err != nil {
			return err
		}

		_, err = r.Delete(ctx, &model.LoginToken{}, *repo.NewQuery().
			Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.TenantIDField, tenantID))))
		if err != nil {
			return err
		}

		_, err = r.Delete(ctx, &model.Tenant{}, *byTenantID(tenantID))
		if err != nil {
			return err
		}

		return r.Offboard(ctx, tenant.SchemaName)
	})
}

// RunAsTenant binds a tenant to the context for non-HTTP entry points such as
// CLI commands and background tasks.
func RunAsTenant(ctx context.Context, tenantID string) context.Context {
	return meshcontext.CreateTenantContext(ctx, tenantID)
}

// AddProductCount applies a relative change to the product counter.
func (m *TenantManager) AddProductCount(ctx context.Context, tenantID string, delta int) error {
	return m.increment(ctx, tenantID, repo.ProductCountField, delta)
}

// AddOrderCount applies a relative change to the monthly order counter.
func (m *TenantManager) AddOrderCount(ctx context.Context, tenantID string, delta int) error {
	return m.increment(ctx, tenantID, repo.OrderCountThisMonthField, delta)
}

// AddStorageUsed applies a relative change to the storage counter, in MB.
func (m *TenantManager) AddStorageUsed(ctx context.Context, tenantID string, deltaMB int) error {
	return m.increment(ctx, tenantID, repo.StorageUsedMBField, deltaMB)
}

func (m *TenantManager) increment(ctx context.Context, tenantID string, field repo.QueryField, delta int) error {
	bumped, err := m.repo.Increment(ctx, &model.Tenant{}, field, delta, *byTenantID(tenantID))
	if err != nil {
		return err
	}

	if !bumped {
		return repo.ErrTenantNotFound
	}

	return nil
}

// ResetMonthlyUsage zeroes the monthly order counter of every store whose
// reset date has passed and schedules the next reset. Stores are processed in
// batches so large fleets do not load into memory at once.
func (m *TenantManager) ResetMonthlyUsage(ctx context.Context) (int, error) {
	now := time.Now()
	nextReset := firstOfNextMonth(now)
	resets := 0

	// Patched stores drop out of the due set, so each batch is fetched from
	// offset zero instead of paginating past rows that already moved.
	for {
		var tenants []*model.Tenant

		due := repo.NewQuery().
			Where(repo.NewCompositeKeyGroup(
				repo.NewCompositeKey().Where(repo.UsageResetDateField, now, repo.Lt))).
			SetLimit(repo.DefaultLimit)

		_, err := m.repo.List(ctx, model.Tenant{}, &tenants, *due)
		if err != nil {
			return resets, err
		}

		if len(tenants) == 0 {
			return resets, nil
		}

		for _, t := range tenants {
			_, err := m.repo.Patch(ctx, &model.Tenant{
				OrderCountThisMonth: 0,
				UsageResetDate:      &nextReset,
			}, *byTenantID(t.ID).
				Update(repo.OrderCountThisMonthField, repo.UsageResetDateField))
			if err != nil {
				return resets, err
			}

			resets++
		}
	}
}

func byTenantID(tenantID string) *repo.Query {
	return repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.IDField, tenantID)))
}

func firstOfNextMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

func validateSchema(schemaName string) error {
	err := namespace.Validate(schemaName)
	if err != nil {
		return errs.Wrap(ErrInvalidSchema, err)
	}

	if len(schemaName) < 3 || len(schemaName) > 63 {
		return ErrSchemaNameLength
	}

	return nil
}
