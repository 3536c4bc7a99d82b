package repo

import (
	"context"

	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/model"
)

// TransactionFunc is func signature for Transaction.
type TransactionFunc func(context.Context, Repo) error

// Repo defines an interface for Repository operations.
type Repo interface {
	Create(ctx context.Context, resource Resource) error
	List(ctx context.Context, resource Resource, result any, query Query) (int, error)
	Count(ctx context.Context, resource Resource, query Query) (int, error)
	First(ctx context.Context, resource Resource, query Query) (bool, error)
	Patch(ctx context.Context, resource Resource, query Query) (bool, error)
	Delete(ctx context.Context, resource Resource, query Query) (bool, error)

	// Increment applies a single-statement relative update to a numeric field,
	// so concurrent counter mutations for the same row cannot lose updates.
	Increment(ctx context.Context, resource Resource, field QueryField, delta int, query Query) (bool, error)

	Transaction(ctx context.Context, txFunc TransactionFunc) error

	// Migrate creates or updates all tenant-scoped tables in the given schema.
	Migrate(ctx context.Context, schemaName string) error

	// Offboard drops a tenant schema and everything in it.
	Offboard(ctx context.Context, schemaName string) error
}

// Resource defines the interface for Resource operations.
type Resource interface {
	IsSharedModel() bool
	TableName() string
}

const DefaultLimit = 100

// GetTenantByID loads a registry record by its primary identifier with the
// plan preloaded.
func GetTenantByID(ctx context.Context, r Repo, tenantID string) (*model.Tenant, error) {
	tenant := &model.Tenant{ID: tenantID}

	query := NewQuery().
		Where(NewCompositeKeyGroup(NewCompositeKey().Where(IDField, tenantID))).
		Preload(Preload{"Plan"})

	found, err := r.First(ctx, tenant, *query)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, ErrTenantNotFound
	}

	return tenant, nil
}

// GetTenantByDomain resolves a registry record through the domains table.
func GetTenantByDomain(ctx context.Context, r Repo, hostname string) (*model.Tenant, error) {
	domain := &model.Domain{}

	query := NewQuery().
		Where(NewCompositeKeyGroup(NewCompositeKey().Where(DomainField, hostname)))

	found, err := r.First(ctx, domain, *query)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, ErrTenantNotFound
	}

	return GetTenantByID(ctx, r, domain.TenantID)
}

// GetPlanBySlug loads a plan by its slug.
func GetPlanBySlug(ctx context.Context, r Repo, slug string) (*model.Plan, error) {
	plan := &model.Plan{}

	query := NewQuery().
		Where(NewCompositeKeyGroup(NewCompositeKey().Where(SlugField, slug)))

	found, err := r.First(ctx, plan, *query)
	if err != nil {
		return nil, errs.Wrap(ErrGetResource, err)
	}

	if !found {
		return nil, ErrNotFound
	}

	return plan, nil
}

// ProcessInBatch retrieves and processes records in batches from the database based on the provided query parameters.
// It iterates through all matching records using pagination to avoid loading large datasets into memory.
// Processing stops immediately if processFunc returns an error.
func ProcessInBatch[T Resource](
	ctx context.Context,
	repo Repo,
	baseQuery *Query,
	batchSize int,
	processFunc func([]*T) error,
) error {
	offset := 0

	for {
		var items []*T

		query := baseQuery.SetLimit(batchSize).SetOffset(offset)

		count, err := repo.List(ctx, *new(T), &items, *query)
		if err != nil {
			return err
		}

		err = processFunc(items)
		if err != nil {
			return err
		}

		offset += batchSize

		if offset >= count {
			break
		}
	}

	return nil
}
