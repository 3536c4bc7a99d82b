package mock

import (
	"context"
	"reflect"
	"slices"

	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
)

// InMemoryRepository is a query-aware in-memory implementation of repo.Repo
// for tests. Shared models live in a "public" bucket; tenant-scoped models
// live in per-tenant buckets resolved from the context, mirroring the
// schema-per-tenant routing of the SQL repository.
type InMemoryRepository struct {
	db *InMemoryMultitenancyDB
}

// NewInMemoryRepository creates and returns a new instance of InMemoryRepository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		db: NewInMemoryMultitenancyDB(),
	}
}

// WithTenant resolves the bucket the resource belongs to.
func (r *InMemoryRepository) WithTenant(
	ctx context.Context,
	resource repo.Resource,
) (*InMemoryDB, error) {
	if resource.IsSharedModel() {
		return r.db.GetDB("public"), nil
	}

	tenant, err := meshcontext.ExtractTenantID(ctx)
	if err != nil {
		return nil, errs.Wrap(repo.ErrWithTenant, err)
	}

	return r.db.GetDB(tenant), nil
}

func (r *InMemoryRepository) Create(ctx context.Context, resource repo.Resource) error {
	tenantDB, err := r.WithTenant(ctx, resource)
	if err != nil {
		return err
	}

	return tenantDB.insert(resource)
}

func (r *InMemoryRepository) List(
	ctx context.Context,
	resource repo.Resource,
	result any,
	query repo.Query,
) (int, error) {
	tenantDB, err := r.WithTenant(ctx, resource)
	if err != nil {
		return 0, err
	}

	matched, err := tenantDB.match(resource, query)
	if err != nil {
		return 0, err
	}

	count := len(matched)

	limit := query.Limit
	if limit <= 0 {
		limit = repo.DefaultLimit
	}

	offset := min(query.Offset, count)
	page := matched[offset:min(offset+limit, count)]

	err = assignList(result, page)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *InMemoryRepository) Count(
	ctx context.Context,
	resource repo.Resource,
	query repo.Query,
) (int, error) {
	tenantDB, err := r.WithTenant(ctx, resource)
	if err != nil {
		return 0, err
	}

	matched, err := tenantDB.match(resource, query)
	if err != nil {
		return 0, err
	}

	return len(matched), nil
}

func (r *InMemoryRepository) First(
	ctx context.Context,
	resource repo.Resource,
	query repo.Query,
) (bool, error) {
	tenantDB, err := r.WithTenant(ctx, resource)
	if err != nil {
		return false, err
	}

	matched, err := tenantDB.match(resource, query)
	if err != nil {
		return false, err
	}

	if len(matched) == 0 {
		return false, nil
	}

	assign(resource, matched[0])

	err = r.preload(resource, query.PreloadModel)
	if err != nil {
		return false, err
	}

	return true, nil
}

// preload resolves the Plan association of a tenant record. The SQL
// repository delegates association loading to GORM; the mock only knows the
// one association the registry reads.
func (r *InMemoryRepository) preload(resource repo.Resource, preloads repo.Preload) error {
	tenant, ok := resource.(*model.Tenant)
	if !ok || !slices.Contains(preloads, "Plan") || tenant.PlanID == nil {
		return nil
	}

	matched, err := r.db.GetDB("public").match(&model.Plan{}, *repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.IDField, *tenant.PlanID))))
	if err != nil {
		return err
	}

	if len(matched) == 0 {
		return nil
	}

	plan := &model.Plan{}
	assign(plan, matched[0])
	tenant.Plan = plan

	return nil
}

func (r *InMemoryRepository) Patch(
	ctx context.Context,
	resource repo.Resource,
	query repo.Query,
) (bool, error) {
	tenantDB, err := r.WithTenant(ctx, resource)
	if err != nil {
		return false, err
	}

	matched, err := tenantDB.match(resource, query)
	if err != nil {
		return false, err
	}

	for _, item := range matched {
		err = applyUpdate(item, resource, query.UpdateFields)
		if err != nil {
			return false, err
		}
	}

	if len(matched) > 0 {
		assign(resource, matched[0])
	}

	return len(matched) > 0, nil
}

func (r *InMemoryRepository) Delete(
	ctx context.Context,
	resource repo.Resource,
	query repo.Query,
) (bool, error) {
	tenantDB, err := r.WithTenant(ctx, resource)
	if err != nil {
		return false, err
	}

	removed, err := tenantDB.remove(resource, query)
	if err != nil {
		return false, errs.Wrap(repo.ErrDeleteResource, err)
	}

	return removed > 0, nil
}

func (r *InMemoryRepository) Increment(
	ctx context.Context,
	resource repo.Resource,
	field repo.QueryField,
	delta int,
	query repo.Query,
) (bool, error) {
	tenantDB, err := r.WithTenant(ctx, resource)
	if err != nil {
		return false, err
	}

	matched, err := tenantDB.match(resource, query)
	if err != nil {
		return false, err
	}

	for _, item := range matched {
		f, err := fieldByColumn(reflect.ValueOf(item).Elem(), field)
		if err != nil {
			return false, err
		}

		f.SetInt(f.Int() + int64(delta))
	}

	if len(matched) > 0 {
		assign(resource, matched[0])
	}

	return len(matched) > 0, nil
}

// Transaction runs txFunc against the same store. Rollback on error is not
// simulated; tests asserting rollback behavior belong in the integration
// suite.
func (r *InMemoryRepository) Transaction(ctx context.Context, txFunc repo.TransactionFunc) error {
	err := txFunc(ctx, r)
	if err != nil {
		return errs.Wrap(repo.ErrTransaction, err)
	}

	return nil
}

func (r *InMemoryRepository) Migrate(_ context.Context, schemaName string) error {
	r.db.GetDB(schemaName)
	return nil
}

func (r *InMemoryRepository) Offboard(_ context.Context, schemaName string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.databases, schemaName)

	return nil
}

// applyUpdate mirrors the write semantics of GORM Updates: all fields, the
// listed fields, or only non-zero fields.
func applyUpdate(dst, src repo.Resource, update repo.Update) error {
	dstVal := reflect.ValueOf(dst).Elem()
	srcVal := reflect.ValueOf(src).Elem()

	if update.All {
		dstVal.Set(srcVal)
		return nil
	}

	if len(update.Fields) > 0 {
		for _, col := range update.Fields {
			dstField, err := fieldByColumn(dstVal, col)
			if err != nil {
				return err
			}

			srcField, err := fieldByColumn(srcVal, col)
			if err != nil {
				return err
			}

			dstField.Set(srcField)
		}

		return nil
	}

	for i := range srcVal.NumField() {
		srcField := srcVal.Field(i)
		if srcField.IsZero() {
			continue
		}

		dstVal.Field(i).Set(srcField)
	}

	return nil
}

func assignList(result any, list []repo.Resource) error {
	resultVal := reflect.ValueOf(result)
	if resultVal.Kind() != reflect.Ptr {
		return ErrMustPointerToSlice
	}

	sliceVal := resultVal.Elem()
	if sliceVal.Kind() != reflect.Slice {
		return ErrMustBeSlice
	}

	elemType := sliceVal.Type().Elem()
	newSlice := reflect.MakeSlice(sliceVal.Type(), 0, len(list))

	for _, item := range list {
		itemVal := reflect.ValueOf(item)

		if itemVal.Type().AssignableTo(elemType) {
			newSlice = reflect.Append(newSlice, itemVal)
			continue
		}

		if itemVal.Elem().Type().AssignableTo(elemType) {
			newSlice = reflect.Append(newSlice, itemVal.Elem())
			continue
		}

		return ErrItemNotAssignable
	}

	resultVal.Elem().Set(newSlice)

	return nil
}
