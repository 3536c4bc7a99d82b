package sql

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	multitenancy "github.com/bartventer/gorm-multitenancy/v8"

	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/log"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
	"github.com/shopmesh/shopmesh/internal/repo/violations"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
)

const PublicSchema = "public"

var ErrUnsupportedOrderDirective = errors.New("unsupported order directive")

// ResourceRepository represents the repository for managing Resource data.
type ResourceRepository struct {
	db *multitenancy.DB
}

// NewRepository creates and returns a new instance of ResourceRepository.
func NewRepository(db *multitenancy.DB) *ResourceRepository {
	return &ResourceRepository{
		db: db,
	}
}

// WithTenant runs GORM actions in the schema the resource belongs to.
// Shared models always run against the public schema. Tenant-scoped models
// resolve the schema from the tenant bound to the context, per operation, so
// a request for store A can never touch store B's tables.
//
//nolint:cyclop
func (r *ResourceRepository) WithTenant(
	ctx context.Context,
	resource repo.Resource,
	fn func(tx *multitenancy.DB) error,
) error {
	var schemaName string

	if resource.IsSharedModel() {
		schemaName = PublicSchema
	} else {
		tenant, err := meshcontext.ExtractTenantID(ctx)
		if err != nil {
			return errs.Wrap(repo.ErrWithTenant, err)
		}

		var existingTenant model.Tenant

		err = r.db.Where(repo.IDField+" = ?", tenant).First(&existingTenant).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repo.ErrTenantNotFound
		} else if err != nil {
			return errs.Wrap(repo.ErrWithTenant, err)
		}

		schemaName = existingTenant.SchemaName
	}

	committer, ok := r.db.Statement.ConnPool.(gorm.TxCommitter)
	if committer != nil && ok {
		// If the connection pool is a TxCommitter, we are in a transaction.
		// We don't need to start a new transaction.
		reset, err := r.db.UseTenant(ctx, schemaName)

		defer func() {
			if reset != nil {
				resetErr := reset()
				if resetErr != nil {
					log.Error(ctx, "error resetting tenant", resetErr)
				}
			}
		}()

		if err != nil {
			return errs.Wrap(repo.ErrWithTenant, err)
		}

		return fn(r.db)
	}

	var err error

	txErr := r.db.WithTenant(
		ctx, schemaName, func(tx *multitenancy.DB) error {
			err = fn(tx)
			return err
		},
	)
	if txErr != nil {
		return errs.Wrap(repo.ErrTransaction, err)
	}

	return err
}

// Create stores a Resource.
func (r *ResourceRepository) Create(ctx context.Context, resource repo.Resource) error {
	return r.WithTenant(
		ctx, resource, func(tx *multitenancy.DB) error {
			err := tx.WithContext(ctx).Create(resource).Error
			if err != nil {
				log.Error(ctx, "error creating resource", err)

				if errors.Is(err, gorm.ErrDuplicatedKey) || violations.IsUniqueConstraint(err) {
					return errs.Wrap(repo.ErrUniqueConstraint, err)
				}

				return errs.Wrap(repo.ErrCreateResource, err)
			}

			return nil
		},
	)
}

// List retrieves records from the database based on the provided query parameters and model.
// Result is an address
func (r *ResourceRepository) List(
	ctx context.Context,
	resource repo.Resource,
	result any,
	query repo.Query,
) (int, error) {
	var count int64

	err := r.WithTenant(
		ctx, resource, func(tx *multitenancy.DB) error {
			db, err := applyQuery(tx.Model(result), query)
			if err != nil {
				return err
			}

			db = db.Count(&count)
			if db.Error != nil {
				return db.Error
			}

			for _, order := range query.OrderFields {
				switch order.Direction {
				case repo.Desc:
					db = db.Order(order.Field + " desc")
				case repo.Asc:
					db = db.Order(order.Field + " asc")
				default:
					return ErrUnsupportedOrderDirective
				}
			}

			res := applyPagination(db, query).Find(result)
			if res.Error != nil {
				return res.Error
			}

			return nil
		},
	)
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// Count returns the number of records matching the query.
func (r *ResourceRepository) Count(
	ctx context.Context,
	resource repo.Resource,
	query repo.Query,
) (int, error) {
	var count int64

	err := r.WithTenant(
		ctx, resource, func(tx *multitenancy.DB) error {
			db, err := applyQuery(tx.Model(resource), query)
			if err != nil {
				return err
			}

			return db.Count(&count).Error
		},
	)
	if err != nil {
		return 0, errs.Wrap(repo.ErrGetResource, err)
	}

	return int(count), nil
}

// Delete removes the Resource.
//
// It returns true if a record was deleted successfully,
// false if there was no record to delete,
// and error if there was an error during the deletion.
// If no query is provided it deletes the item by the primaryKey
func (r *ResourceRepository) Delete(
	ctx context.Context,
	resource repo.Resource,
	query repo.Query,
) (bool, error) {
	var result *gorm.DB

	err := r.WithTenant(
		ctx, resource, func(tx *multitenancy.DB) error {
			db, err := applyQuery(
				tx.Clauses(clause.Returning{}),
				query,
			)
			if err != nil {
				return err
			}

			result = applyPagination(db, query).Delete(resource)

			if result.Error != nil {
				log.Error(ctx, "error deleting resource", result.Error)
				return errs.Wrap(repo.ErrDeleteResource, result.Error)
			}

			return nil
		},
	)
	if err != nil {
		return false, err
	}

	return result.RowsAffected > 0, nil
}

// First fill given Resource with data, if found. Given Resource is used as query data.
// It will find the resource with the primary key as the where condition by omition
func (r *ResourceRepository) First(
	ctx context.Context,
	resource repo.Resource,
	query repo.Query,
) (bool, error) {
	var res *gorm.DB

	err := r.WithTenant(
		ctx, resource, func(tx *multitenancy.DB) error {
			db, err := applyQuery(tx.Model(resource), query)
			if err != nil {
				return err
			}

			res = applyPagination(db, query).First(resource)

			if res.Error != nil {
				if errors.Is(res.Error, gorm.ErrRecordNotFound) {
					return errs.Wrap(repo.ErrNotFound, res.Error)
				}

				log.Error(ctx, "error finding the resource", res.Error)

				return errs.Wrap(repo.ErrGetResource, res.Error)
			}

			return nil
		},
	)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	return res.RowsAffected > 0, nil
}

// Patch will patch the resource with primary key as the where condition.
//
// It returns true if a record was patched successfully,
// and error if there was an error during the patch.
func (r *ResourceRepository) Patch(
	ctx context.Context,
	resource repo.Resource,
	query repo.Query,
) (bool, error) {
	var res *gorm.DB

	err := r.WithTenant(
		ctx, resource, func(tx *multitenancy.DB) error {
			db, err := applyQuery(tx.Model(resource), query)
			if err != nil {
				return err
			}

			res = applyUpdateQuery(
				db.Clauses(clause.Returning{}),
				query,
			).Updates(resource)

			err = res.Error
			if err != nil {
				log.Error(ctx, "error updating resource", err)

				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errs.Wrap(repo.ErrNotFound, err)
				}

				if violations.IsUniqueConstraint(err) ||
					errors.Is(err, gorm.ErrDuplicatedKey) {
					return errs.Wrap(repo.ErrUniqueConstraint, err)
				}

				return err
			}

			return nil
		},
	)
	if err != nil {
		return false, errs.Wrap(repo.ErrUpdateResource, err)
	}

	return res.RowsAffected > 0, nil
}

// Increment adds delta to a numeric field in a single UPDATE statement, so
// two requests bumping the same counter serialize in the database instead of
// overwriting each other.
func (r *ResourceRepository) Increment(
	ctx context.Context,
	resource repo.Resource,
	field repo.QueryField,
	delta int,
	query repo.Query,
) (bool, error) {
	var res *gorm.DB

	err := r.WithTenant(
		ctx, resource, func(tx *multitenancy.DB) error {
			db, err := applyQuery(tx.Model(resource), query)
			if err != nil {
				return err
			}

			res = db.Clauses(clause.Returning{}).
				UpdateColumn(field, gorm.Expr(field+" + ?", delta))

			if res.Error != nil {
				log.Error(ctx, "error incrementing field", res.Error)
				return errs.Wrap(repo.ErrUpdateResource, res.Error)
			}

			return nil
		},
	)
	if err != nil {
		return false, err
	}

	return res.RowsAffected > 0, nil
}

// Transaction wraps a function inside a database transaction.
// txFunc is a type TransactionFunc where we can define the transactional logic.
// if txFunc return no error then transaction is committed,
// else if txFunc return error then transaction is rolled back.
// Note: please dont use Goroutines inside the txFunc as this might lead to panic.
func (r *ResourceRepository) Transaction(ctx context.Context, txFunc repo.TransactionFunc) error {
	err := r.db.Transaction(
		func(db *multitenancy.DB) error {
			errorChan := make(chan error)

			go func() {
				errorChan <- txFunc(
					ctx,
					NewRepository(db),
				)
			}()

			select {
			case <-ctx.Done():
				return ctx.Err()
			case err := <-errorChan:
				return err
			}
		},
	)
	if err != nil {
		return errs.Wrap(repo.ErrTransaction, err)
	}

	return nil
}

// Migrate creates or updates all tenant-scoped tables in the given schema.
func (r *ResourceRepository) Migrate(ctx context.Context, schemaName string) error {
	err := r.db.MigrateTenantModels(ctx, schemaName)
	if err != nil {
		return errs.Wrap(repo.ErrMigratingTenant, err)
	}

	return nil
}

// Offboard drops the tenant schema and everything in it.
func (r *ResourceRepository) Offboard(ctx context.Context, schemaName string) error {
	err := r.db.OffboardTenant(ctx, schemaName)
	if err != nil {
		return errs.Wrap(repo.ErrOffboardTenant, err)
	}

	return nil
}

// apply update operations on the db action
//
//nolint:unqueryvet
func applyUpdateQuery(db *gorm.DB, query repo.Query) *gorm.DB {
	if query.UpdateFields.All {
		db = db.Select("*")
	}

	if !query.UpdateFields.All && len(query.UpdateFields.Fields) > 0 {
		sel := strings.Join(query.UpdateFields.Fields, ",")
		db = db.Select(sel)
	}

	return db
}

// applyQuery applies the query to the database.
func applyQuery(db *gorm.DB, query repo.Query) (*gorm.DB, error) {
	if len(query.CompositeKeyGroup) > 0 {
		baseQuery := db.Session(&gorm.Session{NewDB: true})

		for i, ck := range query.CompositeKeyGroup {
			tk, err := handleCompositeKey(db, ck.CompositeKey)
			if err != nil {
				return nil, err
			}

			if i == 0 {
				baseQuery = baseQuery.Where(tk)
				continue
			}

			if ck.IsStrict {
				baseQuery = baseQuery.Where(tk)
			} else {
				baseQuery = baseQuery.Or(tk)
			}
		}

		db = db.Where(baseQuery)
	}

	if len(query.PreloadModel) > 0 {
		for _, pr := range query.PreloadModel {
			db = db.Preload(pr)
		}
	}

	return db, nil
}

func applyPagination(db *gorm.DB, query repo.Query) *gorm.DB {
	if query.Limit <= 0 {
		query.Limit = repo.DefaultLimit
	}

	return db.Offset(query.Offset).Limit(query.Limit)
}

// handleCompositeKey applies the composite key to the query.
func handleCompositeKey(db *gorm.DB, compositeKey repo.CompositeKey) (*gorm.DB, error) {
	tx := db.Session(&gorm.Session{NewDB: true})

	for _, cond := range compositeKey.Conds {
		entry := cond.Value
		if entry.Err != nil {
			return nil, entry.Err
		}

		tx = applyFieldCondition(tx, cond.Field, entry.Key, compositeKey.IsStrict)
	}

	return tx, nil
}

func applyFieldCondition(tx *gorm.DB, field string, key repo.Key, isStrict bool) *gorm.DB {
	if key.Operation == repo.Equal {
		v := reflect.ValueOf(key.Value)
		isSlice := (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) &&
			v.Type() != reflect.TypeFor[uuid.UUID]()

		if isSlice {
			return applyCondition(tx, field, "IN", key.Value, isStrict)
		}
	}

	return applyCondition(tx, field, string(key.Operation), key.Value, isStrict)
}

func applyCondition(tx *gorm.DB, field, operator string, value any, isStrict bool) *gorm.DB {
	if isStrict {
		return tx.Where(fmt.Sprintf("%s %s (?)", field, operator), value)
	}

	return tx.Or(fmt.Sprintf("%s %s ?", field, operator), value)
}
