package mock

import (
	"reflect"
	"sort"
	"sync"

	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/repo"
)

// uniqueColumns lists the columns the real schema enforces uniqueness on,
// keyed by table name, so tests exercise the same conflict behavior.
var uniqueColumns = map[string][]repo.QueryField{
	"public.tenants":      {repo.IDField},
	"public.domains":      {repo.DomainField},
	"public.plans":        {repo.SlugField},
	"public.users":        {repo.EmailField},
	"public.login_tokens": {repo.TokenField},
	"store_users":         {repo.EmailField},
	"products":            {repo.NameField},
}

// InMemoryDB holds the records of a single schema.
type InMemoryDB struct {
	tables map[string][]repo.Resource
}

func newInMemoryDB() *InMemoryDB {
	return &InMemoryDB{
		tables: make(map[string][]repo.Resource),
	}
}

// InMemoryMultitenancyDB keeps one InMemoryDB per schema.
type InMemoryMultitenancyDB struct {
	mu        sync.Mutex
	databases map[string]*InMemoryDB
}

func NewInMemoryMultitenancyDB() *InMemoryMultitenancyDB {
	return &InMemoryMultitenancyDB{
		databases: make(map[string]*InMemoryDB),
	}
}

func (m *InMemoryMultitenancyDB) GetDB(schema string) *InMemoryDB {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, ok := m.databases[schema]
	if !ok {
		db = newInMemoryDB()
		m.databases[schema] = db
	}

	return db
}

func (db *InMemoryDB) insert(resource repo.Resource) error {
	table := resource.TableName()

	for _, col := range uniqueColumns[table] {
		newVal, err := fieldByColumn(reflect.ValueOf(resource).Elem(), col)
		if err != nil {
			return err
		}

		for _, existing := range db.tables[table] {
			existingVal, err := fieldByColumn(reflect.ValueOf(existing).Elem(), col)
			if err != nil {
				return err
			}

			if equalValues(existingVal, newVal) {
				return errs.Wrapf(repo.ErrUniqueConstraint, "column %s", col)
			}
		}
	}

	db.tables[table] = append(db.tables[table], clone(resource))

	return nil
}

func (db *InMemoryDB) match(resource repo.Resource, query repo.Query) ([]repo.Resource, error) {
	var matched []repo.Resource

	for _, item := range db.tables[resource.TableName()] {
		ok, err := matchesQuery(reflect.ValueOf(item).Elem(), query)
		if err != nil {
			return nil, err
		}

		if ok {
			matched = append(matched, item)
		}
	}

	if len(query.OrderFields) > 0 {
		err := orderItems(matched, query.OrderFields)
		if err != nil {
			return nil, err
		}
	}

	return matched, nil
}

func (db *InMemoryDB) remove(resource repo.Resource, query repo.Query) (int, error) {
	table := resource.TableName()

	var (
		kept    []repo.Resource
		removed []repo.Resource
	)

	for _, item := range db.tables[table] {
		ok, err := matchesQuery(reflect.ValueOf(item).Elem(), query)
		if err != nil {
			return 0, err
		}

		if ok {
			removed = append(removed, item)
		} else {
			kept = append(kept, item)
		}
	}

	db.tables[table] = kept

	if len(removed) > 0 {
		assign(resource, removed[0])
	}

	return len(removed), nil
}

func orderItems(items []repo.Resource, orderFields []repo.OrderField) error {
	var sortErr error

	sort.SliceStable(items, func(i, j int) bool {
		for _, of := range orderFields {
			fi, err := fieldByColumn(reflect.ValueOf(items[i]).Elem(), of.Field)
			if err != nil {
				sortErr = err
				return false
			}

			fj, err := fieldByColumn(reflect.ValueOf(items[j]).Elem(), of.Field)
			if err != nil {
				sortErr = err
				return false
			}

			c, err := compareValues(fi, fj)
			if err != nil {
				sortErr = err
				return false
			}

			if c == 0 {
				continue
			}

			if of.Direction == repo.Desc {
				return c > 0
			}

			return c < 0
		}

		return false
	})

	return sortErr
}

func clone(resource repo.Resource) repo.Resource {
	src := reflect.ValueOf(resource).Elem()
	dst := reflect.New(src.Type())
	dst.Elem().Set(src)

	cloned, _ := dst.Interface().(repo.Resource)

	return cloned
}

func assign(dst, src repo.Resource) {
	reflect.ValueOf(dst).Elem().Set(reflect.ValueOf(src).Elem())
}
