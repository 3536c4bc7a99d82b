package mock

import (
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/repo"
)

// columnOverrides maps column name parts that do not follow plain
// capitalization when converted to Go field names.
var columnOverrides = map[string]string{
	"id":  "ID",
	"mb":  "MB",
	"url": "URL",
}

func columnToFieldName(column string) string {
	parts := strings.Split(column, "_")
	for i, p := range parts {
		if o, ok := columnOverrides[p]; ok {
			parts[i] = o
			continue
		}

		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}

	return strings.Join(parts, "")
}

// fieldByColumn resolves a struct field by its column name, descending into
// embedded structs the way GORM flattens them.
func fieldByColumn(v reflect.Value, column string) (reflect.Value, error) {
	name := columnToFieldName(column)

	field := v.FieldByName(name)
	if field.IsValid() {
		return field, nil
	}

	return reflect.Value{}, errs.Wrapf(ErrUnknownField, "column %s", column)
}

// compareValues returns -1, 0 or 1 for ordered types and an error when the
// two values cannot be ordered.
func compareValues(a, b reflect.Value) (int, error) {
	a = deref(a)
	b = deref(b)

	if !a.IsValid() || !b.IsValid() {
		return 0, ErrIncomparableValues
	}

	if a.Type() == reflect.TypeFor[time.Time]() && b.Type() == reflect.TypeFor[time.Time]() {
		at, _ := a.Interface().(time.Time)
		bt, _ := b.Interface().(time.Time)

		switch {
		case at.Before(bt):
			return -1, nil
		case at.After(bt):
			return 1, nil
		default:
			return 0, nil
		}
	}

	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		ai, bi := a.Int(), asInt(b)

		return cmp(ai, bi), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		ai, bi := int64(a.Uint()), asInt(b) //nolint:gosec

		return cmp(ai, bi), nil
	case reflect.Float32, reflect.Float64:
		af, bf := a.Float(), b.Float()

		return cmp(af, bf), nil
	case reflect.String:
		return strings.Compare(a.String(), asString(b)), nil
	default:
		return 0, ErrIncomparableValues
	}
}

func equalValues(a, b reflect.Value) bool {
	a = deref(a)
	b = deref(b)

	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}

	if a.Type() == b.Type() {
		return reflect.DeepEqual(a.Interface(), b.Interface())
	}

	if c, err := compareValues(a, b); err == nil {
		return c == 0
	}

	return false
}

func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}

func asInt(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint()) //nolint:gosec
	default:
		return 0
	}
}

func asString(v reflect.Value) string {
	if v.Type() == reflect.TypeFor[uuid.UUID]() {
		u, _ := v.Interface().(uuid.UUID)
		return u.String()
	}

	return v.String()
}

func cmp[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// matchesQuery evaluates the where clauses of a query against one record.
func matchesQuery(item reflect.Value, query repo.Query) (bool, error) {
	if len(query.CompositeKeyGroup) == 0 {
		return true, nil
	}

	var matched bool

	for i, group := range query.CompositeKeyGroup {
		groupMatch, err := matchesCompositeKey(item, group.CompositeKey)
		if err != nil {
			return false, err
		}

		if i == 0 {
			matched = groupMatch
			continue
		}

		if group.IsStrict {
			matched = matched && groupMatch
		} else {
			matched = matched || groupMatch
		}
	}

	return matched, nil
}

func matchesCompositeKey(item reflect.Value, key repo.CompositeKey) (bool, error) {
	var matched bool

	for i, cond := range key.Conds {
		if cond.Value.Err != nil {
			return false, cond.Value.Err
		}

		condMatch, err := matchesCondition(item, cond)
		if err != nil {
			return false, err
		}

		if i == 0 {
			matched = condMatch
			continue
		}

		if key.IsStrict {
			matched = matched && condMatch
		} else {
			matched = matched || condMatch
		}
	}

	return matched, nil
}

func matchesCondition(item reflect.Value, cond repo.Condition) (bool, error) {
	field, err := fieldByColumn(item, cond.Field)
	if err != nil {
		return false, err
	}

	want := reflect.ValueOf(cond.Value.Key.Value)

	switch cond.Value.Key.Operation {
	case repo.Equal:
		return equalValues(field, want), nil
	case repo.NotEqual:
		return !equalValues(field, want), nil
	case repo.GreaterThan, repo.LessThan:
		// NULL never orders against a value, matching SQL comparison rules.
		if !deref(field).IsValid() {
			return false, nil
		}

		c, err := compareValues(field, want)
		if err != nil {
			return false, err
		}

		if cond.Value.Key.Operation == repo.GreaterThan {
			return c > 0, nil
		}

		return c < 0, nil
	}

	return false, nil
}
